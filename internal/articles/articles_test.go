// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package articles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentberlin/newshound/internal/models"
)

func newTestArticleStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "articles.csv")
	s, err := Open(path)
	require.NoError(t, err)
	return s, path
}

func metadataOnly(url, title, category string) *models.Article {
	return &models.Article{
		URL:       url,
		Title:     title,
		Category:  category,
		Source:    "example.com",
		ScrapedAt: time.Now(),
	}
}

func TestUpsertAppendsNewArticle(t *testing.T) {
	s, path := newTestArticleStore(t)

	require.NoError(t, s.Upsert(metadataOnly("https://example.com/a", "Story A", "general")))
	require.NoError(t, s.Upsert(metadataOnly("https://example.com/b", "Story B", "general")))

	assert.Equal(t, 2, s.Count())
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(strings.TrimSpace(string(raw)), "\n")+1) // header + 2 rows
}

func TestUpsertSameURLIsIdempotent(t *testing.T) {
	s, _ := newTestArticleStore(t)

	require.NoError(t, s.Upsert(metadataOnly("https://example.com/a", "Story A", "general")))
	require.NoError(t, s.Upsert(metadataOnly("https://example.com/a", "Story A", "general")))

	assert.Equal(t, 1, s.Count())

	// Reload from disk: still one record.
	reloaded, err := Open(s.path)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Count())
}

func TestUpsertUpgradesInPlace(t *testing.T) {
	s, _ := newTestArticleStore(t)

	require.NoError(t, s.Upsert(metadataOnly("https://example.com/a", "Story A", "general")))

	full := metadataOnly("https://example.com/a", "Story A", "general")
	full.Content = strings.Repeat("body ", 40)
	full.Author = "Jane Reporter"
	full.Analysis = &models.Analysis{MainTopic: "Tech", Sentiment: "neutral", KeyPoints: []string{"p1", "p2"}}
	require.NoError(t, s.Upsert(full))

	assert.Equal(t, 1, s.Count())

	got := s.Get("https://example.com/a")
	require.NotNil(t, got)
	assert.Equal(t, "Jane Reporter", got.Author)
	assert.Equal(t, "neutral", got.Analysis.Sentiment)
}

func TestReloadSeedsDedupeIndex(t *testing.T) {
	s, path := newTestArticleStore(t)
	date := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	a := metadataOnly("https://example.com/a", "Story A", "general")
	a.Date = &date
	a.Topics = []string{"Tech", "AI"}
	require.NoError(t, s.Upsert(a))

	reloaded, err := Open(path)
	require.NoError(t, err)

	assert.True(t, reloaded.Has("https://example.com/a"))
	assert.True(t, reloaded.Has("https://EXAMPLE.com/a")) // normalized variant
	got := reloaded.Get("https://example.com/a")
	require.NotNil(t, got)
	require.NotNil(t, got.Date)
	assert.True(t, got.Date.Equal(date))
	assert.Equal(t, []string{"Tech", "AI"}, got.Topics)
}

func TestDedupeDropsDuplicateDiskRows(t *testing.T) {
	_, path := newTestArticleStore(t)

	// Simulate a legacy file with the same URL appended twice.
	raw := "title,url,author,date,content,category,source,excerpt,main_topic,sentiment,key_points,bias,summary,topics\n" +
		"Story A,https://example.com/a,,,,general,example.com,,,,,,,\n" +
		"Story A again,https://example.com/a,,,,general,example.com,,,,,,,\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	s, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Count())

	removed, err := s.Dedupe()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	// The surviving record is the later row.
	got := s.Get("https://example.com/a")
	require.NotNil(t, got)
	assert.Equal(t, "Story A again", got.Title)
}

func TestStats(t *testing.T) {
	s, _ := newTestArticleStore(t)

	a := metadataOnly("https://example.com/a", "Story A", "general")
	a.Author = "Jane"
	a.Content = "some body"
	require.NoError(t, s.Upsert(a))
	require.NoError(t, s.Upsert(metadataOnly("https://example.com/b", "Story B", "business")))

	stats := s.Stats()
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.ByCategory["general"])
	assert.Equal(t, 1, stats.ByCategory["business"])
	assert.Equal(t, 2, stats.BySource["example.com"])
	assert.Equal(t, 1, stats.WithAuthor)
	assert.Equal(t, 1, stats.WithContent)
}

func TestContentWithCommasAndNewlinesSurvivesRoundTrip(t *testing.T) {
	s, path := newTestArticleStore(t)

	a := metadataOnly("https://example.com/a", "Story A", "general")
	a.Content = "First line, with commas.\nSecond \"quoted\" line."
	require.NoError(t, s.Upsert(a))

	reloaded, err := Open(path)
	require.NoError(t, err)
	got := reloaded.Get("https://example.com/a")
	require.NotNil(t, got)
	assert.Equal(t, a.Content, got.Content)
}
