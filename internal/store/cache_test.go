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

package store

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := openAtPath(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	return s
}

func TestShouldScrapeURLUnknownURL(t *testing.T) {
	s := newTestStore(t)

	ok, err := s.ShouldScrapeURL("https://example.com/story-1", "Some Fresh Headline")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestShouldScrapeURLCachedURL(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.AddArticle("https://example.com/story-1", "Some Headline", "general"))

	ok, err := s.ShouldScrapeURL("https://example.com/story-1", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestShouldScrapeURLNormalizesVariants(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.AddArticle("https://example.com", "Home", "general"))

	ok, err := s.ShouldScrapeURL("https://example.com/", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTitleShadowDedupe(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.AddArticle("https://example.com/story-1", "Big Story Breaks", "general"))

	// Same headline under a different URL on the same domain is suppressed.
	ok, err := s.ShouldScrapeURL("https://example.com/story-1-amp", "Big  STORY breaks")
	require.NoError(t, err)
	assert.False(t, ok)

	// Same headline on a different domain is not.
	ok, err = s.ShouldScrapeURL("https://other.com/story-1", "Big Story Breaks")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAddArticleIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.AddArticle("https://example.com/story-1", "Headline", "general"))
	require.NoError(t, s.AddArticle("https://example.com/story-1", "Headline Updated", "business"))

	count, err := s.CachedURLCount()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCleanupExpired(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AddArticle("https://example.com/old", "Old Story", "general"))

	// Jump 31 days ahead, add a fresh entry, clean with a 30-day window.
	s.now = func() time.Time { return time.Now().Add(31 * 24 * time.Hour) }
	removed, err := s.CleanupExpired(30 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	count, err := s.CachedURLCount()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestConcurrentAddArticle(t *testing.T) {
	s := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.AddArticle("https://example.com/story", "Same Headline", "general")
		}()
	}
	wg.Wait()

	count, err := s.CachedURLCount()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
