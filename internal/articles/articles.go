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

// Package articles is the crash-safe article output store. New articles are
// appended to a CSV file immediately so a crash loses no committed progress;
// upgrading an article in place (metadata-only to full content) rewrites the
// file atomically. An in-memory index keyed by URL, seeded from the existing
// file at open, keeps persistence idempotent across runs.
package articles

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/agentberlin/newshound/internal/models"
	"github.com/agentberlin/newshound/internal/urlutil"
)

var header = []string{
	"title", "url", "author", "date", "content", "category", "source",
	"excerpt", "main_topic", "sentiment", "key_points", "bias", "summary", "topics",
}

// Store persists articles to a CSV file with exactly one record per URL.
type Store struct {
	path string

	mu    sync.Mutex
	index map[string]*models.Article
	order []string
}

// Open loads the article store at path, creating the file with a header row
// when it does not exist yet. A store that cannot be opened or parsed is a
// startup failure.
func Open(path string) (*Store, error) {
	s := &Store{
		path:  path,
		index: make(map[string]*models.Article),
	}

	file, err := os.Open(path)
	if os.IsNotExist(err) {
		if err := s.rewriteLocked(); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open article store: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read article store: %v", err)
		}
		if first {
			first = false
			continue
		}
		article := fromRecord(record)
		if article == nil || article.URL == "" {
			continue
		}
		key := urlutil.Normalize(article.URL)
		if _, seen := s.index[key]; !seen {
			s.order = append(s.order, key)
		}
		// Later rows win so an upgraded duplicate shadows its older copy.
		s.index[key] = article
	}

	return s, nil
}

// Has reports whether a URL already has a stored record.
func (s *Store) Has(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.index[urlutil.Normalize(url)]
	return ok
}

// Count returns the number of stored articles.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.index)
}

// All returns the stored articles in insertion order.
func (s *Store) All() []models.Article {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Article, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, *s.index[key])
	}
	return out
}

// Get returns the stored article for a URL, or nil.
func (s *Store) Get(url string) *models.Article {
	s.mu.Lock()
	defer s.mu.Unlock()

	article, ok := s.index[urlutil.Normalize(url)]
	if !ok {
		return nil
	}
	copied := *article
	return &copied
}

// Upsert stores an article keyed by URL. A new URL is appended to the file;
// an existing URL is updated in place via an atomic rewrite, so the same URL
// never yields two records.
func (s *Store) Upsert(article *models.Article) error {
	if article == nil || article.URL == "" {
		return fmt.Errorf("article has no url")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := urlutil.Normalize(article.URL)
	copied := *article

	if _, exists := s.index[key]; exists {
		s.index[key] = &copied
		return s.rewriteLocked()
	}

	s.index[key] = &copied
	s.order = append(s.order, key)
	return s.appendLocked(&copied)
}

// Dedupe rewrites the file keeping one record per URL and returns how many
// duplicate rows were dropped from disk.
func (s *Store) Dedupe() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.diskRowCountLocked()
	if err != nil {
		return 0, err
	}
	if err := s.rewriteLocked(); err != nil {
		return 0, err
	}
	removed := rows - len(s.index)
	if removed < 0 {
		removed = 0
	}
	return removed, nil
}

func (s *Store) diskRowCountLocked() (int, error) {
	file, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to open article store: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows := 0
	for {
		_, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read article store: %v", err)
		}
		rows++
	}
	if rows > 0 {
		rows-- // header
	}
	return rows, nil
}

func (s *Store) appendLocked(article *models.Article) error {
	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open article store for append: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(toRecord(article)); err != nil {
		return fmt.Errorf("failed to append article: %v", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush article store: %v", err)
	}
	return nil
}

// rewriteLocked writes the whole index to a temp file and renames it over
// the store, so readers never observe a half-written file.
func (s *Store) rewriteLocked() error {
	tmp := s.path + "~"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create article store: %v", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		file.Close()
		return fmt.Errorf("failed to write article store header: %v", err)
	}
	for _, key := range s.order {
		if err := writer.Write(toRecord(s.index[key])); err != nil {
			file.Close()
			return fmt.Errorf("failed to write article record: %v", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return fmt.Errorf("failed to flush article store: %v", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close article store: %v", err)
	}
	return os.Rename(tmp, s.path)
}

func toRecord(a *models.Article) []string {
	date := ""
	if a.Date != nil {
		date = a.Date.Format(time.RFC3339)
	}
	mainTopic, sentiment, keyPoints, bias := "", "", "", ""
	if a.Analysis != nil {
		mainTopic = a.Analysis.MainTopic
		sentiment = a.Analysis.Sentiment
		keyPoints = strings.Join(a.Analysis.KeyPoints, ", ")
		bias = a.Analysis.Bias
	}
	return []string{
		a.Title, a.URL, a.Author, date, a.Content, a.Category, a.Source,
		a.Excerpt, mainTopic, sentiment, keyPoints, bias, a.Summary,
		strings.Join(a.Topics, ", "),
	}
}

func fromRecord(record []string) *models.Article {
	field := func(i int) string {
		if i < len(record) {
			return record[i]
		}
		return ""
	}

	article := &models.Article{
		Title:    field(0),
		URL:      field(1),
		Author:   field(2),
		Content:  field(4),
		Category: field(5),
		Source:   field(6),
		Excerpt:  field(7),
		Summary:  field(12),
	}
	if raw := field(3); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			article.Date = &t
		}
	}
	if topics := field(13); topics != "" {
		article.Topics = strings.Split(topics, ", ")
	}
	if field(8) != "" || field(9) != "" || field(11) != "" {
		analysis := &models.Analysis{
			MainTopic: field(8),
			Sentiment: field(9),
			Bias:      field(11),
		}
		if points := field(10); points != "" {
			analysis.KeyPoints = strings.Split(points, ", ")
		}
		article.Analysis = analysis
	}
	return article
}
