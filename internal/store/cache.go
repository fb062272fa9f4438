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
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/agentberlin/newshound/internal/models"
	"github.com/agentberlin/newshound/internal/urlutil"
)

// ShouldScrapeURL reports whether an article URL should be fetched. It
// returns false when the URL is already cached, or when title is non-empty
// and an entry with the same (domain, normalized title) exists, the title
// shadow-check that catches URL-varying duplicates of one headline.
func (s *Store) ShouldScrapeURL(url, title string) (bool, error) {
	normalized := urlutil.Normalize(url)

	var count int64
	if err := s.db.Model(&CacheEntry{}).Where("url = ?", normalized).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check url cache: %v", err)
	}
	if count > 0 {
		return false, nil
	}

	if title != "" {
		domain := urlutil.Domain(url)
		err := s.db.Model(&CacheEntry{}).
			Where("domain = ? AND title = ?", domain, models.NormalizeTitle(title)).
			Count(&count).Error
		if err != nil {
			return false, fmt.Errorf("failed to check title cache: %v", err)
		}
		if count > 0 {
			return false, nil
		}
	}

	return true, nil
}

// AddArticle inserts or refreshes the cache entry for a URL. The same URL
// overwrites its previous entry rather than duplicating it.
func (s *Store) AddArticle(url, title, category string) error {
	entry := CacheEntry{
		URL:      urlutil.Normalize(url),
		Domain:   urlutil.Domain(url),
		Title:    models.NormalizeTitle(title),
		Category: category,
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "url"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "category", "last_updated"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to cache article %s: %v", url, err)
	}
	return nil
}

// CachedURLCount returns the number of cached article URLs.
func (s *Store) CachedURLCount() (int64, error) {
	var count int64
	if err := s.db.Model(&CacheEntry{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count cache entries: %v", err)
	}
	return count, nil
}

// HasURL reports whether a URL is present in the cache.
func (s *Store) HasURL(url string) (bool, error) {
	var entry CacheEntry
	err := s.db.Where("url = ?", urlutil.Normalize(url)).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up cache entry: %v", err)
	}
	return true, nil
}

// CleanupExpired removes cache entries whose last update is older than the
// retention window, and returns how many were removed.
func (s *Store) CleanupExpired(retention time.Duration) (int64, error) {
	cutoff := s.now().Add(-retention).Unix()
	result := s.db.Where("last_updated < ?", cutoff).Delete(&CacheEntry{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clean up cache: %v", result.Error)
	}
	return result.RowsAffected, nil
}
