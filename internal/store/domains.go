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
)

// DefaultBackoffCap bounds the error multiplier applied to the domain
// cooldown when no cap has been configured.
const DefaultBackoffCap = 5

// SetBackoffCap overrides the error-multiplier cap. Values below 1 keep the
// default.
func (s *Store) SetBackoffCap(cap int) {
	if cap >= 1 {
		s.backoffCap = cap
	}
}

// ShouldScrapeDomain reports whether a domain's listing page is due for
// another crawl. A domain with no stats is always due. A domain with recent
// errors waits timeout × min(errorCount, cap) since its last crawl.
func (s *Store) ShouldScrapeDomain(domain string, timeout time.Duration) (bool, error) {
	stat, err := s.GetDomainStats(domain)
	if err != nil {
		return false, err
	}
	if stat == nil {
		return true, nil
	}

	multiplier := 1
	if stat.ErrorCount > 0 {
		multiplier = stat.ErrorCount
		if multiplier > s.backoffCap {
			multiplier = s.backoffCap
		}
	}

	elapsed := s.now().Sub(time.Unix(stat.LastCrawl, 0))
	return elapsed >= timeout*time.Duration(multiplier), nil
}

// GetDomainStats returns the stats for a domain, or nil when the domain has
// never been crawled. Absence is a normal outcome, not an error.
func (s *Store) GetDomainStats(domain string) (*DomainStat, error) {
	var stat DomainStat
	err := s.db.Where("domain = ?", domain).First(&stat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get domain stats: %v", err)
	}
	return &stat, nil
}

// AllDomainStats returns every domain's stats ordered by domain name.
func (s *Store) AllDomainStats() ([]DomainStat, error) {
	var stats []DomainStat
	if err := s.db.Order("domain ASC").Find(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to list domain stats: %v", err)
	}
	return stats, nil
}

// UpdateDomainStats records the outcome of a crawl attempt. The first write
// for a domain seeds the rolling average with the article count; later
// successes increment the success counter and move the average to
// (old_avg + articles) / 2. On failure only the error counter and the last
// crawl time change. The read-modify-write runs under the store lock and a
// transaction so concurrent workers never interleave a partial update.
func (s *Store) UpdateDomainStats(domain string, success bool, articles int, metadata map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		var stat DomainStat
		err := tx.Where("domain = ?", domain).First(&stat).Error
		created := errors.Is(err, gorm.ErrRecordNotFound)
		if created {
			stat = DomainStat{Domain: domain}
			if err := tx.Create(&stat).Error; err != nil {
				return fmt.Errorf("failed to create domain stats: %v", err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to load domain stats: %v", err)
		}

		stat.LastCrawl = s.now().Unix()
		if success {
			stat.SuccessCount++
			if created {
				// A brand-new row seeds the average directly.
				stat.AvgArticles = float64(articles)
			} else {
				// (old + new) / 2, not a true mean: history is halved
				// on every success after the first row write.
				stat.AvgArticles = (stat.AvgArticles + float64(articles)) / 2
			}
		} else {
			stat.ErrorCount++
		}

		if metadata != nil {
			if err := stat.SetMetadata(metadata); err != nil {
				return fmt.Errorf("failed to encode domain metadata: %v", err)
			}
		}

		if err := tx.Save(&stat).Error; err != nil {
			return fmt.Errorf("failed to update domain stats: %v", err)
		}
		return nil
	})
}
