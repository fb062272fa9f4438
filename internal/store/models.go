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

import "encoding/json"

// CacheEntry marks an article URL as seen. Presence means the article's
// listing metadata will not be fetched again; it does not imply full content
// was captured. Title holds the normalized headline so that the same story
// republished under a different URL on the same domain is also suppressed.
type CacheEntry struct {
	URL         string `gorm:"primaryKey"`
	Domain      string `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Category    string
	FirstSeen   int64 `gorm:"autoCreateTime"`
	LastUpdated int64 `gorm:"autoUpdateTime"`
}

// DomainStat tracks crawl outcomes per domain. ErrorCount only grows on
// failure; it is never implicitly reset, so the backoff multiplier is
// monotonic until a cap.
type DomainStat struct {
	Domain string `gorm:"primaryKey"`
	// LastCrawl is the unix time of the most recent crawl attempt,
	// success or failure.
	LastCrawl    int64
	SuccessCount int
	ErrorCount   int
	// AvgArticles is updated as (old_avg + new_count) / 2 on success.
	// This overweights recent crawls on purpose; downstream consumers
	// depend on the observable values, so it is not a true running mean.
	AvgArticles float64
	// Metadata is a free-form JSON object.
	Metadata string `gorm:"type:text"`
}

// GetMetadata deserializes the metadata JSON, returning an empty map for
// absent or malformed payloads.
func (d *DomainStat) GetMetadata() map[string]string {
	if d.Metadata == "" {
		return map[string]string{}
	}
	var meta map[string]string
	if err := json.Unmarshal([]byte(d.Metadata), &meta); err != nil {
		return map[string]string{}
	}
	return meta
}

// SetMetadata serializes the map into the metadata column.
func (d *DomainStat) SetMetadata(meta map[string]string) error {
	if len(meta) == 0 {
		d.Metadata = ""
		return nil
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	d.Metadata = string(data)
	return nil
}
