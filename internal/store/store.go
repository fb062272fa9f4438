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

// Package store is the persistent crawl cache: which article URLs have been
// seen, which (domain, title) pairs have been seen, and per-domain crawl
// statistics driving the backoff gate. It is shared by all concurrent
// workers; every mutating call runs inside its own transaction so partial
// writes never interleave.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Store wraps the SQLite cache database.
type Store struct {
	db *gorm.DB

	// mu serializes read-modify-write sequences (domain stat updates)
	// across workers in this process.
	mu sync.Mutex

	// backoffCap bounds the error multiplier in ShouldScrapeDomain.
	backoffCap int

	// now is swapped out in tests.
	now func() time.Time
}

// Open creates the parent directory if needed and opens the cache database
// at path. A store that cannot be opened is a startup failure for the
// process, so errors here are not retried.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %v", err)
	}
	return openAtPath(path)
}

func openAtPath(path string) (*Store, error) {
	// WAL mode enables concurrent reads and writes; busy_timeout prevents
	// immediate "database is locked" errors when workers overlap.
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)

	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := database.AutoMigrate(&CacheEntry{}, &DomainStat{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %v", err)
	}

	// Secondary key for the title shadow-check: one lookup per (domain, title).
	if err := database.Exec("CREATE INDEX IF NOT EXISTS idx_cache_domain_title ON cache_entries(domain, title)").Error; err != nil {
		return nil, fmt.Errorf("failed to create cache index: %v", err)
	}

	return &Store{db: database, backoffCap: DefaultBackoffCap, now: time.Now}, nil
}

// DB returns the underlying GORM database instance.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
