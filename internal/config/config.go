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

// Package config loads newshound configuration from YAML with environment
// overrides. Missing file or fields fall back to defaults, so the binary
// runs without any configuration at all.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv   = "NEWSHOUND_CONFIG"
	dbPathEnv       = "NEWSHOUND_DB_PATH"
	articlesPathEnv = "NEWSHOUND_ARTICLES_PATH"
	llmAPIKeyEnv    = "NEWSHOUND_LLM_API_KEY"
)

// Config holds all settings recognized by the crawler.
type Config struct {
	LogLevel string         `yaml:"logLevel"`
	Database DatabaseConfig `yaml:"database"`
	Articles ArticlesConfig `yaml:"articles"`
	Crawler  CrawlerConfig  `yaml:"crawler"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Analyze  AnalyzeConfig  `yaml:"analyze"`
	// Sources maps a category name to its listing-page seed URLs.
	Sources map[string][]string `yaml:"sources"`
}

// DatabaseConfig locates the SQLite cache database.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ArticlesConfig locates the article CSV store.
type ArticlesConfig struct {
	Path string `yaml:"path"`
}

// CrawlerConfig holds the scheduling and deduplication knobs.
type CrawlerConfig struct {
	// Concurrency bounds simultaneously crawling sources.
	Concurrency int `yaml:"concurrency"`
	// DomainTimeoutMinutes is the cooldown before a domain's listing page
	// may be crawled again. Multiplied by min(errorCount, BackoffCap) when
	// the domain has recent errors.
	DomainTimeoutMinutes int `yaml:"domainTimeoutMinutes"`
	BackoffCap           int `yaml:"backoffCap"`
	ArticlesPerSource    int `yaml:"articlesPerSource"`
	// SitesPerCategory caps how many sources of each category are crawled
	// per cycle. 0 crawls them all.
	SitesPerCategory int `yaml:"sitesPerCategory"`
	MaxPages         int `yaml:"maxPages"`
	// MinDelaySeconds/MaxDelaySeconds bound the jitter applied between
	// consecutive requests to the same domain.
	MinDelaySeconds        int `yaml:"minDelaySeconds"`
	MaxDelaySeconds        int `yaml:"maxDelaySeconds"`
	PaginationDelaySeconds int `yaml:"paginationDelaySeconds"`
	IntervalMinutes        int `yaml:"intervalMinutes"`
	RetryDelaySeconds      int `yaml:"retryDelaySeconds"`
	MinTitleWords          int `yaml:"minTitleWords"`
	RetentionDays          int `yaml:"retentionDays"`
	// CrawlType is "full" (fetch and analyze article bodies) or "metadata"
	// (listing metadata only).
	CrawlType string `yaml:"crawlType"`
}

// FetchConfig selects and tunes the fetch backend.
type FetchConfig struct {
	// Mode is "http" or "browser" (headless Chrome rendering).
	Mode           string `yaml:"mode"`
	UserAgent      string `yaml:"userAgent"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
	MaxRetries     int    `yaml:"maxRetries"`
	// Robots is "respect" or "ignore".
	Robots string `yaml:"robots"`
}

// AnalyzeConfig selects the LLM provider for article analysis.
type AnalyzeConfig struct {
	// Provider is "none", "openai", "deepseek" or "groq".
	Provider string `yaml:"provider"`
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// DomainTimeout returns the base cooldown as a duration.
func (c CrawlerConfig) DomainTimeout() time.Duration {
	return time.Duration(c.DomainTimeoutMinutes) * time.Minute
}

// Interval returns the continuous-mode cycle interval as a duration.
func (c CrawlerConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// RetryDelay returns the orchestration-failure backoff as a duration.
func (c CrawlerConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySeconds) * time.Second
}

// Load reads YAML configuration (if present) and applies environment
// overrides on top of defaults.
func Load() (Config, error) {
	cfg := Default()

	path := os.Getenv(configPathEnv)
	if path == "" {
		path = "newshound.yaml"
	}
	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	default:
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
		cfg = merge(cfg, fileCfg)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(dbPathEnv); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(articlesPathEnv); v != "" {
		c.Articles.Path = v
	}
	if v := os.Getenv(llmAPIKeyEnv); v != "" {
		c.Analyze.APIKey = v
	}
}

func merge(base, override Config) Config {
	if override.LogLevel != "" {
		base.LogLevel = override.LogLevel
	}
	if override.Database.Path != "" {
		base.Database = override.Database
	}
	if override.Articles.Path != "" {
		base.Articles = override.Articles
	}

	o := override.Crawler
	b := &base.Crawler
	if o.Concurrency > 0 {
		b.Concurrency = o.Concurrency
	}
	if o.DomainTimeoutMinutes > 0 {
		b.DomainTimeoutMinutes = o.DomainTimeoutMinutes
	}
	if o.BackoffCap > 0 {
		b.BackoffCap = o.BackoffCap
	}
	if o.ArticlesPerSource > 0 {
		b.ArticlesPerSource = o.ArticlesPerSource
	}
	if o.SitesPerCategory > 0 {
		b.SitesPerCategory = o.SitesPerCategory
	}
	if o.MaxPages > 0 {
		b.MaxPages = o.MaxPages
	}
	if o.MinDelaySeconds > 0 {
		b.MinDelaySeconds = o.MinDelaySeconds
	}
	if o.MaxDelaySeconds > 0 {
		b.MaxDelaySeconds = o.MaxDelaySeconds
	}
	if o.PaginationDelaySeconds > 0 {
		b.PaginationDelaySeconds = o.PaginationDelaySeconds
	}
	if o.IntervalMinutes > 0 {
		b.IntervalMinutes = o.IntervalMinutes
	}
	if o.RetryDelaySeconds > 0 {
		b.RetryDelaySeconds = o.RetryDelaySeconds
	}
	if o.MinTitleWords > 0 {
		b.MinTitleWords = o.MinTitleWords
	}
	if o.RetentionDays > 0 {
		b.RetentionDays = o.RetentionDays
	}
	if o.CrawlType != "" {
		b.CrawlType = o.CrawlType
	}

	if override.Fetch.Mode != "" {
		base.Fetch.Mode = override.Fetch.Mode
	}
	if override.Fetch.UserAgent != "" {
		base.Fetch.UserAgent = override.Fetch.UserAgent
	}
	if override.Fetch.TimeoutSeconds > 0 {
		base.Fetch.TimeoutSeconds = override.Fetch.TimeoutSeconds
	}
	if override.Fetch.MaxRetries > 0 {
		base.Fetch.MaxRetries = override.Fetch.MaxRetries
	}
	if override.Fetch.Robots != "" {
		base.Fetch.Robots = override.Fetch.Robots
	}

	if override.Analyze.Provider != "" {
		base.Analyze.Provider = override.Analyze.Provider
	}
	if override.Analyze.Endpoint != "" {
		base.Analyze.Endpoint = override.Analyze.Endpoint
	}
	if override.Analyze.Model != "" {
		base.Analyze.Model = override.Analyze.Model
	}
	if override.Analyze.APIKey != "" {
		base.Analyze.APIKey = override.Analyze.APIKey
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	return base
}

// Default returns the built-in configuration.
func Default() Config {
	home, err := os.UserHomeDir()
	dbPath := "newshound.db"
	if err == nil {
		dbPath = filepath.Join(home, ".newshound", "cache.db")
	}

	return Config{
		LogLevel: "info",
		Database: DatabaseConfig{Path: dbPath},
		Articles: ArticlesConfig{Path: "articles.csv"},
		Crawler: CrawlerConfig{
			Concurrency:            10,
			DomainTimeoutMinutes:   60,
			BackoffCap:             5,
			ArticlesPerSource:      500,
			SitesPerCategory:       0,
			MaxPages:               10,
			MinDelaySeconds:        2,
			MaxDelaySeconds:        5,
			PaginationDelaySeconds: 2,
			IntervalMinutes:        60,
			RetryDelaySeconds:      60,
			MinTitleWords:          3,
			RetentionDays:          30,
			CrawlType:              "full",
		},
		Fetch: FetchConfig{
			Mode:           "http",
			UserAgent:      "newshound/1.0 (+https://snake.blue)",
			TimeoutSeconds: 20,
			MaxRetries:     3,
			Robots:         "respect",
		},
		Analyze: AnalyzeConfig{
			Provider: "none",
			Model:    "deepseek-r1-distill-llama-70b",
		},
		Sources: map[string][]string{
			"general": {
				"https://www.reuters.com",
				"https://www.npr.org",
				"https://www.nbcnews.com",
			},
			"technology": {
				"https://techcrunch.com",
				"https://www.theverge.com",
				"https://arstechnica.com",
			},
			"business": {
				"https://www.cnbc.com",
				"https://www.reuters.com/business",
			},
			"science": {
				"https://www.sciencedaily.com",
				"https://www.livescience.com",
			},
		},
	}
}
