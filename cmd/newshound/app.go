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

package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"

	"github.com/agentberlin/newshound/internal/analyze"
	"github.com/agentberlin/newshound/internal/articles"
	"github.com/agentberlin/newshound/internal/config"
	"github.com/agentberlin/newshound/internal/crawler"
	"github.com/agentberlin/newshound/internal/fetch"
	"github.com/agentberlin/newshound/internal/logging"
	"github.com/agentberlin/newshound/internal/store"
)

// app wires the stores, fetch backend, analyzer and orchestrator from
// configuration. Every subcommand that crawls or reads stores goes through
// here.
type app struct {
	cfg      config.Config
	log      *slog.Logger
	cache    *store.Store
	articles *articles.Store
	orch     *crawler.Orchestrator

	browser *fetch.BrowserFetcher
}

func newApp(overrides ...func(*config.Config)) (*app, error) {
	// A .env file is optional; real environment always wins.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	for _, override := range overrides {
		override(&cfg)
	}
	if t := cfg.Crawler.CrawlType; t != "" && t != "full" && t != "metadata" {
		return nil, fmt.Errorf("unknown crawl type %q", t)
	}
	log := logging.New(cfg.LogLevel)

	cache, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open cache store: %w", err)
	}
	cache.SetBackoffCap(cfg.Crawler.BackoffCap)

	articleStore, err := articles.Open(cfg.Articles.Path)
	if err != nil {
		return nil, fmt.Errorf("open article store: %w", err)
	}

	a := &app{
		cfg:      cfg,
		log:      log,
		cache:    cache,
		articles: articleStore,
	}

	fetcher, err := a.buildFetcher()
	if err != nil {
		return nil, err
	}
	analyzer, err := a.buildAnalyzer()
	if err != nil {
		return nil, err
	}

	a.orch = crawler.New(fetcher, cache, articleStore, analyzer, log, crawler.Options{
		Concurrency:       cfg.Crawler.Concurrency,
		MaxPages:          cfg.Crawler.MaxPages,
		ArticlesPerSource: cfg.Crawler.ArticlesPerSource,
		SitesPerCategory:  cfg.Crawler.SitesPerCategory,
		PaginationDelay:   time.Duration(cfg.Crawler.PaginationDelaySeconds) * time.Second,
		DomainTimeout:     cfg.Crawler.DomainTimeout(),
		MinTitleWords:     cfg.Crawler.MinTitleWords,
		Retention:         time.Duration(cfg.Crawler.RetentionDays) * 24 * time.Hour,
		MetadataOnly:      cfg.Crawler.CrawlType == "metadata",
	})
	return a, nil
}

// buildFetcher selects the HTTP or headless-Chrome backend and installs the
// per-domain courtesy delay rule (uniform jitter between minDelay and
// maxDelay seconds).
func (a *app) buildFetcher() (fetch.Fetcher, error) {
	opts := fetch.Options{
		UserAgent:    a.cfg.Fetch.UserAgent,
		Timeout:      time.Duration(a.cfg.Fetch.TimeoutSeconds) * time.Second,
		MaxRetries:   a.cfg.Fetch.MaxRetries,
		IgnoreRobots: a.cfg.Fetch.Robots == "ignore",
	}

	minDelay := time.Duration(a.cfg.Crawler.MinDelaySeconds) * time.Second
	maxDelay := time.Duration(a.cfg.Crawler.MaxDelaySeconds) * time.Second
	rule := &fetch.LimitRule{
		DomainGlob:  "*",
		Delay:       minDelay,
		RandomDelay: maxDelay - minDelay,
		Parallelism: a.cfg.Crawler.Concurrency,
	}

	switch a.cfg.Fetch.Mode {
	case "", "http":
		fetcher := fetch.NewHTTPFetcher(opts)
		if err := fetcher.Limit(rule); err != nil {
			return nil, err
		}
		return fetcher, nil
	case "browser":
		fetcher := fetch.NewBrowserFetcher(opts)
		if err := fetcher.Limit(rule); err != nil {
			return nil, err
		}
		a.browser = fetcher
		return fetcher, nil
	default:
		return nil, fmt.Errorf("unknown fetch mode %q", a.cfg.Fetch.Mode)
	}
}

func (a *app) buildAnalyzer() (analyze.Analyzer, error) {
	if a.cfg.Analyze.Provider == "" || a.cfg.Analyze.Provider == "none" {
		return analyze.Noop{}, nil
	}
	if a.cfg.Analyze.APIKey == "" {
		a.log.Warn("analysis provider configured without API key, falling back to placeholder analysis",
			"provider", a.cfg.Analyze.Provider)
		return analyze.Noop{}, nil
	}
	return analyze.NewClient(a.cfg.Analyze.Provider, a.cfg.Analyze.Endpoint, a.cfg.Analyze.Model, a.cfg.Analyze.APIKey)
}

// sources narrows the configured source map to one category when requested.
func (a *app) sources(category string) (map[string][]string, error) {
	if category == "" {
		return a.cfg.Sources, nil
	}
	urls, ok := a.cfg.Sources[category]
	if !ok {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	return map[string][]string{category: urls}, nil
}

func (a *app) close() {
	if a.browser != nil {
		a.browser.Close()
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn("failed to close cache store", "error", err)
		}
	}
}
