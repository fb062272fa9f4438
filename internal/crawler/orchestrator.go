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

// Package crawler schedules source crawl workers across news categories.
// The orchestrator fans one worker out per (category, source) pair under a
// bounded worker pool; workers share the cache store, the article store,
// and a per-run visited set, and nothing else.
package crawler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/agentberlin/newshound/internal/analyze"
	"github.com/agentberlin/newshound/internal/articles"
	"github.com/agentberlin/newshound/internal/fetch"
	"github.com/agentberlin/newshound/internal/models"
	"github.com/agentberlin/newshound/internal/store"
)

// Options bound one crawl pass.
type Options struct {
	// Concurrency caps simultaneous in-flight source crawls.
	Concurrency int
	// MaxPages bounds listing pages per source, homepage included.
	MaxPages int
	// ArticlesPerSource caps new articles collected from one source.
	ArticlesPerSource int
	// SitesPerCategory truncates each category's source list. Zero means
	// all sources.
	SitesPerCategory int
	// PaginationDelay is the fixed pause between listing page fetches.
	PaginationDelay time.Duration
	// DomainTimeout is the base cooldown between crawls of one domain.
	DomainTimeout time.Duration
	// MinTitleWords filters out navigation links masquerading as articles.
	MinTitleWords int
	// Retention prunes cache entries older than this at cycle start. Zero
	// disables pruning.
	Retention time.Duration
	// MetadataOnly skips article body fetches and analysis, collecting
	// only listing metadata.
	MetadataOnly bool
}

func (o Options) withDefaults() Options {
	if o.Concurrency <= 0 {
		o.Concurrency = 10
	}
	if o.MaxPages <= 0 {
		o.MaxPages = 10
	}
	if o.ArticlesPerSource <= 0 {
		o.ArticlesPerSource = 500
	}
	if o.PaginationDelay < 0 {
		o.PaginationDelay = 0
	}
	if o.DomainTimeout <= 0 {
		o.DomainTimeout = time.Hour
	}
	if o.MinTitleWords <= 0 {
		o.MinTitleWords = 3
	}
	return o
}

// Summary reports one crawl pass.
type Summary struct {
	Sources   int
	Completed int
	Failed    int
	Skipped   int
	Articles  int
	Elapsed   time.Duration
}

// Orchestrator runs crawl passes over a category -> sources mapping.
type Orchestrator struct {
	fetcher  fetch.Fetcher
	cache    *store.Store
	articles *articles.Store
	analyzer analyze.Analyzer
	log      *slog.Logger
	opts     Options

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

// New builds an orchestrator. A nil analyzer gets the noop placeholder
// analyzer and a nil logger gets slog's default.
func New(fetcher fetch.Fetcher, cache *store.Store, articleStore *articles.Store, analyzer analyze.Analyzer, log *slog.Logger, opts Options) *Orchestrator {
	if analyzer == nil {
		analyzer = analyze.Noop{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		fetcher:  fetcher,
		cache:    cache,
		articles: articleStore,
		analyzer: analyzer,
		log:      log,
		opts:     opts.withDefaults(),
		sleep:    time.Sleep,
	}
}

// CrawlAll crawls every source of every category once and returns the
// articles collected this pass. A failing source never cancels its
// siblings. Completion order across sources is not deterministic; the
// aggregate is what matters.
func (o *Orchestrator) CrawlAll(ctx context.Context, sources map[string][]string) ([]models.Article, Summary) {
	start := time.Now()
	visited := newVisitedSet()

	var mu sync.Mutex
	var collected []models.Article
	summary := Summary{}

	pool := NewWorkerPool(ctx, o.opts.Concurrency, o.opts.Concurrency)
	for category, urls := range sources {
		if o.opts.SitesPerCategory > 0 && len(urls) > o.opts.SitesPerCategory {
			urls = urls[:o.opts.SitesPerCategory]
		}
		for _, sourceURL := range urls {
			summary.Sources++
			worker := &sourceWorker{
				source:            sourceURL,
				category:          category,
				fetcher:           o.fetcher,
				cache:             o.cache,
				articles:          o.articles,
				analyzer:          o.analyzer,
				visited:           visited,
				log:               o.log,
				maxPages:          o.opts.MaxPages,
				articlesPerSource: o.opts.ArticlesPerSource,
				paginationDelay:   o.opts.PaginationDelay,
				minTitleWords:     o.opts.MinTitleWords,
				domainTimeout:     o.opts.DomainTimeout,
				metadataOnly:      o.opts.MetadataOnly,
				sleep:             o.sleep,
			}
			if err := pool.Submit(func() {
				result := worker.run(ctx)
				mu.Lock()
				defer mu.Unlock()
				collected = append(collected, result.Articles...)
				switch {
				case result.Failed:
					summary.Failed++
				case result.Skipped:
					summary.Skipped++
				default:
					summary.Completed++
				}
			}); err != nil {
				// Shutdown requested; stop scheduling new sources.
				break
			}
		}
	}
	pool.Close()

	summary.Articles = len(collected)
	summary.Elapsed = time.Since(start)
	o.log.Info("crawl pass finished",
		"sources", summary.Sources,
		"completed", summary.Completed,
		"failed", summary.Failed,
		"skipped", summary.Skipped,
		"articles", summary.Articles,
		"elapsed", summary.Elapsed.Round(time.Millisecond))
	return collected, summary
}

// RunContinuous repeats crawl passes until the context is cancelled.
// Between passes it sleeps for interval; a pass-level storage error backs
// off for retryDelay instead of terminating the loop. In-flight fetches
// finish on shutdown, only new scheduling stops.
func (o *Orchestrator) RunContinuous(ctx context.Context, sources map[string][]string, interval, retryDelay time.Duration) {
	for {
		if ctx.Err() != nil {
			return
		}

		cleanupFailed := false
		if o.opts.Retention > 0 {
			if removed, err := o.cache.CleanupExpired(o.opts.Retention); err != nil {
				o.log.Error("cache cleanup failed", "error", err)
				cleanupFailed = true
			} else if removed > 0 {
				o.log.Info("pruned expired cache entries", "removed", removed)
			}
		}

		wait := interval
		if cleanupFailed {
			wait = retryDelay
		} else {
			o.CrawlAll(ctx, sources)
		}

		o.log.Info("sleeping until next pass", "wait", wait)
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}
