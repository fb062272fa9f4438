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

package crawler

import (
	"context"
	"log/slog"
	"time"

	"github.com/agentberlin/newshound/internal/analyze"
	"github.com/agentberlin/newshound/internal/articles"
	"github.com/agentberlin/newshound/internal/dateutil"
	"github.com/agentberlin/newshound/internal/extract"
	"github.com/agentberlin/newshound/internal/fetch"
	"github.com/agentberlin/newshound/internal/models"
	"github.com/agentberlin/newshound/internal/store"
	"github.com/agentberlin/newshound/internal/urlutil"
)

// sourceWorker crawls one news source: homepage, then pagination pages,
// then each candidate article. A worker is strictly sequential within its
// source; concurrency across sources comes from the orchestrator's pool.
type sourceWorker struct {
	source   string
	category string

	fetcher  fetch.Fetcher
	cache    *store.Store
	articles *articles.Store
	analyzer analyze.Analyzer
	visited  *visitedSet
	log      *slog.Logger

	maxPages          int
	articlesPerSource int
	paginationDelay   time.Duration
	minTitleWords     int
	domainTimeout     time.Duration
	metadataOnly      bool

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

// sourceResult reports one worker's outcome. Failed is set only when the
// homepage fetch itself fails; article-level failures are logged and
// skipped.
type sourceResult struct {
	Source   string
	Category string
	Articles []models.Article
	Skipped  bool
	Failed   bool
}

// run drives the worker through its states. Any outcome other than a
// homepage fetch failure counts the source as done.
func (w *sourceWorker) run(ctx context.Context) sourceResult {
	result := sourceResult{Source: w.source, Category: w.category}
	domain := urlutil.Domain(w.source)
	log := w.log.With("source", w.source, "category", w.category)

	ok, err := w.cache.ShouldScrapeDomain(domain, w.domainTimeout)
	if err != nil {
		log.Error("domain cooldown check failed", "error", err)
		result.Failed = true
		return result
	}
	if !ok {
		log.Info("domain in cooldown, skipping source")
		result.Skipped = true
		return result
	}

	// FetchHome
	home := w.fetcher.Fetch(ctx, w.source)
	if !home.Success {
		log.Warn("homepage fetch failed", "error", home.ErrorMessage)
		if err := w.cache.UpdateDomainStats(domain, false, 0, nil); err != nil {
			log.Error("failed to record domain failure", "error", err)
		}
		result.Failed = true
		return result
	}

	// DiscoverLinks
	candidates := extract.ArticleLinks(home.HTML, w.source)
	pagination := extract.PaginationLinks(home.HTML, w.source)
	log.Info("discovered links", "articles", len(candidates), "pagination", len(pagination))

	// Heavily scripted homepages can render an empty article list over
	// plain HTTP; the sitemap usually still lists the stories.
	if len(candidates) == 0 {
		candidates = w.sitemapCandidates(ctx, log)
	}

	// CrawlPagination: the homepage counts as the first page.
	if w.maxPages > 1 && len(pagination) > w.maxPages-1 {
		pagination = pagination[:w.maxPages-1]
	}
	for _, pageURL := range pagination {
		if ctx.Err() != nil {
			break
		}
		w.sleep(w.paginationDelay)

		page := w.fetcher.Fetch(ctx, pageURL)
		if !page.Success {
			log.Warn("pagination fetch failed", "page", pageURL, "error", page.ErrorMessage)
			continue
		}
		candidates = append(candidates, extract.ArticleLinks(page.HTML, w.source)...)
	}

	// FetchArticle
	for _, candidate := range candidates {
		if ctx.Err() != nil {
			break
		}
		if len(result.Articles) >= w.articlesPerSource {
			break
		}
		article, err := w.processCandidate(ctx, domain, candidate, log)
		if err != nil {
			log.Warn("article failed", "url", candidate.URL, "error", err)
			continue
		}
		if article != nil {
			result.Articles = append(result.Articles, *article)
		}
	}

	if err := w.cache.UpdateDomainStats(domain, true, len(result.Articles), nil); err != nil {
		log.Error("failed to record domain stats", "error", err)
	}
	log.Info("source done", "articles", len(result.Articles))
	return result
}

// sitemapCandidates fetches /sitemap.xml as a discovery fallback. A sitemap
// index is followed one level deep, bounded by maxPages children.
func (w *sourceWorker) sitemapCandidates(ctx context.Context, log *slog.Logger) []models.Candidate {
	sitemapURL := urlutil.Resolve(w.source, "/sitemap.xml")
	if sitemapURL == "" {
		return nil
	}

	result := w.fetcher.Fetch(ctx, sitemapURL)
	if !result.Success {
		return nil
	}

	pages, children := extract.SitemapURLs(result.HTML, w.source)
	if len(children) > w.maxPages {
		children = children[:w.maxPages]
	}
	for _, child := range children {
		if ctx.Err() != nil {
			break
		}
		w.sleep(w.paginationDelay)
		childResult := w.fetcher.Fetch(ctx, child)
		if !childResult.Success {
			continue
		}
		childPages, _ := extract.SitemapURLs(childResult.HTML, w.source)
		pages = append(pages, childPages...)
	}
	if len(pages) > 0 {
		log.Info("using sitemap fallback", "urls", len(pages))
	}
	return pages
}

// processCandidate persists one candidate article. The metadata-only
// record is written before the content fetch so a crash mid-fetch loses
// nothing already discovered.
func (w *sourceWorker) processCandidate(ctx context.Context, domain string, candidate models.Candidate, log *slog.Logger) (*models.Article, error) {
	// Links with very short anchor text are navigation, not headlines.
	// Sitemap candidates may carry no title at all; those pick one up from
	// the article page later.
	if candidate.Title != "" && models.TitleWordCount(candidate.Title) < w.minTitleWords {
		return nil, nil
	}
	if w.visited.visit(candidate.URL) {
		return nil, nil
	}

	ok, err := w.cache.ShouldScrapeURL(candidate.URL, candidate.Title)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	article := &models.Article{
		URL:       candidate.URL,
		Title:     candidate.Title,
		Category:  w.category,
		Source:    domain,
		Author:    candidate.Author,
		Excerpt:   candidate.Excerpt,
		ScrapedAt: time.Now(),
	}
	if candidate.Date != "" {
		article.Date = dateutil.Parse(candidate.Date)
	}

	// Persist metadata first, then register the URL in the cache so a
	// concurrent worker seeing the same URL backs off.
	if err := w.articles.Upsert(article); err != nil {
		return nil, err
	}
	if err := w.cache.AddArticle(candidate.URL, candidate.Title, w.category); err != nil {
		return nil, err
	}
	if w.metadataOnly {
		return article, nil
	}

	page := w.fetcher.Fetch(ctx, candidate.URL)
	if !page.Success {
		log.Warn("content fetch failed, keeping metadata", "url", candidate.URL, "error", page.ErrorMessage)
		return article, nil
	}

	// Listing metadata wins; the article page fills in what was missing.
	if article.Title == "" {
		article.Title = extract.Title(page.HTML)
	}
	if article.Author == "" {
		article.Author = extract.Author(page.HTML)
	}
	if article.Date == nil {
		article.Date = dateutil.ParseFirst(extract.PublishDate(page.HTML))
	}
	article.Content = extract.Content(page.HTML)
	article.CleanContent()

	// Too little text means a paywall, a video page, or extraction noise.
	// Keep the metadata-only record and drop the content.
	if !article.HasFullContent() {
		article.Content = ""
		if err := w.articles.Upsert(article); err != nil {
			return nil, err
		}
		return article, nil
	}

	analysis, err := w.analyzer.Analyze(ctx, article.Content)
	if err != nil {
		log.Warn("analysis failed, using placeholder", "url", candidate.URL, "error", err)
		analysis = models.PlaceholderAnalysis()
	}
	article.ApplyAnalysis(analysis)

	if err := w.articles.Upsert(article); err != nil {
		return nil, err
	}
	return article, nil
}
