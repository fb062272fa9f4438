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

package fetch

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/agentberlin/newshound/internal/urlutil"
)

// BrowserFetcher renders pages in headless Chrome for sites that build
// their article lists client-side. Each Fetch opens a fresh browser
// context against a shared allocator.
//
// NOTE: each browser context consumes roughly 100-200MB RAM. Parallelism
// is controlled by the LimitRules, same as the HTTP backend.
type BrowserFetcher struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	robots      *Robots
	userAgent   string
	timeout     time.Duration
	limits      []*LimitRule
}

// NewBrowserFetcher starts a headless Chrome allocator.
func NewBrowserFetcher(opts Options) *BrowserFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	execOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), execOpts...)

	return &BrowserFetcher{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		robots:      NewRobots(nil, opts.UserAgent, opts.IgnoreRobots),
		userAgent:   opts.UserAgent,
		timeout:     opts.Timeout,
	}
}

// Limit registers a rate limit rule for matching domains.
func (f *BrowserFetcher) Limit(rule *LimitRule) error {
	if err := rule.Init(); err != nil {
		return err
	}
	f.limits = append(f.limits, rule)
	return nil
}

// Close tears down the browser allocator.
func (f *BrowserFetcher) Close() {
	if f.allocCancel != nil {
		f.allocCancel()
	}
}

// Fetch renders a URL and returns the post-JavaScript HTML.
func (f *BrowserFetcher) Fetch(ctx context.Context, rawURL string) Result {
	if !urlutil.IsHTTP(rawURL) {
		return failure("unsupported URL: " + rawURL)
	}
	if !f.robots.Allowed(rawURL) {
		return failure(ErrRobotsBlocked.Error())
	}

	for _, rule := range f.limits {
		if rule.Match(urlutil.Domain(rawURL)) {
			rule.acquire()
			defer rule.release()
			break
		}
	}

	tabCtx, cancel := chromedp.NewContext(f.allocCtx)
	defer cancel()
	tabCtx, cancel = context.WithTimeout(tabCtx, f.timeout)
	defer cancel()

	// Cancel the tab when the caller's context ends.
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-tabCtx.Done():
		}
	}()

	headers := network.Headers{}
	if f.userAgent != "" {
		headers["User-Agent"] = f.userAgent
	}

	var htmlContent string
	err := chromedp.Run(tabCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(headers),
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		// Let client-side hydration settle before scraping the DOM.
		chromedp.Sleep(1500*time.Millisecond),
		// Scroll to the bottom so lazy-loaded article cards render.
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
		chromedp.Sleep(1000*time.Millisecond),
		chromedp.OuterHTML("html", &htmlContent),
	)
	if err != nil {
		return failure(err.Error())
	}
	return Result{Success: true, StatusCode: 200, HTML: htmlContent}
}
