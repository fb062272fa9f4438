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
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"

	"github.com/agentberlin/newshound/internal/urlutil"
)

const maxBodySize = 10 << 20

// HTTPFetcher fetches pages with a plain HTTP client. Transient failures
// (network errors, 429, 5xx) are retried with a growing pause; other
// client errors fail immediately.
type HTTPFetcher struct {
	client     *http.Client
	robots     *Robots
	userAgent  string
	maxRetries int
	limits     []*LimitRule

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

// Options configures fetch backends.
type Options struct {
	UserAgent    string
	Timeout      time.Duration
	MaxRetries   int
	IgnoreRobots bool
}

// NewHTTPFetcher builds an HTTP fetcher with its own robots.txt gate.
func NewHTTPFetcher(opts Options) *HTTPFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	client := &http.Client{Timeout: opts.Timeout}
	return &HTTPFetcher{
		client:     client,
		robots:     NewRobots(client, opts.UserAgent, opts.IgnoreRobots),
		userAgent:  opts.UserAgent,
		maxRetries: opts.MaxRetries,
		sleep:      time.Sleep,
	}
}

// Limit registers a rate limit rule. Requests to matching domains share
// the rule's parallelism slots and courtesy delays.
func (f *HTTPFetcher) Limit(rule *LimitRule) error {
	if err := rule.Init(); err != nil {
		return err
	}
	f.limits = append(f.limits, rule)
	return nil
}

func (f *HTTPFetcher) ruleFor(domain string) *LimitRule {
	for _, rule := range f.limits {
		if rule.Match(domain) {
			return rule
		}
	}
	return nil
}

// Fetch downloads a URL and returns its decoded HTML.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) Result {
	if !urlutil.IsHTTP(rawURL) {
		return failure(fmt.Sprintf("unsupported URL: %s", rawURL))
	}
	if !f.robots.Allowed(rawURL) {
		return failure(ErrRobotsBlocked.Error())
	}

	if rule := f.ruleFor(urlutil.Domain(rawURL)); rule != nil {
		rule.acquire()
		defer rule.release()
	}

	var lastErr string
	var lastStatus int
	for attempt := 0; attempt < f.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return failure(ctx.Err().Error())
			default:
			}
			f.sleep(time.Duration(attempt) * time.Second)
		}

		result, retry := f.fetchOnce(ctx, rawURL)
		if result.Success || !retry {
			return result
		}
		lastErr = result.ErrorMessage
		lastStatus = result.StatusCode
	}
	return Result{StatusCode: lastStatus, ErrorMessage: lastErr}
}

// fetchOnce performs a single request. The second return value reports
// whether the failure is worth retrying.
func (f *HTTPFetcher) fetchOnce(ctx context.Context, rawURL string) (Result, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return failure(err.Error()), false
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return failure(err.Error()), true
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return Result{
			StatusCode:   resp.StatusCode,
			ErrorMessage: fmt.Sprintf("HTTP %d for %s", resp.StatusCode, rawURL),
		}, true
	}
	if resp.StatusCode >= 400 {
		return Result{
			StatusCode:   resp.StatusCode,
			ErrorMessage: fmt.Sprintf("HTTP %d for %s", resp.StatusCode, rawURL),
		}, false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return failure(err.Error()), true
	}

	html, err := decodeBody(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return failure(err.Error()), false
	}
	return Result{Success: true, StatusCode: resp.StatusCode, HTML: html}, false
}

// decodeBody converts the response bytes to UTF-8. When the Content-Type
// header carries no charset the encoding is sniffed from the bytes.
func decodeBody(body []byte, contentType string) (string, error) {
	if !strings.Contains(strings.ToLower(contentType), "charset") {
		detector := chardet.NewTextDetector()
		if best, err := detector.DetectBest(body); err == nil && best != nil {
			if reader, err := charset.NewReaderLabel(best.Charset, bytes.NewReader(body)); err == nil {
				decoded, err := io.ReadAll(reader)
				if err == nil {
					return string(decoded), nil
				}
			}
		}
	}

	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return "", err
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
