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

// Package fetch provides the page-fetch capability consumed by crawl
// workers. Two backends exist: a plain HTTP client with bounded retry, and
// a headless-Chrome renderer for JavaScript-heavy sites. Both apply
// per-domain courtesy delays through LimitRules.
package fetch

import "context"

// Result is the outcome of fetching one URL. A non-success result is
// recoverable: the caller skips the page and moves on.
type Result struct {
	Success      bool
	StatusCode   int
	HTML         string
	ErrorMessage string
}

// Fetcher fetches a URL and returns its rendered HTML.
type Fetcher interface {
	Fetch(ctx context.Context, url string) Result
}

func failure(msg string) Result {
	return Result{Success: false, ErrorMessage: msg}
}
