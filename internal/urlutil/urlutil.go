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

// Package urlutil normalizes and compares URLs the same way the crawler
// stores them, so that cache keys, the in-run attempted set and same-origin
// checks all agree on what "the same URL" means.
package urlutil

import (
	"net/url"
	"strings"

	"github.com/cespare/xxhash/v2"
	whatwgUrl "github.com/nlnwa/whatwg-url/url"
)

var urlParser = whatwgUrl.NewParser(whatwgUrl.WithPercentEncodeSinglePercentSign())

// Normalize reparses a URL to fix ambiguities such as
// "http://example.com" vs "http://example.com/".
func Normalize(u string) string {
	parsed, err := urlParser.Parse(u)
	if err != nil {
		return u
	}
	return parsed.String()
}

// Resolve resolves href against base and returns the absolute form,
// or "" if either part cannot be parsed.
func Resolve(base, href string) string {
	resolved, err := urlParser.ParseRef(base, href)
	if err != nil {
		return ""
	}
	return resolved.String()
}

// Domain returns the lowercased authority of a URL, without port.
// Returns "" for unparseable input.
func Domain(u string) string {
	parsed, err := url.Parse(Normalize(u))
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}

// SameOrigin reports whether two URLs share an authority. Links that fail
// to parse never match, so malformed hrefs are filtered out by callers.
func SameOrigin(a, b string) bool {
	da, db := Domain(a), Domain(b)
	if da == "" || db == "" {
		return false
	}
	return da == db
}

// IsHTTP reports whether the URL uses the http or https scheme.
func IsHTTP(u string) bool {
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	return parsed.Scheme == "http" || parsed.Scheme == "https"
}

// Hash returns a stable identifier for a URL, computed over its normalized
// form so that trailing-slash and escaping variants collapse to one key.
func Hash(u string) uint64 {
	return xxhash.Sum64String(Normalize(u))
}
