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

package extract

import (
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/agentberlin/newshound/internal/models"
	"github.com/agentberlin/newshound/internal/urlutil"
)

// SitemapURLs parses a sitemap or sitemap index document. For a urlset it
// returns same-origin page candidates; for a sitemap index it returns the
// child sitemap URLs so the caller can descend one level.
func SitemapURLs(xml, baseURL string) (pages []models.Candidate, children []string) {
	doc, err := xmlquery.Parse(strings.NewReader(xml))
	if err != nil {
		return nil, nil
	}

	for _, node := range xmlquery.Find(doc, "//sitemap/loc") {
		loc := strings.TrimSpace(node.InnerText())
		if loc != "" && urlutil.IsHTTP(loc) {
			children = append(children, loc)
		}
	}

	seen := make(map[string]bool)
	for _, node := range xmlquery.Find(doc, "//url") {
		locNode := xmlquery.FindOne(node, "loc")
		if locNode == nil {
			continue
		}
		loc := strings.TrimSpace(locNode.InnerText())
		if loc == "" || !urlutil.IsHTTP(loc) || !urlutil.SameOrigin(loc, baseURL) {
			continue
		}
		key := urlutil.Normalize(loc)
		if seen[key] {
			continue
		}
		seen[key] = true

		candidate := models.Candidate{URL: loc}
		// news: sitemaps carry titles and publish dates.
		if title := xmlquery.FindOne(node, ".//title"); title != nil {
			candidate.Title = strings.TrimSpace(title.InnerText())
		}
		if date := xmlquery.FindOne(node, ".//publication_date"); date != nil {
			candidate.Date = strings.TrimSpace(date.InnerText())
		} else if lastmod := xmlquery.FindOne(node, "lastmod"); lastmod != nil {
			candidate.Date = strings.TrimSpace(lastmod.InnerText())
		}
		pages = append(pages, candidate)
	}
	return pages, children
}
