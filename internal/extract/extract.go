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

// Package extract pulls article candidates, pagination links, and article
// body text out of news site HTML using heuristic CSS selectors. News sites
// share no markup standard, so each extractor walks a selector list from
// most to least specific and takes the first hit.
package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/agentberlin/newshound/internal/models"
	"github.com/agentberlin/newshound/internal/urlutil"
)

var articleContainerSelectors = []string{
	"article",
	".post",
	".story",
	".entry",
	".article",
}

var authorSelectors = []string{
	".author",
	".byline",
	`[rel="author"]`,
	".writer",
}

var dateSelectors = []string{
	"time",
	".date",
	".published",
	".timestamp",
}

var excerptSelectors = []string{
	".excerpt",
	".summary",
	".description",
	"p",
}

var paginationSelectors = []string{
	".pagination a",
	".pager a",
	".pages a",
	`a[href*="/page/"]`,
	`a[href*="/archive/"]`,
	`a[href*="/news/archive/"]`,
	".nav-links a",
	"a.next",
	"a.load-more",
}

var contentSelectors = []string{
	"article",
	".article-content",
	".post-content",
	".entry-content",
	".story-content",
	".article-body",
	".story-body",
	".main-content",
	`[itemprop="articleBody"]`,
	".content-article",
}

// Markup that never carries article text.
var strippedElements = "script, style, nav, header, footer, iframe"

// Classes marking in-article chrome (share bars, ad slots, related boxes).
var noiseClasses = []string{"share", "social", "related", "newsletter", "ad", "advertisement"}

var blankLineRe = regexp.MustCompile(`\n\s*\n`)
var spaceRe = regexp.MustCompile(`\s+`)

// ArticleLinks extracts article candidates from a listing page. Only
// same-origin links survive, and each URL appears once even when several
// containers reference it.
func ArticleLinks(html, baseURL string) []models.Candidate {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var candidates []models.Candidate

	for _, selector := range articleContainerSelectors {
		doc.Find(selector).Each(func(_ int, container *goquery.Selection) {
			link := container.Find("a").First()
			href, ok := link.Attr("href")
			if !ok || href == "" {
				return
			}

			fullURL := urlutil.Resolve(baseURL, href)
			if fullURL == "" || !urlutil.IsHTTP(fullURL) || !urlutil.SameOrigin(fullURL, baseURL) {
				return
			}
			key := urlutil.Normalize(fullURL)
			if seen[key] {
				return
			}
			seen[key] = true

			candidate := models.Candidate{
				URL:   fullURL,
				Title: cleanText(link.Text()),
			}
			if candidate.Title == "" {
				candidate.Title = cleanText(container.Find("h1, h2, h3").First().Text())
			}
			candidate.Author = firstText(container, authorSelectors)
			candidate.Date = firstDate(container)
			candidate.Excerpt = firstText(container, excerptSelectors)

			candidates = append(candidates, candidate)
		})
	}
	return candidates
}

// PaginationLinks extracts same-origin pagination and archive links from a
// listing page. The page's own URL is excluded.
func PaginationLinks(html, baseURL string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	self := urlutil.Normalize(baseURL)
	seen := make(map[string]bool)
	var links []string

	for _, selector := range paginationSelectors {
		doc.Find(selector).Each(func(_ int, link *goquery.Selection) {
			href, ok := link.Attr("href")
			if !ok || href == "" {
				return
			}
			fullURL := urlutil.Resolve(baseURL, href)
			if fullURL == "" || !urlutil.IsHTTP(fullURL) || !urlutil.SameOrigin(fullURL, baseURL) {
				return
			}
			key := urlutil.Normalize(fullURL)
			if key == self || seen[key] {
				return
			}
			seen[key] = true
			links = append(links, fullURL)
		})
	}
	return links
}

// Content extracts the main article text from an article page. An empty
// string means no known content container was found.
func Content(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find(strippedElements).Remove()

	for _, selector := range contentSelectors {
		content := doc.Find(selector).First()
		if content.Length() == 0 {
			continue
		}
		content.Find("a, button, div, aside").Each(func(_ int, tag *goquery.Selection) {
			class, _ := tag.Attr("class")
			for _, noise := range noiseClasses {
				if strings.Contains(class, noise) {
					tag.Remove()
					return
				}
			}
		})

		text := blankLineRe.ReplaceAllString(content.Text(), "\n")
		text = spaceRe.ReplaceAllString(text, " ")
		return strings.TrimSpace(text)
	}
	return ""
}

// Title extracts the page title of an article page, preferring the h1 over
// the document title.
func Title(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	if h1 := cleanText(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	return cleanText(doc.Find("title").First().Text())
}

// Author extracts the byline from an article page. Used as a fallback when
// the listing page carried no author for the candidate.
func Author(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return firstText(doc.Selection, authorSelectors)
}

// PublishDate extracts the raw publish date string from an article page,
// preferring a machine-readable datetime attribute over display text.
func PublishDate(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return firstDate(doc.Selection)
}

func firstText(container *goquery.Selection, selectors []string) string {
	for _, selector := range selectors {
		if tag := container.Find(selector).First(); tag.Length() > 0 {
			if text := cleanText(tag.Text()); text != "" {
				return text
			}
		}
	}
	return ""
}

// firstDate prefers a machine-readable datetime attribute over the
// element's display text.
func firstDate(container *goquery.Selection) string {
	for _, selector := range dateSelectors {
		tag := container.Find(selector).First()
		if tag.Length() == 0 {
			continue
		}
		if dt, ok := tag.Attr("datetime"); ok && dt != "" {
			return dt
		}
		if text := cleanText(tag.Text()); text != "" {
			return text
		}
	}
	return ""
}

func cleanText(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
