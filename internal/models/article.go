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

// Package models holds the crawl domain entities shared by the extractor,
// the worker and the stores.
package models

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// MinContentLength is the minimum cleaned content length in characters
// (inclusive) for an article to count as fully fetched. Shorter content
// keeps the article in metadata-only form.
const MinContentLength = 100

// Analysis is the structured output of the analyze capability.
type Analysis struct {
	MainTopic string   `json:"main_topic"`
	Subtopics []string `json:"subtopics"`
	KeyPoints []string `json:"key_points"`
	Sentiment string   `json:"sentiment"`
	Bias      string   `json:"bias"`
}

// PlaceholderAnalysis is persisted when the analyze capability fails, so a
// fetched article is never dropped because of a downstream model error.
func PlaceholderAnalysis() *Analysis {
	return &Analysis{
		MainTopic: "Unknown",
		Sentiment: "unknown",
		Bias:      "Analysis failed",
	}
}

// Candidate is an article link plus the partial metadata found on a listing
// or pagination page, before the article itself has been fetched.
type Candidate struct {
	URL     string
	Title   string
	Author  string
	Date    string
	Excerpt string
}

// Article is a news article keyed by URL. It starts life metadata-only and
// is upgraded in place once full content has been fetched and analyzed.
type Article struct {
	URL      string     `json:"url"`
	Title    string     `json:"title"`
	Category string     `json:"category"`
	Source   string     `json:"source"`
	Author   string     `json:"author,omitempty"`
	Date     *time.Time `json:"date,omitempty"`
	Content  string     `json:"content,omitempty"`
	Excerpt  string     `json:"excerpt,omitempty"`

	Summary  string    `json:"summary,omitempty"`
	Topics   []string  `json:"topics,omitempty"`
	Analysis *Analysis `json:"analysis,omitempty"`

	ScrapedAt time.Time `json:"scraped_at"`
}

var (
	markdownLinkRe = regexp.MustCompile(`\[([^\]]+)\]\([^\)]+\)`)
	bareURLRe      = regexp.MustCompile(`https?://\S+`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// CleanContent strips markdown links and bare URLs out of the article body
// and collapses runs of whitespace. Safe to call on an empty body.
func (a *Article) CleanContent() {
	if a.Content == "" {
		return
	}
	content := markdownLinkRe.ReplaceAllString(a.Content, "$1")
	content = bareURLRe.ReplaceAllString(content, "")
	content = whitespaceRe.ReplaceAllString(content, " ")
	a.Content = strings.TrimSpace(content)
}

// HasFullContent reports whether the cleaned body meets the full-fetch
// threshold. The boundary is inclusive at MinContentLength and counts
// characters, not bytes, so multi-byte scripts are not over-measured.
func (a *Article) HasFullContent() bool {
	return utf8.RuneCountInString(a.Content) >= MinContentLength
}

// ApplyAnalysis attaches the analysis and derives the summary (first two key
// points) and the topic list (main topic followed by subtopics).
func (a *Article) ApplyAnalysis(analysis *Analysis) {
	if analysis == nil {
		return
	}
	a.Analysis = analysis
	if len(analysis.KeyPoints) > 0 {
		points := analysis.KeyPoints
		if len(points) > 2 {
			points = points[:2]
		}
		a.Summary = strings.Join(points, " ")
	}
	if analysis.MainTopic != "" {
		a.Topics = append([]string{analysis.MainTopic}, analysis.Subtopics...)
	}
}

// TitleWordCount counts whitespace-separated words in a title.
func TitleWordCount(title string) int {
	return len(strings.Fields(title))
}

// NormalizeTitle folds a title into the form used for the (domain, title)
// shadow key: lowercased, whitespace collapsed.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}
