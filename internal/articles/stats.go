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

package articles

import (
	"fmt"
	"sort"
	"strings"
)

// Stats summarizes the stored articles for run reports.
type Stats struct {
	Total       int
	ByCategory  map[string]int
	BySource    map[string]int
	WithAuthor  int
	WithDate    int
	WithContent int
}

// Stats computes summary counts over the stored articles.
func (s *Store) Stats() Stats {
	stats := Stats{
		ByCategory: map[string]int{},
		BySource:   map[string]int{},
	}
	for _, article := range s.All() {
		stats.Total++
		if article.Category != "" {
			stats.ByCategory[article.Category]++
		}
		if article.Source != "" {
			stats.BySource[article.Source]++
		}
		if article.Author != "" {
			stats.WithAuthor++
		}
		if article.Date != nil {
			stats.WithDate++
		}
		if article.Content != "" {
			stats.WithContent++
		}
	}
	return stats
}

// String renders the stats as a human-readable report.
func (st Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total articles: %d\n", st.Total)

	b.WriteString("By category:\n")
	for _, k := range sortedKeys(st.ByCategory) {
		fmt.Fprintf(&b, "  %s: %d\n", k, st.ByCategory[k])
	}
	b.WriteString("By source:\n")
	for _, k := range sortedKeys(st.BySource) {
		fmt.Fprintf(&b, "  %s: %d\n", k, st.BySource[k])
	}
	fmt.Fprintf(&b, "With author: %d\n", st.WithAuthor)
	fmt.Fprintf(&b, "With publish date: %d\n", st.WithDate)
	fmt.Fprintf(&b, "With content: %d\n", st.WithContent)
	return b.String()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
