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

// Package dateutil parses the heterogeneous publish-date formats found on
// news listing pages, including relative forms like "2 days ago".
package dateutil

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Layouts tried in order against absolute date strings.
var layouts = []string{
	time.RFC3339,          // ISO with timezone
	"2006-01-02T15:04:05", // ISO without timezone
	"2006-01-02 15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"2 January 2006",
	"2006/01/02",
	"02/01/2006",
	"01/02/2006",
}

var relativeRe = regexp.MustCompile(`(?i)(\d+)\s+(second|minute|hour|day|week|month|year)s?\s+ago`)

// Parse parses a publish date string. Returns nil when the string is empty
// or matches none of the known formats.
func Parse(s string) *time.Time {
	return ParseAt(s, time.Now())
}

// ParseAt is Parse with an explicit reference time for relative dates.
// Relative forms use duration arithmetic (AddDate / Add), so "35 days ago"
// rolls over month and year boundaries correctly.
func ParseAt(s string, now time.Time) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}

	m := relativeRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	amount, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}

	var t time.Time
	switch strings.ToLower(m[2]) {
	case "second":
		t = now.Add(-time.Duration(amount) * time.Second)
	case "minute":
		t = now.Add(-time.Duration(amount) * time.Minute)
	case "hour":
		t = now.Add(-time.Duration(amount) * time.Hour)
	case "day":
		t = now.AddDate(0, 0, -amount)
	case "week":
		t = now.AddDate(0, 0, -amount*7)
	case "month":
		t = now.AddDate(0, -amount, 0)
	case "year":
		t = now.AddDate(-amount, 0, 0)
	default:
		return nil
	}
	return &t
}

// ParseFirst returns the first parseable date among the given strings.
func ParseFirst(candidates ...string) *time.Time {
	for _, c := range candidates {
		if t := Parse(c); t != nil {
			return t
		}
	}
	return nil
}
