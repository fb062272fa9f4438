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

package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAbsoluteFormats(t *testing.T) {
	cases := map[string]time.Time{
		"2025-03-10T14:30:00Z":  time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC),
		"2025-03-10T14:30:00":   time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC),
		"2025-03-10 14:30:00":   time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC),
		"2025-03-10":            time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		"March 10, 2025":        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		"10 March 2025":         time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		"2025/03/10":            time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}
	for input, want := range cases {
		got := Parse(input)
		require.NotNil(t, got, "input %q", input)
		assert.True(t, got.Equal(want), "input %q: got %v", input, got)
	}
}

func TestParseRelative(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	got := ParseAt("2 days ago", now)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC), *got)

	got = ParseAt("3 hours ago", now)
	require.NotNil(t, got)
	assert.Equal(t, now.Add(-3*time.Hour), *got)

	got = ParseAt("1 week ago", now)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC), *got)
}

func TestParseRelativeRollsOverMonthBoundary(t *testing.T) {
	// 5 days before March 2nd lands in February.
	now := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	got := ParseAt("5 days ago", now)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 2, 25, 9, 0, 0, 0, time.UTC), *got)
}

func TestParseUnknown(t *testing.T) {
	assert.Nil(t, Parse(""))
	assert.Nil(t, Parse("yesterday-ish"))
	assert.Nil(t, Parse("soon"))
}

func TestParseFirst(t *testing.T) {
	got := ParseFirst("garbage", "2025-03-10", "2025-01-01")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), *got)
	assert.Nil(t, ParseFirst("", "nope"))
}
