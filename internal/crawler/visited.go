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

package crawler

import (
	"sync"

	"github.com/agentberlin/newshound/internal/urlutil"
)

// visitedSet tracks URLs attempted within a single run so the same page is
// never fetched twice, independent of whether the attempt succeeded.
// Persistent deduplication across runs lives in the cache store; this set
// only guards one run.
type visitedSet struct {
	lock sync.Mutex
	urls map[uint64]bool
}

func newVisitedSet() *visitedSet {
	return &visitedSet{urls: make(map[uint64]bool)}
}

// visit atomically checks and marks a URL, returning true when the URL was
// already attempted. The atomic check-and-set prevents two workers racing
// on the same URL.
func (v *visitedSet) visit(rawURL string) bool {
	id := urlutil.Hash(rawURL)

	v.lock.Lock()
	defer v.lock.Unlock()
	if v.urls[id] {
		return true
	}
	v.urls[id] = true
	return false
}

func (v *visitedSet) count() int {
	v.lock.Lock()
	defer v.lock.Unlock()
	return len(v.urls)
}
