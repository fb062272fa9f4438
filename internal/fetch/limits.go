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
	"errors"
	"math/rand"
	"time"

	"github.com/gobwas/glob"
)

// ErrNoPattern is returned when a LimitRule has no domain pattern.
var ErrNoPattern = errors.New("no pattern defined in limit rule")

// LimitRule restricts requests to matching domains: at most Parallelism
// concurrent requests, and a Delay plus uniform RandomDelay jitter between
// consecutive ones. With the defaults (2s delay, 3s jitter) consecutive
// requests to one domain are spaced 2 to 5 seconds apart.
type LimitRule struct {
	// DomainGlob is a glob pattern matched against request hosts.
	DomainGlob string
	// Delay is the fixed wait after each request to matching domains.
	Delay time.Duration
	// RandomDelay is the extra randomized wait added to Delay.
	RandomDelay time.Duration
	// Parallelism caps concurrent requests to matching domains. Zero or
	// one serializes them.
	Parallelism int

	waitChan     chan bool
	compiledGlob glob.Glob
}

// Init compiles the domain pattern and sizes the wait channel.
func (r *LimitRule) Init() error {
	if r.DomainGlob == "" {
		return ErrNoPattern
	}
	compiled, err := glob.Compile(r.DomainGlob)
	if err != nil {
		return err
	}
	r.compiledGlob = compiled

	size := 1
	if r.Parallelism > 1 {
		size = r.Parallelism
	}
	r.waitChan = make(chan bool, size)
	return nil
}

// Match checks whether the domain triggers this rule.
func (r *LimitRule) Match(domain string) bool {
	return r.compiledGlob != nil && r.compiledGlob.Match(domain)
}

// acquire takes a parallelism slot for one request.
func (r *LimitRule) acquire() {
	r.waitChan <- true
}

// release sleeps the courtesy delay and frees the slot.
func (r *LimitRule) release() {
	delay := r.Delay
	if r.RandomDelay > 0 {
		delay += time.Duration(rand.Int63n(int64(r.RandomDelay)))
	}
	if delay > 0 {
		time.Sleep(delay)
	}
	<-r.waitChan
}
