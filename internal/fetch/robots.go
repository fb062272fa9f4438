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
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// ErrRobotsBlocked is returned when robots.txt disallows a URL for our
// user agent.
var ErrRobotsBlocked = errors.New("URL blocked by robots.txt")

// Robots caches one parsed robots.txt per host. A host whose robots.txt
// cannot be fetched or parsed is treated as allowing everything.
type Robots struct {
	client    *http.Client
	userAgent string
	ignore    bool

	mu    sync.Mutex
	hosts map[string]*robotstxt.RobotsData
}

// NewRobots builds a robots.txt gate. With ignore set, Allowed always
// reports true.
func NewRobots(client *http.Client, userAgent string, ignore bool) *Robots {
	if client == nil {
		client = http.DefaultClient
	}
	return &Robots{
		client:    client,
		userAgent: userAgent,
		ignore:    ignore,
		hosts:     make(map[string]*robotstxt.RobotsData),
	}
}

// Allowed reports whether robots.txt permits fetching the URL.
func (r *Robots) Allowed(rawURL string) bool {
	if r.ignore {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	data := r.dataForHost(u.Scheme + "://" + u.Host)
	if data == nil {
		return true
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	return data.TestAgent(path, r.userAgent)
}

func (r *Robots) dataForHost(origin string) *robotstxt.RobotsData {
	r.mu.Lock()
	defer r.mu.Unlock()

	if data, ok := r.hosts[origin]; ok {
		return data
	}

	data := r.fetchLocked(origin)
	r.hosts[origin] = data
	return data
}

// fetchLocked downloads and parses robots.txt, returning nil on any
// failure so the host defaults to allowed.
func (r *Robots) fetchLocked(origin string) *robotstxt.RobotsData {
	resp, err := r.client.Get(origin + "/robots.txt")
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil
	}
	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return nil
	}
	return data
}
