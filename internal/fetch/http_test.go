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
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher() *HTTPFetcher {
	f := NewHTTPFetcher(Options{UserAgent: "newshound-test/1.0", MaxRetries: 3})
	f.sleep = func(time.Duration) {}
	return f
}

func TestFetchReturnsHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "newshound-test/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer srv.Close()

	result := newTestFetcher().Fetch(context.Background(), srv.URL+"/page")
	require.True(t, result.Success, result.ErrorMessage)
	assert.Equal(t, 200, result.StatusCode)
	assert.Contains(t, result.HTML, "hello")
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("<html>recovered</html>"))
	}))
	defer srv.Close()

	result := newTestFetcher().Fetch(context.Background(), srv.URL+"/page")
	require.True(t, result.Success, result.ErrorMessage)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	result := newTestFetcher().Fetch(context.Background(), srv.URL+"/page")
	assert.False(t, result.Success)
	assert.Equal(t, http.StatusInternalServerError, result.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	result := newTestFetcher().Fetch(context.Background(), srv.URL+"/missing")
	assert.False(t, result.Success)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchRespectsRobotsTxt(t *testing.T) {
	var pageHits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
			return
		}
		pageHits.Add(1)
		w.Write([]byte("<html>content</html>"))
	}))
	defer srv.Close()

	f := newTestFetcher()

	blocked := f.Fetch(context.Background(), srv.URL+"/private/secret")
	assert.False(t, blocked.Success)
	assert.Equal(t, ErrRobotsBlocked.Error(), blocked.ErrorMessage)
	assert.Equal(t, int32(0), pageHits.Load())

	allowed := f.Fetch(context.Background(), srv.URL+"/public/story")
	assert.True(t, allowed.Success)
}

func TestFetchIgnoresRobotsWhenConfigured(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.Write([]byte("User-agent: *\nDisallow: /\n"))
			return
		}
		w.Write([]byte("<html>content</html>"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(Options{UserAgent: "newshound-test/1.0", IgnoreRobots: true})
	f.sleep = func(time.Duration) {}

	result := f.Fetch(context.Background(), srv.URL+"/anything")
	assert.True(t, result.Success)
}

func TestFetchDecodesLegacyCharset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		// "café" in Latin-1.
		w.Write([]byte{'c', 'a', 'f', 0xe9})
	}))
	defer srv.Close()

	result := newTestFetcher().Fetch(context.Background(), srv.URL+"/page")
	require.True(t, result.Success, result.ErrorMessage)
	assert.Equal(t, "café", result.HTML)
}

func TestFetchRejectsNonHTTPURL(t *testing.T) {
	result := newTestFetcher().Fetch(context.Background(), "ftp://example.com/file")
	assert.False(t, result.Success)
}

func TestLimitRuleRequiresPattern(t *testing.T) {
	rule := &LimitRule{}
	assert.ErrorIs(t, rule.Init(), ErrNoPattern)
}

func TestLimitRuleMatchesGlob(t *testing.T) {
	rule := &LimitRule{DomainGlob: "*.example.com"}
	require.NoError(t, rule.Init())
	assert.True(t, rule.Match("news.example.com"))
	assert.False(t, rule.Match("example.org"))
}
