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

package analyze

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeChatServer(t *testing.T, reply string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req["model"])

		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": reply}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestClient(t *testing.T, endpoint string) *Client {
	t.Helper()
	c, err := NewClient("", endpoint, "test-model", "test-key")
	require.NoError(t, err)
	return c
}

func TestAnalyzeParsesReply(t *testing.T) {
	reply := `{"main_topic": "Technology", "subtopics": ["AI", "Chips"], ` +
		`"key_points": ["p1", "p2"], "sentiment": "neutral", "bias": "None detected"}`
	srv := fakeChatServer(t, reply, http.StatusOK)
	defer srv.Close()

	analysis, err := newTestClient(t, srv.URL).Analyze(context.Background(), "some article body")
	require.NoError(t, err)
	assert.Equal(t, "Technology", analysis.MainTopic)
	assert.Equal(t, []string{"AI", "Chips"}, analysis.Subtopics)
	assert.Equal(t, "neutral", analysis.Sentiment)
}

func TestAnalyzeUnwrapsCodeFence(t *testing.T) {
	reply := "Here is the analysis:\n```json\n" +
		`{"main_topic": "Sports", "sentiment": "positive", "key_points": [], "bias": ""}` +
		"\n```"
	srv := fakeChatServer(t, reply, http.StatusOK)
	defer srv.Close()

	analysis, err := newTestClient(t, srv.URL).Analyze(context.Background(), "body")
	require.NoError(t, err)
	assert.Equal(t, "Sports", analysis.MainTopic)
}

func TestAnalyzeErrorsOnServerFailure(t *testing.T) {
	srv := fakeChatServer(t, "", http.StatusInternalServerError)
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Analyze(context.Background(), "body")
	assert.Error(t, err)
}

func TestAnalyzeErrorsOnNonJSONReply(t *testing.T) {
	srv := fakeChatServer(t, "I could not analyze this article.", http.StatusOK)
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Analyze(context.Background(), "body")
	assert.Error(t, err)
}

func TestNewClientKnowsProviders(t *testing.T) {
	c, err := NewClient("groq", "", "deepseek-r1-distill-llama-70b", "key")
	require.NoError(t, err)
	assert.Contains(t, c.endpoint, "groq.com")

	_, err = NewClient("mystery", "", "model", "key")
	assert.Error(t, err)
}

func TestNoopReturnsPlaceholder(t *testing.T) {
	analysis, err := Noop{}.Analyze(context.Background(), "body")
	require.NoError(t, err)
	assert.Equal(t, "Unknown", analysis.MainTopic)
	assert.Equal(t, "Analysis failed", analysis.Bias)
}
