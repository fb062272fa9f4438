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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/agentberlin/newshound/internal/models"
)

// maxContentChars bounds the prompt size; news article bodies can run to
// tens of thousands of characters.
const maxContentChars = 2000

const systemPrompt = "You are a news analysis assistant. " +
	"Respond with a single JSON object and nothing else."

// Endpoints for known OpenAI-compatible providers.
var providerEndpoints = map[string]string{
	"openai":   "https://api.openai.com/v1/chat/completions",
	"deepseek": "https://api.deepseek.com/chat/completions",
	"groq":     "https://api.groq.com/openai/v1/chat/completions",
}

// Client implements Analyzer against an OpenAI-compatible chat completions
// endpoint.
type Client struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a chat API client. A known provider name supplies the
// endpoint; an explicit endpoint overrides it.
func NewClient(provider, endpoint, model, apiKey string) (*Client, error) {
	if endpoint == "" {
		endpoint = providerEndpoints[provider]
	}
	if endpoint == "" {
		return nil, fmt.Errorf("unknown analysis provider %q and no endpoint given", provider)
	}
	if model == "" {
		return nil, fmt.Errorf("analysis model is required")
	}
	return &Client{
		endpoint: endpoint,
		model:    model,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Analyze sends the article content for labeling and parses the JSON reply.
func (c *Client) Analyze(ctx context.Context, content string) (*models.Analysis, error) {
	if len(content) > maxContentChars {
		content = content[:maxContentChars] + "..."
	}

	prompt := "Analyze this article content and provide:\n" +
		"1. Main topic\n" +
		"2. Subtopics (list)\n" +
		"3. Overall sentiment (positive, negative, or neutral)\n" +
		"4. Key points (up to 3)\n" +
		"5. Any potential bias\n\n" +
		"Reply with JSON: {\"main_topic\": string, \"subtopics\": [string], " +
		"\"key_points\": [string], \"sentiment\": string, \"bias\": string}\n\n" +
		"Content: " + content

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal analysis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("analysis error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode analysis response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("analysis response has no choices")
	}

	analysis, err := parseAnalysis(parsed.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	return analysis, nil
}

// parseAnalysis extracts the JSON object from a reply that may wrap it in
// markdown code fences or reasoning text.
func parseAnalysis(reply string) (*models.Analysis, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in analysis reply")
	}

	var analysis models.Analysis
	if err := json.Unmarshal([]byte(reply[start:end+1]), &analysis); err != nil {
		return nil, fmt.Errorf("parse analysis JSON: %w", err)
	}
	if analysis.MainTopic == "" {
		return nil, fmt.Errorf("analysis reply missing main_topic")
	}
	return &analysis, nil
}
