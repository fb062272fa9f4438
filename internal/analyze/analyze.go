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

// Package analyze enriches article content with topic, sentiment, and bias
// labels from an OpenAI-compatible chat API. Analysis failures never fail a
// crawl: callers fall back to the placeholder analysis and keep the article.
package analyze

import (
	"context"

	"github.com/agentberlin/newshound/internal/models"
)

// Analyzer labels article content.
type Analyzer interface {
	Analyze(ctx context.Context, content string) (*models.Analysis, error)
}

// Noop is used when no provider is configured. Every article gets the
// placeholder analysis.
type Noop struct{}

func (Noop) Analyze(ctx context.Context, content string) (*models.Analysis, error) {
	return models.PlaceholderAnalysis(), nil
}
