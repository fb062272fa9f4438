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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreComplete(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 10, cfg.Crawler.Concurrency)
	assert.Equal(t, 60, cfg.Crawler.DomainTimeoutMinutes)
	assert.Equal(t, 5, cfg.Crawler.BackoffCap)
	assert.Equal(t, 2, cfg.Crawler.MinDelaySeconds)
	assert.Equal(t, 5, cfg.Crawler.MaxDelaySeconds)
	assert.Equal(t, 30, cfg.Crawler.RetentionDays)
	assert.Equal(t, "http", cfg.Fetch.Mode)
	assert.NotEmpty(t, cfg.Sources)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "newshound.yaml")
	content := `
crawler:
  concurrency: 3
  maxPages: 4
fetch:
  mode: browser
sources:
  sports:
    - https://sports.example.com
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("NEWSHOUND_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Crawler.Concurrency)
	assert.Equal(t, 4, cfg.Crawler.MaxPages)
	// Untouched fields keep defaults.
	assert.Equal(t, 60, cfg.Crawler.DomainTimeoutMinutes)
	assert.Equal(t, "browser", cfg.Fetch.Mode)
	assert.Equal(t, []string{"https://sports.example.com"}, cfg.Sources["sports"])
	_, hasGeneral := cfg.Sources["general"]
	assert.False(t, hasGeneral, "file sources replace the default table")
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("NEWSHOUND_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().Crawler, cfg.Crawler)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NEWSHOUND_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("NEWSHOUND_DB_PATH", "/tmp/x.db")
	t.Setenv("NEWSHOUND_ARTICLES_PATH", "/tmp/a.csv")
	t.Setenv("NEWSHOUND_LLM_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.Database.Path)
	assert.Equal(t, "/tmp/a.csv", cfg.Articles.Path)
	assert.Equal(t, "sk-test", cfg.Analyze.APIKey)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n\t- nope"), 0644))
	t.Setenv("NEWSHOUND_CONFIG", path)

	_, err := Load()
	assert.Error(t, err)
}
