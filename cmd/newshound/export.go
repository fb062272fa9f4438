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

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kennygrant/sanitize"

	"github.com/agentberlin/newshound/internal/models"
)

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	output := fs.String("output", ".", "Output directory for JSON files")
	fs.StringVar(output, "o", ".", "Output directory (shorthand)")
	category := fs.String("category", "", "Export only this category")
	fs.Usage = func() {
		fmt.Println(`Usage: newshound export [flags]

Export stored articles to one JSON file per category.

Flags:`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if err := os.MkdirAll(*output, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %v", err)
	}

	byCategory := make(map[string][]models.Article)
	for _, article := range a.articles.All() {
		cat := article.Category
		if cat == "" {
			cat = "uncategorized"
		}
		if *category != "" && cat != *category {
			continue
		}
		byCategory[cat] = append(byCategory[cat], article)
	}
	if len(byCategory) == 0 {
		return fmt.Errorf("no articles to export")
	}

	for cat, items := range byCategory {
		name := fmt.Sprintf("articles_%s.json", sanitize.BaseName(cat))
		path := filepath.Join(*output, name)

		payload, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal %s articles: %v", cat, err)
		}
		if err := os.WriteFile(path, payload, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %v", path, err)
		}
		fmt.Printf("Exported %d articles to %s\n", len(items), path)
	}
	return nil
}
