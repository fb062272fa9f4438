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

// Newshound CLI
//
// Command-line interface for the newshound news crawler. Crawls configured
// news sources, deduplicates against the persistent cache, and appends
// articles to a CSV store.
//
// Usage:
//
//	newshound <command> [flags]
//
// Commands:
//
//	crawl     Run a single crawl pass over the configured sources
//	watch     Crawl continuously on an interval until interrupted
//	export    Export stored articles to JSON files per category
//	stats     Show article store and domain statistics
//	dedupe    Remove duplicate rows from the article store
//	version   Show version information
package main

import (
	"fmt"
	"os"

	"github.com/agentberlin/newshound/internal/version"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "crawl":
		if err := runCrawl(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "watch":
		if err := runWatch(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "export":
		if err := runExport(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "stats":
		if err := runStats(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "dedupe":
		if err := runDedupe(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version", "-v", "--version":
		fmt.Printf("newshound %s\n", version.CurrentVersion)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`newshound - news crawler with persistent deduplication

Usage:
  newshound <command> [flags]

Commands:
  crawl     Run a single crawl pass over the configured sources
  watch     Crawl continuously on an interval until interrupted
  export    Export stored articles to JSON files per category
  stats     Show article store and domain statistics
  dedupe    Remove duplicate rows from the article store
  version   Show version information
  help      Show this help message

Examples:
  # Single crawl pass over every configured source
  newshound crawl

  # Only the technology category, two sources per category
  newshound crawl -category technology -sites 2

  # Continuous crawling every 30 minutes
  newshound watch -interval 30

  # Export articles as JSON
  newshound export -o ./out`)
}
