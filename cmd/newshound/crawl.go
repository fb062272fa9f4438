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
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agentberlin/newshound/internal/config"
)

func runCrawl(args []string) error {
	fs := flag.NewFlagSet("crawl", flag.ExitOnError)
	category := fs.String("category", "", "Crawl only this category")
	sites := fs.Int("sites", 0, "Sources per category (0 = all)")
	pages := fs.Int("pages", 0, "Max listing pages per source (0 = configured default)")
	crawlType := fs.String("type", "", "Crawl type: full or metadata")
	fs.Usage = func() {
		fmt.Println(`Usage: newshound crawl [flags]

Run a single crawl pass over the configured sources.

Flags:`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(func(cfg *config.Config) {
		if *sites > 0 {
			cfg.Crawler.SitesPerCategory = *sites
		}
		if *pages > 0 {
			cfg.Crawler.MaxPages = *pages
		}
		if *crawlType != "" {
			cfg.Crawler.CrawlType = *crawlType
		}
	})
	if err != nil {
		return err
	}
	defer a.close()

	sources, err := a.sources(*category)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	collected, summary := a.orch.CrawlAll(ctx, sources)
	fmt.Printf("Crawled %d sources (%d failed, %d in cooldown), collected %d articles in %s\n",
		summary.Sources, summary.Failed, summary.Skipped, len(collected), summary.Elapsed.Round(time.Millisecond))
	return nil
}

// signalContext returns a context cancelled by SIGINT or SIGTERM. In-flight
// fetches are allowed to finish; only new scheduling stops.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		fmt.Println("\nShutting down gracefully...")
		cancel()
	}()

	return ctx, cancel
}
