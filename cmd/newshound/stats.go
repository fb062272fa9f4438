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
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"
)

func runStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	domains := fs.Bool("domains", false, "Include per-domain crawl statistics")
	fs.Usage = func() {
		fmt.Println(`Usage: newshound stats [flags]

Show article store statistics.

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

	fmt.Print(a.articles.Stats().String())

	cached, err := a.cache.CachedURLCount()
	if err != nil {
		return err
	}
	fmt.Printf("Cached URLs: %d\n", cached)

	if !*domains {
		return nil
	}

	stats, err := a.cache.AllDomainStats()
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No domain statistics yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DOMAIN\tLAST CRAWL\tSUCCESS\tERRORS\tAVG ARTICLES")
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.1f\n",
			s.Domain, time.Unix(s.LastCrawl, 0).Format("2006-01-02 15:04"), s.SuccessCount, s.ErrorCount, s.AvgArticles)
	}
	return w.Flush()
}

func runDedupe(args []string) error {
	fs := flag.NewFlagSet("dedupe", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Println(`Usage: newshound dedupe

Rewrite the article store keeping one record per URL.`)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	removed, err := a.articles.Dedupe()
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d duplicate rows, %d articles remain.\n", removed, a.articles.Count())
	return nil
}
