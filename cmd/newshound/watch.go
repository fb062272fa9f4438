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

	"github.com/agentberlin/newshound/internal/config"
)

func runWatch(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	category := fs.String("category", "", "Crawl only this category")
	interval := fs.Int("interval", 0, "Minutes between crawl passes (0 = configured default)")
	fs.Usage = func() {
		fmt.Println(`Usage: newshound watch [flags]

Crawl continuously on an interval until interrupted with Ctrl-C.

Flags:`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(func(cfg *config.Config) {
		if *interval > 0 {
			cfg.Crawler.IntervalMinutes = *interval
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

	a.log.Info("starting continuous crawl",
		"interval", a.cfg.Crawler.Interval(),
		"categories", len(sources))
	a.orch.RunContinuous(ctx, sources, a.cfg.Crawler.Interval(), a.cfg.Crawler.RetryDelay())

	fmt.Printf("Stopped. Article store now holds %d articles.\n", a.articles.Count())
	return nil
}
