package main

import (
	"context"
	"os"
	"time"

	"github.com/pricelab/gamedeals/ingest"
	"github.com/pricelab/gamedeals/metrics"
	"github.com/pricelab/gamedeals/shops"
)

func handleDiscoverCommand(ctx context.Context, args []string) {
	database, err := openDB()
	if err != nil {
		PrintError("Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = database.Close() }()

	engine := &ingest.Discovery{
		DB:       database,
		Fetcher:  shops.NewFetcher(cfg.UserAgent, 30*time.Second),
		Pacer:    ingest.NewPacer(cfg.Discovery.DelayMinMs, cfg.Discovery.DelayMaxMs),
		MaxLinks: cfg.Discovery.MaxLinks,
	}

	names := []string{args[0]}
	if args[0] == "all" {
		names = nil
		for _, s := range cfg.Shops {
			// Steam listings come from the catalog import, not page probing.
			if s.Name == "steam" {
				continue
			}
			names = append(names, s.Name)
		}
	}

	for _, name := range names {
		summary, err := engine.Run(ctx, name)
		if err != nil {
			PrintError("Discovery failed for %s: %v\n", name, err)
			os.Exit(1)
		}
		if outputCfg.JSON {
			PrintResult(map[string]interface{}{
				"shop":          name,
				"considered":    summary.Games,
				"linked":        summary.Linked,
				"notFound":      summary.NotFound,
				"cached":        summary.Cached,
				"unslugifiable": summary.Unslugifiable,
				"errors":        summary.Errors,
			})
		} else {
			PrintInfo("%s: linked %d, not found %d, cached %d, errors %d\n",
				name, summary.Linked, summary.NotFound, summary.Cached, summary.Errors)
		}
	}

	if err := metrics.UpdateDBMetrics(database.Conn()); err != nil {
		PrintError("Error updating metrics: %v\n", err)
	}
}
