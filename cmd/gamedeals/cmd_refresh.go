package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/pricelab/gamedeals/ingest"
	"github.com/pricelab/gamedeals/metrics"
	"github.com/pricelab/gamedeals/shops"
)

func handleRefreshCommand(ctx context.Context, args []string) {
	target := args[0]

	limit := 0
	for i := 1; i < len(args); i++ {
		if args[i] == "--limit" && i+1 < len(args) {
			n, err := strconv.Atoi(args[i+1])
			if err != nil {
				PrintError("Invalid --limit value: %s\n", args[i+1])
				os.Exit(1)
			}
			limit = n
			i++
		}
	}

	database, err := openDB()
	if err != nil {
		PrintError("Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = database.Close() }()

	names := []string{target}
	if target == "all" {
		names = nil
		for _, s := range cfg.Shops {
			names = append(names, s.Name)
		}
	}

	for _, name := range names {
		runLimit := limit
		if runLimit == 0 {
			if sc := cfg.Shop(name); sc != nil {
				runLimit = sc.RefreshLimit
			}
		}

		engine := &ingest.Refresh{
			DB:        database,
			Fetcher:   shops.NewFetcher(cfg.UserAgent, 30*time.Second),
			Pacer:     ingest.NewPacer(cfg.Refresh.DelayMinMs, cfg.Refresh.DelayMaxMs),
			BatchSize: cfg.Refresh.BatchSize,
			Limit:     runLimit,
		}

		summary, err := engine.Run(ctx, name)
		if err != nil {
			PrintError("Refresh failed for %s: %v\n", name, err)
			os.Exit(1)
		}
		if outputCfg.JSON {
			PrintResult(map[string]interface{}{
				"shop":      name,
				"listings":  summary.Listings,
				"priced":    summary.Priced,
				"skipped":   summary.Skipped,
				"transient": summary.Transient,
				"zeroPrice": summary.ZeroPrice,
				"disabled":  summary.Disabled,
				"errors":    summary.Errors,
			})
		} else {
			PrintInfo("%s: priced %d, skipped %d, transient %d, disabled %d, errors %d\n",
				name, summary.Priced, summary.Skipped, summary.Transient, summary.Disabled, summary.Errors)
		}
	}

	if err := metrics.UpdateDBMetrics(database.Conn()); err != nil {
		PrintError("Error updating metrics: %v\n", err)
	}
}
