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

func handleImportCommand(ctx context.Context, args []string) {
	database, err := openDB()
	if err != nil {
		PrintError("Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = database.Close() }()

	apiBase, storeBase := "", ""
	if sc := cfg.Shop("steam"); sc != nil {
		apiBase = sc.APIBaseURL
		storeBase = sc.BaseURL
	}

	engine := &ingest.SteamImport{
		DB:          database,
		API:         shops.NewSteamAPI(apiBase, storeBase, shops.NewFetcher(cfg.UserAgent, 30*time.Second)),
		MaxGames:    cfg.SteamImport.MaxGames,
		DetailDelay: time.Duration(cfg.SteamImport.DetailDelayMs) * time.Millisecond,
		PauseEvery:  cfg.SteamImport.PauseEvery,
		Pause:       time.Duration(cfg.SteamImport.PauseMs) * time.Millisecond,
	}

	// With an explicit appid, refresh just that entry.
	if len(args) > 0 {
		appID, err := strconv.Atoi(args[0])
		if err != nil {
			PrintError("Invalid appid: %s\n", args[0])
			os.Exit(1)
		}
		if err := engine.ReimportApp(ctx, appID); err != nil {
			PrintError("Import failed for appid %d: %v\n", appID, err)
			os.Exit(1)
		}
		PrintInfo("Reimported appid %d\n", appID)
		return
	}

	summary, err := engine.Run(ctx)
	if err != nil {
		PrintError("Import failed: %v\n", err)
		os.Exit(1)
	}

	if outputCfg.JSON {
		PrintResult(map[string]interface{}{
			"examined":   summary.Examined,
			"created":    summary.Created,
			"duplicates": summary.Duplicates,
			"errors":     summary.Errors,
		})
	} else {
		PrintInfo("Imported %d games (%d examined, %d duplicates, %d errors)\n",
			summary.Created, summary.Examined, summary.Duplicates, summary.Errors)
	}

	if err := metrics.UpdateDBMetrics(database.Conn()); err != nil {
		PrintError("Error updating metrics: %v\n", err)
	}
}
