package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/baggage"

	"github.com/pricelab/gamedeals/config"
	"github.com/pricelab/gamedeals/db"
	"github.com/pricelab/gamedeals/logging"
	"github.com/pricelab/gamedeals/tracing"
)

var cfg *config.Config

func main() {
	ctx := context.Background()

	// A .env next to the binary is the easiest way to point GAMEDEALS_DB
	// somewhere else during development.
	_ = godotenv.Load()

	// Set global baggage
	m, _ := baggage.NewMember("app.version", "1.0.0")
	b, _ := baggage.New(m)
	ctx = baggage.ContextWithBaggage(ctx, b)

	// Load config
	var err error
	cfg, err = config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	// Setup Logging
	logging.Setup(logging.Config{
		Format: cfg.Logging.Format,
		Level:  cfg.Logging.Level,
	})

	// Setup Tracing
	shutdown, err := tracing.Setup(ctx, tracing.DefaultConfig())
	if err != nil {
		logging.Error("failed to setup tracing", "error", err)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			logging.Error("failed to shutdown tracing", "error", err)
		}
	}()

	// Parse global flags (--json, --quiet)
	args := parseGlobalFlags(os.Args[1:])

	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "shops":
		if len(args) < 2 {
			fmt.Println("Usage: gamedeals shops <command>")
			fmt.Println("Commands: seed, list")
			os.Exit(1)
		}
		handleShopsCommand(args[1:])
	case "discover":
		if len(args) < 2 {
			fmt.Println("Usage: gamedeals discover <shop>|all")
			os.Exit(1)
		}
		handleDiscoverCommand(ctx, args[1:])
	case "refresh":
		if len(args) < 2 {
			fmt.Println("Usage: gamedeals refresh <shop>|all [--limit n]")
			os.Exit(1)
		}
		handleRefreshCommand(ctx, args[1:])
	case "import":
		handleImportCommand(ctx, args[1:])
	case "prices":
		if len(args) < 2 {
			fmt.Println("Usage: gamedeals prices <game>")
			fmt.Println("       gamedeals prices cheapest [n]")
			os.Exit(1)
		}
		handlePricesCommand(args[1:])
	case "runs":
		handleRunsCommand(args[1:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("gamedeals - game price tracker")
	fmt.Println()
	fmt.Println("Usage: gamedeals [global options] <command> [options]")
	fmt.Println()
	fmt.Println("Global Options:")
	fmt.Println("  --json                        Output in JSON format")
	fmt.Println("  --quiet, -q                   Suppress non-error output")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  shops seed                    Seed shops from configuration")
	fmt.Println("  shops list                    List configured shops")
	fmt.Println("  discover <shop>|all           Find shop pages for catalog games")
	fmt.Println("  refresh <shop>|all [--limit]  Record today's prices")
	fmt.Println("  import [appid]                Import games from the Steam catalog")
	fmt.Println("  prices <game>                 Latest price per shop for a game")
	fmt.Println("  prices cheapest [n]           Today's best deals")
	fmt.Println("  runs [n]                      Show recent job runs")
	fmt.Println("  help                          Show this help")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  GAMEDEALS_DB                  Database path (default: gamedeals.db)")
	fmt.Println("  GAMEDEALS_CONFIG              Explicit config file path")
}

func openDB() (*db.DB, error) {
	return db.Open(cfg.GetDBPath())
}
