package ingest

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/pricelab/gamedeals/db"
	"github.com/pricelab/gamedeals/logging"
	"github.com/pricelab/gamedeals/shops"
)

// SteamImport grows the catalog from the public app list. Every appid is
// examined at most once across all runs; runs are capped so the store's rate
// limits are never in danger.
type SteamImport struct {
	DB  *db.DB
	API *shops.SteamAPI

	MaxGames    int           // new games per run
	DetailDelay time.Duration // pause before each details call
	PauseEvery  int           // long pause after this many calls
	Pause       time.Duration
}

// ImportSummary counts what one import run did.
type ImportSummary struct {
	Examined   int // details calls made
	Created    int // games added to the catalog
	Duplicates int // games that already existed by name
	Errors     int
}

// Run imports new games until the per-run cap is reached or the app list is
// exhausted.
func (e *SteamImport) Run(ctx context.Context) (*ImportSummary, error) {
	summary := &ImportSummary{}
	err := RunJob(ctx, e.DB, "steam:import", func(ctx context.Context) error {
		shop, err := e.DB.GetShopByName("steam")
		if err != nil {
			return err
		}
		adapter, err := shops.ForShop(shop.Name, shop.BaseURL)
		if err != nil {
			return err
		}

		apps, err := e.API.AppList(ctx)
		if err != nil {
			return err
		}
		seen, err := e.DB.SeenSteamAppIDs()
		if err != nil {
			return err
		}
		logging.Info("app list loaded", "apps", len(apps), "seen", len(seen))

		calls := 0
		for _, app := range apps {
			if err := ctx.Err(); err != nil {
				return err
			}
			if e.MaxGames > 0 && summary.Created >= e.MaxGames {
				break
			}
			if seen[app.AppID] {
				continue
			}
			// Unnamed entries are dead appids; remember them without paying
			// for a details call.
			if app.Name == "" {
				if err := e.DB.SaveSteamApp(app.AppID, "", "unnamed", ""); err != nil {
					return err
				}
				continue
			}

			if e.PauseEvery > 0 && calls > 0 && calls%e.PauseEvery == 0 {
				logging.Debug("long pause", "after_calls", calls)
				if err := sleepCtx(ctx, e.Pause); err != nil {
					return err
				}
			}
			if err := sleepCtx(ctx, e.DetailDelay); err != nil {
				return err
			}
			calls++

			details, raw, err := e.API.AppDetails(ctx, app.AppID)
			if err != nil {
				// Not marked seen: the next run retries it.
				summary.Errors++
				logging.Warn("appdetails failed", "appid", app.AppID, "error", err)
				continue
			}
			summary.Examined++

			appType := details.Type
			if appType == "" {
				appType = "unknown"
			}
			if err := e.DB.SaveSteamApp(app.AppID, details.Name, appType, raw); err != nil {
				return err
			}

			if !details.IsGame() {
				continue
			}
			if err := e.importGame(shop, adapter, details, summary); err != nil {
				return err
			}
		}

		logging.Info("import summary",
			"examined", summary.Examined,
			"created", summary.Created,
			"duplicates", summary.Duplicates,
			"errors", summary.Errors)
		return nil
	})
	return summary, err
}

// importGame creates the catalog entry, its genres and its store listing.
func (e *SteamImport) importGame(shop *db.Shop, adapter shops.Adapter, details *shops.AppDetails, summary *ImportSummary) error {
	existing, err := e.DB.GetGameByName(details.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		summary.Duplicates++
		return nil
	}

	game := &db.Game{
		Name:        details.Name,
		Description: details.ShortDescription,
		ReleaseDate: details.ReleaseDate,
		IsFree:      details.IsFree,
		OwnersCount: details.Recommendations,
	}
	gameID, err := e.DB.CreateGame(game)
	if err != nil {
		return err
	}
	if err := e.DB.AttachGenres(gameID, details.Genres); err != nil {
		return err
	}

	key := strconv.Itoa(details.AppID)
	listing := &db.Listing{
		GameID:        gameID,
		ShopID:        shop.ID,
		ExternalKey:   key,
		Name:          details.Name,
		URL:           adapter.BuildURL(key),
		ImportEnabled: true,
	}
	if _, err := e.DB.CreateListing(listing); err != nil {
		return err
	}

	summary.Created++
	logging.Info("game imported", "appid", details.AppID, "name", details.Name)
	return nil
}

// ReimportApp refreshes the stored metadata for a single appid, updating the
// existing game's popularity and genres when it is already in the catalog.
func (e *SteamImport) ReimportApp(ctx context.Context, appID int) error {
	return RunJob(ctx, e.DB, fmt.Sprintf("steam:import:%d", appID), func(ctx context.Context) error {
		shop, err := e.DB.GetShopByName("steam")
		if err != nil {
			return err
		}
		adapter, err := shops.ForShop(shop.Name, shop.BaseURL)
		if err != nil {
			return err
		}

		details, raw, err := e.API.AppDetails(ctx, appID)
		if err != nil {
			return err
		}

		appType := details.Type
		if appType == "" {
			appType = "unknown"
		}
		if err := e.DB.SaveSteamApp(appID, details.Name, appType, raw); err != nil {
			return err
		}
		if !details.IsGame() {
			logging.Info("appid is not an importable game", "appid", appID, "type", appType)
			return nil
		}

		existing, err := e.DB.GetGameByName(details.Name)
		if err != nil {
			return err
		}
		if existing == nil {
			summary := &ImportSummary{}
			return e.importGame(shop, adapter, details, summary)
		}

		if err := e.DB.SetGameOwners(existing.ID, details.Recommendations); err != nil {
			return err
		}
		return e.DB.AttachGenres(existing.ID, details.Genres)
	})
}
