package ingest

import (
	"context"
	"net/http"

	"github.com/pricelab/gamedeals/db"
	"github.com/pricelab/gamedeals/logging"
	"github.com/pricelab/gamedeals/metrics"
	"github.com/pricelab/gamedeals/shops"
)

// Discovery probes a shop for pages of catalog games that have no listing
// there yet. Verdicts are cached permanently, so each game costs the shop at
// most one probe ever.
type Discovery struct {
	DB       *db.DB
	Fetcher  *shops.Fetcher
	Pacer    *Pacer
	MaxLinks int // network probes per run, 0 means unlimited
}

// DiscoverySummary counts what one discovery run did.
type DiscoverySummary struct {
	Games         int // unlinked games considered
	Linked        int // listings created
	NotFound      int // probes that hit the shop's missing page
	Cached        int // skipped on a cached not-found verdict
	Unslugifiable int // titles that produce no probe key
	Errors        int
}

// Run discovers listings for one shop. The job aborts if the shop was never
// seeded.
func (e *Discovery) Run(ctx context.Context, shopName string) (*DiscoverySummary, error) {
	summary := &DiscoverySummary{}
	err := RunJob(ctx, e.DB, "shop:discover:"+shopName, func(ctx context.Context) error {
		shop, err := e.DB.GetShopByName(shopName)
		if err != nil {
			return err
		}
		adapter, err := shops.ForShop(shop.Name, shop.BaseURL)
		if err != nil {
			return err
		}

		games, err := e.DB.ListGames()
		if err != nil {
			return err
		}
		linked, err := e.DB.LinkedGameIDs(shop.ID)
		if err != nil {
			return err
		}
		verdicts, err := e.DB.ProbeVerdicts(shop.ID)
		if err != nil {
			return err
		}

		probes := 0
		for _, game := range games {
			if err := ctx.Err(); err != nil {
				return err
			}
			if linked[game.ID] {
				continue
			}
			summary.Games++

			key := adapter.LinkKey(game.Name)
			if key == "" {
				summary.Unslugifiable++
				continue
			}
			if notFound, known := verdicts[key]; known && notFound {
				summary.Cached++
				metrics.PagesProcessed.WithLabelValues(shop.Name, "skipped").Inc()
				continue
			}

			if e.MaxLinks > 0 && probes >= e.MaxLinks {
				logging.Info("probe budget reached", "shop", shop.Name, "probes", probes)
				break
			}
			if err := e.Pacer.Wait(ctx); err != nil {
				return err
			}
			probes++

			url := adapter.BuildURL(key)
			status, body, err := e.Fetcher.Get(ctx, url)
			if err != nil {
				summary.Errors++
				metrics.PagesProcessed.WithLabelValues(shop.Name, "error").Inc()
				logging.Warn("probe failed", "shop", shop.Name, "game", game.Name, "error", err)
				continue
			}

			if status == http.StatusNotFound || adapter.ClassifyNotFound(body, game.Name) {
				if err := e.DB.SetProbeVerdict(shop.ID, key, true); err != nil {
					return err
				}
				summary.NotFound++
				metrics.PagesProcessed.WithLabelValues(shop.Name, "not_found").Inc()
				continue
			}

			listing := &db.Listing{
				GameID:        game.ID,
				ShopID:        shop.ID,
				ExternalKey:   key,
				Name:          game.Name,
				URL:           url,
				ImportEnabled: true,
			}
			if _, err := e.DB.CreateListing(listing); err != nil {
				summary.Errors++
				logging.Warn("failed to create listing", "shop", shop.Name, "game", game.Name, "error", err)
				continue
			}
			if err := e.DB.SetProbeVerdict(shop.ID, key, false); err != nil {
				return err
			}
			summary.Linked++
			metrics.PagesProcessed.WithLabelValues(shop.Name, "linked").Inc()
			logging.Debug("listing linked", "shop", shop.Name, "game", game.Name, "url", url)
		}

		logging.Info("discovery summary", "shop", shop.Name,
			"considered", summary.Games,
			"linked", summary.Linked,
			"not_found", summary.NotFound,
			"cached", summary.Cached,
			"unslugifiable", summary.Unslugifiable,
			"errors", summary.Errors)
		return nil
	})
	return summary, err
}
