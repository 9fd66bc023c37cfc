package ingest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pricelab/gamedeals/db"
	"github.com/pricelab/gamedeals/logging"
	"github.com/pricelab/gamedeals/metrics"
	"github.com/pricelab/gamedeals/shops"
)

// Refresh walks a shop's enabled listings and records today's price for each
// one. A listing gets at most one snapshot per calendar day; pages that no
// longer exist or stop making sense flip the listing's import flag off so the
// next run does not pay for them again.
type Refresh struct {
	DB        *db.DB
	Fetcher   *shops.Fetcher
	Pacer     *Pacer
	BatchSize int
	Limit     int // page fetches per run, 0 means unlimited

	// Now is the clock; tests pin it.
	Now func() time.Time
}

// RefreshSummary counts what one refresh run did.
type RefreshSummary struct {
	Listings  int // enabled listings considered
	Priced    int // snapshots recorded
	Skipped   int // already snapshotted today
	Transient int // shop said "check back later"
	ZeroPrice int // page showed a zero price, not recorded
	Disabled  int // import flag flipped off
	Errors    int
}

func (e *Refresh) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Run refreshes prices for one shop.
func (e *Refresh) Run(ctx context.Context, shopName string) (*RefreshSummary, error) {
	summary := &RefreshSummary{}
	err := RunJob(ctx, e.DB, "price:refresh:"+shopName, func(ctx context.Context) error {
		shop, err := e.DB.GetShopByName(shopName)
		if err != nil {
			return err
		}
		adapter, err := shops.ForShop(shop.Name, shop.BaseURL)
		if err != nil {
			return err
		}

		listings, err := e.DB.ListingsForShop(shop.ID, true)
		if err != nil {
			return err
		}
		summary.Listings = len(listings)

		snapshotted, err := e.DB.ListingIDsSnapshottedOn(e.now())
		if err != nil {
			return err
		}

		batchSize := e.BatchSize
		if batchSize <= 0 {
			batchSize = 50
		}
		var batch []db.PriceSnapshot
		flush := func() error {
			if err := e.DB.InsertSnapshots(batch); err != nil {
				return err
			}
			batch = batch[:0]
			return nil
		}

		// Only actual page fetches count against the per-run budget. The
		// per-day skip is free, so a rerun walks past already-refreshed
		// listings and picks up where the capped run stopped.
		fetches := 0
		for _, listing := range listings {
			if err := ctx.Err(); err != nil {
				_ = flush()
				return err
			}
			if snapshotted[listing.ID] {
				summary.Skipped++
				metrics.PagesProcessed.WithLabelValues(shop.Name, "skipped").Inc()
				continue
			}

			if e.Limit > 0 && fetches >= e.Limit {
				logging.Info("fetch budget reached", "shop", shop.Name, "fetches", fetches)
				break
			}
			if err := e.Pacer.Wait(ctx); err != nil {
				_ = flush()
				return err
			}
			fetches++

			status, body, err := e.Fetcher.Get(ctx, listing.URL)
			if err != nil {
				summary.Errors++
				metrics.PagesProcessed.WithLabelValues(shop.Name, "error").Inc()
				logging.Warn("refresh fetch failed", "shop", shop.Name, "listing", listing.Name, "error", err)
				continue
			}

			if status == http.StatusNotFound || adapter.ClassifyNotFound(body, listing.Name) {
				if err := e.DB.SetImportEnabled(listing.ID, false); err != nil {
					_ = flush()
					return err
				}
				summary.Disabled++
				metrics.PagesProcessed.WithLabelValues(shop.Name, "disabled").Inc()
				logging.Info("listing page gone, import disabled", "shop", shop.Name, "listing", listing.Name)
				continue
			}

			// Availability is a display side channel; it updates even when
			// no snapshot is taken.
			if stock := adapter.StockStatus(body); stock != nil {
				params, merr := json.Marshal(shops.ExtraParams{Stock: stock})
				if merr == nil {
					if err := e.DB.SetExtraParams(listing.ID, string(params)); err != nil {
						logging.Warn("failed to store stock status", "listing", listing.Name, "error", err)
					}
				}
			}

			text, ok := adapter.ExtractPrice(body)
			if !ok {
				if err := e.DB.SetImportEnabled(listing.ID, false); err != nil {
					_ = flush()
					return err
				}
				summary.Disabled++
				metrics.PagesProcessed.WithLabelValues(shop.Name, "disabled").Inc()
				logging.Info("price block missing, import disabled", "shop", shop.Name, "listing", listing.Name)
				continue
			}

			switch c := adapter.ClassifyPrice(text); c.Kind {
			case shops.PriceTransient:
				summary.Transient++
				metrics.PagesProcessed.WithLabelValues(shop.Name, "transient").Inc()
			case shops.PriceUnknown:
				if err := e.DB.SetImportEnabled(listing.ID, false); err != nil {
					_ = flush()
					return err
				}
				summary.Disabled++
				metrics.PagesProcessed.WithLabelValues(shop.Name, "disabled").Inc()
				logging.Warn("unreadable price, import disabled",
					"shop", shop.Name, "listing", listing.Name, "text", text)
			case shops.PriceNumeric:
				if c.Value == 0 {
					summary.ZeroPrice++
					metrics.PagesProcessed.WithLabelValues(shop.Name, "skipped").Inc()
					continue
				}
				batch = append(batch, db.PriceSnapshot{
					ListingID:  listing.ID,
					Price:      c.Value,
					ObservedAt: e.now(),
				})
				summary.Priced++
				metrics.PagesProcessed.WithLabelValues(shop.Name, "priced").Inc()
				if len(batch) >= batchSize {
					if err := flush(); err != nil {
						return err
					}
				}
			}
		}

		if err := flush(); err != nil {
			return err
		}

		logging.Info("refresh summary", "shop", shop.Name,
			"listings", summary.Listings,
			"priced", summary.Priced,
			"skipped", summary.Skipped,
			"transient", summary.Transient,
			"zero_price", summary.ZeroPrice,
			"disabled", summary.Disabled,
			"errors", summary.Errors)
		return nil
	})
	return summary, err
}
