package metrics

import (
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Gauges
	GamesTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gamedeals_games_total",
		Help: "Total number of games in the catalog.",
	})
	ListingsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gamedeals_listings_total",
		Help: "Total number of shop listings.",
	})
	SnapshotsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gamedeals_price_snapshots_total",
		Help: "Total number of recorded price snapshots.",
	})
	ShopsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gamedeals_shops_total",
		Help: "Total number of configured shops.",
	})

	// Job Performance
	JobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gamedeals_job_duration_seconds",
		Help:    "Duration of ingest jobs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})

	PagesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gamedeals_pages_processed_total",
		Help: "Total number of shop pages processed during ingest runs.",
	}, []string{"shop", "outcome"}) // outcome: linked, not_found, priced, skipped, transient, disabled, error
)

// UpdateDBMetrics refreshes gauges that reflect the current state of the database.
func UpdateDBMetrics(db *sql.DB) error {
	var games, listings, snapshots, shops int

	if err := db.QueryRow("SELECT COUNT(*) FROM games").Scan(&games); err != nil {
		return err
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM listings").Scan(&listings); err != nil {
		return err
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM price_snapshots").Scan(&snapshots); err != nil {
		return err
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM shops").Scan(&shops); err != nil {
		return err
	}

	GamesTotal.Set(float64(games))
	ListingsTotal.Set(float64(listings))
	SnapshotsTotal.Set(float64(snapshots))
	ShopsTotal.Set(float64(shops))

	return nil
}

// RecordJobDuration records the time taken for one ingest job run.
func RecordJobDuration(job string, start time.Time) {
	JobDuration.WithLabelValues(job).Observe(time.Since(start).Seconds())
}
