// Package ingest holds the jobs that fill the database: shop listing
// discovery, daily price refresh and the catalog import.
package ingest

import (
	"context"
	"runtime"
	"time"

	"github.com/pricelab/gamedeals/db"
	"github.com/pricelab/gamedeals/logging"
	"github.com/pricelab/gamedeals/metrics"
	"github.com/pricelab/gamedeals/tracing"
)

// RunJob wraps a job body with the run log bracket: a run_logs row is opened
// before the body executes and closed on every exit path, so an aborted run
// still leaves a complete record.
func RunJob(ctx context.Context, database *db.DB, jobName string, fn func(context.Context) error) error {
	ctx, span := tracing.StartSpan(ctx, jobName)
	defer span.End()

	start := time.Now()
	runID, err := database.StartRun(jobName, start)
	if err != nil {
		return err
	}
	logging.Info("job started", "job", jobName)

	defer func() {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		peakMB := float64(ms.Sys) / (1024 * 1024)

		if ferr := database.FinishRun(runID, time.Now(), time.Since(start), peakMB); ferr != nil {
			logging.Error("failed to close run log", "job", jobName, "error", ferr)
		}
		metrics.RecordJobDuration(jobName, start)
		logging.Info("job finished", "job", jobName,
			"duration", time.Since(start).Round(time.Millisecond),
			"peak_memory_mb", int(peakMB))
	}()

	if err := fn(ctx); err != nil {
		tracing.RecordError(span, err)
		return err
	}
	tracing.SetSpanOK(span)
	return nil
}
