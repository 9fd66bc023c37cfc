package db

import (
	"database/sql"
	"fmt"
	"time"
)

// RunLog records one job execution: when it started, when it ended, and how
// much memory it peaked at. A row with no finished_at is a run that crashed
// hard enough to skip its own cleanup.
type RunLog struct {
	ID           int64
	JobName      string
	StartedAt    time.Time
	FinishedAt   time.Time
	Duration     time.Duration
	PeakMemoryMB float64
}

// StartRun opens a run log row and returns its ID.
func (db *DB) StartRun(jobName string, startedAt time.Time) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO run_logs (job_name, started_at) VALUES (?, ?)
	`, jobName, startedAt.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("failed to start run log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run log id: %w", err)
	}
	return id, nil
}

// FinishRun closes a run log row.
func (db *DB) FinishRun(runID int64, finishedAt time.Time, duration time.Duration, peakMemoryMB float64) error {
	_, err := db.conn.Exec(`
		UPDATE run_logs SET finished_at = ?, duration_seconds = ?, peak_memory_mb = ?
		WHERE id = ?
	`, finishedAt.UTC().Format(timeLayout), duration.Seconds(), peakMemoryMB, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run log: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]*RunLog, error) {
	rows, err := db.conn.Query(`
		SELECT id, job_name, started_at, finished_at, duration_seconds, peak_memory_mb
		FROM run_logs ORDER BY started_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*RunLog
	for rows.Next() {
		r := &RunLog{}
		var started string
		var finished sql.NullString
		var seconds, peak sql.NullFloat64
		if err := rows.Scan(&r.ID, &r.JobName, &started, &finished, &seconds, &peak); err != nil {
			return nil, fmt.Errorf("failed to scan run log: %w", err)
		}
		if t, perr := time.Parse(timeLayout, started); perr == nil {
			r.StartedAt = t
		}
		if finished.Valid {
			if t, perr := time.Parse(timeLayout, finished.String); perr == nil {
				r.FinishedAt = t
			}
		}
		r.Duration = time.Duration(seconds.Float64 * float64(time.Second))
		r.PeakMemoryMB = peak.Float64
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
