package db

import (
	"fmt"
	"time"
)

// SetProbeVerdict records whether a slug resolved to a product page on the
// shop. Verdicts are permanent: a later probe for the same slug overwrites
// rather than duplicates.
func (db *DB) SetProbeVerdict(shopID int64, slug string, notFound bool) error {
	_, err := db.conn.Exec(`
		INSERT INTO probe_cache (shop_id, slug, not_found, checked_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(shop_id, slug) DO UPDATE SET
			not_found = excluded.not_found,
			checked_at = excluded.checked_at
	`, shopID, slug, notFound, time.Now().UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to record probe verdict for %s: %w", slug, err)
	}
	return nil
}

// ProbeVerdicts loads all recorded verdicts for a shop as slug -> not_found.
// Discovery reads the whole map once per run.
func (db *DB) ProbeVerdicts(shopID int64) (map[string]bool, error) {
	rows, err := db.conn.Query("SELECT slug, not_found FROM probe_cache WHERE shop_id = ?", shopID)
	if err != nil {
		return nil, fmt.Errorf("failed to load probe cache: %w", err)
	}
	defer rows.Close()

	verdicts := make(map[string]bool)
	for rows.Next() {
		var slug string
		var notFound bool
		if err := rows.Scan(&slug, &notFound); err != nil {
			return nil, fmt.Errorf("failed to scan probe verdict: %w", err)
		}
		verdicts[slug] = notFound
	}
	return verdicts, rows.Err()
}
