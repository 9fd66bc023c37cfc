package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Listing ties a game to its page on one shop. ExtraParams holds the shop's
// side-channel JSON (stock status and the like) verbatim.
type Listing struct {
	ID            int64
	GameID        int64
	ShopID        int64
	ExternalKey   string
	Name          string
	URL           string
	ImportEnabled bool
	ExtraParams   string
}

// CreateListing inserts a listing and returns its ID. The UNIQUE(game_id,
// shop_id) constraint surfaces as an error if the pair is already linked.
func (db *DB) CreateListing(l *Listing) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO listings (game_id, shop_id, external_key, name, url, import_enabled, extra_params)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, l.GameID, l.ShopID, nullIfEmpty(l.ExternalKey), l.Name, l.URL, l.ImportEnabled, nullIfEmpty(l.ExtraParams))
	if err != nil {
		return 0, fmt.Errorf("failed to create listing %s: %w", l.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get listing id: %w", err)
	}
	l.ID = id
	return id, nil
}

// ListingsForShop returns the shop's listings, optionally restricted to ones
// with imports enabled, ordered by ID so batches are stable across runs.
func (db *DB) ListingsForShop(shopID int64, enabledOnly bool) ([]*Listing, error) {
	query := `
		SELECT id, game_id, shop_id, external_key, name, url, import_enabled, extra_params
		FROM listings WHERE shop_id = ?
	`
	if enabledOnly {
		query += " AND import_enabled = 1"
	}
	query += " ORDER BY id"

	rows, err := db.conn.Query(query, shopID)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer rows.Close()

	var listings []*Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// LinkedGameIDs returns the set of game IDs that already have a listing on
// the shop. Discovery loads this once per run instead of probing per game.
func (db *DB) LinkedGameIDs(shopID int64) (map[int64]bool, error) {
	rows, err := db.conn.Query("SELECT game_id FROM listings WHERE shop_id = ?", shopID)
	if err != nil {
		return nil, fmt.Errorf("failed to get linked games: %w", err)
	}
	defer rows.Close()

	linked := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan game id: %w", err)
		}
		linked[id] = true
	}
	return linked, rows.Err()
}

// SetImportEnabled flips the listing's import breaker.
func (db *DB) SetImportEnabled(listingID int64, enabled bool) error {
	_, err := db.conn.Exec(`
		UPDATE listings SET import_enabled = ?, updated_at = ? WHERE id = ?
	`, enabled, time.Now().UTC().Format(timeLayout), listingID)
	if err != nil {
		return fmt.Errorf("failed to update listing %d: %w", listingID, err)
	}
	return nil
}

// SetExtraParams replaces the listing's side-channel JSON.
func (db *DB) SetExtraParams(listingID int64, extraParams string) error {
	_, err := db.conn.Exec(`
		UPDATE listings SET extra_params = ?, updated_at = ? WHERE id = ?
	`, nullIfEmpty(extraParams), time.Now().UTC().Format(timeLayout), listingID)
	if err != nil {
		return fmt.Errorf("failed to update listing params %d: %w", listingID, err)
	}
	return nil
}

// CountListings returns the total number of listings.
func (db *DB) CountListings() (int, error) {
	var n int
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM listings").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (*Listing, error) {
	l := &Listing{}
	var externalKey, extraParams sql.NullString
	if err := row.Scan(&l.ID, &l.GameID, &l.ShopID, &externalKey, &l.Name, &l.URL, &l.ImportEnabled, &extraParams); err != nil {
		return nil, fmt.Errorf("failed to scan listing: %w", err)
	}
	l.ExternalKey = externalKey.String
	l.ExtraParams = extraParams.String
	return l, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
