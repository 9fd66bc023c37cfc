package db

import (
	"database/sql"
	"fmt"
	"time"
)

// PriceSnapshot is one observed price for a listing. Rows are append-only.
type PriceSnapshot struct {
	ListingID  int64
	Price      float64
	ObservedAt time.Time
}

// InsertSnapshots writes a batch of snapshots in one transaction.
func (db *DB) InsertSnapshots(snapshots []PriceSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO price_snapshots (listing_id, price, observed_at) VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range snapshots {
		if _, err := stmt.Exec(s.ListingID, s.Price, s.ObservedAt.UTC().Format(timeLayout)); err != nil {
			return fmt.Errorf("failed to insert snapshot for listing %d: %w", s.ListingID, err)
		}
	}

	return tx.Commit()
}

// ListingIDsSnapshottedOn returns the listings that already have a snapshot
// on the given calendar day. Refresh runs load this once up front to keep
// the history at one row per listing per day.
func (db *DB) ListingIDsSnapshottedOn(day time.Time) (map[int64]bool, error) {
	rows, err := db.conn.Query(`
		SELECT DISTINCT listing_id FROM price_snapshots WHERE date(observed_at) = ?
	`, day.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshotted listings: %w", err)
	}
	defer rows.Close()

	seen := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan listing id: %w", err)
		}
		seen[id] = true
	}
	return seen, rows.Err()
}

// PriceHistory returns all snapshots for a listing, oldest first.
func (db *DB) PriceHistory(listingID int64) ([]PriceSnapshot, error) {
	rows, err := db.conn.Query(`
		SELECT listing_id, price, observed_at FROM price_snapshots
		WHERE listing_id = ? ORDER BY observed_at
	`, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get price history: %w", err)
	}
	defer rows.Close()

	var history []PriceSnapshot
	for rows.Next() {
		var s PriceSnapshot
		var observed string
		if err := rows.Scan(&s.ListingID, &s.Price, &observed); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		if t, perr := time.Parse(timeLayout, observed); perr == nil {
			s.ObservedAt = t
		}
		history = append(history, s)
	}
	return history, rows.Err()
}

// GamePrice is the read-surface row: a game's latest known price at one shop.
type GamePrice struct {
	GameName   string
	ShopName   string
	Price      float64
	ObservedAt time.Time
}

// LatestPrices returns the most recent snapshot per listing for a game,
// cheapest first.
func (db *DB) LatestPrices(gameName string) ([]GamePrice, error) {
	rows, err := db.conn.Query(`
		SELECT g.name, s.name, ps.price, MAX(ps.observed_at)
		FROM price_snapshots ps
		JOIN listings l ON l.id = ps.listing_id
		JOIN games g ON g.id = l.game_id
		JOIN shops s ON s.id = l.shop_id
		WHERE g.name = ?
		GROUP BY ps.listing_id
		ORDER BY ps.price
	`, gameName)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest prices: %w", err)
	}
	defer rows.Close()

	return scanGamePrices(rows)
}

// CheapestToday returns today's lowest observed price per game, ascending.
func (db *DB) CheapestToday(limit int) ([]GamePrice, error) {
	rows, err := db.conn.Query(`
		SELECT g.name, s.name, MIN(ps.price), ps.observed_at
		FROM price_snapshots ps
		JOIN listings l ON l.id = ps.listing_id
		JOIN games g ON g.id = l.game_id
		JOIN shops s ON s.id = l.shop_id
		WHERE date(ps.observed_at) = date('now')
		GROUP BY g.id
		ORDER BY MIN(ps.price)
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get cheapest prices: %w", err)
	}
	defer rows.Close()

	return scanGamePrices(rows)
}

// CountSnapshots returns the total number of price snapshots.
func (db *DB) CountSnapshots() (int, error) {
	var n int
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM price_snapshots").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return n, nil
}

func scanGamePrices(rows *sql.Rows) ([]GamePrice, error) {
	var prices []GamePrice
	for rows.Next() {
		var p GamePrice
		var observed string
		if err := rows.Scan(&p.GameName, &p.ShopName, &p.Price, &observed); err != nil {
			return nil, fmt.Errorf("failed to scan price row: %w", err)
		}
		if t, perr := time.Parse(timeLayout, observed); perr == nil {
			p.ObservedAt = t
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}
