// Package db wraps the sqlite store holding the catalog, listings, price
// history, probe cache and run logs.
package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/XSAM/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	_ "modernc.org/sqlite"
)

// timeLayout is the storage format for every datetime column, chosen so
// sqlite's date() works on the values directly.
const timeLayout = "2006-01-02 15:04:05"

// ErrShopNotFound means a job was asked to run for a shop that was never
// seeded. This is a configuration error: the run must abort.
var ErrShopNotFound = errors.New("shop not found")

// DB wraps a sqlite connection with the price tracker schema.
type DB struct {
	conn *sql.DB
	path string
}

// Open opens or creates the database at path and migrates it to the current
// schema version. The connection is instrumented for tracing.
func Open(path string) (*DB, error) {
	conn, err := otelsql.Open("sqlite", path,
		otelsql.WithAttributes(semconv.DBSystemSqlite))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db := &DB{conn: conn, path: path}
	if err := db.migrate(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// migrate runs database migrations up to the current schema version.
func (db *DB) migrate() error {
	if _, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var version int
	err := db.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	if version < 1 {
		if err := db.migrateV1(); err != nil {
			return err
		}
	}
	if version < 2 {
		if err := db.migrateV2(); err != nil {
			return err
		}
	}
	if version < 3 {
		if err := db.migrateV3(); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the initial schema.
func (db *DB) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS shops (
			id INTEGER PRIMARY KEY,
			name TEXT UNIQUE NOT NULL,
			base_url TEXT NOT NULL,
			description TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS games (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			release_date TEXT,
			is_free INTEGER NOT NULL DEFAULT 0,
			owners_count INTEGER,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME
		);

		CREATE INDEX IF NOT EXISTS idx_games_name ON games(name);

		CREATE TABLE IF NOT EXISTS genres (
			id INTEGER PRIMARY KEY,
			name TEXT UNIQUE NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS game_genres (
			game_id INTEGER NOT NULL,
			genre_id INTEGER NOT NULL,
			UNIQUE(game_id, genre_id),
			FOREIGN KEY(game_id) REFERENCES games(id) ON DELETE CASCADE,
			FOREIGN KEY(genre_id) REFERENCES genres(id) ON DELETE CASCADE
		);

		-- One listing per (game, shop) pair; the unique index is the
		-- invariant discovery relies on.
		CREATE TABLE IF NOT EXISTS listings (
			id INTEGER PRIMARY KEY,
			game_id INTEGER NOT NULL,
			shop_id INTEGER NOT NULL,
			external_key TEXT,
			name TEXT NOT NULL,
			url TEXT NOT NULL,
			import_enabled INTEGER NOT NULL DEFAULT 1,
			extra_params TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME,
			UNIQUE(game_id, shop_id),
			FOREIGN KEY(game_id) REFERENCES games(id) ON DELETE CASCADE,
			FOREIGN KEY(shop_id) REFERENCES shops(id) ON DELETE CASCADE
		);

		-- Append-only price facts.
		CREATE TABLE IF NOT EXISTS price_snapshots (
			id INTEGER PRIMARY KEY,
			listing_id INTEGER NOT NULL,
			price REAL NOT NULL,
			observed_at DATETIME NOT NULL,
			FOREIGN KEY(listing_id) REFERENCES listings(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS probe_cache (
			id INTEGER PRIMARY KEY,
			shop_id INTEGER NOT NULL,
			slug TEXT NOT NULL,
			not_found INTEGER NOT NULL,
			checked_at DATETIME NOT NULL,
			UNIQUE(shop_id, slug),
			FOREIGN KEY(shop_id) REFERENCES shops(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS run_logs (
			id INTEGER PRIMARY KEY,
			job_name TEXT NOT NULL,
			started_at DATETIME NOT NULL,
			finished_at DATETIME,
			duration_seconds REAL,
			peak_memory_mb REAL
		);

		INSERT INTO schema_version (version) VALUES (1);
	`

	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute v1 migration: %w", err)
	}

	return nil
}

// migrateV2 adds the catalog importer's appid seen-cache.
func (db *DB) migrateV2() error {
	schema := `
		CREATE TABLE IF NOT EXISTS steam_apps (
			id INTEGER PRIMARY KEY,
			app_id INTEGER UNIQUE NOT NULL,
			name TEXT,
			type TEXT NOT NULL,
			raw_data TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		INSERT INTO schema_version (version) VALUES (2);
	`

	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute v2 migration: %w", err)
	}

	return nil
}

// migrateV3 adds performance indexes for the per-run aggregate queries.
func (db *DB) migrateV3() error {
	schema := `
		CREATE INDEX IF NOT EXISTS idx_listings_shop_enabled ON listings(shop_id, import_enabled);
		CREATE INDEX IF NOT EXISTS idx_snapshots_listing ON price_snapshots(listing_id);
		CREATE INDEX IF NOT EXISTS idx_snapshots_observed ON price_snapshots(observed_at);
		CREATE INDEX IF NOT EXISTS idx_run_logs_job ON run_logs(job_name, started_at);

		INSERT INTO schema_version (version) VALUES (3);
	`

	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute v3 migration: %w", err)
	}

	return nil
}
