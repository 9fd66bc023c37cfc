package db

import (
	"database/sql"
	"fmt"
)

// SaveSteamApp records that an appid has been examined, with its type and the
// raw details payload for later reprocessing.
func (db *DB) SaveSteamApp(appID int, name, appType, rawData string) error {
	_, err := db.conn.Exec(`
		INSERT INTO steam_apps (app_id, name, type, raw_data)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(app_id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			raw_data = excluded.raw_data
	`, appID, name, appType, nullIfEmpty(rawData))
	if err != nil {
		return fmt.Errorf("failed to save steam app %d: %w", appID, err)
	}
	return nil
}

// SeenSteamAppIDs returns the set of appids already examined. The importer
// loads it once so every run starts where the previous one left off.
func (db *DB) SeenSteamAppIDs() (map[int]bool, error) {
	rows, err := db.conn.Query("SELECT app_id FROM steam_apps")
	if err != nil {
		return nil, fmt.Errorf("failed to load seen steam apps: %w", err)
	}
	defer rows.Close()

	seen := make(map[int]bool)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan app id: %w", err)
		}
		seen[id] = true
	}
	return seen, rows.Err()
}

// SteamAppRaw returns the stored raw details payload for an appid, or empty
// if the appid was never examined.
func (db *DB) SteamAppRaw(appID int) (string, error) {
	var raw string
	err := db.conn.QueryRow(`
		SELECT COALESCE(raw_data, '') FROM steam_apps WHERE app_id = ?
	`, appID).Scan(&raw)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get steam app %d: %w", appID, err)
	}
	return raw, nil
}
