package db

import (
	"database/sql"
	"fmt"
)

// Shop is one tracked storefront.
type Shop struct {
	ID          int64
	Name        string
	BaseURL     string
	Description string
}

// UpsertShop inserts a shop or refreshes its base URL if it already exists.
// Returns the shop's ID.
func (db *DB) UpsertShop(name, baseURL, description string) (int64, error) {
	_, err := db.conn.Exec(`
		INSERT INTO shops (name, base_url, description)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET base_url = excluded.base_url
	`, name, baseURL, description)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert shop %s: %w", name, err)
	}

	var id int64
	if err := db.conn.QueryRow("SELECT id FROM shops WHERE name = ?", name).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to get shop id for %s: %w", name, err)
	}
	return id, nil
}

// GetShopByName looks up a shop. Returns ErrShopNotFound if it was never
// seeded.
func (db *DB) GetShopByName(name string) (*Shop, error) {
	shop := &Shop{}
	var description sql.NullString
	err := db.conn.QueryRow(`
		SELECT id, name, base_url, description FROM shops WHERE name = ?
	`, name).Scan(&shop.ID, &shop.Name, &shop.BaseURL, &description)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrShopNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shop %s: %w", name, err)
	}
	shop.Description = description.String
	return shop, nil
}

// ListShops returns all shops ordered by name.
func (db *DB) ListShops() ([]*Shop, error) {
	rows, err := db.conn.Query("SELECT id, name, base_url, description FROM shops ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list shops: %w", err)
	}
	defer rows.Close()

	var shops []*Shop
	for rows.Next() {
		shop := &Shop{}
		var description sql.NullString
		if err := rows.Scan(&shop.ID, &shop.Name, &shop.BaseURL, &description); err != nil {
			return nil, fmt.Errorf("failed to scan shop: %w", err)
		}
		shop.Description = description.String
		shops = append(shops, shop)
	}
	return shops, rows.Err()
}
