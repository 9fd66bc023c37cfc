package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Game is one catalog entry. Prices hang off listings, not games.
type Game struct {
	ID          int64
	Name        string
	Description string
	ReleaseDate time.Time
	IsFree      bool
	OwnersCount int
}

// CreateGame inserts a new game and returns its ID.
func (db *DB) CreateGame(g *Game) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO games (name, description, release_date, is_free, owners_count)
		VALUES (?, ?, ?, ?, ?)
	`, g.Name, g.Description, g.ReleaseDate.Format(timeLayout), g.IsFree, g.OwnersCount)
	if err != nil {
		return 0, fmt.Errorf("failed to create game %s: %w", g.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get game id: %w", err)
	}
	g.ID = id
	return id, nil
}

// GetGameByName returns the first game with the given name, or nil if none
// exists.
func (db *DB) GetGameByName(name string) (*Game, error) {
	g := &Game{}
	var description sql.NullString
	var releaseDate sql.NullString
	var owners sql.NullInt64
	err := db.conn.QueryRow(`
		SELECT id, name, description, release_date, is_free, owners_count
		FROM games WHERE name = ? ORDER BY id LIMIT 1
	`, name).Scan(&g.ID, &g.Name, &description, &releaseDate, &g.IsFree, &owners)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game %s: %w", name, err)
	}
	g.Description = description.String
	g.OwnersCount = int(owners.Int64)
	if releaseDate.Valid {
		if t, perr := time.Parse(timeLayout, releaseDate.String); perr == nil {
			g.ReleaseDate = t
		}
	}
	return g, nil
}

// ListGames returns all games in catalog insertion order, which is the order
// discovery walks them in.
func (db *DB) ListGames() ([]*Game, error) {
	rows, err := db.conn.Query(`
		SELECT id, name, description, release_date, is_free, owners_count
		FROM games ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	var games []*Game
	for rows.Next() {
		g := &Game{}
		var description sql.NullString
		var releaseDate sql.NullString
		var owners sql.NullInt64
		if err := rows.Scan(&g.ID, &g.Name, &description, &releaseDate, &g.IsFree, &owners); err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		g.Description = description.String
		g.OwnersCount = int(owners.Int64)
		if releaseDate.Valid {
			if t, perr := time.Parse(timeLayout, releaseDate.String); perr == nil {
				g.ReleaseDate = t
			}
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// CountGames returns the total number of games.
func (db *DB) CountGames() (int, error) {
	var n int
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM games").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}
	return n, nil
}

// SetGameOwners updates the popularity estimate for a game.
func (db *DB) SetGameOwners(gameID int64, owners int) error {
	_, err := db.conn.Exec(`
		UPDATE games SET owners_count = ?, updated_at = ? WHERE id = ?
	`, owners, time.Now().UTC().Format(timeLayout), gameID)
	if err != nil {
		return fmt.Errorf("failed to update game owners: %w", err)
	}
	return nil
}

// AttachGenres ensures each genre exists and links it to the game. Existing
// links are left alone.
func (db *DB) AttachGenres(gameID int64, genres []string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, name := range genres {
		if _, err := tx.Exec(`
			INSERT INTO genres (name) VALUES (?) ON CONFLICT(name) DO NOTHING
		`, name); err != nil {
			return fmt.Errorf("failed to insert genre %s: %w", name, err)
		}
		if _, err := tx.Exec(`
			INSERT INTO game_genres (game_id, genre_id)
			SELECT ?, id FROM genres WHERE name = ?
			ON CONFLICT(game_id, genre_id) DO NOTHING
		`, gameID, name); err != nil {
			return fmt.Errorf("failed to link genre %s: %w", name, err)
		}
	}

	return tx.Commit()
}

// GameGenres returns the genre names linked to a game, ordered by name.
func (db *DB) GameGenres(gameID int64) ([]string, error) {
	rows, err := db.conn.Query(`
		SELECT g.name FROM genres g
		JOIN game_genres gg ON gg.genre_id = g.id
		WHERE gg.game_id = ? ORDER BY g.name
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game genres: %w", err)
	}
	defer rows.Close()

	var genres []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		genres = append(genres, name)
	}
	return genres, rows.Err()
}
