// Package storage persists finished matches in SQLite.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-brawl/internal/multiplayer"
)

// Store manages the SQLite database connection for match history.
type Store struct {
	db *sql.DB
}

// Winner values of a MatchRecord besides the slot numbers 0 and 1.
const WinnerDraw = -1

// ModeOnline is the Mode of matches played between two SSH sessions.
const ModeOnline = "online"

// MatchRecord is one finished match. Slot 0 is the player (the first CPU
// in demo mode, the host online), slot 1 the opponent.
type MatchRecord struct {
	ID           int64
	Mode         string // Registry mode ID, or ModeOnline
	Username     string // SSH user of slot 0, empty for local play
	OpponentUser string // SSH user of slot 1, online only
	Player       string // Character key of slot 0
	Opponent     string // Character key of slot 1
	Winner       int    // 0, 1 or WinnerDraw
	EndReason    string // Empty when the last stock was lost
	Ticks        int
	Stocks       [2]int // Stocks left at the end
	Damage       [2]float64
	KOs          [2]int
	CreatedAt    time.Time
}

// CharacterStats aggregates every match a character took part in, on
// either side.
type CharacterStats struct {
	Character string
	Matches   int
	Wins      int
	Losses    int
	AvgDamage float64 // Damage dealt per match
}

// Draws returns the matches that were neither won nor lost.
func (c CharacterStats) Draws() int {
	return c.Matches - c.Wins - c.Losses
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode TEXT NOT NULL,
			username TEXT NOT NULL DEFAULT '',
			opponent_user TEXT NOT NULL DEFAULT '',
			player TEXT NOT NULL,
			opponent TEXT NOT NULL,
			winner INTEGER NOT NULL,
			end_reason TEXT NOT NULL DEFAULT '',
			ticks INTEGER NOT NULL DEFAULT 0,
			stocks1 INTEGER NOT NULL DEFAULT 0,
			stocks2 INTEGER NOT NULL DEFAULT 0,
			damage1 REAL NOT NULL DEFAULT 0,
			damage2 REAL NOT NULL DEFAULT 0,
			kos1 INTEGER NOT NULL DEFAULT 0,
			kos2 INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_matches_created ON matches(created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_matches_player ON matches(player);
		CREATE INDEX IF NOT EXISTS idx_matches_opponent ON matches(opponent);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveMatch records a finished match and returns its ID.
func (s *Store) SaveMatch(rec MatchRecord) (int64, error) {
	if rec.Winner < WinnerDraw || rec.Winner > 1 {
		return 0, fmt.Errorf("storage: invalid winner slot %d", rec.Winner)
	}

	result, err := s.db.Exec(
		`INSERT INTO matches
		 (mode, username, opponent_user, player, opponent, winner, end_reason, ticks,
		  stocks1, stocks2, damage1, damage2, kos1, kos2)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Mode, rec.Username, rec.OpponentUser, rec.Player, rec.Opponent, rec.Winner, rec.EndReason, rec.Ticks,
		rec.Stocks[0], rec.Stocks[1], rec.Damage[0], rec.Damage[1], rec.KOs[0], rec.KOs[1],
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save match: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentMatches returns the newest matches first.
func (s *Store) RecentMatches(limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, mode, username, opponent_user, player, opponent, winner, end_reason, ticks,
		        stocks1, stocks2, damage1, damage2, kos1, kos2, created_at
		 FROM matches
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var records []MatchRecord
	for rows.Next() {
		var r MatchRecord
		var createdAt any
		if err := rows.Scan(
			&r.ID, &r.Mode, &r.Username, &r.OpponentUser, &r.Player, &r.Opponent, &r.Winner, &r.EndReason, &r.Ticks,
			&r.Stocks[0], &r.Stocks[1], &r.Damage[0], &r.Damage[1], &r.KOs[0], &r.KOs[1],
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// MatchByID returns a single match, or nil if there is none with that ID.
func (s *Store) MatchByID(id int64) (*MatchRecord, error) {
	var r MatchRecord
	var createdAt any

	err := s.db.QueryRow(
		`SELECT id, mode, username, opponent_user, player, opponent, winner, end_reason, ticks,
		        stocks1, stocks2, damage1, damage2, kos1, kos2, created_at
		 FROM matches
		 WHERE id = ?`,
		id,
	).Scan(
		&r.ID, &r.Mode, &r.Username, &r.OpponentUser, &r.Player, &r.Opponent, &r.Winner, &r.EndReason, &r.Ticks,
		&r.Stocks[0], &r.Stocks[1], &r.Damage[0], &r.Damage[1], &r.KOs[0], &r.KOs[1],
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match: %w", err)
	}

	r.CreatedAt = parseTime(createdAt)
	return &r, nil
}

// CharacterStats returns win/loss totals per character, sorted by key.
// A character counts once per side it played, so a mirror match adds a
// win and a loss to the same row.
func (s *Store) CharacterStats() ([]CharacterStats, error) {
	rows, err := s.db.Query(
		`SELECT character, COUNT(*), SUM(won), SUM(lost), AVG(dealt)
		 FROM (
			SELECT player AS character, winner = 0 AS won, winner = 1 AS lost, damage1 AS dealt FROM matches
			UNION ALL
			SELECT opponent, winner = 1, winner = 0, damage2 FROM matches
		 )
		 GROUP BY character
		 ORDER BY character`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get character stats: %w", err)
	}
	defer rows.Close()

	var stats []CharacterStats
	for rows.Next() {
		var c CharacterStats
		if err := rows.Scan(&c.Character, &c.Matches, &c.Wins, &c.Losses, &c.AvgDamage); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		stats = append(stats, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// ClearHistory deletes every recorded match.
func (s *Store) ClearHistory() error {
	if _, err := s.db.Exec("DELETE FROM matches"); err != nil {
		return fmt.Errorf("storage: cannot clear history: %w", err)
	}
	return nil
}

// SaveMatchResult implements multiplayer.MatchResultSaver.
// This adapter allows the coordinator to save match results without direct storage dependency.
func (s *Store) SaveMatchResult(data multiplayer.MatchResultData) error {
	reason := data.EndReason
	if reason == multiplayer.MatchEndReasonCompleted.String() {
		reason = ""
	}
	_, err := s.SaveMatch(MatchRecord{
		Mode:         ModeOnline,
		Username:     data.Usernames[0],
		OpponentUser: data.Usernames[1],
		Player:       data.Kinds[0],
		Opponent:     data.Kinds[1],
		Winner:       data.Winner,
		EndReason:    reason,
		Ticks:        data.Ticks,
		Stocks:       data.Stocks,
		Damage:       data.Damage,
		KOs:          data.KOs,
	})
	return err
}

// Ensure Store implements MatchResultSaver
var _ multiplayer.MatchResultSaver = (*Store)(nil)

// parseTime handles both driver representations of a DATETIME column.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
