package linehistory

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sfutchko/seanpicks-sub001/internal/consensus"
	"github.com/sfutchko/seanpicks-sub001/pkg/models"
)

// SQLite records every observed consensus line per game and serves the
// earliest recorded spread as the opening line. Local, append-only.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the line history database at path
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open line history: %w", err)
	}

	// WAL lets the recorder and readers overlap
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate line history: %w", err)
	}
	return s, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS line_observations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id TEXT NOT NULL,
		sport_key TEXT NOT NULL,
		observed_at DATETIME NOT NULL,
		consensus_spread REAL NOT NULL,
		consensus_total REAL NOT NULL,
		book_count INTEGER NOT NULL,
		dispersion REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_line_obs_game ON line_observations(game_id, observed_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordLines appends one consensus observation for the game. Games
// without usable market data are skipped silently.
func (s *SQLite) RecordLines(ctx context.Context, game *models.Game, quotes []models.BookmakerQuote) error {
	line, err := consensus.Build(quotes)
	if err != nil {
		return nil
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO line_observations
			(game_id, sport_key, observed_at, consensus_spread, consensus_total, book_count, dispersion)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		game.ID, game.SportKey, time.Now().UTC(),
		line.ConsensusSpread, line.ConsensusTotal, line.BookCount, line.Dispersion,
	)
	if err != nil {
		return fmt.Errorf("record lines for %s: %w", game.ID, err)
	}
	return nil
}

// OpeningSpread returns the earliest recorded consensus spread for the
// game. The second return is false when the game has never been seen.
func (s *SQLite) OpeningSpread(ctx context.Context, gameID string) (float64, bool, error) {
	var spread float64
	err := s.db.QueryRowContext(ctx, `
		SELECT consensus_spread FROM line_observations
		WHERE game_id = ?
		ORDER BY observed_at ASC, id ASC
		LIMIT 1`, gameID).Scan(&spread)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("opening spread for %s: %w", gameID, err)
	}
	return spread, true, nil
}
