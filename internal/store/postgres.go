package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/sfutchko/seanpicks-sub001/pkg/models"
)

// Postgres implements Store on PostgreSQL
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens a Postgres-backed store
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Postgres{db: db}, nil
}

// Close closes the underlying pool
func (p *Postgres) Close() error {
	return p.db.Close()
}

// Ping checks database connectivity
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// EnsureSchema creates the tables if they do not exist
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS tracked_bets (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			sport_key TEXT NOT NULL DEFAULT '',
			home_team TEXT NOT NULL,
			away_team TEXT NOT NULL,
			game_time TIMESTAMPTZ NOT NULL,
			pick TEXT NOT NULL,
			spread DOUBLE PRECISION NOT NULL,
			odds INTEGER NOT NULL DEFAULT -110,
			confidence DOUBLE PRECISION NOT NULL,
			kelly_stake DOUBLE PRECISION NOT NULL DEFAULT 0,
			edge DOUBLE PRECISION NOT NULL DEFAULT 0,
			best_book TEXT NOT NULL DEFAULT '',
			best_spread DOUBLE PRECISION NOT NULL DEFAULT 0,
			best_odds INTEGER NOT NULL DEFAULT -110,
			first_seen TIMESTAMPTZ NOT NULL,
			last_seen TIMESTAMPTZ NOT NULL,
			times_appeared INTEGER NOT NULL DEFAULT 1,
			result TEXT NOT NULL DEFAULT 'PENDING',
			home_score INTEGER,
			away_score INTEGER,
			actual_margin DOUBLE PRECISION,
			patterns JSONB,
			public_percentage DOUBLE PRECISION,
			sharp_action BOOLEAN NOT NULL DEFAULT FALSE,
			UNIQUE (game_id, pick)
		)`,
		`CREATE TABLE IF NOT EXISTS bet_snapshots (
			id TEXT PRIMARY KEY,
			snapshot_time TIMESTAMPTZ NOT NULL,
			sport_key TEXT NOT NULL,
			best_bets JSONB NOT NULL,
			total_bets INTEGER NOT NULL,
			avg_confidence DOUBLE PRECISION NOT NULL,
			pending_count INTEGER NOT NULL,
			win_count INTEGER NOT NULL,
			loss_count INTEGER NOT NULL,
			push_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS performance_rollups (
			day DATE NOT NULL,
			sport_key TEXT NOT NULL,
			daily_wins INTEGER NOT NULL DEFAULT 0,
			daily_losses INTEGER NOT NULL DEFAULT 0,
			daily_pushes INTEGER NOT NULL DEFAULT 0,
			daily_units DOUBLE PRECISION NOT NULL DEFAULT 0,
			high_wins INTEGER NOT NULL DEFAULT 0,
			high_losses INTEGER NOT NULL DEFAULT 0,
			high_pushes INTEGER NOT NULL DEFAULT 0,
			medium_wins INTEGER NOT NULL DEFAULT 0,
			medium_losses INTEGER NOT NULL DEFAULT 0,
			medium_pushes INTEGER NOT NULL DEFAULT 0,
			low_wins INTEGER NOT NULL DEFAULT 0,
			low_losses INTEGER NOT NULL DEFAULT 0,
			low_pushes INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (day, sport_key)
		)`,
	}

	for _, stmt := range statements {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

const betColumns = `id, game_id, sport_key, home_team, away_team, game_time, pick, spread, odds,
	confidence, kelly_stake, edge, best_book, best_spread, best_odds,
	first_seen, last_seen, times_appeared, result, home_score, away_score,
	actual_margin, patterns, public_percentage, sharp_action`

// UpsertTrackedBet inserts a bet on first sighting; on a repeat
// sighting of the same (game_id, pick) it bumps last_seen and
// times_appeared, re-prices confidence/kelly/edge, and keeps the most
// favorable best line ever observed. The single statement makes the
// read-modify-write atomic per row.
func (p *Postgres) UpsertTrackedBet(ctx context.Context, bet *models.TrackedBet) (*models.TrackedBet, bool, error) {
	patterns, err := json.Marshal(bet.Patterns)
	if err != nil {
		return nil, false, fmt.Errorf("marshal patterns: %w", err)
	}

	query := `
		INSERT INTO tracked_bets (` + betColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, 1, 'PENDING', NULL, NULL, NULL, $18, $19, $20)
		ON CONFLICT (game_id, pick) DO UPDATE SET
			last_seen = EXCLUDED.last_seen,
			times_appeared = tracked_bets.times_appeared + 1,
			confidence = EXCLUDED.confidence,
			kelly_stake = EXCLUDED.kelly_stake,
			edge = EXCLUDED.edge,
			best_book = CASE WHEN EXCLUDED.best_spread > tracked_bets.best_spread
				THEN EXCLUDED.best_book ELSE tracked_bets.best_book END,
			best_odds = CASE WHEN EXCLUDED.best_spread > tracked_bets.best_spread
				THEN EXCLUDED.best_odds ELSE tracked_bets.best_odds END,
			best_spread = GREATEST(tracked_bets.best_spread, EXCLUDED.best_spread)
		RETURNING ` + betColumns + `, (xmax = 0) AS inserted
	`

	row := p.db.QueryRowContext(ctx, query,
		bet.ID, bet.GameID, bet.SportKey, bet.HomeTeam, bet.AwayTeam, bet.GameTime,
		bet.Pick, bet.Spread, bet.Odds, bet.Confidence, bet.KellyStake, bet.Edge,
		bet.BestBook, bet.BestSpread, bet.BestOdds, bet.FirstSeen, bet.LastSeen,
		patterns, bet.PublicPct, bet.SharpAction,
	)

	stored, inserted, err := scanBetWithInserted(row)
	if err != nil {
		return nil, false, fmt.Errorf("upsert tracked bet: %w", err)
	}
	return stored, inserted, nil
}

// GetTrackedBet fetches one bet by its (game_id, pick) identity
func (p *Postgres) GetTrackedBet(ctx context.Context, gameID, pick string) (*models.TrackedBet, error) {
	query := `SELECT ` + betColumns + ` FROM tracked_bets WHERE game_id = $1 AND pick = $2`
	bet, err := scanBet(p.db.QueryRowContext(ctx, query, gameID, pick))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tracked bet: %w", err)
	}
	return bet, nil
}

// BetsForGame returns every tracked bet for a game
func (p *Postgres) BetsForGame(ctx context.Context, gameID string) ([]*models.TrackedBet, error) {
	query := `SELECT ` + betColumns + ` FROM tracked_bets WHERE game_id = $1 ORDER BY first_seen`
	return p.queryBets(ctx, query, gameID)
}

// PendingBets returns ungraded bets, newest games first
func (p *Postgres) PendingBets(ctx context.Context, sportKey string) ([]*models.TrackedBet, error) {
	query := `SELECT ` + betColumns + ` FROM tracked_bets
		WHERE result = 'PENDING' AND ($1 = '' OR sport_key = $1)
		ORDER BY game_time DESC`
	return p.queryBets(ctx, query, sportKey)
}

// RecentResults returns graded bets, most recent games first
func (p *Postgres) RecentResults(ctx context.Context, sportKey string, limit int) ([]*models.TrackedBet, error) {
	query := `SELECT ` + betColumns + ` FROM tracked_bets
		WHERE result IN ('WIN', 'LOSS', 'PUSH') AND ($1 = '' OR sport_key = $1)
		ORDER BY game_time DESC LIMIT $2`
	return p.queryBets(ctx, query, sportKey, limit)
}

// GradedBetsBetween returns graded bets whose game time falls in
// [from, to), used for rollup repair and performance reports
func (p *Postgres) GradedBetsBetween(ctx context.Context, sportKey string, from, to time.Time) ([]*models.TrackedBet, error) {
	query := `SELECT ` + betColumns + ` FROM tracked_bets
		WHERE result IN ('WIN', 'LOSS', 'PUSH') AND ($1 = '' OR sport_key = $1)
		AND game_time >= $2 AND game_time < $3
		ORDER BY game_time`
	return p.queryBets(ctx, query, sportKey, from, to)
}

// UpdateBetResult writes a grading outcome onto the bet row. Used for
// both first grading and score-correction overwrites.
func (p *Postgres) UpdateBetResult(ctx context.Context, id string, result models.BetResult, homeScore, awayScore int, actualMargin float64) error {
	query := `
		UPDATE tracked_bets
		SET result = $1, home_score = $2, away_score = $3, actual_margin = $4
		WHERE id = $5
	`
	res, err := p.db.ExecContext(ctx, query, string(result), homeScore, awayScore, actualMargin, id)
	if err != nil {
		return fmt.Errorf("update bet result: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update bet result: bet %s not found", id)
	}
	return nil
}

// SaveSnapshot appends a best-bets snapshot
func (p *Postgres) SaveSnapshot(ctx context.Context, snapshot *models.BetSnapshot) error {
	bets, err := json.Marshal(snapshot.BestBets)
	if err != nil {
		return fmt.Errorf("marshal snapshot bets: %w", err)
	}

	query := `
		INSERT INTO bet_snapshots (
			id, snapshot_time, sport_key, best_bets, total_bets,
			avg_confidence, pending_count, win_count, loss_count, push_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = p.db.ExecContext(ctx, query,
		snapshot.ID, snapshot.SnapshotTime, snapshot.SportKey, bets,
		snapshot.TotalBets, snapshot.AvgConfidence, snapshot.PendingCount,
		snapshot.WinCount, snapshot.LossCount, snapshot.PushCount,
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// ApplyRollupDelta upserts one grading event into the (day, sport)
// rollup row. The single upsert keeps concurrent gradings on the same
// key from losing increments.
func (p *Postgres) ApplyRollupDelta(ctx context.Context, day time.Time, sportKey string, delta RollupDelta) error {
	var hw, hl, hp, mw, ml, mp, lw, ll, lp int
	switch delta.Tier {
	case "high":
		hw, hl, hp = delta.Wins, delta.Losses, delta.Pushes
	case "medium":
		mw, ml, mp = delta.Wins, delta.Losses, delta.Pushes
	default:
		lw, ll, lp = delta.Wins, delta.Losses, delta.Pushes
	}

	query := `
		INSERT INTO performance_rollups (
			day, sport_key, daily_wins, daily_losses, daily_pushes, daily_units,
			high_wins, high_losses, high_pushes,
			medium_wins, medium_losses, medium_pushes,
			low_wins, low_losses, low_pushes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (day, sport_key) DO UPDATE SET
			daily_wins = performance_rollups.daily_wins + EXCLUDED.daily_wins,
			daily_losses = performance_rollups.daily_losses + EXCLUDED.daily_losses,
			daily_pushes = performance_rollups.daily_pushes + EXCLUDED.daily_pushes,
			daily_units = performance_rollups.daily_units + EXCLUDED.daily_units,
			high_wins = performance_rollups.high_wins + EXCLUDED.high_wins,
			high_losses = performance_rollups.high_losses + EXCLUDED.high_losses,
			high_pushes = performance_rollups.high_pushes + EXCLUDED.high_pushes,
			medium_wins = performance_rollups.medium_wins + EXCLUDED.medium_wins,
			medium_losses = performance_rollups.medium_losses + EXCLUDED.medium_losses,
			medium_pushes = performance_rollups.medium_pushes + EXCLUDED.medium_pushes,
			low_wins = performance_rollups.low_wins + EXCLUDED.low_wins,
			low_losses = performance_rollups.low_losses + EXCLUDED.low_losses,
			low_pushes = performance_rollups.low_pushes + EXCLUDED.low_pushes
	`
	_, err := p.db.ExecContext(ctx, query,
		day.Format("2006-01-02"), sportKey,
		delta.Wins, delta.Losses, delta.Pushes, delta.Units,
		hw, hl, hp, mw, ml, mp, lw, ll, lp,
	)
	if err != nil {
		return fmt.Errorf("apply rollup delta: %w", err)
	}
	return nil
}

// GetRollup reads the (day, sport) row with running totals summed
// across all days up to and including it
func (p *Postgres) GetRollup(ctx context.Context, day time.Time, sportKey string) (*models.PerformanceRollup, error) {
	query := `
		SELECT daily_wins, daily_losses, daily_pushes, daily_units,
			high_wins, high_losses, high_pushes,
			medium_wins, medium_losses, medium_pushes,
			low_wins, low_losses, low_pushes,
			(SELECT COALESCE(SUM(daily_wins), 0) FROM performance_rollups r2
				WHERE r2.sport_key = $2 AND r2.day <= $1),
			(SELECT COALESCE(SUM(daily_losses), 0) FROM performance_rollups r2
				WHERE r2.sport_key = $2 AND r2.day <= $1),
			(SELECT COALESCE(SUM(daily_pushes), 0) FROM performance_rollups r2
				WHERE r2.sport_key = $2 AND r2.day <= $1),
			(SELECT COALESCE(SUM(daily_units), 0) FROM performance_rollups r2
				WHERE r2.sport_key = $2 AND r2.day <= $1)
		FROM performance_rollups
		WHERE day = $1 AND sport_key = $2
	`

	rollup := &models.PerformanceRollup{Date: day, SportKey: sportKey}
	err := p.db.QueryRowContext(ctx, query, day.Format("2006-01-02"), sportKey).Scan(
		&rollup.DailyWins, &rollup.DailyLosses, &rollup.DailyPushes, &rollup.DailyUnits,
		&rollup.HighConf.Wins, &rollup.HighConf.Losses, &rollup.HighConf.Pushes,
		&rollup.MediumConf.Wins, &rollup.MediumConf.Losses, &rollup.MediumConf.Pushes,
		&rollup.LowConf.Wins, &rollup.LowConf.Losses, &rollup.LowConf.Pushes,
		&rollup.TotalWins, &rollup.TotalLosses, &rollup.TotalPushes, &rollup.TotalUnits,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get rollup: %w", err)
	}

	fillROI(rollup)
	return rollup, nil
}

// ReplaceRollup overwrites a day's counters wholesale, used by the
// repair pass
func (p *Postgres) ReplaceRollup(ctx context.Context, rollup *models.PerformanceRollup) error {
	query := `
		INSERT INTO performance_rollups (
			day, sport_key, daily_wins, daily_losses, daily_pushes, daily_units,
			high_wins, high_losses, high_pushes,
			medium_wins, medium_losses, medium_pushes,
			low_wins, low_losses, low_pushes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (day, sport_key) DO UPDATE SET
			daily_wins = EXCLUDED.daily_wins,
			daily_losses = EXCLUDED.daily_losses,
			daily_pushes = EXCLUDED.daily_pushes,
			daily_units = EXCLUDED.daily_units,
			high_wins = EXCLUDED.high_wins,
			high_losses = EXCLUDED.high_losses,
			high_pushes = EXCLUDED.high_pushes,
			medium_wins = EXCLUDED.medium_wins,
			medium_losses = EXCLUDED.medium_losses,
			medium_pushes = EXCLUDED.medium_pushes,
			low_wins = EXCLUDED.low_wins,
			low_losses = EXCLUDED.low_losses,
			low_pushes = EXCLUDED.low_pushes
	`
	_, err := p.db.ExecContext(ctx, query,
		rollup.Date.Format("2006-01-02"), rollup.SportKey,
		rollup.DailyWins, rollup.DailyLosses, rollup.DailyPushes, rollup.DailyUnits,
		rollup.HighConf.Wins, rollup.HighConf.Losses, rollup.HighConf.Pushes,
		rollup.MediumConf.Wins, rollup.MediumConf.Losses, rollup.MediumConf.Pushes,
		rollup.LowConf.Wins, rollup.LowConf.Losses, rollup.LowConf.Pushes,
	)
	if err != nil {
		return fmt.Errorf("replace rollup: %w", err)
	}
	return nil
}

func (p *Postgres) queryBets(ctx context.Context, query string, args ...interface{}) ([]*models.TrackedBet, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bets: %w", err)
	}
	defer rows.Close()

	var bets []*models.TrackedBet
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bet: %w", err)
		}
		bets = append(bets, bet)
	}
	return bets, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBet(row rowScanner) (*models.TrackedBet, error) {
	bet := &models.TrackedBet{}
	var result string
	var patterns []byte

	err := row.Scan(
		&bet.ID, &bet.GameID, &bet.SportKey, &bet.HomeTeam, &bet.AwayTeam, &bet.GameTime,
		&bet.Pick, &bet.Spread, &bet.Odds, &bet.Confidence, &bet.KellyStake, &bet.Edge,
		&bet.BestBook, &bet.BestSpread, &bet.BestOdds, &bet.FirstSeen, &bet.LastSeen,
		&bet.TimesAppeared, &result, &bet.HomeScore, &bet.AwayScore,
		&bet.ActualMargin, &patterns, &bet.PublicPct, &bet.SharpAction,
	)
	if err != nil {
		return nil, err
	}

	bet.Result = models.BetResult(result)
	if len(patterns) > 0 {
		if err := json.Unmarshal(patterns, &bet.Patterns); err != nil {
			return nil, fmt.Errorf("parse patterns JSON: %w", err)
		}
	}
	return bet, nil
}

func scanBetWithInserted(row rowScanner) (*models.TrackedBet, bool, error) {
	bet := &models.TrackedBet{}
	var result string
	var patterns []byte
	var inserted bool

	err := row.Scan(
		&bet.ID, &bet.GameID, &bet.SportKey, &bet.HomeTeam, &bet.AwayTeam, &bet.GameTime,
		&bet.Pick, &bet.Spread, &bet.Odds, &bet.Confidence, &bet.KellyStake, &bet.Edge,
		&bet.BestBook, &bet.BestSpread, &bet.BestOdds, &bet.FirstSeen, &bet.LastSeen,
		&bet.TimesAppeared, &result, &bet.HomeScore, &bet.AwayScore,
		&bet.ActualMargin, &patterns, &bet.PublicPct, &bet.SharpAction,
		&inserted,
	)
	if err != nil {
		return nil, false, err
	}

	bet.Result = models.BetResult(result)
	if len(patterns) > 0 {
		if err := json.Unmarshal(patterns, &bet.Patterns); err != nil {
			return nil, false, fmt.Errorf("parse patterns JSON: %w", err)
		}
	}
	return bet, inserted, nil
}

// fillROI derives the ROI percentages from the raw counters
func fillROI(rollup *models.PerformanceRollup) {
	if decided := rollup.DailyWins + rollup.DailyLosses; decided > 0 {
		rollup.DailyROI = rollup.DailyUnits / float64(decided) * 100.0
	}
	if decided := rollup.TotalWins + rollup.TotalLosses; decided > 0 {
		rollup.TotalROI = rollup.TotalUnits / float64(decided) * 100.0
	}
}
