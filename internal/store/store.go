package store

import (
	"context"
	"time"

	"github.com/sfutchko/seanpicks-sub001/pkg/models"
)

// RollupDelta is one grading event's contribution to a (date, sport)
// rollup row. Reversing a contribution is the negated delta.
type RollupDelta struct {
	Wins   int
	Losses int
	Pushes int
	Units  float64
	Tier   string // "high", "medium", "low"
}

// Negate returns the compensating delta
func (d RollupDelta) Negate() RollupDelta {
	return RollupDelta{
		Wins:   -d.Wins,
		Losses: -d.Losses,
		Pushes: -d.Pushes,
		Units:  -d.Units,
		Tier:   d.Tier,
	}
}

// Store is the persistence boundary for tracked bets, snapshots, and
// performance rollups. Implementations must make UpsertTrackedBet and
// UpdateBetResult atomic per (game_id, pick) row and ApplyRollupDelta
// atomic per (date, sport) key.
type Store interface {
	Ping(ctx context.Context) error

	// Tracked bets
	UpsertTrackedBet(ctx context.Context, bet *models.TrackedBet) (*models.TrackedBet, bool, error)
	GetTrackedBet(ctx context.Context, gameID, pick string) (*models.TrackedBet, error)
	BetsForGame(ctx context.Context, gameID string) ([]*models.TrackedBet, error)
	PendingBets(ctx context.Context, sportKey string) ([]*models.TrackedBet, error)
	RecentResults(ctx context.Context, sportKey string, limit int) ([]*models.TrackedBet, error)
	GradedBetsBetween(ctx context.Context, sportKey string, from, to time.Time) ([]*models.TrackedBet, error)
	UpdateBetResult(ctx context.Context, id string, result models.BetResult, homeScore, awayScore int, actualMargin float64) error

	// Snapshots (append-only)
	SaveSnapshot(ctx context.Context, snapshot *models.BetSnapshot) error

	// Rollups
	ApplyRollupDelta(ctx context.Context, day time.Time, sportKey string, delta RollupDelta) error
	GetRollup(ctx context.Context, day time.Time, sportKey string) (*models.PerformanceRollup, error)
	ReplaceRollup(ctx context.Context, rollup *models.PerformanceRollup) error
}
