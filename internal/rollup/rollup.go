package rollup

import (
	"context"
	"fmt"
	"time"

	"github.com/sfutchko/seanpicks-sub001/internal/store"
	"github.com/sfutchko/seanpicks-sub001/pkg/models"
	"github.com/sfutchko/seanpicks-sub001/pkg/oddsmath"
)

// Confidence tier boundaries for performance segmentation
const (
	HighConfThreshold   = 0.58
	MediumConfThreshold = 0.54
)

// Tier buckets a confidence into its performance segment
func Tier(confidence float64) string {
	switch {
	case confidence >= HighConfThreshold:
		return "high"
	case confidence >= MediumConfThreshold:
		return "medium"
	default:
		return "low"
	}
}

// Manager maintains the per (date, sport) performance rollups as
// grading events arrive, and can rebuild a day from graded bets when
// the incremental counters drift.
type Manager struct {
	store store.Store
}

func NewManager(s store.Store) *Manager {
	return &Manager{store: s}
}

// DeltaFor builds the rollup contribution of grading bet to result.
// Wins settle at the bet's tracked odds; losses cost one unit flat;
// pushes move no money.
func DeltaFor(bet *models.TrackedBet, result models.BetResult) store.RollupDelta {
	delta := store.RollupDelta{Tier: Tier(bet.Confidence)}
	switch result {
	case models.ResultWin:
		delta.Wins = 1
		delta.Units = oddsmath.UnitsWon(bet.Odds)
	case models.ResultLoss:
		delta.Losses = 1
		delta.Units = -1.0
	case models.ResultPush:
		delta.Pushes = 1
	}
	return delta
}

// Apply records a freshly graded bet against its game day's rollup
func (m *Manager) Apply(ctx context.Context, bet *models.TrackedBet, result models.BetResult) error {
	delta := DeltaFor(bet, result)
	if err := m.store.ApplyRollupDelta(ctx, bet.GameTime.UTC(), bet.SportKey, delta); err != nil {
		return fmt.Errorf("apply rollup delta: %w", err)
	}
	return nil
}

// Reverse backs out a previously applied grading, used when a score
// correction flips a bet's result.
func (m *Manager) Reverse(ctx context.Context, bet *models.TrackedBet, result models.BetResult) error {
	delta := DeltaFor(bet, result).Negate()
	if err := m.store.ApplyRollupDelta(ctx, bet.GameTime.UTC(), bet.SportKey, delta); err != nil {
		return fmt.Errorf("reverse rollup delta: %w", err)
	}
	return nil
}

// RecomputeDay rebuilds one (date, sport) rollup by replaying every
// graded bet whose game fell on that day, then overwrites the stored
// counters. Repair path for drift; the result must match what the
// incremental deltas would have produced.
func (m *Manager) RecomputeDay(ctx context.Context, day time.Time, sportKey string) (*models.PerformanceRollup, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	bets, err := m.store.GradedBetsBetween(ctx, sportKey, from, to)
	if err != nil {
		return nil, fmt.Errorf("recompute day: %w", err)
	}

	rebuilt := &models.PerformanceRollup{Date: from, SportKey: sportKey}
	for _, bet := range bets {
		delta := DeltaFor(bet, bet.Result)
		rebuilt.DailyWins += delta.Wins
		rebuilt.DailyLosses += delta.Losses
		rebuilt.DailyPushes += delta.Pushes
		rebuilt.DailyUnits += delta.Units

		var tier *models.TierRecord
		switch delta.Tier {
		case "high":
			tier = &rebuilt.HighConf
		case "medium":
			tier = &rebuilt.MediumConf
		default:
			tier = &rebuilt.LowConf
		}
		tier.Wins += delta.Wins
		tier.Losses += delta.Losses
		tier.Pushes += delta.Pushes
	}

	if err := m.store.ReplaceRollup(ctx, rebuilt); err != nil {
		return nil, fmt.Errorf("recompute day: %w", err)
	}
	return rebuilt, nil
}

// Report summarizes graded bets over a trailing window ending now
func (m *Manager) Report(ctx context.Context, sportKey string, window time.Duration) (*models.PerformanceReport, error) {
	now := time.Now().UTC()
	bets, err := m.store.GradedBetsBetween(ctx, sportKey, now.Add(-window), now)
	if err != nil {
		return nil, fmt.Errorf("performance report: %w", err)
	}

	report := &models.PerformanceReport{
		ByConfidence: map[string]models.TierRecord{
			"high":   {},
			"medium": {},
			"low":    {},
		},
	}

	var wins, losses, pushes int
	var units float64
	for _, bet := range bets {
		delta := DeltaFor(bet, bet.Result)
		wins += delta.Wins
		losses += delta.Losses
		pushes += delta.Pushes
		units += delta.Units

		record := report.ByConfidence[delta.Tier]
		record.Wins += delta.Wins
		record.Losses += delta.Losses
		record.Pushes += delta.Pushes
		report.ByConfidence[delta.Tier] = record
	}

	report.TotalBets = len(bets)
	report.Record = fmt.Sprintf("%d-%d-%d", wins, losses, pushes)
	report.Units = oddsmath.Round2(units)
	if decided := wins + losses; decided > 0 {
		report.WinRatePct = oddsmath.Round2(float64(wins) / float64(decided) * 100.0)
		report.ROIPct = oddsmath.Round2(units / float64(decided) * 100.0)
	}
	return report, nil
}
