package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sfutchko/seanpicks-sub001/pkg/models"
)

// Memory is an in-process Store for tests and local development. It
// honors the same atomicity guarantees as Postgres via a single mutex.
type Memory struct {
	mu        sync.Mutex
	bets      map[string]*models.TrackedBet // key: gameID + "\x00" + pick
	snapshots []*models.BetSnapshot
	rollups   map[string]*models.PerformanceRollup // key: day + "\x00" + sport
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		bets:    make(map[string]*models.TrackedBet),
		rollups: make(map[string]*models.PerformanceRollup),
	}
}

// Ping always succeeds
func (m *Memory) Ping(ctx context.Context) error {
	return nil
}

func betKey(gameID, pick string) string {
	return gameID + "\x00" + pick
}

func rollupKey(day time.Time, sportKey string) string {
	return day.Format("2006-01-02") + "\x00" + sportKey
}

// UpsertTrackedBet mirrors the Postgres ON CONFLICT semantics
func (m *Memory) UpsertTrackedBet(ctx context.Context, bet *models.TrackedBet) (*models.TrackedBet, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := betKey(bet.GameID, bet.Pick)
	existing, ok := m.bets[key]
	if !ok {
		stored := *bet
		stored.TimesAppeared = 1
		stored.Result = models.ResultPending
		m.bets[key] = &stored
		out := stored
		return &out, true, nil
	}

	existing.LastSeen = bet.LastSeen
	existing.TimesAppeared++
	existing.Confidence = bet.Confidence
	existing.KellyStake = bet.KellyStake
	existing.Edge = bet.Edge
	if bet.BestSpread > existing.BestSpread {
		existing.BestSpread = bet.BestSpread
		existing.BestBook = bet.BestBook
		existing.BestOdds = bet.BestOdds
	}

	out := *existing
	return &out, false, nil
}

// GetTrackedBet returns the bet or nil
func (m *Memory) GetTrackedBet(ctx context.Context, gameID, pick string) (*models.TrackedBet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	bet, ok := m.bets[betKey(gameID, pick)]
	if !ok {
		return nil, nil
	}
	out := *bet
	return &out, nil
}

// BetsForGame returns all bets tracked for a game
func (m *Memory) BetsForGame(ctx context.Context, gameID string) ([]*models.TrackedBet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var bets []*models.TrackedBet
	for _, bet := range m.bets {
		if bet.GameID == gameID {
			out := *bet
			bets = append(bets, &out)
		}
	}
	sort.Slice(bets, func(i, j int) bool { return bets[i].FirstSeen.Before(bets[j].FirstSeen) })
	return bets, nil
}

// PendingBets returns ungraded bets
func (m *Memory) PendingBets(ctx context.Context, sportKey string) ([]*models.TrackedBet, error) {
	return m.filter(func(bet *models.TrackedBet) bool {
		return bet.Result == models.ResultPending && (sportKey == "" || bet.SportKey == sportKey)
	}), nil
}

// RecentResults returns graded bets, most recent games first
func (m *Memory) RecentResults(ctx context.Context, sportKey string, limit int) ([]*models.TrackedBet, error) {
	bets := m.filter(func(bet *models.TrackedBet) bool {
		return bet.Result.Terminal() && (sportKey == "" || bet.SportKey == sportKey)
	})
	sort.Slice(bets, func(i, j int) bool { return bets[i].GameTime.After(bets[j].GameTime) })
	if limit > 0 && len(bets) > limit {
		bets = bets[:limit]
	}
	return bets, nil
}

// GradedBetsBetween returns graded bets with game time in [from, to)
func (m *Memory) GradedBetsBetween(ctx context.Context, sportKey string, from, to time.Time) ([]*models.TrackedBet, error) {
	bets := m.filter(func(bet *models.TrackedBet) bool {
		return bet.Result.Terminal() &&
			(sportKey == "" || bet.SportKey == sportKey) &&
			!bet.GameTime.Before(from) && bet.GameTime.Before(to)
	})
	sort.Slice(bets, func(i, j int) bool { return bets[i].GameTime.Before(bets[j].GameTime) })
	return bets, nil
}

// UpdateBetResult writes a grading outcome
func (m *Memory) UpdateBetResult(ctx context.Context, id string, result models.BetResult, homeScore, awayScore int, actualMargin float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, bet := range m.bets {
		if bet.ID == id {
			hs, as, margin := homeScore, awayScore, actualMargin
			bet.Result = result
			bet.HomeScore = &hs
			bet.AwayScore = &as
			bet.ActualMargin = &margin
			return nil
		}
	}
	return fmt.Errorf("update bet result: bet %s not found", id)
}

// SaveSnapshot appends a snapshot
func (m *Memory) SaveSnapshot(ctx context.Context, snapshot *models.BetSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *snapshot
	m.snapshots = append(m.snapshots, &copied)
	return nil
}

// Snapshots returns all captured snapshots (test helper)
func (m *Memory) Snapshots() []*models.BetSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*models.BetSnapshot, len(m.snapshots))
	copy(out, m.snapshots)
	return out
}

// ApplyRollupDelta increments the (day, sport) counters atomically
func (m *Memory) ApplyRollupDelta(ctx context.Context, day time.Time, sportKey string, delta RollupDelta) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := rollupKey(day, sportKey)
	rollup, ok := m.rollups[key]
	if !ok {
		rollup = &models.PerformanceRollup{
			Date:     truncateDay(day),
			SportKey: sportKey,
		}
		m.rollups[key] = rollup
	}

	rollup.DailyWins += delta.Wins
	rollup.DailyLosses += delta.Losses
	rollup.DailyPushes += delta.Pushes
	rollup.DailyUnits += delta.Units

	var tier *models.TierRecord
	switch delta.Tier {
	case "high":
		tier = &rollup.HighConf
	case "medium":
		tier = &rollup.MediumConf
	default:
		tier = &rollup.LowConf
	}
	tier.Wins += delta.Wins
	tier.Losses += delta.Losses
	tier.Pushes += delta.Pushes

	return nil
}

// GetRollup reads the (day, sport) row with running totals
func (m *Memory) GetRollup(ctx context.Context, day time.Time, sportKey string) (*models.PerformanceRollup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rollup, ok := m.rollups[rollupKey(day, sportKey)]
	if !ok {
		return nil, nil
	}

	out := *rollup
	cutoff := truncateDay(day)
	for _, r := range m.rollups {
		if r.SportKey != sportKey || r.Date.After(cutoff) {
			continue
		}
		out.TotalWins += r.DailyWins
		out.TotalLosses += r.DailyLosses
		out.TotalPushes += r.DailyPushes
		out.TotalUnits += r.DailyUnits
	}

	fillROI(&out)
	return &out, nil
}

// ReplaceRollup overwrites a day's counters wholesale
func (m *Memory) ReplaceRollup(ctx context.Context, rollup *models.PerformanceRollup) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *rollup
	copied.Date = truncateDay(rollup.Date)
	copied.TotalWins, copied.TotalLosses, copied.TotalPushes, copied.TotalUnits = 0, 0, 0, 0
	m.rollups[rollupKey(rollup.Date, rollup.SportKey)] = &copied
	return nil
}

func (m *Memory) filter(keep func(*models.TrackedBet) bool) []*models.TrackedBet {
	m.mu.Lock()
	defer m.mu.Unlock()

	var bets []*models.TrackedBet
	for _, bet := range m.bets {
		if keep(bet) {
			out := *bet
			bets = append(bets, &out)
		}
	}
	return bets
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
