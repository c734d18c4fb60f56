package tracker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sfutchko/seanpicks-sub001/internal/rollup"
	"github.com/sfutchko/seanpicks-sub001/internal/store"
	"github.com/sfutchko/seanpicks-sub001/pkg/models"
)

// ErrUngradableBet marks a bet whose pick string cannot be parsed back
// into a team and spread. Such bets stay PENDING for manual review.
var ErrUngradableBet = errors.New("bet cannot be graded from its pick string")

// PushEpsilon absorbs float noise when a cover margin lands exactly on
// the spread.
const PushEpsilon = 0.01

// Tracker owns the bet lifecycle: first sight, re-sight dedup, grading
// against final scores, and point-in-time snapshots.
type Tracker struct {
	store   store.Store
	rollups *rollup.Manager
}

func New(s store.Store, r *rollup.Manager) *Tracker {
	return &Tracker{store: s, rollups: r}
}

// Track records a surfaced best bet. The same (game, pick) seen again
// refreshes the row instead of inserting a duplicate. Returns the
// stored row and whether this was the first sighting.
func (t *Tracker) Track(ctx context.Context, game *models.Game, analysis *models.AnalysisResult) (*models.TrackedBet, bool, error) {
	if analysis.BestBet == nil {
		return nil, false, fmt.Errorf("track: analysis for game %s has no best bet", analysis.GameID)
	}

	now := time.Now().UTC()
	best := analysis.BestBet
	bet := &models.TrackedBet{
		ID:          uuid.New().String(),
		GameID:      analysis.GameID,
		SportKey:    analysis.SportKey,
		HomeTeam:    game.HomeTeam,
		AwayTeam:    game.AwayTeam,
		GameTime:    game.GameTime,
		Pick:        best.Pick,
		Spread:      best.Spread,
		Odds:        best.Odds,
		Confidence:  best.Confidence,
		KellyStake:  best.KellyStake,
		Edge:        best.Edge,
		BestBook:    best.BestBook,
		BestSpread:  best.BestSpread,
		BestOdds:    best.Odds,
		FirstSeen:   now,
		LastSeen:    now,
		Result:      models.ResultPending,
		SharpAction: game.SharpAction,
	}
	if analysis.PublicBetting != nil {
		pct := analysis.PublicBetting.HomePercentage
		bet.PublicPct = &pct
	}

	stored, inserted, err := t.store.UpsertTrackedBet(ctx, bet)
	if err != nil {
		return nil, false, fmt.Errorf("track bet: %w", err)
	}
	return stored, inserted, nil
}

// ParsePick splits a "Team +3.5" pick string into its team and spread.
// The team name may itself contain spaces; the spread is always the
// final space-separated token.
func ParsePick(pick string) (team string, spread float64, err error) {
	idx := strings.LastIndex(pick, " ")
	if idx <= 0 {
		return "", 0, fmt.Errorf("%w: %q", ErrUngradableBet, pick)
	}
	team = pick[:idx]
	spread, err = strconv.ParseFloat(pick[idx+1:], 64)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q", ErrUngradableBet, pick)
	}
	return team, spread, nil
}

// ApplyFinalScore grades every tracked bet on the finished game.
// Re-delivery of the same score is a no-op; a corrected score reverses
// the prior rollup contribution before applying the new one. Returns
// the bets whose result changed.
func (t *Tracker) ApplyFinalScore(ctx context.Context, score *models.FinalScore) ([]*models.TrackedBet, error) {
	if !score.Completed {
		return nil, nil
	}

	bets, err := t.store.BetsForGame(ctx, score.GameID)
	if err != nil {
		return nil, fmt.Errorf("apply final score: %w", err)
	}

	var graded []*models.TrackedBet
	var ungradable error
	for _, bet := range bets {
		result, margin, err := Grade(bet, score)
		if err != nil {
			// Leave the bet PENDING, grade the rest
			ungradable = errors.Join(ungradable, err)
			continue
		}

		if bet.Result == result {
			continue
		}

		if bet.Result.Terminal() {
			if err := t.rollups.Reverse(ctx, bet, bet.Result); err != nil {
				return graded, err
			}
		}
		if err := t.store.UpdateBetResult(ctx, bet.ID, result, score.HomeScore, score.AwayScore, margin); err != nil {
			return graded, fmt.Errorf("apply final score: %w", err)
		}
		if err := t.rollups.Apply(ctx, bet, result); err != nil {
			return graded, err
		}

		bet.Result = result
		hs, as := score.HomeScore, score.AwayScore
		bet.HomeScore, bet.AwayScore = &hs, &as
		bet.ActualMargin = &margin
		graded = append(graded, bet)
	}
	return graded, ungradable
}

// Grade settles one bet against a final score. The returned margin is
// the cover margin for the picked side: positive covers, negative
// loses, within PushEpsilon of zero pushes.
func Grade(bet *models.TrackedBet, score *models.FinalScore) (models.BetResult, float64, error) {
	team, spread, err := ParsePick(bet.Pick)
	if err != nil {
		return models.ResultPending, 0, err
	}

	homeMargin := float64(score.HomeScore - score.AwayScore)

	var cover float64
	switch team {
	case score.HomeTeam, bet.HomeTeam:
		cover = homeMargin + spread
	case score.AwayTeam, bet.AwayTeam:
		cover = -homeMargin + spread
	default:
		return models.ResultPending, 0, fmt.Errorf("%w: team %q matches neither side of game %s", ErrUngradableBet, team, bet.GameID)
	}

	switch {
	case cover >= PushEpsilon:
		return models.ResultWin, cover, nil
	case cover <= -PushEpsilon:
		return models.ResultLoss, cover, nil
	default:
		return models.ResultPush, cover, nil
	}
}

// CreateSnapshot captures the current best-bets board for a sport
func (t *Tracker) CreateSnapshot(ctx context.Context, sportKey string) (*models.BetSnapshot, error) {
	pending, err := t.store.PendingBets(ctx, sportKey)
	if err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}
	recent, err := t.store.RecentResults(ctx, sportKey, 100)
	if err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}

	snapshot := &models.BetSnapshot{
		ID:           uuid.New().String(),
		SnapshotTime: time.Now().UTC(),
		SportKey:     sportKey,
		PendingCount: len(pending),
	}

	var confidenceSum float64
	for _, bet := range pending {
		snapshot.BestBets = append(snapshot.BestBets, *bet)
		confidenceSum += bet.Confidence
	}
	for _, bet := range recent {
		switch bet.Result {
		case models.ResultWin:
			snapshot.WinCount++
		case models.ResultLoss:
			snapshot.LossCount++
		case models.ResultPush:
			snapshot.PushCount++
		}
	}
	snapshot.TotalBets = len(pending) + len(recent)
	if len(pending) > 0 {
		snapshot.AvgConfidence = confidenceSum / float64(len(pending))
	}

	if err := t.store.SaveSnapshot(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}
	return snapshot, nil
}

// PendingBets lists ungraded tracked bets for a sport
func (t *Tracker) PendingBets(ctx context.Context, sportKey string) ([]*models.TrackedBet, error) {
	return t.store.PendingBets(ctx, sportKey)
}

// RecentResults lists graded bets, most recent games first
func (t *Tracker) RecentResults(ctx context.Context, sportKey string, limit int) ([]*models.TrackedBet, error) {
	return t.store.RecentResults(ctx, sportKey, limit)
}
