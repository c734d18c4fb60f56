package tracker_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/sfutchko/seanpicks-sub001/internal/rollup"
	"github.com/sfutchko/seanpicks-sub001/internal/store"
	"github.com/sfutchko/seanpicks-sub001/internal/tracker"
	"github.com/sfutchko/seanpicks-sub001/pkg/models"
)

var gameTime = time.Date(2026, 1, 11, 18, 0, 0, 0, time.UTC)

func newTracker() (*tracker.Tracker, *store.Memory) {
	mem := store.NewMemory()
	return tracker.New(mem, rollup.NewManager(mem)), mem
}

func testGame() *models.Game {
	return &models.Game{
		ID:       "nfl-2026-kc-buf",
		SportKey: "americanfootball_nfl",
		HomeTeam: "Chiefs",
		AwayTeam: "Bills",
		GameTime: gameTime,
	}
}

func testAnalysis(pick string, confidence float64) *models.AnalysisResult {
	return &models.AnalysisResult{
		GameID:          "nfl-2026-kc-buf",
		SportKey:        "americanfootball_nfl",
		FinalConfidence: confidence,
		Pick:            pick,
		Tier:            models.TierStrong,
		BestBet: &models.BestBet{
			Pick:       pick,
			Tier:       models.TierStrong,
			Spread:     -3.5,
			Odds:       -110,
			Confidence: confidence,
			KellyStake: 0.012,
			Edge:       (confidence - 0.5) * 2,
			BestBook:   "draftkings",
			BestSpread: -3.5,
		},
	}
}

func TestTrackDeduplicates(t *testing.T) {
	tr, _ := newTracker()
	ctx := context.Background()

	var bet *models.TrackedBet
	for i := 0; i < 3; i++ {
		var inserted bool
		var err error
		bet, inserted, err = tr.Track(ctx, testGame(), testAnalysis("Chiefs -3.5", 0.56))
		if err != nil {
			t.Fatalf("Track #%d: %v", i+1, err)
		}
		if inserted != (i == 0) {
			t.Errorf("Track #%d inserted = %v", i+1, inserted)
		}
	}

	if bet.TimesAppeared != 3 {
		t.Errorf("TimesAppeared = %d, want 3", bet.TimesAppeared)
	}
	if bet.Result != models.ResultPending {
		t.Errorf("Result = %s, want PENDING", bet.Result)
	}
}

func TestTrackKeepsMostFavorableLine(t *testing.T) {
	tr, _ := newTracker()
	ctx := context.Background()

	first := testAnalysis("Chiefs -3.5", 0.56)
	first.BestBet.BestSpread = -3.5
	first.BestBet.BestBook = "draftkings"
	if _, _, err := tr.Track(ctx, testGame(), first); err != nil {
		t.Fatal(err)
	}

	// Worse line does not overwrite the stored best
	worse := testAnalysis("Chiefs -3.5", 0.55)
	worse.BestBet.BestSpread = -4.0
	worse.BestBet.BestBook = "betmgm"
	bet, _, err := tr.Track(ctx, testGame(), worse)
	if err != nil {
		t.Fatal(err)
	}
	if bet.BestSpread != -3.5 || bet.BestBook != "draftkings" {
		t.Errorf("best line = %+.1f at %s, want -3.5 at draftkings", bet.BestSpread, bet.BestBook)
	}

	// Better line does
	better := testAnalysis("Chiefs -3.5", 0.55)
	better.BestBet.BestSpread = -3.0
	better.BestBet.BestBook = "fanduel"
	bet, _, err = tr.Track(ctx, testGame(), better)
	if err != nil {
		t.Fatal(err)
	}
	if bet.BestSpread != -3.0 || bet.BestBook != "fanduel" {
		t.Errorf("best line = %+.1f at %s, want -3.0 at fanduel", bet.BestSpread, bet.BestBook)
	}
}

func TestParsePick(t *testing.T) {
	tests := []struct {
		pick       string
		wantTeam   string
		wantSpread float64
		wantErr    bool
	}{
		{"Chiefs -3.5", "Chiefs", -3.5, false},
		{"Bills +3.5", "Bills", 3.5, false},
		{"Green Bay Packers -7.0", "Green Bay Packers", -7.0, false},
		{"Jets +0.0", "Jets", 0.0, false},
		{"Chiefs", "", 0, true},
		{"Chiefs ML", "", 0, true},
		{"", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.pick, func(t *testing.T) {
			team, spread, err := tracker.ParsePick(tt.pick)
			if tt.wantErr {
				if !errors.Is(err, tracker.ErrUngradableBet) {
					t.Errorf("error = %v, want ErrUngradableBet", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if team != tt.wantTeam || spread != tt.wantSpread {
				t.Errorf("ParsePick(%q) = %q %f, want %q %f", tt.pick, team, spread, tt.wantTeam, tt.wantSpread)
			}
		})
	}
}

func TestGrade(t *testing.T) {
	tests := []struct {
		name       string
		pick       string
		home, away int
		want       models.BetResult
	}{
		{"Home favorite covers", "Chiefs -3.5", 27, 20, models.ResultWin},
		{"Home favorite falls short", "Chiefs -3.5", 23, 20, models.ResultLoss},
		{"Home favorite loses outright", "Chiefs -3.5", 17, 20, models.ResultLoss},
		{"Away dog covers on a close loss", "Bills +3.5", 23, 20, models.ResultWin},
		{"Away dog blown out", "Bills +3.5", 31, 20, models.ResultLoss},
		{"Exact landing is a push", "Chiefs -3.0", 23, 20, models.ResultPush},
		{"Away side push", "Bills +3.0", 23, 20, models.ResultPush},
		{"Pick em home win", "Chiefs +0.0", 21, 20, models.ResultWin},
		{"Pick em tie pushes", "Chiefs +0.0", 20, 20, models.ResultPush},
		{"Half a cent inside epsilon pushes", "Chiefs -2.995", 23, 20, models.ResultPush},
		{"Two cents outside epsilon wins", "Chiefs -2.98", 23, 20, models.ResultWin},
		{"Two cents outside epsilon loses", "Chiefs -3.02", 23, 20, models.ResultLoss},
		{"Margin exactly at epsilon wins", "Chiefs +0.01", 20, 20, models.ResultWin},
		{"Margin exactly at negative epsilon loses", "Chiefs -0.01", 20, 20, models.ResultLoss},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bet := &models.TrackedBet{
				GameID:   "nfl-2026-kc-buf",
				HomeTeam: "Chiefs",
				AwayTeam: "Bills",
				Pick:     tt.pick,
			}
			score := &models.FinalScore{
				GameID:    "nfl-2026-kc-buf",
				HomeTeam:  "Chiefs",
				AwayTeam:  "Bills",
				HomeScore: tt.home,
				AwayScore: tt.away,
				Completed: true,
			}

			result, _, err := tracker.Grade(bet, score)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tt.want {
				t.Errorf("Grade(%q, %d-%d) = %s, want %s", tt.pick, tt.home, tt.away, result, tt.want)
			}
		})
	}
}

func TestGradePushEpsilon(t *testing.T) {
	bet := &models.TrackedBet{
		GameID:   "g",
		HomeTeam: "Chiefs",
		AwayTeam: "Bills",
		Pick:     "Chiefs -3.0",
	}
	score := &models.FinalScore{
		GameID:    "g",
		HomeTeam:  "Chiefs",
		AwayTeam:  "Bills",
		HomeScore: 23,
		AwayScore: 20,
		Completed: true,
	}

	result, margin, err := tracker.Grade(bet, score)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != models.ResultPush {
		t.Errorf("result = %s, want PUSH", result)
	}
	if math.Abs(margin) > tracker.PushEpsilon {
		t.Errorf("cover margin = %f, want within epsilon of 0", margin)
	}
}

func TestApplyFinalScoreGradesAndIsIdempotent(t *testing.T) {
	tr, mem := newTracker()
	ctx := context.Background()

	if _, _, err := tr.Track(ctx, testGame(), testAnalysis("Chiefs -3.5", 0.56)); err != nil {
		t.Fatal(err)
	}

	score := &models.FinalScore{
		GameID:    "nfl-2026-kc-buf",
		SportKey:  "americanfootball_nfl",
		HomeTeam:  "Chiefs",
		AwayTeam:  "Bills",
		HomeScore: 27,
		AwayScore: 20,
		Completed: true,
	}

	graded, err := tr.ApplyFinalScore(ctx, score)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(graded) != 1 || graded[0].Result != models.ResultWin {
		t.Fatalf("graded = %+v, want one WIN", graded)
	}

	// Re-delivery changes nothing
	graded, err = tr.ApplyFinalScore(ctx, score)
	if err != nil {
		t.Fatalf("unexpected error on redelivery: %v", err)
	}
	if len(graded) != 0 {
		t.Errorf("redelivery graded %d bets, want 0", len(graded))
	}

	day, _ := mem.GetRollup(ctx, gameTime, "americanfootball_nfl")
	if day == nil {
		t.Fatal("expected a rollup row")
	}
	if day.DailyWins != 1 || day.DailyLosses != 0 {
		t.Errorf("rollup = %d-%d, want 1-0", day.DailyWins, day.DailyLosses)
	}
	// A -110 winner returns 0.909 units
	if math.Abs(day.DailyUnits-0.909090909) > 0.0001 {
		t.Errorf("DailyUnits = %f, want 0.909", day.DailyUnits)
	}
}

func TestApplyFinalScoreCorrection(t *testing.T) {
	tr, mem := newTracker()
	ctx := context.Background()

	if _, _, err := tr.Track(ctx, testGame(), testAnalysis("Chiefs -3.5", 0.56)); err != nil {
		t.Fatal(err)
	}

	first := &models.FinalScore{
		GameID: "nfl-2026-kc-buf", SportKey: "americanfootball_nfl",
		HomeTeam: "Chiefs", AwayTeam: "Bills",
		HomeScore: 27, AwayScore: 20, Completed: true,
	}
	if _, err := tr.ApplyFinalScore(ctx, first); err != nil {
		t.Fatal(err)
	}

	// Corrected score flips the WIN to a LOSS
	corrected := &models.FinalScore{
		GameID: "nfl-2026-kc-buf", SportKey: "americanfootball_nfl",
		HomeTeam: "Chiefs", AwayTeam: "Bills",
		HomeScore: 22, AwayScore: 20, Completed: true,
	}
	graded, err := tr.ApplyFinalScore(ctx, corrected)
	if err != nil {
		t.Fatal(err)
	}
	if len(graded) != 1 || graded[0].Result != models.ResultLoss {
		t.Fatalf("graded = %+v, want one LOSS", graded)
	}

	// The prior win's contribution is fully reversed
	day, _ := mem.GetRollup(ctx, gameTime, "americanfootball_nfl")
	if day.DailyWins != 0 || day.DailyLosses != 1 {
		t.Errorf("rollup = %d-%d, want 0-1 after correction", day.DailyWins, day.DailyLosses)
	}
	if math.Abs(day.DailyUnits-(-1.0)) > 0.0001 {
		t.Errorf("DailyUnits = %f, want -1.0", day.DailyUnits)
	}
}

func TestApplyFinalScoreGradingDoesNotTouchTimesAppeared(t *testing.T) {
	tr, mem := newTracker()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, _, err := tr.Track(ctx, testGame(), testAnalysis("Chiefs -3.5", 0.56)); err != nil {
			t.Fatal(err)
		}
	}

	score := &models.FinalScore{
		GameID: "nfl-2026-kc-buf", SportKey: "americanfootball_nfl",
		HomeTeam: "Chiefs", AwayTeam: "Bills",
		HomeScore: 27, AwayScore: 20, Completed: true,
	}
	if _, err := tr.ApplyFinalScore(ctx, score); err != nil {
		t.Fatal(err)
	}

	bet, err := mem.GetTrackedBet(ctx, "nfl-2026-kc-buf", "Chiefs -3.5")
	if err != nil {
		t.Fatal(err)
	}
	if bet.TimesAppeared != 2 {
		t.Errorf("TimesAppeared = %d, want 2 after grading", bet.TimesAppeared)
	}
}

func TestApplyFinalScoreIncompleteGameIsNoop(t *testing.T) {
	tr, _ := newTracker()
	ctx := context.Background()

	if _, _, err := tr.Track(ctx, testGame(), testAnalysis("Chiefs -3.5", 0.56)); err != nil {
		t.Fatal(err)
	}

	graded, err := tr.ApplyFinalScore(ctx, &models.FinalScore{
		GameID: "nfl-2026-kc-buf", HomeScore: 14, AwayScore: 10, Completed: false,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(graded) != 0 {
		t.Errorf("incomplete game graded %d bets, want 0", len(graded))
	}
}

func TestApplyFinalScoreUngradablePickStaysPending(t *testing.T) {
	tr, mem := newTracker()
	ctx := context.Background()

	analysis := testAnalysis("Chiefs ML", 0.56)
	if _, _, err := tr.Track(ctx, testGame(), analysis); err != nil {
		t.Fatal(err)
	}

	score := &models.FinalScore{
		GameID: "nfl-2026-kc-buf", SportKey: "americanfootball_nfl",
		HomeTeam: "Chiefs", AwayTeam: "Bills",
		HomeScore: 27, AwayScore: 20, Completed: true,
	}
	graded, err := tr.ApplyFinalScore(ctx, score)
	if !errors.Is(err, tracker.ErrUngradableBet) {
		t.Errorf("error = %v, want ErrUngradableBet", err)
	}
	if len(graded) != 0 {
		t.Errorf("graded %d bets, want 0", len(graded))
	}

	bet, _ := mem.GetTrackedBet(ctx, "nfl-2026-kc-buf", "Chiefs ML")
	if bet.Result != models.ResultPending {
		t.Errorf("Result = %s, want PENDING", bet.Result)
	}
}

func TestCreateSnapshot(t *testing.T) {
	tr, mem := newTracker()
	ctx := context.Background()

	if _, _, err := tr.Track(ctx, testGame(), testAnalysis("Chiefs -3.5", 0.56)); err != nil {
		t.Fatal(err)
	}

	snapshot, err := tr.CreateSnapshot(ctx, "americanfootball_nfl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snapshot.ID == "" {
		t.Error("snapshot needs an ID")
	}
	if snapshot.PendingCount != 1 || len(snapshot.BestBets) != 1 {
		t.Errorf("snapshot = %d pending, %d bets, want 1 and 1", snapshot.PendingCount, len(snapshot.BestBets))
	}
	if math.Abs(snapshot.AvgConfidence-0.56) > 0.0001 {
		t.Errorf("AvgConfidence = %f, want 0.56", snapshot.AvgConfidence)
	}
	if len(mem.Snapshots()) != 1 {
		t.Errorf("stored %d snapshots, want 1", len(mem.Snapshots()))
	}
}
