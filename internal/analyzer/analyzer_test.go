package analyzer_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/sfutchko/seanpicks-sub001/internal/analyzer"
	"github.com/sfutchko/seanpicks-sub001/internal/factors"
	"github.com/sfutchko/seanpicks-sub001/pkg/models"
)

func newAnalyzer() *analyzer.Analyzer {
	return analyzer.New(factors.DefaultScorers(factors.DefaultConfig()), analyzer.DefaultConfig())
}

func spreadGame(spread float64) *models.Game {
	return &models.Game{
		ID:       "nfl-2026-kc-buf",
		SportKey: "americanfootball_nfl",
		HomeTeam: "Chiefs",
		AwayTeam: "Bills",
		Spread:   spread,
		Total:    47.5,
		Bookmakers: []models.Bookmaker{
			{
				Key: "draftkings",
				Markets: []models.Market{
					{
						Key: "spreads",
						Outcomes: []models.Outcome{
							{Name: "Chiefs", Point: spread, Price: -110},
							{Name: "Bills", Point: -spread, Price: -110},
						},
					},
				},
			},
		},
	}
}

func TestAnalyzeNoSignalsIsFallback(t *testing.T) {
	a := newAnalyzer()

	result, err := a.Analyze(spreadGame(-3.5), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(result.FinalConfidence-0.50) > 0.0001 {
		t.Errorf("FinalConfidence = %f, want 0.50", result.FinalConfidence)
	}
	if result.Tier != models.TierFallback {
		t.Errorf("Tier = %s, want fallback", result.Tier)
	}
	// With no edge the pick follows the consensus favorite
	if result.Pick != "Chiefs -3.5" {
		t.Errorf("Pick = %q, want \"Chiefs -3.5\"", result.Pick)
	}
	if result.BestBet != nil {
		t.Error("fallback picks must not surface a best bet")
	}
	if result.KellyStake != 0 {
		t.Errorf("KellyStake = %f, want 0 for fallback", result.KellyStake)
	}
}

func TestAnalyzeFallbackTakesAwayFavorite(t *testing.T) {
	a := newAnalyzer()

	result, err := a.Analyze(spreadGame(6.5), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Pick != "Bills -6.5" {
		t.Errorf("Pick = %q, want \"Bills -6.5\"", result.Pick)
	}
}

func TestAnalyzeTierBoundaries(t *testing.T) {
	a := newAnalyzer()

	// injuries 0.04 clamped + public fade 0.02 toward home = 0.56...
	// case-by-case signal sets chosen to land on either side of the
	// strong threshold
	tests := []struct {
		name     string
		signals  *models.Signals
		wantTier string
	}{
		{
			"Two aligned factors reach strong",
			&models.Signals{
				HomeInjuries: &models.InjuryReport{ImpactScore: 0.0},
				AwayInjuries: &models.InjuryReport{ImpactScore: 0.5},
				PublicBetting: &models.PublicBetting{
					HomePercentage: 30, AwayPercentage: 70, Confidence: 0.8,
				},
			},
			models.TierStrong,
		},
		{
			"Injury clamp lands exactly on the strong threshold",
			&models.Signals{
				HomeInjuries: &models.InjuryReport{ImpactScore: 0.0},
				AwayInjuries: &models.InjuryReport{ImpactScore: 0.08},
			},
			models.TierStrong,
		},
		{
			"Hair under the strong threshold stays a lean",
			&models.Signals{
				HomeInjuries: &models.InjuryReport{ImpactScore: 0.0},
				AwayInjuries: &models.InjuryReport{ImpactScore: 0.0798},
			},
			models.TierLean,
		},
		{
			"Moderate injury edge is a lean",
			&models.Signals{
				HomeInjuries: &models.InjuryReport{ImpactScore: 0.0},
				AwayInjuries: &models.InjuryReport{ImpactScore: 0.05},
			},
			models.TierLean,
		},
		{
			"Light wind alone never clears the lean bar",
			&models.Signals{
				Weather: &models.Weather{Temperature: 55, WindSpeed: 16},
			},
			models.TierFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := a.Analyze(spreadGame(-3.5), tt.signals)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Tier != tt.wantTier {
				t.Errorf("Tier = %s, want %s (confidence %f)", result.Tier, tt.wantTier, result.FinalConfidence)
			}
		})
	}
}

func TestAnalyzeAwaySidePick(t *testing.T) {
	a := newAnalyzer()

	// Home injuries push confidence below 0.5; effective probability
	// belongs to the away side
	signals := &models.Signals{
		HomeInjuries: &models.InjuryReport{ImpactScore: 0.5},
		AwayInjuries: &models.InjuryReport{ImpactScore: 0.0},
		PublicBetting: &models.PublicBetting{
			HomePercentage: 70, AwayPercentage: 30, Confidence: 0.8,
		},
	}

	result, err := a.Analyze(spreadGame(-3.5), signals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(result.FinalConfidence-0.44) > 0.0001 {
		t.Errorf("FinalConfidence = %f, want 0.44", result.FinalConfidence)
	}
	if result.Tier != models.TierStrong {
		t.Errorf("Tier = %s, want strong", result.Tier)
	}
	if result.Pick != "Bills +3.5" {
		t.Errorf("Pick = %q, want \"Bills +3.5\"", result.Pick)
	}
	if result.BestBet == nil {
		t.Fatal("strong pick must surface a best bet")
	}
	if result.BestBet.Odds != -110 {
		t.Errorf("BestBet.Odds = %d, want -110", result.BestBet.Odds)
	}
}

func TestAnalyzeMalformedGame(t *testing.T) {
	a := newAnalyzer()

	_, err := a.Analyze(&models.Game{ID: "x", HomeTeam: "Chiefs"}, nil)
	if !errors.Is(err, analyzer.ErrMalformedGame) {
		t.Errorf("error = %v, want ErrMalformedGame", err)
	}
}

func TestAnalyzeNoLineDataAtAll(t *testing.T) {
	a := newAnalyzer()

	game := &models.Game{ID: "x", HomeTeam: "Chiefs", AwayTeam: "Bills"}
	if _, err := a.Analyze(game, nil); err == nil {
		t.Error("game with neither quotes nor headline numbers should fail")
	}
}

func TestAnalyzeHeadlineFallbackWithoutQuotes(t *testing.T) {
	a := newAnalyzer()

	game := &models.Game{
		ID:       "x",
		HomeTeam: "Chiefs",
		AwayTeam: "Bills",
		Spread:   -7.0,
		Total:    44.0,
	}

	result, err := a.Analyze(game, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Consensus.ConsensusSpread != -7.0 {
		t.Errorf("ConsensusSpread = %f, want -7.0 from headline", result.Consensus.ConsensusSpread)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	a := newAnalyzer()

	signals := &models.Signals{
		HomeInjuries: &models.InjuryReport{ImpactScore: 0.02},
		AwayInjuries: &models.InjuryReport{ImpactScore: 0.07},
		PublicBetting: &models.PublicBetting{
			HomePercentage: 68, AwayPercentage: 32, Confidence: 0.9,
		},
		Weather: &models.Weather{Temperature: 28, WindSpeed: 17},
	}

	first, err := a.Analyze(spreadGame(-3.5), signals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := a.Analyze(spreadGame(-3.5), signals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	firstJSON, _ := json.Marshal(first)
	secondJSON, _ := json.Marshal(second)
	if string(firstJSON) != string(secondJSON) {
		t.Error("identical inputs must produce byte-identical results")
	}
}

func TestAnalyzeInsightsOrderedByImpact(t *testing.T) {
	a := newAnalyzer()

	signals := &models.Signals{
		// injuries clamp at 0.04, weather contributes -0.01
		HomeInjuries: &models.InjuryReport{ImpactScore: 0.0},
		AwayInjuries: &models.InjuryReport{ImpactScore: 0.5},
		Weather:      &models.Weather{Temperature: 55, WindSpeed: 16},
	}

	result, err := a.Analyze(spreadGame(-3.5), signals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Insights) < 2 {
		t.Fatalf("got %d insights, want at least 2", len(result.Insights))
	}
	// The larger-magnitude injury factor must come first
	if result.Insights[0] == "" || result.Insights[0] == result.Insights[1] {
		t.Errorf("unexpected insight ordering: %v", result.Insights)
	}
}

func TestAnalyzeBestLineSelection(t *testing.T) {
	a := newAnalyzer()

	game := spreadGame(-3.5)
	game.Bookmakers = append(game.Bookmakers, models.Bookmaker{
		Key: "fanduel",
		Markets: []models.Market{
			{
				Key: "spreads",
				Outcomes: []models.Outcome{
					{Name: "Chiefs", Point: -3.0, Price: -110},
					{Name: "Bills", Point: 3.0, Price: -110},
				},
			},
		},
	})

	// Confidence above 0.5 puts the pick on the home side; fanduel's
	// -3.0 gives that side the most points
	signals := &models.Signals{
		HomeInjuries: &models.InjuryReport{ImpactScore: 0.0},
		AwayInjuries: &models.InjuryReport{ImpactScore: 0.5},
	}

	result, err := a.Analyze(game, signals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Consensus.BestBook != "fanduel" {
		t.Errorf("BestBook = %s, want fanduel", result.Consensus.BestBook)
	}
	if result.Consensus.BestSpread != -3.0 {
		t.Errorf("BestSpread = %f, want -3.0", result.Consensus.BestSpread)
	}
}

func TestConfidenceStaysInBounds(t *testing.T) {
	a := newAnalyzer()

	// Stack every home-negative signal available
	signals := &models.Signals{
		HomeInjuries: &models.InjuryReport{ImpactScore: 5.0},
		PublicBetting: &models.PublicBetting{
			HomePercentage: 99, AwayPercentage: 1, Confidence: 1.0,
		},
		Weather: &models.Weather{Temperature: -10, WindSpeed: 40},
	}

	result, err := a.Analyze(spreadGame(-3.5), signals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.FinalConfidence < 0.0 || result.FinalConfidence > 1.0 {
		t.Errorf("FinalConfidence = %f out of [0, 1]", result.FinalConfidence)
	}
}

func TestFormatPick(t *testing.T) {
	tests := []struct {
		team   string
		spread float64
		want   string
	}{
		{"Chiefs", -3.5, "Chiefs -3.5"},
		{"Bills", 3.5, "Bills +3.5"},
		{"Jets", 0.0, "Jets +0.0"},
		{"Green Bay Packers", -7.0, "Green Bay Packers -7.0"},
	}

	for _, tt := range tests {
		if got := analyzer.FormatPick(tt.team, tt.spread); got != tt.want {
			t.Errorf("FormatPick(%q, %f) = %q, want %q", tt.team, tt.spread, got, tt.want)
		}
	}
}
