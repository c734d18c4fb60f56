package analyzer

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/sfutchko/seanpicks-sub001/internal/consensus"
	"github.com/sfutchko/seanpicks-sub001/pkg/contracts"
	"github.com/sfutchko/seanpicks-sub001/pkg/models"
	"github.com/sfutchko/seanpicks-sub001/pkg/oddsmath"
)

// ErrMalformedGame is returned when a game descriptor is missing the
// fields no analysis can proceed without.
var ErrMalformedGame = errors.New("malformed game descriptor")

// BaseConfidence is the neutral starting probability before factors
const BaseConfidence = 0.50

// Config holds the pick-selection policy
type Config struct {
	StrongThreshold float64 // confidence for a full-conviction pick
	LeanThreshold   float64 // confidence for a lower-conviction pick
	DefaultOdds     int     // standard spread juice used for staking
	Staking         oddsmath.StakingConfig
}

// DefaultConfig returns the policy the engine ships with
func DefaultConfig() Config {
	return Config{
		StrongThreshold: 0.54,
		LeanThreshold:   0.52,
		DefaultOdds:     -110,
		Staking:         oddsmath.DefaultStakingConfig(),
	}
}

// Analyzer combines factor scorers into a single recommendation per
// game. Analysis is pure and synchronous; one Analyzer may be shared
// across goroutines.
type Analyzer struct {
	scorers []contracts.FactorScorer
	config  Config
}

// New creates an analyzer with the given scorer set
func New(scorers []contracts.FactorScorer, config Config) *Analyzer {
	return &Analyzer{
		scorers: scorers,
		config:  config,
	}
}

// Analyze runs every scorer over the game's signals and derives the
// confidence, pick, and stake. Absent optional signals never fail the
// analysis; only a malformed descriptor or a game with no line data at
// all is fatal.
func (a *Analyzer) Analyze(game *models.Game, signals *models.Signals) (*models.AnalysisResult, error) {
	if game == nil || game.HomeTeam == "" || game.AwayTeam == "" {
		return nil, fmt.Errorf("%w: missing team names", ErrMalformedGame)
	}
	if signals == nil {
		signals = &models.Signals{}
	}

	quotes := consensus.QuotesFromGame(game)
	line, err := consensus.Build(quotes)
	if err != nil {
		// Caller-supplied headline numbers are the fallback when no
		// per-book quotes exist
		if game.Spread == 0 && game.Total == 0 {
			return nil, fmt.Errorf("game %s: %w", game.ID, err)
		}
		line = &models.ConsensusLine{
			ConsensusSpread: game.Spread,
			ConsensusTotal:  game.Total,
		}
	}

	// Score every factor, then sum on the shared home-favoring scale
	allFactors := make([]models.Factor, 0, len(a.scorers))
	sum := 0.0
	for _, scorer := range a.scorers {
		factor := scorer.Score(game, signals)
		allFactors = append(allFactors, factor)
		sum += factor.Adjustment
	}

	confidence := clip(BaseConfidence+sum, 0.0, 1.0)

	insights := orderInsights(allFactors)
	if dispersion := consensus.DispersionInsight(line, quotes); dispersion != "" {
		insights = append(insights, dispersion)
	}

	pick := a.selectPick(game, line, quotes, confidence)

	result := &models.AnalysisResult{
		GameID:          game.ID,
		Matchup:         fmt.Sprintf("%s @ %s", game.AwayTeam, game.HomeTeam),
		SportKey:        game.SportKey,
		FinalConfidence: confidence,
		Factors:         allFactors,
		Insights:        insights,
		Pick:            pick.text,
		Tier:            pick.tier,
		Spread:          pick.spread,
		Edge:            oddsmath.Edge(confidence),
		KellyStake:      pick.kellyStake,
		Consensus:       line,
		PublicBetting:   signals.PublicBetting,
		Weather:         signals.Weather,
		HomeInjuries:    signals.HomeInjuries,
		AwayInjuries:    signals.AwayInjuries,
	}

	if pick.tier != models.TierFallback {
		result.BestBet = &models.BestBet{
			Pick:       pick.text,
			Tier:       pick.tier,
			Spread:     pick.spread,
			Odds:       a.config.DefaultOdds,
			Confidence: confidence,
			Edge:       result.Edge,
			KellyStake: pick.kellyStake,
			BestBook:   line.BestBook,
			BestSpread: line.BestSpread,
		}
	}

	return result, nil
}

// orderInsights returns the non-neutral rationales, most impactful
// first. The sort is stable so equal magnitudes keep scorer order and
// repeated runs stay byte-identical.
func orderInsights(allFactors []models.Factor) []string {
	active := make([]models.Factor, 0, len(allFactors))
	for _, f := range allFactors {
		if !f.Neutral() {
			active = append(active, f)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		return math.Abs(active[i].Adjustment) > math.Abs(active[j].Adjustment)
	})

	insights := make([]string, len(active))
	for i, f := range active {
		insights[i] = f.Rationale
	}
	return insights
}

func clip(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
