package analyzer

import (
	"fmt"

	"github.com/sfutchko/seanpicks-sub001/internal/consensus"
	"github.com/sfutchko/seanpicks-sub001/pkg/models"
	"github.com/sfutchko/seanpicks-sub001/pkg/oddsmath"
)

// selection is the pick derived from confidence and the consensus line
type selection struct {
	text       string
	tier       string
	spread     float64
	kellyStake float64
}

// selectPick maps confidence onto a concrete side and stake.
//
// Confidence above 0.5 favors home, below favors away; the tier
// thresholds apply to the favored side's probability. Below the lean
// threshold the model has no edge worth betting against the market, so
// the fallback takes the side the raw consensus spread already favors.
func (a *Analyzer) selectPick(game *models.Game, line *models.ConsensusLine, quotes []models.BookmakerQuote, confidence float64) selection {
	homeSide := confidence > 0.5
	effective := confidence
	if !homeSide {
		effective = 1.0 - confidence
	}

	var tier string
	switch {
	case effective >= a.config.StrongThreshold:
		tier = models.TierStrong
	case effective >= a.config.LeanThreshold:
		tier = models.TierLean
	default:
		tier = models.TierFallback
		// Do not bet against the market absent sufficient edge: take
		// the side the consensus spread favors
		homeSide = line.ConsensusSpread <= 0
	}

	team := game.HomeTeam
	spread := line.ConsensusSpread
	if !homeSide {
		team = game.AwayTeam
		spread = -line.ConsensusSpread
	}

	// Best line is chosen once the side is known: the book giving the
	// bettor the most points for that side
	if best, book, ok := consensus.BestForSide(quotes, homeSide); ok {
		line.BestSpread = best
		line.BestBook = book
	} else {
		line.BestSpread = spread
	}

	stake := 0.0
	if tier != models.TierFallback {
		stake, _ = oddsmath.KellyStake(effective, a.config.DefaultOdds, a.config.Staking)
	}

	return selection{
		text:       FormatPick(team, spread),
		tier:       tier,
		spread:     spread,
		kellyStake: stake,
	}
}

// FormatPick renders the canonical pick string. The sign is always
// explicit: "Kansas City Chiefs -3.5", "Buffalo Bills +3.5".
func FormatPick(team string, spread float64) string {
	return fmt.Sprintf("%s %+.1f", team, spread)
}
