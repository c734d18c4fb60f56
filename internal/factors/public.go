package factors

import (
	"fmt"

	"github.com/sfutchko/seanpicks-sub001/pkg/models"
)

// PublicScorer fades lopsided public betting. The adjustment fires
// only when one side's share clears the fade threshold AND the report
// itself is reliable enough to act on.
type PublicScorer struct {
	config Config
}

// NewPublicScorer creates a public betting scorer
func NewPublicScorer(config Config) *PublicScorer {
	return &PublicScorer{config: config}
}

// Name returns the factor name
func (s *PublicScorer) Name() string {
	return "public_betting"
}

// Score produces the contrarian fade factor
func (s *PublicScorer) Score(game *models.Game, signals *models.Signals) models.Factor {
	public := signals.PublicBetting
	if public == nil {
		return models.Factor{
			Name:      s.Name(),
			Rationale: "no public betting data available",
		}
	}

	if public.Confidence < s.config.ReliabilityFloor {
		return models.Factor{
			Name:      s.Name(),
			Rationale: fmt.Sprintf("public betting data below reliability floor (%.2f)", public.Confidence),
		}
	}

	switch {
	case public.HomePercentage >= s.config.FadeThresholdPct:
		return models.Factor{
			Name:       s.Name(),
			Adjustment: -s.config.FadeMagnitude,
			Rationale:  fmt.Sprintf("Public heavily on home (%.0f%%), fading toward %s", public.HomePercentage, game.AwayTeam),
		}
	case public.AwayPercentage >= s.config.FadeThresholdPct:
		return models.Factor{
			Name:       s.Name(),
			Adjustment: s.config.FadeMagnitude,
			Rationale:  fmt.Sprintf("Public heavily on away (%.0f%%), fading toward %s", public.AwayPercentage, game.HomeTeam),
		}
	}

	return models.Factor{
		Name:      s.Name(),
		Rationale: fmt.Sprintf("public split %.0f/%.0f, no fade", public.HomePercentage, public.AwayPercentage),
	}
}
