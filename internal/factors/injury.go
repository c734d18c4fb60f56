package factors

import (
	"fmt"

	"github.com/sfutchko/seanpicks-sub001/pkg/models"
)

// InjuryScorer converts the two teams' injury reports into a single
// home-signed adjustment. Injuries reduce the implied strength of the
// team carrying them, so a banged-up home team pushes the adjustment
// negative.
type InjuryScorer struct {
	config Config
}

// NewInjuryScorer creates an injury scorer
func NewInjuryScorer(config Config) *InjuryScorer {
	return &InjuryScorer{config: config}
}

// Name returns the factor name
func (s *InjuryScorer) Name() string {
	return "injuries"
}

// Score produces the injury factor. Missing reports on both sides are
// neutral, never an error.
func (s *InjuryScorer) Score(game *models.Game, signals *models.Signals) models.Factor {
	if signals.HomeInjuries == nil && signals.AwayInjuries == nil {
		return models.Factor{
			Name:      s.Name(),
			Rationale: "no injury data available",
		}
	}

	homeImpact := 0.0
	awayImpact := 0.0
	if signals.HomeInjuries != nil {
		homeImpact = signals.HomeInjuries.ImpactScore
	}
	if signals.AwayInjuries != nil {
		awayImpact = signals.AwayInjuries.ImpactScore
	}

	// Away injuries help the home side and vice versa
	adjustment := clamp((awayImpact-homeImpact)*s.config.InjuryWeight, s.config.MaxInjury)

	if adjustment == 0 {
		return models.Factor{
			Name:      s.Name(),
			Rationale: "injury impact even on both sides",
		}
	}

	hurt := game.HomeTeam
	if adjustment > 0 {
		hurt = game.AwayTeam
	}

	return models.Factor{
		Name:       s.Name(),
		Adjustment: adjustment,
		Rationale:  fmt.Sprintf("Injury edge against %s (impact %.1f vs %.1f)", hurt, homeImpact, awayImpact),
	}
}
