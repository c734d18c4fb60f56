package factors

import (
	"fmt"

	"github.com/sfutchko/seanpicks-sub001/pkg/models"
)

// LineMoveScorer compares the opening spread to the current consensus
// and follows steam: a small adjustment in the direction the market
// has already moved.
type LineMoveScorer struct {
	config Config
}

// NewLineMoveScorer creates a line movement scorer
func NewLineMoveScorer(config Config) *LineMoveScorer {
	return &LineMoveScorer{config: config}
}

// Name returns the factor name
func (s *LineMoveScorer) Name() string {
	return "line_movement"
}

// Score produces the steam factor
func (s *LineMoveScorer) Score(game *models.Game, signals *models.Signals) models.Factor {
	if signals.OpeningSpread == nil {
		return models.Factor{
			Name:      s.Name(),
			Rationale: "no opening line available",
		}
	}

	opening := *signals.OpeningSpread
	move := game.Spread - opening

	if move > -s.config.SteamMinMove && move < s.config.SteamMinMove {
		return models.Factor{
			Name:      s.Name(),
			Rationale: fmt.Sprintf("line stable since open (%+.1f to %+.1f)", opening, game.Spread),
		}
	}

	// Home spread dropping means the market moved toward home
	adjustment := s.config.SteamMagnitude
	toward := game.HomeTeam
	if move > 0 {
		adjustment = -adjustment
		toward = game.AwayTeam
	}

	return models.Factor{
		Name:       s.Name(),
		Adjustment: adjustment,
		Rationale:  fmt.Sprintf("Line moved %+.1f to %+.1f since open, steam toward %s", opening, game.Spread, toward),
	}
}
