package factors

import (
	"fmt"

	"github.com/sfutchko/seanpicks-sub001/pkg/models"
)

// SharpScorer turns the sharp_action and reverse_line_movement flags
// into a fixed-magnitude adjustment toward the side the sharp money is
// inferred to be on. Inference order: opposite a reliable public
// majority, then the direction of line movement; with neither, the
// flags stay neutral rather than guessing a side.
type SharpScorer struct {
	config Config
}

// NewSharpScorer creates a sharp action scorer
func NewSharpScorer(config Config) *SharpScorer {
	return &SharpScorer{config: config}
}

// Name returns the factor name
func (s *SharpScorer) Name() string {
	return "sharp_action"
}

// Score produces the sharp money factor
func (s *SharpScorer) Score(game *models.Game, signals *models.Signals) models.Factor {
	if !game.SharpAction && !game.ReverseLineMovement {
		return models.Factor{
			Name:      s.Name(),
			Rationale: "no sharp action indicators",
		}
	}

	direction, how := s.inferSide(game, signals)
	if direction == 0 {
		return models.Factor{
			Name:      s.Name(),
			Rationale: "sharp action flagged but side cannot be inferred",
		}
	}

	magnitude := 0.0
	flags := ""
	if game.SharpAction {
		magnitude += s.config.SharpMagnitude
		flags = "sharp action"
	}
	if game.ReverseLineMovement {
		magnitude += s.config.SharpMagnitude
		if flags != "" {
			flags += " + reverse line movement"
		} else {
			flags = "reverse line movement"
		}
	}

	side := game.HomeTeam
	if direction < 0 {
		side = game.AwayTeam
	}

	return models.Factor{
		Name:       s.Name(),
		Adjustment: direction * magnitude,
		Rationale:  fmt.Sprintf("Sharp money on %s (%s, inferred from %s)", side, flags, how),
	}
}

// inferSide returns +1 for home, -1 for away, 0 when no direction can
// be read from the available signals.
func (s *SharpScorer) inferSide(game *models.Game, signals *models.Signals) (float64, string) {
	// Sharps are typically opposite a lopsided public
	if public := signals.PublicBetting; public != nil && public.Confidence >= s.config.ReliabilityFloor {
		if public.HomePercentage > 50 {
			return -1, "public split"
		}
		if public.AwayPercentage > 50 {
			return 1, "public split"
		}
	}

	// Fall back to line movement: home spread dropping means money on home
	if signals.OpeningSpread != nil {
		move := game.Spread - *signals.OpeningSpread
		if move < 0 {
			return 1, "line movement"
		}
		if move > 0 {
			return -1, "line movement"
		}
	}

	return 0, ""
}
