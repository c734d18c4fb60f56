package factors

import "github.com/sfutchko/seanpicks-sub001/pkg/contracts"

// DefaultScorers returns the full scorer set in its stable evaluation
// order. Order matters only for tie-breaking when insights are sorted
// by magnitude.
func DefaultScorers(config Config) []contracts.FactorScorer {
	return []contracts.FactorScorer{
		NewSharpScorer(config),
		NewLineMoveScorer(config),
		NewInjuryScorer(config),
		NewPublicScorer(config),
		NewWeatherScorer(config),
	}
}
