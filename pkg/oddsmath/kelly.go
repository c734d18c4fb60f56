package oddsmath

import "fmt"

// StakingConfig bounds the Kelly stake recommendation. The multiplier
// is the fractional-Kelly scale; MaxFraction caps a single bet as a
// share of bankroll; MinFraction is the dust floor below which the
// recommendation becomes "no bet".
type StakingConfig struct {
	Multiplier  float64
	MaxFraction float64
	MinFraction float64
}

// DefaultStakingConfig returns quarter-Kelly capped at 5% with a 0.5%
// dust floor.
func DefaultStakingConfig() StakingConfig {
	return StakingConfig{
		Multiplier:  0.25,
		MaxFraction: 0.05,
		MinFraction: 0.005,
	}
}

// Edge converts a home-relative confidence into the model's edge over
// a coin flip: |confidence - 0.5| * 2.
func Edge(confidence float64) float64 {
	edge := (confidence - 0.5) * 2.0
	if edge < 0 {
		edge = -edge
	}
	return edge
}

// KellyStake computes the recommended stake fraction for a bet with
// the given win probability at the given American odds.
//
// Kelly formula: f* = (b*p - q) / b, where b = decimal odds - 1.
// The raw fraction is scaled by cfg.Multiplier, floored at 0, capped
// at cfg.MaxFraction, and zeroed below cfg.MinFraction.
func KellyStake(winProbability float64, americanOdds int, cfg StakingConfig) (float64, error) {
	if winProbability <= 0 || winProbability >= 1 {
		return 0, fmt.Errorf("invalid win probability: %.4f", winProbability)
	}

	decimal, err := AmericanToDecimal(americanOdds)
	if err != nil {
		return 0, err
	}

	b := decimal - 1.0
	p := winProbability
	q := 1.0 - p

	kelly := (b*p - q) / b
	if kelly <= 0 {
		return 0, nil
	}

	fractional := kelly * cfg.Multiplier
	if fractional > cfg.MaxFraction {
		fractional = cfg.MaxFraction
	}
	if fractional < cfg.MinFraction {
		return 0, nil
	}

	return fractional, nil
}

// UnitsWon returns the units returned on a 1-unit bet that wins at the
// given American odds. A -110 winner returns 0.909 units.
func UnitsWon(americanOdds int) float64 {
	decimal, err := AmericanToDecimal(americanOdds)
	if err != nil {
		// Unpriced bets settle at standard juice
		decimal, _ = AmericanToDecimal(-110)
	}
	return decimal - 1.0
}
