package oddsmath

import (
	"fmt"
	"math"
)

// AmericanToDecimal converts American odds to decimal odds
// American +150 → Decimal 2.50
// American -110 → Decimal 1.909
func AmericanToDecimal(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("invalid American odds: cannot be 0")
	}

	if american > 0 {
		return (float64(american) / 100.0) + 1.0, nil
	}

	return (100.0 / float64(-american)) + 1.0, nil
}

// DecimalToAmerican converts decimal odds to American odds
func DecimalToAmerican(decimal float64) (int, error) {
	if decimal < 1.0 {
		return 0, fmt.Errorf("invalid decimal odds: must be >= 1.0")
	}

	if decimal >= 2.0 {
		return int(math.Round((decimal - 1.0) * 100.0)), nil
	}

	return int(math.Round(-100.0 / (decimal - 1.0))), nil
}

// AmericanToImpliedProbability converts American odds to the
// break-even probability baked into the price
// -110 → 0.5238
func AmericanToImpliedProbability(american int) (float64, error) {
	decimal, err := AmericanToDecimal(american)
	if err != nil {
		return 0, err
	}

	return 1.0 / decimal, nil
}

// Round2 rounds to 2 decimal places for display
func Round2(val float64) float64 {
	return math.Round(val*100) / 100
}

// Round4 rounds to 4 decimal places (probabilities)
func Round4(val float64) float64 {
	return math.Round(val*10000) / 10000
}
