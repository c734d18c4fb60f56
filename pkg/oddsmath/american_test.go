package oddsmath_test

import (
	"math"
	"testing"

	"github.com/sfutchko/seanpicks-sub001/pkg/oddsmath"
)

func TestAmericanToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		american int
		want     float64
	}{
		{"Positive odds +100", 100, 2.0},
		{"Positive odds +150", 150, 2.5},
		{"Positive odds +200", 200, 3.0},
		{"Negative odds -110", -110, 1.909090909},
		{"Negative odds -150", -150, 1.666666667},
		{"Negative odds -200", -200, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := oddsmath.AmericanToDecimal(tt.american)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			// Allow small floating point differences
			if math.Abs(got-tt.want) > 0.0001 {
				t.Errorf("AmericanToDecimal(%d) = %f, want %f", tt.american, got, tt.want)
			}
		})
	}
}

func TestAmericanToDecimalZero(t *testing.T) {
	if _, err := oddsmath.AmericanToDecimal(0); err == nil {
		t.Error("AmericanToDecimal(0) should return an error")
	}
}

func TestDecimalToAmerican(t *testing.T) {
	tests := []struct {
		name    string
		decimal float64
		want    int
	}{
		{"Even odds 2.0", 2.0, 100},
		{"Underdog 2.5", 2.5, 150},
		{"Underdog 3.0", 3.0, 200},
		{"Favorite 1.909", 1.909, -110},
		{"Favorite 1.667", 1.667, -150},
		{"Favorite 1.5", 1.5, -200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := oddsmath.DecimalToAmerican(tt.decimal)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			// Allow ±1 for rounding
			diff := math.Abs(float64(got - tt.want))
			if diff > 2 {
				t.Errorf("DecimalToAmerican(%f) = %d, want %d", tt.decimal, got, tt.want)
			}
		})
	}
}

func TestAmericanToImpliedProbability(t *testing.T) {
	tests := []struct {
		name     string
		american int
		want     float64
	}{
		{"Even odds +100", 100, 0.50},
		{"Favorite -110", -110, 0.5238},
		{"Heavy favorite -200", -200, 0.6667},
		{"Underdog +150", 150, 0.40},
		{"Heavy underdog +300", 300, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := oddsmath.AmericanToImpliedProbability(tt.american)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if math.Abs(got-tt.want) > 0.0001 {
				t.Errorf("AmericanToImpliedProbability(%d) = %f, want %f", tt.american, got, tt.want)
			}
		})
	}
}

func TestRounding(t *testing.T) {
	if got := oddsmath.Round2(0.90909); got != 0.91 {
		t.Errorf("Round2(0.90909) = %f, want 0.91", got)
	}
	if got := oddsmath.Round4(0.523809); got != 0.5238 {
		t.Errorf("Round4(0.523809) = %f, want 0.5238", got)
	}
}
