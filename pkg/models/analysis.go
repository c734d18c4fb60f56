package models

// Factor is one scorer's bounded, signed contribution to confidence.
// Positive adjustments favor the home side.
type Factor struct {
	Name       string  `json:"name"`
	Adjustment float64 `json:"adjustment"`
	Rationale  string  `json:"rationale"`
}

// Neutral reports whether the factor carries no adjustment
func (f Factor) Neutral() bool {
	return f.Adjustment == 0
}

// Pick tiers
const (
	TierStrong   = "strong"
	TierLean     = "lean"
	TierFallback = "fallback"
)

// BestBet is the staked recommendation attached to qualifying analyses
type BestBet struct {
	Pick       string  `json:"pick"`
	Tier       string  `json:"tier"`
	Spread     float64 `json:"spread"`
	Odds       int     `json:"odds"`
	Confidence float64 `json:"confidence"`
	Edge       float64 `json:"edge"`
	KellyStake float64 `json:"kelly_stake"`
	BestBook   string  `json:"best_book,omitempty"`
	BestSpread float64 `json:"best_spread"`
}

// AnalysisResult is the full output for one game. Produced fresh per
// request; it has no identity beyond the game it describes.
type AnalysisResult struct {
	GameID          string         `json:"game_id"`
	Matchup         string         `json:"matchup"`
	SportKey        string         `json:"sport_key,omitempty"`
	FinalConfidence float64        `json:"final_confidence"`
	Factors         []Factor       `json:"factors"`
	Insights        []string       `json:"insights"`
	Pick            string         `json:"pick"`
	Tier            string         `json:"tier"`
	Spread          float64        `json:"spread"`
	Edge            float64        `json:"edge"`
	KellyStake      float64        `json:"kelly_stake"`
	Consensus       *ConsensusLine `json:"consensus,omitempty"`
	BestBet         *BestBet       `json:"best_bet,omitempty"`
	PublicBetting   *PublicBetting `json:"public_betting,omitempty"`
	Weather         *Weather       `json:"weather,omitempty"`
	HomeInjuries    *InjuryReport  `json:"home_injuries,omitempty"`
	AwayInjuries    *InjuryReport  `json:"away_injuries,omitempty"`
}
