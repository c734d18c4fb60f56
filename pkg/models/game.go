package models

import "time"

// Outcome is a single priced side within a bookmaker market
type Outcome struct {
	Name  string  `json:"name"`
	Price int     `json:"price,omitempty"`
	Point float64 `json:"point"`
}

// Market is one market (spreads, totals, h2h) quoted by a bookmaker
type Market struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

// Bookmaker holds one book's markets for a game
type Bookmaker struct {
	Key     string   `json:"key"`
	Markets []Market `json:"markets"`
}

// Game is the descriptor handed to the engine by the data layer.
// Spread and Total are the caller's headline consensus numbers;
// Bookmakers carries the raw per-book quotes used to rebuild consensus.
type Game struct {
	ID                  string      `json:"id"`
	SportKey            string      `json:"sport_key"`
	HomeTeam            string      `json:"home_team"`
	AwayTeam            string      `json:"away_team"`
	GameTime            time.Time   `json:"game_time"`
	Spread              float64     `json:"spread"`
	Total               float64     `json:"total"`
	SharpAction         bool        `json:"sharp_action,omitempty"`
	ReverseLineMovement bool        `json:"reverse_line_movement,omitempty"`
	Bookmakers          []Bookmaker `json:"bookmakers,omitempty"`
}

// BookmakerQuote is one book's raw numbers for a game, flattened out of
// the Bookmakers markets. Immutable once captured.
type BookmakerQuote struct {
	BookmakerID   string  `json:"bookmaker_id"`
	SpreadHome    float64 `json:"spread_home"`
	SpreadAway    float64 `json:"spread_away"`
	Total         float64 `json:"total"`
	MoneylineHome int     `json:"moneyline_home"`
	MoneylineAway int     `json:"moneyline_away"`
	HasSpread     bool    `json:"-"`
	HasTotal      bool    `json:"-"`
	HasMoneyline  bool    `json:"-"`
}

// ConsensusLine is derived per game from the quotes, never persisted.
type ConsensusLine struct {
	ConsensusSpread float64 `json:"consensus_spread"`
	ConsensusTotal  float64 `json:"consensus_total"`
	ConsensusHomeML int     `json:"consensus_home_ml"`
	ConsensusAwayML int     `json:"consensus_away_ml"`
	BestSpread      float64 `json:"best_spread"`
	BestBook        string  `json:"best_book"`
	Dispersion      float64 `json:"dispersion"`
	BookCount       int     `json:"book_count"`
}

// InjuryReport is the injury signal for one team
type InjuryReport struct {
	Out          []string `json:"out"`
	Questionable []string `json:"questionable"`
	ImpactScore  float64  `json:"impact_score"`
	Source       string   `json:"source"`
}

// PublicBetting is the public betting split for a game
type PublicBetting struct {
	HomePercentage float64 `json:"home_percentage"`
	AwayPercentage float64 `json:"away_percentage"`
	Confidence     float64 `json:"confidence"`
	SourcesCount   int     `json:"sources_count,omitempty"`
}

// Weather is the venue weather signal, keyed by home team
type Weather struct {
	Temperature float64 `json:"temperature"`
	WindSpeed   float64 `json:"wind_speed"`
	Description string  `json:"description"`
	Conditions  string  `json:"conditions,omitempty"`
	Indoor      bool    `json:"indoor,omitempty"`
}

// FinalScore is the authoritative final score used for grading
type FinalScore struct {
	GameID    string `json:"game_id"`
	SportKey  string `json:"sport_key,omitempty"`
	HomeTeam  string `json:"home_team,omitempty"`
	AwayTeam  string `json:"away_team,omitempty"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
	Completed bool   `json:"completed"`
}

// Signals bundles every optional signal for one game. A nil field means
// the signal is absent; scorers degrade to a neutral factor.
type Signals struct {
	HomeInjuries  *InjuryReport  `json:"home_injuries,omitempty"`
	AwayInjuries  *InjuryReport  `json:"away_injuries,omitempty"`
	PublicBetting *PublicBetting `json:"public_betting,omitempty"`
	Weather       *Weather       `json:"weather,omitempty"`
	OpeningSpread *float64       `json:"opening_spread,omitempty"`
}
