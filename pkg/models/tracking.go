package models

import "time"

// BetResult is the lifecycle state of a tracked bet
type BetResult string

const (
	ResultPending BetResult = "PENDING"
	ResultWin     BetResult = "WIN"
	ResultLoss    BetResult = "LOSS"
	ResultPush    BetResult = "PUSH"
)

// Terminal reports whether the result is a graded end state
func (r BetResult) Terminal() bool {
	return r == ResultWin || r == ResultLoss || r == ResultPush
}

// TrackedBet is one row per distinct (game_id, pick) ever surfaced as a
// recommendation. Re-surfacing the same pick updates the row in place.
type TrackedBet struct {
	ID            string    `json:"id"`
	GameID        string    `json:"game_id"`
	SportKey      string    `json:"sport_key"`
	HomeTeam      string    `json:"home_team"`
	AwayTeam      string    `json:"away_team"`
	GameTime      time.Time `json:"game_time"`
	Pick          string    `json:"pick"`
	Spread        float64   `json:"spread"`
	Odds          int       `json:"odds"`
	Confidence    float64   `json:"confidence"`
	KellyStake    float64   `json:"kelly_stake"`
	Edge          float64   `json:"edge"`
	BestBook      string    `json:"best_book,omitempty"`
	BestSpread    float64   `json:"best_spread"`
	BestOdds      int       `json:"best_odds"`
	FirstSeen     time.Time `json:"first_seen"`
	LastSeen      time.Time `json:"last_seen"`
	TimesAppeared int       `json:"times_appeared"`
	Result        BetResult `json:"result"`
	HomeScore     *int      `json:"home_score,omitempty"`
	AwayScore     *int      `json:"away_score,omitempty"`
	ActualMargin  *float64  `json:"actual_margin,omitempty"`
	Patterns      []string  `json:"patterns,omitempty"`
	PublicPct     *float64  `json:"public_percentage,omitempty"`
	SharpAction   bool      `json:"sharp_action,omitempty"`
}

// BetSnapshot is an immutable point-in-time capture of the best-bets
// list. Append-only, one per scheduled capture.
type BetSnapshot struct {
	ID            string       `json:"id"`
	SnapshotTime  time.Time    `json:"snapshot_time"`
	SportKey      string       `json:"sport_key"`
	BestBets      []TrackedBet `json:"best_bets"`
	TotalBets     int          `json:"total_bets"`
	AvgConfidence float64      `json:"avg_confidence"`
	PendingCount  int          `json:"pending_count"`
	WinCount      int          `json:"win_count"`
	LossCount     int          `json:"loss_count"`
	PushCount     int          `json:"push_count"`
}

// TierRecord is a win-loss-push record for one confidence tier
type TierRecord struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Pushes int `json:"pushes"`
}

// PerformanceRollup is the per (date, sport) aggregate of daily and
// running results. Updated additively as bets are graded.
type PerformanceRollup struct {
	Date        time.Time  `json:"date"`
	SportKey    string     `json:"sport_key"`
	DailyWins   int        `json:"daily_wins"`
	DailyLosses int        `json:"daily_losses"`
	DailyPushes int        `json:"daily_pushes"`
	DailyUnits  float64    `json:"daily_units"`
	DailyROI    float64    `json:"daily_roi"`
	TotalWins   int        `json:"total_wins"`
	TotalLosses int        `json:"total_losses"`
	TotalPushes int        `json:"total_pushes"`
	TotalUnits  float64    `json:"total_units"`
	TotalROI    float64    `json:"total_roi"`
	HighConf    TierRecord `json:"high_conf_record"`
	MediumConf  TierRecord `json:"medium_conf_record"`
	LowConf     TierRecord `json:"low_conf_record"`
}

// PerformanceReport summarizes graded bets over a trailing window
type PerformanceReport struct {
	Record       string                `json:"record"`
	WinRatePct   float64               `json:"win_rate_pct"`
	Units        float64               `json:"units"`
	ROIPct       float64               `json:"roi_pct"`
	TotalBets    int                   `json:"total_bets"`
	ByConfidence map[string]TierRecord `json:"by_confidence"`
}
