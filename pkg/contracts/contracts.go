package contracts

import (
	"context"

	"github.com/sfutchko/seanpicks-sub001/pkg/models"
)

// FactorScorer scores one signal type for a game. Implementations are
// side-effect free and must tolerate absent signals by returning a
// neutral factor with an explanatory rationale.
type FactorScorer interface {
	// Name returns the stable factor name this scorer owns
	Name() string

	// Score produces the scorer's bounded, home-signed adjustment
	Score(game *models.Game, signals *models.Signals) models.Factor
}

// SignalProvider supplies optional signals for a game. The data layer
// that fetches these lives outside the engine; a nil signal with a nil
// error means the signal is legitimately absent.
type SignalProvider interface {
	InjuryReport(ctx context.Context, team string) (*models.InjuryReport, error)
	PublicBetting(ctx context.Context, awayTeam, homeTeam string) (*models.PublicBetting, error)
	Weather(ctx context.Context, homeTeam string) (*models.Weather, error)
}

// LineHistory records observed lines and serves the earliest recorded
// consensus spread as the opening line for movement detection.
type LineHistory interface {
	RecordLines(ctx context.Context, game *models.Game, quotes []models.BookmakerQuote) error
	OpeningSpread(ctx context.Context, gameID string) (float64, bool, error)
}

// ScoreSource delivers authoritative final scores for grading
type ScoreSource interface {
	Scores(ctx context.Context) (<-chan models.FinalScore, <-chan error)
}
