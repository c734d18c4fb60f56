package factors

import (
	"fmt"

	"github.com/sfutchko/seanpicks-sub001/pkg/models"
)

// WeatherScorer maps wind and temperature into a totals-direction
// adjustment for outdoor venues. Negative means conditions suppress
// scoring (toward the under). Domes are always neutral.
type WeatherScorer struct {
	config Config
}

// NewWeatherScorer creates a weather scorer
func NewWeatherScorer(config Config) *WeatherScorer {
	return &WeatherScorer{config: config}
}

// Name returns the factor name
func (s *WeatherScorer) Name() string {
	return "weather"
}

// Score produces the weather factor
func (s *WeatherScorer) Score(game *models.Game, signals *models.Signals) models.Factor {
	weather := signals.Weather
	if weather == nil {
		return models.Factor{
			Name:      s.Name(),
			Rationale: "no weather data available",
		}
	}

	if weather.Indoor {
		return models.Factor{
			Name:      s.Name(),
			Rationale: "indoor stadium, no weather impact",
		}
	}

	adjustment := 0.0
	detail := ""

	switch {
	case weather.WindSpeed >= s.config.WindSecondStepMph:
		adjustment -= s.config.WindSecondAdj
		detail = fmt.Sprintf("%.0f mph wind favors the under", weather.WindSpeed)
	case weather.WindSpeed >= s.config.WindFirstStepMph:
		adjustment -= s.config.WindFirstAdj
		detail = fmt.Sprintf("%.0f mph wind leans under", weather.WindSpeed)
	}

	if weather.Temperature <= s.config.ColdThresholdF {
		adjustment -= s.config.ColdAdj
		if detail != "" {
			detail += ", "
		}
		detail += fmt.Sprintf("%.0fF cold adds to it", weather.Temperature)
	}

	adjustment = clamp(adjustment, s.config.MaxWeather)

	if adjustment == 0 {
		return models.Factor{
			Name:      s.Name(),
			Rationale: fmt.Sprintf("%.0fF, %.0f mph wind, no material impact", weather.Temperature, weather.WindSpeed),
		}
	}

	return models.Factor{
		Name:       s.Name(),
		Adjustment: adjustment,
		Rationale:  detail,
	}
}
