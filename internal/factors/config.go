package factors

// Config holds the policy constants for every scorer. These are
// calibration defaults, not physical constants; callers may tune them
// as long as each bound stays small enough that no single signal can
// saturate the confidence sum.
type Config struct {
	// Injury scoring
	InjuryWeight float64 // adjustment per point of impact score
	MaxInjury    float64 // bound on the injury factor

	// Public betting fade
	FadeThresholdPct float64 // lopsidedness required to fade
	ReliabilityFloor float64 // minimum reporting confidence
	FadeMagnitude    float64

	// Weather (outdoor venues only)
	WindFirstStepMph  float64
	WindSecondStepMph float64
	WindFirstAdj      float64
	WindSecondAdj     float64
	ColdThresholdF    float64
	ColdAdj           float64
	MaxWeather        float64

	// Sharp action / reverse line movement
	SharpMagnitude float64 // per flag

	// Line movement (steam)
	SteamMinMove   float64 // points of movement before it counts
	SteamMagnitude float64
}

// DefaultConfig returns the calibration the engine ships with
func DefaultConfig() Config {
	return Config{
		InjuryWeight: 0.5,
		MaxInjury:    0.04,

		FadeThresholdPct: 65.0,
		ReliabilityFloor: 0.5,
		FadeMagnitude:    0.02,

		WindFirstStepMph:  15.0,
		WindSecondStepMph: 20.0,
		WindFirstAdj:      0.01,
		WindSecondAdj:     0.02,
		ColdThresholdF:    20.0,
		ColdAdj:           0.01,
		MaxWeather:        0.02,

		SharpMagnitude: 0.03,

		SteamMinMove:   0.5,
		SteamMagnitude: 0.02,
	}
}

// clamp bounds an adjustment to [-limit, limit]
func clamp(adj, limit float64) float64 {
	if adj > limit {
		return limit
	}
	if adj < -limit {
		return -limit
	}
	return adj
}
