// Package metrics provides Prometheus metrics for the pick engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics collects and exposes engine-related Prometheus metrics.
type EngineMetrics struct {
	registry *prometheus.Registry

	// Analysis metrics
	AnalysesTotal   *prometheus.CounterVec
	AnalysisErrors  prometheus.Counter
	ConfidenceValue *prometheus.HistogramVec

	// Tracking metrics
	BestBetsTotal *prometheus.CounterVec
	BetsTracked   prometheus.Counter
	BetsPublished prometheus.Counter
	BetsDeduped   prometheus.Counter

	// Grading metrics
	GradedTotal     *prometheus.CounterVec
	UngradableTotal prometheus.Counter
	ScoreMessages   prometheus.Counter
}

// NewEngineMetrics creates a new engine metrics collector.
func NewEngineMetrics() *EngineMetrics {
	registry := prometheus.NewRegistry()

	m := &EngineMetrics{
		registry: registry,

		AnalysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pickengine_analyses_total",
				Help: "Total number of games analyzed",
			},
			[]string{"sport", "tier"},
		),
		AnalysisErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pickengine_analysis_errors_total",
				Help: "Total number of analyses rejected for malformed input",
			},
		),
		ConfidenceValue: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pickengine_confidence",
				Help:    "Distribution of final confidence scores",
				Buckets: prometheus.LinearBuckets(0.40, 0.02, 11),
			},
			[]string{"sport"},
		),

		BestBetsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pickengine_best_bets_total",
				Help: "Total number of best bets surfaced",
			},
			[]string{"sport", "tier"},
		),
		BetsTracked: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pickengine_bets_tracked_total",
				Help: "Total number of first-sight tracked bet inserts",
			},
		),
		BetsPublished: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pickengine_bets_published_total",
				Help: "Total number of best bets published to streams",
			},
		),
		BetsDeduped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pickengine_bets_deduped_total",
				Help: "Total number of publications suppressed by dedup",
			},
		),

		GradedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pickengine_bets_graded_total",
				Help: "Total number of grading events by result",
			},
			[]string{"result"},
		),
		UngradableTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pickengine_bets_ungradable_total",
				Help: "Total number of bets left pending with unparseable picks",
			},
		),
		ScoreMessages: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pickengine_score_messages_total",
				Help: "Total number of final score messages consumed",
			},
		),
	}

	registry.MustRegister(
		m.AnalysesTotal,
		m.AnalysisErrors,
		m.ConfidenceValue,
		m.BestBetsTotal,
		m.BetsTracked,
		m.BetsPublished,
		m.BetsDeduped,
		m.GradedTotal,
		m.UngradableTotal,
		m.ScoreMessages,
	)

	return m
}

// Registry returns the underlying registry for the /metrics handler
func (m *EngineMetrics) Registry() *prometheus.Registry {
	return m.registry
}
