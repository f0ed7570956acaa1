// Package metrics provides the centralized Prometheus metrics registry
// for the prediction and settlement jobs.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	FixturesScoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "betbuilder",
		Name:      "fixtures_scored_total",
		Help:      "Total number of fixtures scored by the estimator",
	})
	CombinationBetsBuiltTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "betbuilder",
		Name:      "combination_bets_built_total",
		Help:      "Total number of combination bets assembled",
	})
	BetsSettledTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "betbuilder",
		Name:      "bets_settled_total",
		Help:      "Total number of single bets settled",
	})
	BetsWonTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "betbuilder",
		Name:      "bets_won_total",
		Help:      "Total number of single bets settled as wins",
	})
	BetsLostTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "betbuilder",
		Name:      "bets_lost_total",
		Help:      "Total number of single bets settled as losses",
	})
	ProviderErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "betbuilder",
		Name:      "provider_errors_total",
		Help:      "Total number of upstream provider errors",
	}, []string{"operation"})
)

// Gauge metrics
var (
	PendingBets = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "betbuilder",
		Name:      "pending_bets",
		Help:      "Number of bets currently awaiting settlement",
	})
	FeaturedPickScore = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "betbuilder",
		Name:      "featured_pick_score",
		Help:      "Composite score of the current featured pick",
	})
)

// Histogram metrics
var (
	PipelineDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "betbuilder",
		Name:      "pipeline_duration_seconds",
		Help:      "Duration of full daily pipeline runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600},
	})
	SettlementDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "betbuilder",
		Name:      "settlement_duration_seconds",
		Help:      "Duration of settlement runs in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(FixturesScoredTotal)
		registry.MustRegister(CombinationBetsBuiltTotal)
		registry.MustRegister(BetsSettledTotal)
		registry.MustRegister(BetsWonTotal)
		registry.MustRegister(BetsLostTotal)
		registry.MustRegister(ProviderErrorsTotal)

		registry.MustRegister(PendingBets)
		registry.MustRegister(FeaturedPickScore)

		registry.MustRegister(PipelineDuration)
		registry.MustRegister(SettlementDuration)
	})
	return registry
}

// Handler returns an HTTP handler serving the registry
func Handler() http.Handler {
	return promhttp.HandlerFor(InitRegistry(), promhttp.HandlerOpts{})
}
