package collector

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for collection runs.
type Metrics struct {
	AnalysesTotal         *prometheus.CounterVec
	APIFailuresTotal      prometheus.Counter
	BattlesCollectedTotal prometheus.Counter
	CollectionDuration    prometheus.Histogram
}

// NewMetrics creates the collector metric set.
func NewMetrics() *Metrics {
	return &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "royale_retention_analyses_total",
				Help: "Total number of completed player analyses",
			},
			[]string{"outcome"},
		),
		APIFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "royale_retention_api_failures_total",
				Help: "Total number of failed game API fetches",
			},
		),
		BattlesCollectedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "royale_retention_battles_collected_total",
				Help: "Total number of battle records fetched from the game API",
			},
		),
		CollectionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "royale_retention_collection_duration_seconds",
				Help:    "Duration of a single player collection run",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// Register registers all collector metrics with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) {
	reg.MustRegister(
		m.AnalysesTotal,
		m.APIFailuresTotal,
		m.BattlesCollectedTotal,
		m.CollectionDuration,
	)
}
