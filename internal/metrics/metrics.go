// Package metrics provides the Prometheus registry for scoring runs.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "podium_picks"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	ScoringRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scoring_runs_total",
		Help:      "Total number of scoring runs by context kind and outcome",
	}, []string{"kind", "status"})
	PredictionsScoredTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_scored_total",
		Help:      "Total number of per-prediction scores produced",
	}, []string{"kind"})
	ScoringIssuesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scoring_issues_total",
		Help:      "Total number of non-fatal scoring issues",
	}, []string{"kind"})
	WritebackRowsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "writeback_rows_total",
		Help:      "Total number of rows written back per table",
	}, []string{"table"})
	NotificationsSentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_sent_total",
		Help:      "Total number of leaderboard notifications by outcome",
	}, []string{"status"})
)

// Gauge metrics
var (
	LeaderboardEntries = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "leaderboard_entries",
		Help:      "Entries on the most recently built leaderboard",
	}, []string{"kind"})
	CacheHitRatio = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_hit_ratio",
		Help:      "Hit ratio of the in-memory caches",
	}, []string{"cache"})
)

// Histogram metrics
var (
	ScoringRunDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scoring_run_duration_seconds",
		Help:      "Duration of scoring runs in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
	}, []string{"kind"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(ScoringRunsTotal)
		registry.MustRegister(PredictionsScoredTotal)
		registry.MustRegister(ScoringIssuesTotal)
		registry.MustRegister(WritebackRowsTotal)
		registry.MustRegister(NotificationsSentTotal)

		registry.MustRegister(LeaderboardEntries)
		registry.MustRegister(CacheHitRatio)

		registry.MustRegister(ScoringRunDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordScoringRun records the outcome and duration of one context's run.
func RecordScoringRun(kind, status string, durationSeconds float64) {
	ScoringRunsTotal.WithLabelValues(kind, status).Inc()
	ScoringRunDuration.WithLabelValues(kind).Observe(durationSeconds)
}

// RecordPredictionsScored adds n per-prediction scores for kind.
func RecordPredictionsScored(kind string, n int) {
	PredictionsScoredTotal.WithLabelValues(kind).Add(float64(n))
}

// RecordIssue records a non-fatal scoring issue.
func RecordIssue(kind string) {
	ScoringIssuesTotal.WithLabelValues(kind).Inc()
}

// RecordWriteback adds n written rows for table.
func RecordWriteback(table string, n int) {
	WritebackRowsTotal.WithLabelValues(table).Add(float64(n))
}

// RecordNotification records a webhook delivery outcome.
func RecordNotification(status string) {
	NotificationsSentTotal.WithLabelValues(status).Inc()
}

// UpdateLeaderboardEntries sets the size of the latest leaderboard for kind.
func UpdateLeaderboardEntries(kind string, n int) {
	LeaderboardEntries.WithLabelValues(kind).Set(float64(n))
}

// UpdateCacheHitRatio sets the hit ratio for a named cache.
func UpdateCacheHitRatio(cache string, ratio float64) {
	CacheHitRatio.WithLabelValues(cache).Set(ratio)
}
