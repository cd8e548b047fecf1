package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

func TestRecordScoringRun(t *testing.T) {
	InitRegistry()
	before := sample(t, "scoring_runs_total", "winner_pick", "success")

	RecordScoringRun("winner_pick", "success", 0.25)

	after := sample(t, "scoring_runs_total", "winner_pick", "success")
	assert.Equal(t, before+1, after)
}

func TestRecordCounters(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name   string
		record func()
		read   func(*testing.T) float64
		delta  float64
	}{
		{
			name:   "predictions scored",
			record: func() { RecordPredictionsScored("track_order", 8) },
			read:   func(t *testing.T) float64 { return sample(t, "predictions_scored_total", "track_order") },
			delta:  8,
		},
		{
			name:   "issue",
			record: func() { RecordIssue("malformed_prediction") },
			read:   func(t *testing.T) float64 { return sample(t, "scoring_issues_total", "malformed_prediction") },
			delta:  1,
		},
		{
			name:   "writeback",
			record: func() { RecordWriteback("user_totals", 3) },
			read:   func(t *testing.T) float64 { return sample(t, "writeback_rows_total", "user_totals") },
			delta:  3,
		},
		{
			name:   "notification",
			record: func() { RecordNotification("failed") },
			read:   func(t *testing.T) float64 { return sample(t, "notifications_sent_total", "failed") },
			delta:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.read(t)
			tt.record()
			assert.Equal(t, before+tt.delta, tt.read(t))
		})
	}
}

func TestGauges(t *testing.T) {
	InitRegistry()

	UpdateLeaderboardEntries("multi_class", 12)
	assert.Equal(t, float64(12), sample(t, "leaderboard_entries", "multi_class"))

	UpdateCacheHitRatio("snapshot", 0.5)
	assert.Equal(t, 0.5, sample(t, "cache_hit_ratio", "snapshot"))
}

func TestHandler(t *testing.T) {
	RecordIssue("incomplete_rule_table")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "podium_picks_scoring_issues_total"))
}

// sample reads the current value of a labelled series from the registry.
// Label values are matched in label name order.
func sample(t *testing.T, name string, labelValues ...string) float64 {
	t.Helper()
	families, err := GetRegistry().Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != namespace+"_"+name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			pairs := m.GetLabel()
			if len(pairs) != len(labelValues) {
				continue
			}
			for i, lp := range pairs {
				if lp.GetValue() != labelValues[i] {
					continue metrics
				}
			}
			switch {
			case m.GetCounter() != nil:
				return m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				return m.GetGauge().GetValue()
			}
		}
	}
	return 0
}
