package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/podium-picks/internal/metrics"
)

func newTestServer() *Server {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewServer(Config{
		ServiceName: "podium-picks",
		Version:     "test",
		Logger:      log,
		Metrics:     metrics.Handler(),
	})
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthAndLive(t *testing.T) {
	h := newTestServer().Handler()

	for _, path := range []string{"/health", "/live"} {
		t.Run(path, func(t *testing.T) {
			rec := get(t, h, path)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var resp HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "ok", resp.Status)
			assert.Equal(t, "podium-picks", resp.Service)
		})
	}
}

func TestReady(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		dbErr      error
		wantStatus int
		wantDB     string
	}{
		{name: "ready", ready: true, wantStatus: http.StatusOK, wantDB: "ok"},
		{name: "not marked ready", ready: false, wantStatus: http.StatusServiceUnavailable, wantDB: "ok"},
		{name: "database down", ready: true, dbErr: errors.New("connection refused"), wantStatus: http.StatusServiceUnavailable, wantDB: "error: connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			s.SetReady(tt.ready)
			s.AddCheck("database", func(ctx context.Context) error { return tt.dbErr })

			rec := get(t, s.Handler(), "/ready")
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp ReadyResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantDB, resp.Checks["database"])
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "ok", resp.Status)
			} else {
				assert.Equal(t, "not_ready", resp.Status)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	metrics.InitRegistry()
	metrics.RecordScoringRun("track_order", "success", 0.2)

	rec := get(t, newTestServer().Handler(), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "podium_picks_scoring_runs_total")
}

func TestShutdownWithoutStart(t *testing.T) {
	assert.NoError(t, newTestServer().Shutdown())
}
