package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/podium-picks/internal/config"
	"github.com/yourusername/podium-picks/internal/models"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func fastConfig() ClientConfig {
	cfg := DefaultClientConfig()
	cfg.MaxRetries = 2
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = 5 * time.Millisecond
	cfg.RatePerSecond = 0
	return cfg
}

func testSnapshot(entries int) *models.LeaderboardSnapshot {
	snap := &models.LeaderboardSnapshot{
		ContextID: uuid.MustParse("22222222-0000-4000-8000-000000000001"),
		Kind:      models.ContextMultiClass,
		Direction: models.HigherIsBetter,
		BuiltAt:   time.Date(2026, 1, 25, 12, 0, 0, 0, time.UTC),
	}
	for i := 0; i < entries; i++ {
		snap.Entries = append(snap.Entries, models.LeaderboardEntry{UserID: uuid.New(), Rank: i + 1, TotalPoints: 100 - i})
	}
	return snap
}

func TestWebhookPublishesTopEntries(t *testing.T) {
	var got Payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL, 3, fastConfig(), quietLogger())
	defer n.Close()

	snap := testSnapshot(5)
	require.NoError(t, n.Publish(context.Background(), snap))

	assert.Equal(t, snap.ContextID, got.ContextID)
	assert.Equal(t, models.ContextMultiClass, got.Kind)
	assert.Equal(t, 5, got.Entries)
	require.Len(t, got.Top, 3)
	assert.Equal(t, 1, got.Top[0].Rank)
	assert.Equal(t, 100, got.Top[0].TotalPoints)
}

func TestWebhookRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL, 10, fastConfig(), quietLogger())
	require.NoError(t, n.Publish(context.Background(), testSnapshot(1)))
	assert.Equal(t, int32(3), calls.Load())
}

func TestWebhookDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL, 10, fastConfig(), quietLogger())
	err := n.Publish(context.Background(), testSnapshot(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Equal(t, int32(1), calls.Load())
}

func TestWebhookCircuitBreakerOpens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := fastConfig()
	cfg.MaxRetries = 0
	cfg.CircuitBreakerMax = 2
	n := NewWebhookNotifier(server.URL, 10, cfg, quietLogger())

	for i := 0; i < 2; i++ {
		assert.Error(t, n.Publish(context.Background(), testSnapshot(1)))
	}
	err := n.Publish(context.Background(), testSnapshot(1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCircuitOpen))

	n.Reset()
	err = n.Publish(context.Background(), testSnapshot(1))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrCircuitOpen))
}

func TestWebhookNilSnapshot(t *testing.T) {
	n := NewWebhookNotifier("http://127.0.0.1:0", 10, fastConfig(), quietLogger())
	assert.NoError(t, n.Publish(context.Background(), nil))
}

func TestNewPayloadKeepsAllWhenTopNExceedsEntries(t *testing.T) {
	p := NewPayload(testSnapshot(2), 10)
	assert.Len(t, p.Top, 2)
	assert.Equal(t, 2, p.Entries)
}

func TestFromConfig(t *testing.T) {
	cfg := &config.Config{}
	_, ok := FromConfig(cfg, quietLogger()).(NoopNotifier)
	assert.True(t, ok)

	cfg.Notify.Enabled = true
	cfg.Notify.WebhookURL = "https://hooks.example.com/leaderboard"
	cfg.Scoring.LeaderboardTopN = 5
	n, ok := FromConfig(cfg, quietLogger()).(*WebhookNotifier)
	require.True(t, ok)
	assert.Equal(t, 5, n.topN)
}
