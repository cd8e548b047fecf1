// Package notify publishes rebuilt leaderboards to subscribers.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/podium-picks/internal/config"
	"github.com/yourusername/podium-picks/internal/leaderboard"
	"github.com/yourusername/podium-picks/internal/metrics"
	"github.com/yourusername/podium-picks/internal/models"
)

// Notifier publishes a leaderboard snapshot
type Notifier interface {
	Publish(ctx context.Context, snap *models.LeaderboardSnapshot) error
}

// Payload is the JSON body posted for each rebuilt leaderboard
type Payload struct {
	ContextID uuid.UUID                 `json:"context_id"`
	Kind      models.ContextKind        `json:"kind"`
	Direction models.Direction          `json:"direction"`
	BuiltAt   time.Time                 `json:"built_at"`
	Entries   int                       `json:"entries"`
	Top       []models.LeaderboardEntry `json:"top"`
}

// WebhookNotifier posts the top of each leaderboard to a webhook
type WebhookNotifier struct {
	url    string
	topN   int
	client *rateLimitedClient
	logger *logrus.Entry
}

// NewWebhookNotifier creates a webhook notifier posting the first topN entries
func NewWebhookNotifier(url string, topN int, cfg ClientConfig, logger *logrus.Logger) *WebhookNotifier {
	entry := logger.WithField("component", "notify")
	if topN <= 0 {
		topN = 10
	}
	return &WebhookNotifier{
		url:    url,
		topN:   topN,
		client: newRateLimitedClient(cfg, entry),
		logger: entry,
	}
}

// NewPayload builds the body posted for snap
func NewPayload(snap *models.LeaderboardSnapshot, topN int) Payload {
	return Payload{
		ContextID: snap.ContextID,
		Kind:      snap.Kind,
		Direction: snap.Direction,
		BuiltAt:   snap.BuiltAt,
		Entries:   len(snap.Entries),
		Top:       leaderboard.Top(snap.Entries, topN),
	}
}

// Publish posts snap. A non-2xx response after retries is an error.
func (n *WebhookNotifier) Publish(ctx context.Context, snap *models.LeaderboardSnapshot) error {
	if snap == nil {
		return nil
	}

	body, err := json.Marshal(NewPayload(snap, n.topN))
	if err != nil {
		metrics.RecordNotification("error")
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	status, err := n.client.post(ctx, n.url, "application/json", body)
	if err != nil {
		metrics.RecordNotification("error")
		return fmt.Errorf("failed to post leaderboard: %w", err)
	}
	if status < 200 || status >= 300 {
		metrics.RecordNotification("rejected")
		return fmt.Errorf("webhook returned status %d", status)
	}

	metrics.RecordNotification("sent")
	n.logger.WithFields(logrus.Fields{
		"context_id": snap.ContextID.String(),
		"kind":       snap.Kind,
		"entries":    len(snap.Entries),
	}).Debug("Leaderboard published")
	return nil
}

// Reset closes the circuit breaker after the endpoint recovers
func (n *WebhookNotifier) Reset() {
	n.client.reset()
}

// Close releases idle connections
func (n *WebhookNotifier) Close() error {
	n.client.close()
	return nil
}

// NoopNotifier drops every snapshot
type NoopNotifier struct{}

// Publish does nothing
func (NoopNotifier) Publish(context.Context, *models.LeaderboardSnapshot) error {
	return nil
}

// FromConfig returns a webhook notifier when notifications are enabled and a
// NoopNotifier otherwise
func FromConfig(cfg *config.Config, logger *logrus.Logger) Notifier {
	if !cfg.Notify.Enabled || cfg.Notify.WebhookURL == "" {
		return NoopNotifier{}
	}

	clientCfg := DefaultClientConfig()
	if t := cfg.NotifyTimeout(); t > 0 {
		clientCfg.Timeout = t
	}
	clientCfg.MaxRetries = cfg.Notify.RetryAttempts
	if cfg.Notify.RatePerSecond > 0 {
		clientCfg.RatePerSecond = cfg.Notify.RatePerSecond
	}
	if cfg.Notify.Burst > 0 {
		clientCfg.Burst = cfg.Notify.Burst
	}
	return NewWebhookNotifier(cfg.Notify.WebhookURL, cfg.Scoring.LeaderboardTopN, clientCfg, logger)
}
