package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/yourusername/podium-picks/internal/models"
)

// PredictionRepository reads the predictions of one context
type PredictionRepository interface {
	GetTrackOrderPredictions(ctx context.Context, seasonID uuid.UUID) ([]models.TrackOrderPrediction, error)
	GetWinnerPicks(ctx context.Context, seasonID uuid.UUID) ([]models.WinnerPick, error)
	GetPodiumPicks(ctx context.Context, eventID uuid.UUID) ([]models.PodiumPick, error)
	GetManufacturerPicks(ctx context.Context, eventID uuid.UUID) ([]models.ManufacturerPick, error)
	// GetParticipants returns users enrolled in a context whether or not they predicted
	GetParticipants(ctx context.Context, contextID uuid.UUID) ([]uuid.UUID, error)
}

// ResultRepository reads official results and schedules
type ResultRepository interface {
	GetSchedule(ctx context.Context, seasonID uuid.UUID) (models.SeasonSchedule, error)
	GetSplitResults(ctx context.Context, seasonID uuid.UUID) ([]models.SplitResult, error)
	GetEntryResults(ctx context.Context, eventID uuid.UUID) ([]models.EntryResult, error)
	GetClasses(ctx context.Context, eventID uuid.UUID) ([]models.ClassMeta, error)
}

// RuleRepository reads stored scoring rules
type RuleRepository interface {
	GetRules(ctx context.Context) ([]models.ScoringRule, error)
	UpsertRule(ctx context.Context, rule models.ScoringRule) error
}

// ContextRepository looks up scorable seasons and events
type ContextRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.ContextRef, error)
	// ListScorable returns contexts with at least one recorded result
	ListScorable(ctx context.Context) ([]models.ContextRef, error)
}

// ScoreRepository writes computed scores back. Every write replaces what an
// earlier run of the same context stored, so re-running never duplicates rows.
type ScoreRepository interface {
	ReplaceScores(ctx context.Context, contextID uuid.UUID, scores []models.PerPredictionScore) (int, error)
	UpsertUserTotals(ctx context.Context, contextID uuid.UUID, totals []models.UserTotal) (int, error)
	UpsertClassTotals(ctx context.Context, eventID uuid.UUID, totals []models.ClassTotal) (int, error)
	ReplaceManufacturerStandings(ctx context.Context, eventID uuid.UUID, standings []models.ManufacturerStanding) (int, error)
	SaveLeaderboard(ctx context.Context, snap *models.LeaderboardSnapshot) error
	GetLatestLeaderboard(ctx context.Context, contextID uuid.UUID) (*models.LeaderboardSnapshot, error)
}

// PredictionEditRepository applies slot edits to multi-class picks.
// Each edit clears its slot and, when the edit names an entry, inserts it.
type PredictionEditRepository interface {
	ApplyPodiumEdits(ctx context.Context, userID, eventID uuid.UUID, edits []models.PodiumEdit) error
	ApplyManufacturerEdits(ctx context.Context, userID, eventID uuid.UUID, edits []models.ManufacturerEdit) error
}

// Transactor runs fn in a transaction shared by repositories called with its context
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}
