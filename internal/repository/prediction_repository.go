package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/podium-picks/internal/database"
	"github.com/yourusername/podium-picks/internal/models"
)

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// GetTrackOrderPredictions returns a season's track-order predictions
func (r *PostgresPredictionRepository) GetTrackOrderPredictions(ctx context.Context, seasonID uuid.UUID) ([]models.TrackOrderPrediction, error) {
	query := `
		SELECT user_id, season_id, week, track_id, created_at
		FROM track_order_predictions
		WHERE season_id = $1
		ORDER BY user_id, week
	`

	rows, err := r.db.Conn(ctx).Query(ctx, query, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to query track order predictions: %w", err)
	}

	preds, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.TrackOrderPrediction])
	if err != nil {
		return nil, fmt.Errorf("failed to scan track order predictions: %w", err)
	}
	return preds, nil
}

// GetWinnerPicks returns a season's race-winner picks
func (r *PostgresPredictionRepository) GetWinnerPicks(ctx context.Context, seasonID uuid.UUID) ([]models.WinnerPick, error) {
	query := `
		SELECT user_id, season_id, week, division, split, driver_id
		FROM winner_picks
		WHERE season_id = $1
		ORDER BY week, division, split, user_id
	`

	rows, err := r.db.Conn(ctx).Query(ctx, query, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to query winner picks: %w", err)
	}

	picks, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.WinnerPick])
	if err != nil {
		return nil, fmt.Errorf("failed to scan winner picks: %w", err)
	}
	return picks, nil
}

// GetPodiumPicks returns an event's podium picks
func (r *PostgresPredictionRepository) GetPodiumPicks(ctx context.Context, eventID uuid.UUID) ([]models.PodiumPick, error) {
	query := `
		SELECT user_id, event_id, class_id, position, entry_id
		FROM podium_picks
		WHERE event_id = $1
		ORDER BY user_id, class_id, position
	`

	rows, err := r.db.Conn(ctx).Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query podium picks: %w", err)
	}

	picks, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.PodiumPick])
	if err != nil {
		return nil, fmt.Errorf("failed to scan podium picks: %w", err)
	}
	return picks, nil
}

// GetManufacturerPicks returns an event's manufacturer rank picks
func (r *PostgresPredictionRepository) GetManufacturerPicks(ctx context.Context, eventID uuid.UUID) ([]models.ManufacturerPick, error) {
	query := `
		SELECT user_id, event_id, class_id, rank, manufacturer
		FROM manufacturer_picks
		WHERE event_id = $1
		ORDER BY user_id, class_id, rank
	`

	rows, err := r.db.Conn(ctx).Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query manufacturer picks: %w", err)
	}

	picks, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ManufacturerPick])
	if err != nil {
		return nil, fmt.Errorf("failed to scan manufacturer picks: %w", err)
	}
	return picks, nil
}

// GetParticipants returns users enrolled in a context
func (r *PostgresPredictionRepository) GetParticipants(ctx context.Context, contextID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT user_id FROM context_participants WHERE context_id = $1 ORDER BY user_id`

	rows, err := r.db.Conn(ctx).Query(ctx, query, contextID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}

	users, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("failed to scan participants: %w", err)
	}
	return users, nil
}
