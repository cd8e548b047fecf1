package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yourusername/podium-picks/internal/database"
	"github.com/yourusername/podium-picks/internal/models"
)

// PostgresPredictionEditRepository implements PredictionEditRepository for PostgreSQL
type PostgresPredictionEditRepository struct {
	db *database.DB
}

// NewPostgresPredictionEditRepository creates a new prediction edit repository
func NewPostgresPredictionEditRepository(db *database.DB) PredictionEditRepository {
	return &PostgresPredictionEditRepository{db: db}
}

// ApplyPodiumEdits applies podium slot edits in one transaction
func (r *PostgresPredictionEditRepository) ApplyPodiumEdits(ctx context.Context, userID, eventID uuid.UUID, edits []models.PodiumEdit) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context) error {
		conn := r.db.Conn(ctx)
		for _, e := range edits {
			if _, err := conn.Exec(ctx, `
				DELETE FROM podium_picks
				WHERE user_id = $1 AND event_id = $2 AND class_id = $3 AND position = $4
			`, userID, eventID, e.ClassID, e.Position); err != nil {
				return fmt.Errorf("failed to clear podium slot %s/%d: %w", e.ClassID, e.Position, err)
			}
			if e.EntryID == nil {
				continue
			}
			if _, err := conn.Exec(ctx, `
				INSERT INTO podium_picks (user_id, event_id, class_id, position, entry_id)
				VALUES ($1, $2, $3, $4, $5)
			`, userID, eventID, e.ClassID, e.Position, *e.EntryID); err != nil {
				return fmt.Errorf("failed to insert podium pick %s/%d: %w", e.ClassID, e.Position, err)
			}
		}
		return nil
	})
}

// ApplyManufacturerEdits applies manufacturer rank edits in one transaction
func (r *PostgresPredictionEditRepository) ApplyManufacturerEdits(ctx context.Context, userID, eventID uuid.UUID, edits []models.ManufacturerEdit) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context) error {
		conn := r.db.Conn(ctx)
		for _, e := range edits {
			if _, err := conn.Exec(ctx, `
				DELETE FROM manufacturer_picks
				WHERE user_id = $1 AND event_id = $2 AND class_id = $3 AND rank = $4
			`, userID, eventID, e.ClassID, e.Rank); err != nil {
				return fmt.Errorf("failed to clear manufacturer slot %s/%d: %w", e.ClassID, e.Rank, err)
			}
			if e.Manufacturer == nil {
				continue
			}
			if _, err := conn.Exec(ctx, `
				INSERT INTO manufacturer_picks (user_id, event_id, class_id, rank, manufacturer)
				VALUES ($1, $2, $3, $4, $5)
			`, userID, eventID, e.ClassID, e.Rank, *e.Manufacturer); err != nil {
				return fmt.Errorf("failed to insert manufacturer pick %s/%d: %w", e.ClassID, e.Rank, err)
			}
		}
		return nil
	})
}
