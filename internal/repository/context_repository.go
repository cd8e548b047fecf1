package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/podium-picks/internal/database"
	"github.com/yourusername/podium-picks/internal/models"
)

const contextColumns = `id, kind, name, COALESCE(results_updated_at, created_at) AS results_updated_at`

// PostgresContextRepository implements ContextRepository for PostgreSQL
type PostgresContextRepository struct {
	db *database.DB
}

// NewPostgresContextRepository creates a new context repository
func NewPostgresContextRepository(db *database.DB) ContextRepository {
	return &PostgresContextRepository{db: db}
}

// GetByID retrieves a context by ID
func (r *PostgresContextRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ContextRef, error) {
	query := `SELECT ` + contextColumns + ` FROM contexts WHERE id = $1`

	rows, err := r.db.Conn(ctx).Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query context: %w", err)
	}

	ref, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.ContextRef])
	if err != nil {
		return nil, notFound(err, "context "+id.String())
	}
	return ref, nil
}

// ListScorable returns contexts that have at least one recorded result
func (r *PostgresContextRepository) ListScorable(ctx context.Context) ([]models.ContextRef, error) {
	query := `
		SELECT ` + contextColumns + `
		FROM contexts c
		WHERE (c.kind = 'track_order' AND EXISTS (SELECT 1 FROM season_schedule s WHERE s.season_id = c.id))
		   OR (c.kind = 'winner_pick' AND EXISTS (SELECT 1 FROM split_results s WHERE s.season_id = c.id))
		   OR (c.kind = 'multi_class' AND EXISTS (SELECT 1 FROM entry_results e WHERE e.event_id = c.id))
		ORDER BY c.kind, c.created_at
	`

	rows, err := r.db.Conn(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query scorable contexts: %w", err)
	}

	refs, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ContextRef])
	if err != nil {
		return nil, fmt.Errorf("failed to scan contexts: %w", err)
	}
	return refs, nil
}
