package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/podium-picks/internal/database"
	"github.com/yourusername/podium-picks/internal/models"
)

// PostgresRuleRepository implements RuleRepository for PostgreSQL
type PostgresRuleRepository struct {
	db *database.DB
}

// NewPostgresRuleRepository creates a new rule repository
func NewPostgresRuleRepository(db *database.DB) RuleRepository {
	return &PostgresRuleRepository{db: db}
}

// GetRules returns every stored scoring rule
func (r *PostgresRuleRepository) GetRules(ctx context.Context) ([]models.ScoringRule, error) {
	query := `
		SELECT category, slot, proximity, points
		FROM scoring_rules
		ORDER BY category, slot, proximity
	`

	rows, err := r.db.Conn(ctx).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query scoring rules: %w", err)
	}

	rules, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ScoringRule])
	if err != nil {
		return nil, fmt.Errorf("failed to scan scoring rules: %w", err)
	}
	return rules, nil
}

// UpsertRule stores a rule, replacing the points of an existing key
func (r *PostgresRuleRepository) UpsertRule(ctx context.Context, rule models.ScoringRule) error {
	query := `
		INSERT INTO scoring_rules (category, slot, proximity, points)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (category, slot, proximity) DO UPDATE SET points = EXCLUDED.points
	`

	if _, err := r.db.Conn(ctx).Exec(ctx, query, rule.Category, rule.Slot, rule.Proximity, rule.Points); err != nil {
		return fmt.Errorf("failed to upsert scoring rule: %w", err)
	}
	return nil
}
