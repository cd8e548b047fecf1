// Package repository defines storage ports for scoring and their PostgreSQL adapters.
package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/podium-picks/internal/database"
	"github.com/yourusername/podium-picks/internal/models"
)

// Repositories holds all repository implementations
type Repositories struct {
	Predictions PredictionRepository
	Results     ResultRepository
	Rules       RuleRepository
	Contexts    ContextRepository
	Scores      ScoreRepository
	Edits       PredictionEditRepository
	Tx          Transactor
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Predictions: NewPostgresPredictionRepository(db),
		Results:     NewPostgresResultRepository(db),
		Rules:       NewPostgresRuleRepository(db),
		Contexts:    NewPostgresContextRepository(db),
		Scores:      NewPostgresScoreRepository(db),
		Edits:       NewPostgresPredictionEditRepository(db),
		Tx:          db,
	}, nil
}

// notFound maps pgx.ErrNoRows to models.ErrNotFound and wraps everything else
func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, models.ErrNotFound)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}
