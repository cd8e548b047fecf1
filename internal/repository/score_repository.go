package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/podium-picks/internal/database"
	"github.com/yourusername/podium-picks/internal/models"
)

// PostgresScoreRepository implements ScoreRepository for PostgreSQL
type PostgresScoreRepository struct {
	db *database.DB
}

// NewPostgresScoreRepository creates a new score repository
func NewPostgresScoreRepository(db *database.DB) ScoreRepository {
	return &PostgresScoreRepository{db: db}
}

// ReplaceScores swaps a context's per-prediction scores for scores using COPY
func (r *PostgresScoreRepository) ReplaceScores(ctx context.Context, contextID uuid.UUID, scores []models.PerPredictionScore) (int, error) {
	var copied int64
	err := r.db.WithTransaction(ctx, func(ctx context.Context) error {
		conn := r.db.Conn(ctx)
		if _, err := conn.Exec(ctx, `DELETE FROM prediction_scores WHERE context_id = $1`, contextID); err != nil {
			return fmt.Errorf("failed to clear prediction scores: %w", err)
		}
		if len(scores) == 0 {
			return nil
		}

		columns := []string{"context_id", "user_id", "kind", "group_key", "slot", "subject", "proximity", "points", "pending"}
		rows := make([][]any, len(scores))
		for i, s := range scores {
			rows[i] = []any{contextID, s.UserID, string(s.Kind), s.Group, s.Slot, s.Subject, string(s.Proximity), s.Points, s.Pending}
		}

		n, err := conn.CopyFrom(ctx, pgx.Identifier{"prediction_scores"}, columns, pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("failed to copy prediction scores: %w", err)
		}
		if n != int64(len(scores)) {
			return fmt.Errorf("inserted %d rows, expected %d", n, len(scores))
		}
		copied = n
		return nil
	})
	return int(copied), err
}

// UpsertUserTotals upserts one row per (user, context) and removes rows of
// users no longer present in totals.
func (r *PostgresScoreRepository) UpsertUserTotals(ctx context.Context, contextID uuid.UUID, totals []models.UserTotal) (int, error) {
	users := make([]uuid.UUID, len(totals))
	for i, t := range totals {
		users[i] = t.UserID
	}

	err := r.db.WithTransaction(ctx, func(ctx context.Context) error {
		conn := r.db.Conn(ctx)
		if _, err := conn.Exec(ctx,
			`DELETE FROM user_totals WHERE context_id = $1 AND NOT (user_id = ANY($2))`,
			contextID, users,
		); err != nil {
			return fmt.Errorf("failed to prune user totals: %w", err)
		}

		batch := &pgx.Batch{}
		for _, t := range totals {
			batch.Queue(`
				INSERT INTO user_totals (user_id, context_id, points, participated, predictions_made, updated_at)
				VALUES ($1, $2, $3, $4, $5, NOW())
				ON CONFLICT (user_id, context_id) DO UPDATE SET
					points = EXCLUDED.points,
					participated = EXCLUDED.participated,
					predictions_made = EXCLUDED.predictions_made,
					updated_at = NOW()
			`, t.UserID, contextID, t.Points, t.Participated, t.PredictionsMade)
		}
		return sendBatch(ctx, conn, batch, "user totals")
	})
	if err != nil {
		return 0, err
	}
	return len(totals), nil
}

// UpsertClassTotals upserts one row per (user, event, class) and removes rows
// of (user, class) pairs no longer present.
func (r *PostgresScoreRepository) UpsertClassTotals(ctx context.Context, eventID uuid.UUID, totals []models.ClassTotal) (int, error) {
	users := make([]uuid.UUID, len(totals))
	classes := make([]string, len(totals))
	for i, t := range totals {
		users[i] = t.UserID
		classes[i] = t.ClassID
	}

	err := r.db.WithTransaction(ctx, func(ctx context.Context) error {
		conn := r.db.Conn(ctx)
		if _, err := conn.Exec(ctx, `
			DELETE FROM class_totals c
			WHERE c.event_id = $1
			  AND NOT EXISTS (
				SELECT 1 FROM unnest($2::uuid[], $3::text[]) AS k(user_id, class_id)
				WHERE k.user_id = c.user_id AND k.class_id = c.class_id
			  )
		`, eventID, users, classes); err != nil {
			return fmt.Errorf("failed to prune class totals: %w", err)
		}

		batch := &pgx.Batch{}
		for _, t := range totals {
			batch.Queue(`
				INSERT INTO class_totals (user_id, event_id, class_id, podium_points, manufacturer_points, predictions_made, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, NOW())
				ON CONFLICT (user_id, event_id, class_id) DO UPDATE SET
					podium_points = EXCLUDED.podium_points,
					manufacturer_points = EXCLUDED.manufacturer_points,
					predictions_made = EXCLUDED.predictions_made,
					updated_at = NOW()
			`, t.UserID, eventID, t.ClassID, t.PodiumPoints, t.ManufacturerPoints, t.PredictionsMade)
		}
		return sendBatch(ctx, conn, batch, "class totals")
	})
	if err != nil {
		return 0, err
	}
	return len(totals), nil
}

// ReplaceManufacturerStandings swaps an event's derived manufacturer standings
func (r *PostgresScoreRepository) ReplaceManufacturerStandings(ctx context.Context, eventID uuid.UUID, standings []models.ManufacturerStanding) (int, error) {
	err := r.db.WithTransaction(ctx, func(ctx context.Context) error {
		conn := r.db.Conn(ctx)
		if _, err := conn.Exec(ctx, `DELETE FROM manufacturer_standings WHERE event_id = $1`, eventID); err != nil {
			return fmt.Errorf("failed to clear manufacturer standings: %w", err)
		}

		batch := &pgx.Batch{}
		for _, s := range standings {
			batch.Queue(`
				INSERT INTO manufacturer_standings (event_id, class_id, manufacturer, mean_position, entries, rank)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, eventID, s.ClassID, s.Manufacturer, s.MeanPosition, s.Entries, s.Rank)
		}
		return sendBatch(ctx, conn, batch, "manufacturer standings")
	})
	if err != nil {
		return 0, err
	}
	return len(standings), nil
}

// SaveLeaderboard stores snap as the context's latest leaderboard
func (r *PostgresScoreRepository) SaveLeaderboard(ctx context.Context, snap *models.LeaderboardSnapshot) error {
	entries, err := json.Marshal(snap.Entries)
	if err != nil {
		return fmt.Errorf("failed to encode leaderboard: %w", err)
	}

	query := `
		INSERT INTO leaderboard_snapshots (context_id, kind, direction, entries, built_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (context_id) DO UPDATE SET
			kind = EXCLUDED.kind,
			direction = EXCLUDED.direction,
			entries = EXCLUDED.entries,
			built_at = EXCLUDED.built_at
	`

	_, err = r.db.Conn(ctx).Exec(ctx, query, snap.ContextID, string(snap.Kind), string(snap.Direction), entries, snap.BuiltAt)
	if err != nil {
		return fmt.Errorf("failed to save leaderboard: %w", err)
	}
	return nil
}

// GetLatestLeaderboard returns the context's stored leaderboard
func (r *PostgresScoreRepository) GetLatestLeaderboard(ctx context.Context, contextID uuid.UUID) (*models.LeaderboardSnapshot, error) {
	query := `
		SELECT context_id, kind, direction, entries, built_at
		FROM leaderboard_snapshots
		WHERE context_id = $1
	`

	snap := &models.LeaderboardSnapshot{}
	var entries []byte
	err := r.db.Conn(ctx).QueryRow(ctx, query, contextID).Scan(
		&snap.ContextID, &snap.Kind, &snap.Direction, &entries, &snap.BuiltAt,
	)
	if err != nil {
		return nil, notFound(err, "leaderboard "+contextID.String())
	}

	if err := json.Unmarshal(entries, &snap.Entries); err != nil {
		return nil, fmt.Errorf("failed to decode leaderboard: %w", err)
	}
	if snap.Entries == nil {
		snap.Entries = []models.LeaderboardEntry{}
	}
	return snap, nil
}

// sendBatch runs every queued statement and closes the results
func sendBatch(ctx context.Context, conn database.Querier, batch *pgx.Batch, what string) error {
	if batch.Len() == 0 {
		return nil
	}
	results := conn.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("failed to upsert %s: %w", what, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to upsert %s: %w", what, err)
	}
	return nil
}
