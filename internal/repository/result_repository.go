package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/podium-picks/internal/database"
	"github.com/yourusername/podium-picks/internal/models"
)

// PostgresResultRepository implements ResultRepository for PostgreSQL
type PostgresResultRepository struct {
	db *database.DB
}

// NewPostgresResultRepository creates a new result repository
func NewPostgresResultRepository(db *database.DB) ResultRepository {
	return &PostgresResultRepository{db: db}
}

// GetSchedule returns the season's week-1 deadline and track schedule
func (r *PostgresResultRepository) GetSchedule(ctx context.Context, seasonID uuid.UUID) (models.SeasonSchedule, error) {
	schedule := models.SeasonSchedule{SeasonID: seasonID}

	var deadline *time.Time
	err := r.db.Conn(ctx).QueryRow(ctx, `SELECT week1_deadline FROM contexts WHERE id = $1`, seasonID).Scan(&deadline)
	if err != nil {
		return schedule, notFound(err, "season "+seasonID.String())
	}
	if deadline != nil {
		schedule.Week1Deadline = *deadline
	}

	rows, err := r.db.Conn(ctx).Query(ctx, `
		SELECT week, track_id
		FROM season_schedule
		WHERE season_id = $1
		ORDER BY week
	`, seasonID)
	if err != nil {
		return schedule, fmt.Errorf("failed to query schedule: %w", err)
	}

	weeks, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.ScheduleEntry])
	if err != nil {
		return schedule, fmt.Errorf("failed to scan schedule: %w", err)
	}
	schedule.Weeks = weeks
	return schedule, nil
}

// GetSplitResults returns every split with a recorded result and its finishing order
func (r *PostgresResultRepository) GetSplitResults(ctx context.Context, seasonID uuid.UUID) ([]models.SplitResult, error) {
	query := `
		SELECT s.week, s.division, s.split, s.participant_count,
		       f.driver_id, f.position, f.status
		FROM split_results s
		LEFT JOIN split_finishes f
		  ON f.season_id = s.season_id AND f.week = s.week
		 AND f.division = s.division AND f.split = s.split
		WHERE s.season_id = $1
		ORDER BY s.week, s.division, s.split, f.position
	`

	rows, err := r.db.Conn(ctx).Query(ctx, query, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to query split results: %w", err)
	}
	defer rows.Close()

	var results []models.SplitResult
	for rows.Next() {
		var (
			key      models.SplitKey
			count    int
			driverID *string
			position *int
			status   *string
		)
		if err := rows.Scan(&key.Week, &key.Division, &key.Split, &count, &driverID, &position, &status); err != nil {
			return nil, fmt.Errorf("failed to scan split result: %w", err)
		}

		if n := len(results); n == 0 || results[n-1].Key() != key {
			results = append(results, models.SplitResult{
				Week:             key.Week,
				Division:         key.Division,
				Split:            key.Split,
				ParticipantCount: count,
			})
		}
		if driverID == nil {
			continue
		}
		finish := models.DriverFinish{DriverID: *driverID}
		if position != nil {
			finish.Position = *position
		}
		if status != nil {
			finish.Status = models.FinishStatus(*status)
		}
		last := &results[len(results)-1]
		last.Finishes = append(last.Finishes, finish)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating split results: %w", err)
	}
	return results, nil
}

// GetEntryResults returns an event's classified entries in the order they were recorded
func (r *PostgresResultRepository) GetEntryResults(ctx context.Context, eventID uuid.UUID) ([]models.EntryResult, error) {
	query := `
		SELECT entry_id, class_id, manufacturer, finish_position, status
		FROM entry_results
		WHERE event_id = $1
		ORDER BY ordinal
	`

	rows, err := r.db.Conn(ctx).Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entry results: %w", err)
	}

	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.EntryResult])
	if err != nil {
		return nil, fmt.Errorf("failed to scan entry results: %w", err)
	}
	return entries, nil
}

// GetClasses returns the classes run at an event
func (r *PostgresResultRepository) GetClasses(ctx context.Context, eventID uuid.UUID) ([]models.ClassMeta, error) {
	query := `
		SELECT class_id, name, supports_manufacturer, display_order
		FROM event_classes
		WHERE event_id = $1
		ORDER BY display_order, class_id
	`

	rows, err := r.db.Conn(ctx).Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query event classes: %w", err)
	}

	classes, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ClassMeta])
	if err != nil {
		return nil, fmt.Errorf("failed to scan event classes: %w", err)
	}
	return classes, nil
}
