package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/podium-picks/internal/database"
	"github.com/yourusername/podium-picks/internal/models"
)

func setup(t *testing.T) (*Repositories, *database.DB, context.Context) {
	db := database.SetupTestDB(t)
	repos, err := NewRepositories(db)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return repos, db, ctx
}

func createContext(t *testing.T, ctx context.Context, db *database.DB, kind models.ContextKind) uuid.UUID {
	id := uuid.New()
	_, err := db.GetPool().Exec(ctx,
		`INSERT INTO contexts (id, kind, name, week1_deadline) VALUES ($1, $2, $3, $4)`,
		id, string(kind), "test "+string(kind), time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.GetPool().Exec(context.Background(), `DELETE FROM contexts WHERE id = $1`, id)
	})
	return id
}

func TestNewRepositoriesRequiresDB(t *testing.T) {
	_, err := NewRepositories(nil)
	assert.Error(t, err)
}

func TestUserTotalsUpsertIsIdempotent(t *testing.T) {
	repos, db, ctx := setup(t)
	seasonID := createContext(t, ctx, db, models.ContextWinnerPick)

	a, b := uuid.New(), uuid.New()
	totals := []models.UserTotal{
		{UserID: a, ContextID: seasonID, Points: 21, Participated: 1, PredictionsMade: 2},
		{UserID: b, ContextID: seasonID, Points: 13, Participated: 1, PredictionsMade: 2},
	}

	for i := 0; i < 2; i++ {
		n, err := repos.Scores.UpsertUserTotals(ctx, seasonID, totals)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	}

	var count int
	require.NoError(t, db.GetPool().QueryRow(ctx, `SELECT COUNT(*) FROM user_totals WHERE context_id = $1`, seasonID).Scan(&count))
	assert.Equal(t, 2, count)

	_, err := repos.Scores.UpsertUserTotals(ctx, seasonID, totals[:1])
	require.NoError(t, err)
	require.NoError(t, db.GetPool().QueryRow(ctx, `SELECT COUNT(*) FROM user_totals WHERE context_id = $1`, seasonID).Scan(&count))
	assert.Equal(t, 1, count, "users missing from the run are removed")
}

func TestLeaderboardRoundTrip(t *testing.T) {
	repos, db, ctx := setup(t)
	seasonID := createContext(t, ctx, db, models.ContextTrackOrder)

	_, err := repos.Scores.GetLatestLeaderboard(ctx, seasonID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	snap := &models.LeaderboardSnapshot{
		ContextID: seasonID,
		Kind:      models.ContextTrackOrder,
		Direction: models.LowerIsBetter,
		Entries: []models.LeaderboardEntry{
			{UserID: uuid.New(), Rank: 1, TotalPoints: 50, AveragePoints: decimal.NewFromInt(50)},
		},
		BuiltAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, repos.Scores.SaveLeaderboard(ctx, snap))

	got, err := repos.Scores.GetLatestLeaderboard(ctx, seasonID)
	require.NoError(t, err)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, 50, got.Entries[0].TotalPoints)
	assert.Equal(t, models.LowerIsBetter, got.Direction)
}

func TestPodiumEditsClearAndReplace(t *testing.T) {
	repos, db, ctx := setup(t)
	eventID := createContext(t, ctx, db, models.ContextMultiClass)
	user := uuid.New()

	car7, car31 := "car-7", "car-31"
	require.NoError(t, repos.Edits.ApplyPodiumEdits(ctx, user, eventID, []models.PodiumEdit{
		{ClassID: "GTP", Position: 1, EntryID: &car7},
		{ClassID: "GTP", Position: 2, EntryID: &car31},
	}))
	require.NoError(t, repos.Edits.ApplyPodiumEdits(ctx, user, eventID, []models.PodiumEdit{
		{ClassID: "GTP", Position: 1, EntryID: &car31},
		{ClassID: "GTP", Position: 2, EntryID: nil},
	}))

	picks, err := repos.Predictions.GetPodiumPicks(ctx, eventID)
	require.NoError(t, err)
	require.Len(t, picks, 1)
	assert.Equal(t, 1, picks[0].Position)
	assert.Equal(t, car31, picks[0].EntryID)
}

func TestScheduleForUnknownSeason(t *testing.T) {
	repos, _, ctx := setup(t)
	_, err := repos.Results.GetSchedule(ctx, uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}
