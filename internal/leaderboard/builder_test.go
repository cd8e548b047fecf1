package leaderboard

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/podium-picks/internal/models"
)

var (
	alice = uuid.MustParse("00000000-0000-4000-8000-000000000001")
	bob   = uuid.MustParse("00000000-0000-4000-8000-000000000002")
	carol = uuid.MustParse("00000000-0000-4000-8000-000000000003")
	dave  = uuid.MustParse("00000000-0000-4000-8000-000000000004")
)

func total(user uuid.UUID, points, participated int) models.UserTotal {
	return models.UserTotal{UserID: user, Points: points, Participated: participated}
}

func ranks(entries []models.LeaderboardEntry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.Rank
	}
	return out
}

func users(entries []models.LeaderboardEntry) []uuid.UUID {
	out := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		out[i] = e.UserID
	}
	return out
}

func TestBuildGolfStyleTiesShareRank(t *testing.T) {
	totals := []models.UserTotal{
		total(carol, 60, 1),
		total(bob, 50, 1),
		total(alice, 50, 1),
		total(dave, 61, 1),
	}

	entries, err := Build(totals, models.LowerIsBetter, nil)
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{alice, bob, carol, dave}, users(entries))
	assert.Equal(t, []int{1, 1, 3, 4}, ranks(entries))
	assert.True(t, entries[0].Tied)
	assert.Equal(t, 2, entries[1].TieSize)
	assert.False(t, entries[2].Tied)
	assert.Equal(t, 1, entries[2].TieSize)
}

func TestBuildHigherIsBetter(t *testing.T) {
	totals := []models.UserTotal{
		total(alice, 12, 1),
		total(bob, 40, 1),
		total(carol, 40, 1),
	}

	entries, err := Build(totals, models.HigherIsBetter, nil)
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{bob, carol, alice}, users(entries))
	assert.Equal(t, []int{1, 1, 3}, ranks(entries))
}

func TestBuildPositionChange(t *testing.T) {
	prior := []models.LeaderboardEntry{
		{UserID: alice, Rank: 1},
		{UserID: bob, Rank: 2},
		{UserID: dave, Rank: 3},
	}
	totals := []models.UserTotal{
		total(alice, 30, 2),
		total(bob, 10, 2),
		total(carol, 20, 1),
	}

	entries, err := Build(totals, models.LowerIsBetter, prior)
	require.NoError(t, err)
	require.Len(t, entries, 3, "users missing from the current run are omitted")

	b, _ := Find(entries, bob)
	assert.Equal(t, 1, b.Rank)
	assert.Equal(t, 1, b.PositionChange)
	assert.False(t, b.IsNew)

	a, _ := Find(entries, alice)
	assert.Equal(t, -2, a.PositionChange)

	c, _ := Find(entries, carol)
	assert.True(t, c.IsNew)
	assert.Equal(t, 0, c.PositionChange)

	_, found := Find(entries, dave)
	assert.False(t, found)
}

func TestBuildIsStableAgainstItself(t *testing.T) {
	totals := []models.UserTotal{
		total(alice, 5, 1),
		total(bob, 5, 1),
		total(carol, 9, 1),
	}

	first, err := Build(totals, models.HigherIsBetter, nil)
	require.NoError(t, err)
	second, err := Build(totals, models.HigherIsBetter, first)
	require.NoError(t, err)

	assert.Equal(t, ranks(first), ranks(second))
	assert.Equal(t, users(first), users(second))
	for _, e := range second {
		assert.Equal(t, 0, e.PositionChange)
		assert.False(t, e.IsNew)
	}
}

func TestBuildWithoutPriorHasNoDiff(t *testing.T) {
	entries, err := Build([]models.UserTotal{total(alice, 1, 1)}, models.LowerIsBetter, nil)
	require.NoError(t, err)
	assert.False(t, entries[0].IsNew)

	entries, err = Build([]models.UserTotal{total(alice, 1, 1)}, models.LowerIsBetter, []models.LeaderboardEntry{})
	require.NoError(t, err)
	assert.True(t, entries[0].IsNew)
}

func TestBuildRejectsDuplicateUser(t *testing.T) {
	_, err := Build([]models.UserTotal{total(alice, 1, 1), total(alice, 2, 1)}, models.LowerIsBetter, nil)
	assert.ErrorIs(t, err, models.ErrDuplicateUser)
}

func TestBuildRejectsUnknownDirection(t *testing.T) {
	_, err := Build(nil, models.Direction("sideways"), nil)
	assert.Error(t, err)
}

func TestAverage(t *testing.T) {
	tests := []struct {
		name         string
		points       int
		participated int
		want         string
	}{
		{name: "even", points: 40, participated: 4, want: "10"},
		{name: "rounded", points: 10, participated: 3, want: "3.33"},
		{name: "no participation", points: 25, participated: 0, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, Average(tt.points, tt.participated).Equal(decimal.RequireFromString(tt.want)))
		})
	}
}

func TestBuildAveragesUseParticipation(t *testing.T) {
	entries, err := Build([]models.UserTotal{total(alice, 21, 3)}, models.LowerIsBetter, nil)
	require.NoError(t, err)
	assert.Equal(t, "7", entries[0].AveragePoints.String())
	assert.Equal(t, 3, entries[0].Participated)
}

func TestTop(t *testing.T) {
	entries := []models.LeaderboardEntry{{Rank: 1}, {Rank: 2}, {Rank: 3}}
	assert.Len(t, Top(entries, 2), 2)
	assert.Len(t, Top(entries, 10), 3)
	assert.Len(t, Top(entries, 0), 3)
}
