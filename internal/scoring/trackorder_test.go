package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/podium-picks/internal/models"
)

func twoWeekSchedule() models.SeasonSchedule {
	return models.SeasonSchedule{
		SeasonID: seasonID,
		Weeks: []models.ScheduleEntry{
			{Week: 1, TrackID: "Daytona"},
			{Week: 2, TrackID: "Sebring"},
		},
	}
}

func TestScoreTrackOrderScenarios(t *testing.T) {
	rules := models.DefaultTrackOrderRules()

	tests := []struct {
		name      string
		week      int
		track     string
		proximity models.Proximity
		points    int
	}{
		{name: "perfect match", week: 1, track: "Daytona", proximity: models.ProximityPerfectMatch, points: 15},
		{name: "track match only", week: 2, track: "Daytona", proximity: models.ProximityTrackMatchOnly, points: 10},
		{name: "no match", week: 1, track: "Spa", proximity: models.ProximityNoMatch, points: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preds := []models.TrackOrderPrediction{{UserID: userA, SeasonID: seasonID, Week: tt.week, TrackID: tt.track}}

			result, err := ScoreTrackOrder(preds, twoWeekSchedule(), rules)
			require.NoError(t, err)

			s, ok := scoreFor(result.Scores, userA, itoa(tt.week), tt.week)
			require.True(t, ok)
			assert.Equal(t, tt.proximity, s.Proximity)
			assert.Equal(t, tt.points, s.Points)
			assert.Equal(t, tt.track, s.Subject)
		})
	}
}

func TestTrackOrderPointProperties(t *testing.T) {
	rules := models.DefaultTrackOrderRules()

	perfect := TrackOrderPoints(models.ProximityPerfectMatch, rules)
	trackOnly := TrackOrderPoints(models.ProximityTrackMatchOnly, rules)
	noMatch := TrackOrderPoints(models.ProximityNoMatch, rules)
	missing := TrackOrderPoints(models.ProximityMissing, rules)

	assert.Equal(t, trackOnly+rules.WeekPoints, perfect)
	assert.GreaterOrEqual(t, perfect, noMatch)
	assert.GreaterOrEqual(t, trackOnly, noMatch)
	assert.Equal(t, 0, noMatch)
	assert.Greater(t, missing, perfect)
}

func TestScoreTrackOrderMissingWeeksPenalized(t *testing.T) {
	rules := models.DefaultTrackOrderRules()
	preds := []models.TrackOrderPrediction{{UserID: userA, SeasonID: seasonID, Week: 1, TrackID: "Daytona"}}

	result, err := ScoreTrackOrder(preds, twoWeekSchedule(), rules)
	require.NoError(t, err)

	assert.Len(t, result.Scores, 8)
	for week := 2; week <= 8; week++ {
		s, ok := scoreFor(result.Scores, userA, itoa(week), week)
		require.True(t, ok, "week %d", week)
		assert.Equal(t, models.ProximityMissing, s.Proximity)
		assert.Equal(t, 20, s.Points)
	}

	total, ok := totalFor(result.Totals, userA)
	require.True(t, ok)
	assert.Equal(t, 15+7*20, total.Points)
	assert.Equal(t, 1, total.PredictionsMade)
	assert.Equal(t, 1, total.Participated)
}

func TestScoreTrackOrderLateSubmissionExcusesWeekOne(t *testing.T) {
	rules := models.DefaultTrackOrderRules()
	deadline := time.Date(2026, 1, 10, 18, 0, 0, 0, time.UTC)
	schedule := twoWeekSchedule()
	schedule.Week1Deadline = deadline

	preds := []models.TrackOrderPrediction{
		{UserID: userA, SeasonID: seasonID, Week: 2, TrackID: "Sebring", CreatedAt: deadline.Add(time.Hour)},
		{UserID: userB, SeasonID: seasonID, Week: 2, TrackID: "Sebring", CreatedAt: deadline.Add(-time.Hour)},
	}

	result, err := ScoreTrackOrder(preds, schedule, rules)
	require.NoError(t, err)

	_, hasWeekOne := scoreFor(result.Scores, userA, "1", 1)
	assert.False(t, hasWeekOne, "late user should not be penalized for week 1")
	late, _ := totalFor(result.Totals, userA)
	assert.Equal(t, 15+6*20, late.Points)

	onTime, _ := totalFor(result.Totals, userB)
	assert.Equal(t, 15+7*20, onTime.Points)
}

func TestRequiredWeeks(t *testing.T) {
	rules := models.DefaultTrackOrderRules()
	deadline := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, RequiredWeeks(deadline.Add(-time.Minute), deadline, rules))
	assert.Equal(t, []int{2, 3, 4, 5, 6, 7, 8}, RequiredWeeks(deadline.Add(time.Minute), deadline, rules))
	assert.Len(t, RequiredWeeks(time.Time{}, deadline, rules), 8)
	assert.Len(t, RequiredWeeks(deadline.Add(time.Minute), time.Time{}, rules), 8)
}

func TestScoreTrackOrderRejectsDuplicateWeek(t *testing.T) {
	preds := []models.TrackOrderPrediction{
		{UserID: userA, SeasonID: seasonID, Week: 1, TrackID: "Daytona"},
		{UserID: userA, SeasonID: seasonID, Week: 1, TrackID: "Sebring"},
		{UserID: userB, SeasonID: seasonID, Week: 2, TrackID: "Sebring"},
	}

	result, err := ScoreTrackOrder(preds, twoWeekSchedule(), models.DefaultTrackOrderRules())
	require.NoError(t, err)

	require.Equal(t, 1, Count(result.Issues, IssueMalformedPrediction))
	assert.Equal(t, userA, result.Issues[0].UserID)

	s, ok := scoreFor(result.Scores, userA, "1", 1)
	require.True(t, ok)
	assert.Equal(t, "Daytona", s.Subject)

	other, ok := scoreFor(result.Scores, userB, "2", 2)
	require.True(t, ok)
	assert.Equal(t, 15, other.Points)
}

func TestScoreTrackOrderParticipantWithoutPicks(t *testing.T) {
	result, err := ScoreTrackOrder(nil, twoWeekSchedule(), models.DefaultTrackOrderRules(), WithParticipants(userC))
	require.NoError(t, err)

	total, ok := totalFor(result.Totals, userC)
	require.True(t, ok)
	assert.Equal(t, 8*20, total.Points)
	assert.Equal(t, 0, total.PredictionsMade)
}

func TestScoreTrackOrderWithoutScheduleFails(t *testing.T) {
	_, err := ScoreTrackOrder(nil, models.SeasonSchedule{SeasonID: seasonID}, models.DefaultTrackOrderRules())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrMissingPrerequisite)
}

func TestScoreTrackOrderIsDeterministic(t *testing.T) {
	preds := []models.TrackOrderPrediction{
		{UserID: userB, SeasonID: seasonID, Week: 2, TrackID: "Daytona"},
		{UserID: userA, SeasonID: seasonID, Week: 1, TrackID: "Daytona"},
		{UserID: userA, SeasonID: seasonID, Week: 3, TrackID: "Spa"},
	}

	first, err := ScoreTrackOrder(preds, twoWeekSchedule(), models.DefaultTrackOrderRules())
	require.NoError(t, err)
	second, err := ScoreTrackOrder(preds, twoWeekSchedule(), models.DefaultTrackOrderRules())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, userA, first.Totals[0].UserID)
}
