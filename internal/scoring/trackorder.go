package scoring

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/podium-picks/internal/models"
)

// TrackOrderResult is the output of ScoreTrackOrder
type TrackOrderResult struct {
	SeasonID uuid.UUID                   `json:"season_id"`
	Scores   []models.PerPredictionScore `json:"scores"`
	Totals   []models.UserTotal          `json:"totals"`
	Issues   []Issue                     `json:"issues,omitempty"`
}

// ClassifyTrackOrder decides how a predicted (week, track) pair matches the schedule
func ClassifyTrackOrder(week int, trackID string, schedule models.SeasonSchedule) models.Proximity {
	if !schedule.HasTrack(trackID) {
		return models.ProximityNoMatch
	}
	if actual, ok := schedule.TrackForWeek(week); ok && actual == trackID {
		return models.ProximityPerfectMatch
	}
	return models.ProximityTrackMatchOnly
}

// TrackOrderPoints returns the points for a proximity under rules
func TrackOrderPoints(p models.Proximity, rules models.TrackOrderRules) int {
	switch p {
	case models.ProximityPerfectMatch:
		return rules.TrackPoints + rules.WeekPoints
	case models.ProximityTrackMatchOnly:
		return rules.TrackPoints
	case models.ProximityMissing:
		return rules.MissingPenalty
	default:
		return 0
	}
}

// RequiredWeeks returns the weeks a user must predict. A user whose first
// prediction came after the week-1 deadline is excused from week 1.
func RequiredWeeks(firstPredictedAt, week1Deadline time.Time, rules models.TrackOrderRules) []int {
	count := rules.RequiredWeeks
	if !week1Deadline.IsZero() && !firstPredictedAt.IsZero() && firstPredictedAt.After(week1Deadline) {
		count = rules.LateRequiredWeeks
	}
	first := rules.RequiredWeeks - count + 1
	weeks := make([]int, 0, count)
	for w := first; w <= rules.RequiredWeeks; w++ {
		weeks = append(weeks, w)
	}
	return weeks
}

// ScoreTrackOrder scores each user's predicted season calendar against the
// actual schedule. Every required week the user left empty scores the
// missing-prediction penalty.
func ScoreTrackOrder(predictions []models.TrackOrderPrediction, schedule models.SeasonSchedule, rules models.TrackOrderRules, opts ...Option) (*TrackOrderResult, error) {
	if len(schedule.Weeks) == 0 {
		return nil, fmt.Errorf("season %s has no schedule: %w", schedule.SeasonID, models.ErrMissingPrerequisite)
	}

	o := buildOptions(opts)
	log := &issueLog{}
	users := &userSet{}

	type userPicks struct {
		byWeek map[int]models.TrackOrderPrediction
		first  time.Time
	}
	picks := make(map[uuid.UUID]*userPicks)

	for _, p := range predictions {
		users.add(p.UserID)
		up, ok := picks[p.UserID]
		if !ok {
			up = &userPicks{byWeek: make(map[int]models.TrackOrderPrediction)}
			picks[p.UserID] = up
		}
		if p.Week < 1 {
			log.malformed(p.UserID, "track-order week %d out of range", p.Week)
			continue
		}
		if _, dup := up.byWeek[p.Week]; dup {
			log.malformed(p.UserID, "duplicate track-order prediction for week %d", p.Week)
			continue
		}
		up.byWeek[p.Week] = p
		if !p.CreatedAt.IsZero() && (up.first.IsZero() || p.CreatedAt.Before(up.first)) {
			up.first = p.CreatedAt
		}
	}
	for _, id := range o.participants {
		users.add(id)
	}

	result := &TrackOrderResult{SeasonID: schedule.SeasonID}
	for _, userID := range users.sorted() {
		up := picks[userID]
		if up == nil {
			up = &userPicks{byWeek: map[int]models.TrackOrderPrediction{}}
		}

		scores := make([]models.PerPredictionScore, 0, len(up.byWeek)+rules.RequiredWeeks)
		for week, p := range up.byWeek {
			prox := ClassifyTrackOrder(week, p.TrackID, schedule)
			scores = append(scores, trackOrderScore(userID, schedule.SeasonID, week, p.TrackID, prox, rules))
		}
		for _, week := range RequiredWeeks(up.first, schedule.Week1Deadline, rules) {
			if _, ok := up.byWeek[week]; !ok {
				scores = append(scores, trackOrderScore(userID, schedule.SeasonID, week, "", models.ProximityMissing, rules))
			}
		}
		sort.Slice(scores, func(i, j int) bool { return scores[i].Slot < scores[j].Slot })

		total := models.UserTotal{
			UserID:          userID,
			ContextID:       schedule.SeasonID,
			Participated:    1,
			PredictionsMade: len(up.byWeek),
		}
		for _, s := range scores {
			total.Points += s.Points
		}
		result.Scores = append(result.Scores, scores...)
		result.Totals = append(result.Totals, total)
	}
	result.Issues = log.issues
	return result, nil
}

func trackOrderScore(userID, seasonID uuid.UUID, week int, trackID string, prox models.Proximity, rules models.TrackOrderRules) models.PerPredictionScore {
	return models.PerPredictionScore{
		UserID:    userID,
		ContextID: seasonID,
		Kind:      models.ContextTrackOrder,
		Group:     strconv.Itoa(week),
		Slot:      week,
		Subject:   trackID,
		Proximity: prox,
		Points:    TrackOrderPoints(prox, rules),
	}
}
