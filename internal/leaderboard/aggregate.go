package leaderboard

import (
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/podium-picks/internal/models"
)

// Aggregate sums scored predictions into one total per user and context.
// Pending scores are skipped. Participated counts distinct score groups
// (weeks or classes) that had a result.
func Aggregate(scores []models.PerPredictionScore) []models.UserTotal {
	type key struct {
		user uuid.UUID
		ctx  uuid.UUID
	}
	totals := make(map[key]*models.UserTotal)
	groups := make(map[key]map[string]struct{})
	var order []key

	for _, s := range scores {
		k := key{user: s.UserID, ctx: s.ContextID}
		t, ok := totals[k]
		if !ok {
			t = &models.UserTotal{UserID: s.UserID, ContextID: s.ContextID}
			totals[k] = t
			groups[k] = make(map[string]struct{})
			order = append(order, k)
		}
		if s.Pending {
			continue
		}
		t.Points += s.Points
		groups[k][s.Group] = struct{}{}
	}

	out := make([]models.UserTotal, 0, len(order))
	for _, k := range order {
		t := *totals[k]
		t.Participated = len(groups[k])
		out = append(out, t)
	}
	return out
}

// Combine merges totals from several contexts into one total per user,
// summing points, participation and predictions. contextID labels the result.
func Combine(contextID uuid.UUID, sets ...[]models.UserTotal) []models.UserTotal {
	byUser := make(map[uuid.UUID]*models.UserTotal)
	var order []uuid.UUID
	for _, set := range sets {
		for _, t := range set {
			c, ok := byUser[t.UserID]
			if !ok {
				c = &models.UserTotal{UserID: t.UserID, ContextID: contextID}
				byUser[t.UserID] = c
				order = append(order, t.UserID)
			}
			c.Points += t.Points
			c.Participated += t.Participated
			c.PredictionsMade += t.PredictionsMade
		}
	}
	out := make([]models.UserTotal, 0, len(order))
	for _, id := range order {
		out = append(out, *byUser[id])
	}
	return out
}

// WeekAverage is the mean score across all scored picks of one week
type WeekAverage struct {
	Week    int             `json:"week"`
	Picks   int             `json:"picks"`
	Average decimal.Decimal `json:"average"`
}

// WeeklyAverages averages scored picks per week. Weeks whose picks are all
// pending are left out rather than counted as zero.
func WeeklyAverages(scores []models.PerPredictionScore) []WeekAverage {
	sums := make(map[int]int)
	counts := make(map[int]int)
	for _, s := range scores {
		if s.Pending {
			continue
		}
		week, err := strconv.Atoi(s.Group)
		if err != nil {
			continue
		}
		sums[week] += s.Points
		counts[week]++
	}

	out := make([]WeekAverage, 0, len(counts))
	for week, n := range counts {
		out = append(out, WeekAverage{Week: week, Picks: n, Average: Average(sums[week], n)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	return out
}
