// Package leaderboard ranks user totals and diffs rankings between runs.
//
// Ranking uses standard competition ranking: users with equal totals share a
// rank and the next distinct total skips ahead by the size of the tie group
// (1, 1, 3). Rank 1 is always the best standing whatever the direction, so
// position changes read the same way for golf-style and high-score contexts.
package leaderboard

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/podium-picks/internal/models"
)

// Build ranks totals in direction and, when prior is non-nil, fills in
// position changes against it. Entries in a tie group are listed by user ID.
// A user appearing twice in totals is an error.
func Build(totals []models.UserTotal, direction models.Direction, prior []models.LeaderboardEntry) ([]models.LeaderboardEntry, error) {
	if !direction.Valid() {
		return nil, fmt.Errorf("invalid leaderboard direction %q", direction)
	}

	seen := make(map[uuid.UUID]struct{}, len(totals))
	sorted := make([]models.UserTotal, 0, len(totals))
	for _, t := range totals {
		if _, dup := seen[t.UserID]; dup {
			return nil, fmt.Errorf("user %s: %w", t.UserID, models.ErrDuplicateUser)
		}
		seen[t.UserID] = struct{}{}
		sorted = append(sorted, t)
	}

	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Points != b.Points {
			if direction == models.LowerIsBetter {
				return a.Points < b.Points
			}
			return a.Points > b.Points
		}
		return a.UserID.String() < b.UserID.String()
	})

	var priorRank map[uuid.UUID]int
	if prior != nil {
		priorRank = make(map[uuid.UUID]int, len(prior))
		for _, e := range prior {
			priorRank[e.UserID] = e.Rank
		}
	}

	entries := make([]models.LeaderboardEntry, len(sorted))
	for i := 0; i < len(sorted); {
		j := i
		for j < len(sorted) && sorted[j].Points == sorted[i].Points {
			j++
		}
		size := j - i
		for k := i; k < j; k++ {
			t := sorted[k]
			entries[k] = models.LeaderboardEntry{
				UserID:        t.UserID,
				Rank:          i + 1,
				TotalPoints:   t.Points,
				Tied:          size > 1,
				TieSize:       size,
				Participated:  t.Participated,
				AveragePoints: Average(t.Points, t.Participated),
			}
		}
		i = j
	}

	if priorRank != nil {
		for i := range entries {
			before, ok := priorRank[entries[i].UserID]
			if !ok {
				entries[i].IsNew = true
				continue
			}
			entries[i].PositionChange = before - entries[i].Rank
		}
	}
	return entries, nil
}

// Average divides points by the number of contexts with a recorded result.
// No participation averages to zero.
func Average(points, participated int) decimal.Decimal {
	if participated <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(points)).Div(decimal.NewFromInt(int64(participated))).Round(2)
}

// Top returns at most n entries from the head of a ranked sequence
func Top(entries []models.LeaderboardEntry, n int) []models.LeaderboardEntry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[:n]
}

// Find returns the entry for userID
func Find(entries []models.LeaderboardEntry, userID uuid.UUID) (models.LeaderboardEntry, bool) {
	for _, e := range entries {
		if e.UserID == userID {
			return e, true
		}
	}
	return models.LeaderboardEntry{}, false
}
