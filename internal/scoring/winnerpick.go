package scoring

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/google/uuid"

	"github.com/yourusername/podium-picks/internal/models"
)

// WinnerPickResult is the output of ScoreWinnerPicks
type WinnerPickResult struct {
	SeasonID uuid.UUID                   `json:"season_id"`
	Scores   []models.PerPredictionScore `json:"scores"`
	Totals   []models.UserTotal          `json:"totals"`
	Issues   []Issue                     `json:"issues,omitempty"`
}

// DNFPenalty is the score of a pick whose driver did not finish or a split
// the user skipped. It is always worse than last place.
func DNFPenalty(participants int) int {
	return participants + 1
}

// participantCount resolves the field size of a split: an explicit override,
// then the recorded count, then the number of classified drivers.
func participantCount(r models.SplitResult, overrides map[models.SplitKey]int) int {
	if n, ok := overrides[r.Key()]; ok && n > 0 {
		return n
	}
	if r.ParticipantCount > 0 {
		return r.ParticipantCount
	}
	return len(r.Finishes)
}

// FinishScore returns the golf score of driverID in r. A recorded status is
// authoritative; without one, a position past the cutoff counts as DNF.
func FinishScore(driverID string, r models.SplitResult, participants int, rules models.WinnerPickRules) (int, models.Proximity) {
	penalty := DNFPenalty(participants)
	for _, f := range r.Finishes {
		if f.DriverID != driverID {
			continue
		}
		switch f.Status {
		case models.StatusDNF:
			return penalty, models.ProximityDNF
		case models.StatusFinished:
		default:
			if rules.DNFPositionCutoff > 0 && f.Position > rules.DNFPositionCutoff {
				return penalty, models.ProximityDNF
			}
		}
		if f.Position < 1 || f.Position > participants {
			return penalty, models.ProximityDNF
		}
		return f.Position, models.ProximityFinished
	}
	return penalty, models.ProximityDNF
}

// ScoreWinnerPicks scores one driver pick per (week, division, split) against
// the split's finishing order. Lower is better. Splits without a result are
// returned as pending and carry no points.
func ScoreWinnerPicks(picks []models.WinnerPick, results []models.SplitResult, participantCountBySplit map[models.SplitKey]int, rules models.WinnerPickRules, opts ...Option) (*WinnerPickResult, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("no split results recorded: %w", models.ErrMissingPrerequisite)
	}

	o := buildOptions(opts)
	log := &issueLog{}
	users := &userSet{}

	resultByKey := make(map[models.SplitKey]models.SplitResult, len(results))
	resultKeys := make([]models.SplitKey, 0, len(results))
	for _, r := range results {
		if _, ok := resultByKey[r.Key()]; !ok {
			resultKeys = append(resultKeys, r.Key())
		}
		resultByKey[r.Key()] = r
	}

	var seasonID uuid.UUID
	byUser := make(map[uuid.UUID]map[models.SplitKey]models.WinnerPick)
	for _, p := range picks {
		if seasonID == uuid.Nil {
			seasonID = p.SeasonID
		}
		users.add(p.UserID)
		m, ok := byUser[p.UserID]
		if !ok {
			m = make(map[models.SplitKey]models.WinnerPick)
			byUser[p.UserID] = m
		}
		if _, dup := m[p.Key()]; dup {
			log.malformed(p.UserID, "duplicate winner pick for %s", p.Key())
			continue
		}
		m[p.Key()] = p
	}
	for _, id := range o.participants {
		users.add(id)
	}

	result := &WinnerPickResult{SeasonID: seasonID}
	for _, userID := range users.sorted() {
		userPicks := byUser[userID]

		keys := make([]models.SplitKey, 0, len(resultKeys)+len(userPicks))
		keys = append(keys, resultKeys...)
		for k := range userPicks {
			if _, ok := resultByKey[k]; !ok {
				keys = append(keys, k)
			}
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

		total := models.UserTotal{UserID: userID, ContextID: seasonID, PredictionsMade: len(userPicks)}
		weeks := make(map[int]struct{})
		for _, k := range keys {
			pick, picked := userPicks[k]
			r, hasResult := resultByKey[k]
			s := models.PerPredictionScore{
				UserID:    userID,
				ContextID: seasonID,
				Kind:      models.ContextWinnerPick,
				Group:     strconv.Itoa(k.Week),
				Slot:      splitSlot(k),
				Subject:   pick.DriverID,
			}
			switch {
			case !hasResult:
				s.Proximity = models.ProximityPending
				s.Pending = true
			case !picked:
				s.Points = DNFPenalty(participantCount(r, participantCountBySplit))
				s.Proximity = models.ProximitySkipped
			default:
				s.Points, s.Proximity = FinishScore(pick.DriverID, r, participantCount(r, participantCountBySplit), rules)
			}
			if !s.Pending {
				total.Points += s.Points
				weeks[k.Week] = struct{}{}
			}
			result.Scores = append(result.Scores, s)
		}
		total.Participated = len(weeks)
		result.Totals = append(result.Totals, total)
	}
	result.Issues = log.issues
	return result, nil
}

// splitSlot packs division and split into one slot number, e.g. 302 for
// division 3 split 2.
func splitSlot(k models.SplitKey) int {
	return k.Division*100 + k.Split
}
