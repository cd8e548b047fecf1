package scoring

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/yourusername/podium-picks/internal/models"
)

// MultiClassResult is the output of ScoreMultiClassEvent
type MultiClassResult struct {
	EventID             uuid.UUID                     `json:"event_id"`
	PodiumScores        []models.PerPredictionScore   `json:"podium_scores"`
	ManufacturerResults []models.ManufacturerStanding `json:"manufacturer_results"`
	ManufacturerScores  []models.PerPredictionScore   `json:"manufacturer_scores"`
	Totals              []models.UserTotal            `json:"totals"`
	ClassTotals         []models.ClassTotal           `json:"class_totals"`
	Issues              []Issue                       `json:"issues,omitempty"`
}

// PodiumProximity classifies the actual finish of a podium pick
func PodiumProximity(predicted int, entry models.EntryResult, found bool) models.Proximity {
	if !found || !entry.Finished() {
		return models.ProximityNone
	}
	f := entry.FinishPosition
	switch {
	case f == predicted:
		return models.ProximityExact
	case f >= 1 && f <= 3:
		return models.ProximityOnPodium
	case f == 4 || f == 5:
		return models.ProximityTop5
	default:
		return models.ProximityNone
	}
}

type classKey struct {
	user  uuid.UUID
	class string
}

// ScoreMultiClassEvent scores podium and manufacturer picks for an event.
// Manufacturer standings are derived from entries before manufacturer picks
// are scored. Higher totals are better.
func ScoreMultiClassEvent(podium []models.PodiumPick, manufacturer []models.ManufacturerPick, entries []models.EntryResult, classes []models.ClassMeta, rules RuleTable) (*MultiClassResult, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("no entry results recorded: %w", models.ErrMissingPrerequisite)
	}

	log := &issueLog{}
	users := &userSet{}
	result := &MultiClassResult{}

	entryByID := make(map[string]models.EntryResult, len(entries))
	for _, e := range entries {
		if _, ok := entryByID[e.EntryID]; !ok {
			entryByID[e.EntryID] = e
		}
	}

	result.ManufacturerResults = DeriveManufacturerStandings(entries, classes)
	actualRank := make(map[string]map[string]int)
	for _, s := range result.ManufacturerResults {
		if actualRank[s.ClassID] == nil {
			actualRank[s.ClassID] = make(map[string]int)
		}
		actualRank[s.ClassID][s.Manufacturer] = s.Rank
	}

	classTotals := make(map[classKey]*models.ClassTotal)
	classTotal := func(user uuid.UUID, eventID uuid.UUID, class string) *models.ClassTotal {
		k := classKey{user: user, class: class}
		ct, ok := classTotals[k]
		if !ok {
			ct = &models.ClassTotal{UserID: user, EventID: eventID, ClassID: class}
			classTotals[k] = ct
		}
		return ct
	}

	type podiumSlot struct {
		user     uuid.UUID
		class    string
		position int
	}
	seenPodium := make(map[podiumSlot]struct{})
	for _, p := range podium {
		if result.EventID == uuid.Nil {
			result.EventID = p.EventID
		}
		users.add(p.UserID)
		if p.Position < 1 || p.Position > 3 {
			log.malformed(p.UserID, "podium position %d out of range in class %s", p.Position, p.ClassID)
			continue
		}
		slot := podiumSlot{user: p.UserID, class: p.ClassID, position: p.Position}
		if _, dup := seenPodium[slot]; dup {
			log.malformed(p.UserID, "duplicate podium pick for P%d in class %s", p.Position, p.ClassID)
			continue
		}
		seenPodium[slot] = struct{}{}

		entry, found := entryByID[p.EntryID]
		if found && entry.ClassID != p.ClassID {
			found = false
		}
		prox := PodiumProximity(p.Position, entry, found)
		points := 0
		if prox != models.ProximityNone {
			points = rules.score(models.RuleKey{Category: models.CategoryPodium, Slot: p.Position, Proximity: prox}, log)
		}

		result.PodiumScores = append(result.PodiumScores, models.PerPredictionScore{
			UserID:    p.UserID,
			ContextID: p.EventID,
			Kind:      models.ContextMultiClass,
			Group:     p.ClassID,
			Slot:      p.Position,
			Subject:   p.EntryID,
			Proximity: prox,
			Points:    points,
		})
		ct := classTotal(p.UserID, p.EventID, p.ClassID)
		ct.PodiumPoints += points
		ct.PredictionsMade++
	}

	type rankSlot struct {
		user  uuid.UUID
		class string
		rank  int
	}
	seenRank := make(map[rankSlot]struct{})
	for _, p := range manufacturer {
		if result.EventID == uuid.Nil {
			result.EventID = p.EventID
		}
		users.add(p.UserID)
		if p.Rank < 1 {
			log.malformed(p.UserID, "manufacturer rank %d out of range in class %s", p.Rank, p.ClassID)
			continue
		}
		slot := rankSlot{user: p.UserID, class: p.ClassID, rank: p.Rank}
		if _, dup := seenRank[slot]; dup {
			log.malformed(p.UserID, "duplicate manufacturer pick for rank %d in class %s", p.Rank, p.ClassID)
			continue
		}
		seenRank[slot] = struct{}{}

		prox := models.ProximityNone
		if actual, ok := actualRank[p.ClassID][p.Manufacturer]; ok {
			prox = ManufacturerProximity(p.Rank, actual)
		}
		points := 0
		if prox != models.ProximityNone {
			points = rules.score(models.RuleKey{Category: models.CategoryManufacturer, Slot: p.Rank, Proximity: prox}, log)
		}

		result.ManufacturerScores = append(result.ManufacturerScores, models.PerPredictionScore{
			UserID:    p.UserID,
			ContextID: p.EventID,
			Kind:      models.ContextMultiClass,
			Group:     p.ClassID,
			Slot:      p.Rank,
			Subject:   p.Manufacturer,
			Proximity: prox,
			Points:    points,
		})
		ct := classTotal(p.UserID, p.EventID, p.ClassID)
		ct.ManufacturerPoints += points
		ct.PredictionsMade++
	}

	order := classOrder(classes)
	for _, userID := range users.sorted() {
		total := models.UserTotal{UserID: userID, ContextID: result.EventID, Participated: 1}
		var mine []models.ClassTotal
		for k, ct := range classTotals {
			if k.user == userID {
				mine = append(mine, *ct)
			}
		}
		sort.Slice(mine, func(i, j int) bool {
			oi, oj := order(mine[i].ClassID), order(mine[j].ClassID)
			if oi != oj {
				return oi < oj
			}
			return mine[i].ClassID < mine[j].ClassID
		})
		for _, ct := range mine {
			total.Points += ct.Points()
			total.PredictionsMade += ct.PredictionsMade
		}
		result.ClassTotals = append(result.ClassTotals, mine...)
		result.Totals = append(result.Totals, total)
	}
	result.Issues = log.issues
	return result, nil
}

// classOrder returns a lookup of a class's display position; unknown classes sort last
func classOrder(classes []models.ClassMeta) func(string) int {
	pos := make(map[string]int, len(classes))
	for i, c := range classes {
		pos[c.ClassID] = c.DisplayOrder*1000 + i
	}
	return func(id string) int {
		if p, ok := pos[id]; ok {
			return p
		}
		return int(^uint(0) >> 1)
	}
}
