package scoring

import (
	"sort"

	"github.com/yourusername/podium-picks/internal/models"
)

// RuleTable maps (category, slot, proximity) to points. A table is never
// mutated after construction and may be shared between concurrent runs.
type RuleTable struct {
	points map[models.RuleKey]int
}

// NewRuleTable builds a table from rules. Later rules override earlier ones
// with the same key.
func NewRuleTable(rules ...models.ScoringRule) RuleTable {
	t := RuleTable{points: make(map[models.RuleKey]int, len(rules))}
	for _, r := range rules {
		t.points[r.Key()] = r.Points
	}
	return t
}

// DefaultRuleTable returns the standard podium and manufacturer rules
func DefaultRuleTable() RuleTable {
	rules := make([]models.ScoringRule, 0, 12)
	for pos := 1; pos <= 3; pos++ {
		rules = append(rules,
			models.ScoringRule{Category: models.CategoryPodium, Slot: pos, Proximity: models.ProximityExact, Points: 10},
			models.ScoringRule{Category: models.CategoryPodium, Slot: pos, Proximity: models.ProximityOnPodium, Points: 5},
			models.ScoringRule{Category: models.CategoryPodium, Slot: pos, Proximity: models.ProximityTop5, Points: 2},
		)
	}
	rules = append(rules,
		models.ScoringRule{Category: models.CategoryManufacturer, Slot: models.AnySlot, Proximity: models.ProximityExact, Points: 10},
		models.ScoringRule{Category: models.CategoryManufacturer, Slot: models.AnySlot, Proximity: models.ProximityOff1, Points: 5},
		models.ScoringRule{Category: models.CategoryManufacturer, Slot: models.AnySlot, Proximity: models.ProximityOff2, Points: 2},
	)
	return NewRuleTable(rules...)
}

// Lookup returns the points for key, falling back to the category's
// AnySlot rule for the same proximity. A missing rule is worth zero.
func (t RuleTable) Lookup(key models.RuleKey) (int, bool) {
	if p, ok := t.points[key]; ok {
		return p, true
	}
	if key.Slot != models.AnySlot {
		key.Slot = models.AnySlot
		if p, ok := t.points[key]; ok {
			return p, true
		}
	}
	return 0, false
}

// With returns a copy of the table with rules layered on top
func (t RuleTable) With(rules ...models.ScoringRule) RuleTable {
	out := RuleTable{points: make(map[models.RuleKey]int, len(t.points)+len(rules))}
	for k, v := range t.points {
		out.points[k] = v
	}
	for _, r := range rules {
		out.points[r.Key()] = r.Points
	}
	return out
}

// Len returns the number of rules
func (t RuleTable) Len() int {
	return len(t.points)
}

// Rules returns the table as rows ordered by category, slot and proximity
func (t RuleTable) Rules() []models.ScoringRule {
	rules := make([]models.ScoringRule, 0, len(t.points))
	for k, v := range t.points {
		rules = append(rules, models.ScoringRule{Category: k.Category, Slot: k.Slot, Proximity: k.Proximity, Points: v})
	}
	sort.Slice(rules, func(i, j int) bool {
		a, b := rules[i], rules[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.Slot != b.Slot {
			return a.Slot < b.Slot
		}
		return a.Proximity < b.Proximity
	})
	return rules
}

// score looks up key and records an issue when the rule is absent
func (t RuleTable) score(key models.RuleKey, log *issueLog) int {
	p, ok := t.Lookup(key)
	if !ok {
		log.missingRule(key.String())
		return 0
	}
	return p
}
