package models

import "fmt"

// Category groups scoring rules by prediction game
type Category string

// Rule categories
const (
	CategoryPodium       Category = "podium"
	CategoryManufacturer Category = "manufacturer"
)

// Proximity is how close a prediction landed to the actual outcome
type Proximity string

// Proximity kinds
const (
	ProximityExact    Proximity = "exact"
	ProximityOnPodium Proximity = "on_podium"
	ProximityTop5     Proximity = "top_5"
	ProximityOff1     Proximity = "off_1"
	ProximityOff2     Proximity = "off_2"
	ProximityNone     Proximity = "none"

	ProximityPerfectMatch   Proximity = "perfect_match"
	ProximityTrackMatchOnly Proximity = "track_match_only"
	ProximityNoMatch        Proximity = "no_match"
	ProximityMissing        Proximity = "missing_prediction"

	ProximityFinished Proximity = "finished"
	ProximityDNF      Proximity = "dnf"
	ProximitySkipped  Proximity = "skipped"
	ProximityPending  Proximity = "pending"
)

// AnySlot is the slot of a rule that applies to every slot of its category
const AnySlot = 0

// RuleKey indexes the scoring rule table
type RuleKey struct {
	Category  Category  `json:"category"`
	Slot      int       `json:"slot"`
	Proximity Proximity `json:"proximity"`
}

// String renders the key as category/slot/proximity
func (k RuleKey) String() string {
	return fmt.Sprintf("%s/%d/%s", k.Category, k.Slot, k.Proximity)
}

// ScoringRule is one stored row of the rule table
type ScoringRule struct {
	Category  Category  `db:"category" json:"category" validate:"required"`
	Slot      int       `db:"slot" json:"slot" validate:"gte=0"`
	Proximity Proximity `db:"proximity" json:"proximity" validate:"required"`
	Points    int       `db:"points" json:"points"`
}

// Key returns the rule's table key
func (r ScoringRule) Key() RuleKey {
	return RuleKey{Category: r.Category, Slot: r.Slot, Proximity: r.Proximity}
}

// TrackOrderRules holds the constants used by the track-order game
type TrackOrderRules struct {
	TrackPoints       int `json:"track_points"`
	WeekPoints        int `json:"week_points"`
	MissingPenalty    int `json:"missing_penalty"`
	RequiredWeeks     int `json:"required_weeks"`
	LateRequiredWeeks int `json:"late_required_weeks"`
}

// DefaultTrackOrderRules returns the standard track-order constants
func DefaultTrackOrderRules() TrackOrderRules {
	return TrackOrderRules{
		TrackPoints:       10,
		WeekPoints:        5,
		MissingPenalty:    20,
		RequiredWeeks:     8,
		LateRequiredWeeks: 7,
	}
}

// WinnerPickRules holds the constants used by the winner-pick game
type WinnerPickRules struct {
	// DNFPositionCutoff classifies a driver as DNF when no status is
	// recorded and the finishing position is greater than the cutoff.
	DNFPositionCutoff int `json:"dnf_position_cutoff"`
}

// DefaultWinnerPickRules returns the standard winner-pick constants
func DefaultWinnerPickRules() WinnerPickRules {
	return WinnerPickRules{DNFPositionCutoff: 15}
}
