package models

import (
	"github.com/google/uuid"
)

// PerPredictionScore is the points one prediction earned against one result.
// It is derived data and may always be recomputed from its inputs.
type PerPredictionScore struct {
	UserID    uuid.UUID   `db:"user_id" json:"user_id"`
	ContextID uuid.UUID   `db:"context_id" json:"context_id"`
	Kind      ContextKind `db:"kind" json:"kind"`
	// Group is the week for season games and the class for events
	Group     string    `db:"group_key" json:"group"`
	Slot      int       `db:"slot" json:"slot"`
	Subject   string    `db:"subject" json:"subject"`
	Proximity Proximity `db:"proximity" json:"proximity"`
	Points    int       `db:"points" json:"points"`
	Pending   bool      `db:"pending" json:"pending"`
}

// UserTotal is a user's summed points within one context
type UserTotal struct {
	UserID          uuid.UUID `db:"user_id" json:"user_id"`
	ContextID       uuid.UUID `db:"context_id" json:"context_id"`
	Points          int       `db:"points" json:"points"`
	Participated    int       `db:"participated" json:"participated"`
	PredictionsMade int       `db:"predictions_made" json:"predictions_made"`
}

// ClassTotal is a user's summed points within one class of an event
type ClassTotal struct {
	UserID             uuid.UUID `db:"user_id" json:"user_id"`
	EventID            uuid.UUID `db:"event_id" json:"event_id"`
	ClassID            string    `db:"class_id" json:"class_id"`
	PodiumPoints       int       `db:"podium_points" json:"podium_points"`
	ManufacturerPoints int       `db:"manufacturer_points" json:"manufacturer_points"`
	PredictionsMade    int       `db:"predictions_made" json:"predictions_made"`
}

// Points returns the class total across both pick types
func (c ClassTotal) Points() int {
	return c.PodiumPoints + c.ManufacturerPoints
}
