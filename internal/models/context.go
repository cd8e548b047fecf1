package models

import (
	"time"

	"github.com/google/uuid"
)

// ContextKind identifies which prediction game a context belongs to
type ContextKind string

// Context kinds
const (
	ContextTrackOrder ContextKind = "track_order"
	ContextWinnerPick ContextKind = "winner_pick"
	ContextMultiClass ContextKind = "multi_class"
)

// Valid reports whether k is a known context kind
func (k ContextKind) Valid() bool {
	switch k {
	case ContextTrackOrder, ContextWinnerPick, ContextMultiClass:
		return true
	default:
		return false
	}
}

// ContextRef points at one season or event that can be scored
type ContextRef struct {
	ID               uuid.UUID   `db:"id" json:"id" validate:"required"`
	Kind             ContextKind `db:"kind" json:"kind" validate:"required"`
	Name             string      `db:"name" json:"name"`
	ResultsUpdatedAt time.Time   `db:"results_updated_at" json:"results_updated_at"`
}

// String returns a log-friendly identifier
func (c ContextRef) String() string {
	return string(c.Kind) + ":" + c.ID.String()
}
