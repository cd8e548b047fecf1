package models

import (
	"time"

	"github.com/google/uuid"
)

// TrackOrderPrediction is one user's guess of which track runs in a given week
type TrackOrderPrediction struct {
	UserID    uuid.UUID `db:"user_id" json:"user_id" validate:"required"`
	SeasonID  uuid.UUID `db:"season_id" json:"season_id" validate:"required"`
	Week      int       `db:"week" json:"week" validate:"required,gte=1"`
	TrackID   string    `db:"track_id" json:"track_id" validate:"required"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// WinnerPick is one user's predicted winner for a division split in a week
type WinnerPick struct {
	UserID   uuid.UUID `db:"user_id" json:"user_id" validate:"required"`
	SeasonID uuid.UUID `db:"season_id" json:"season_id" validate:"required"`
	Week     int       `db:"week" json:"week" validate:"required,gte=1"`
	Division int       `db:"division" json:"division" validate:"required,gte=1"`
	Split    int       `db:"split" json:"split" validate:"required,gte=1"`
	DriverID string    `db:"driver_id" json:"driver_id" validate:"required"`
}

// Key returns the split the pick belongs to
func (p WinnerPick) Key() SplitKey {
	return SplitKey{Week: p.Week, Division: p.Division, Split: p.Split}
}

// PodiumPick predicts which entry finishes in a podium position of a class
type PodiumPick struct {
	UserID   uuid.UUID `db:"user_id" json:"user_id" validate:"required"`
	EventID  uuid.UUID `db:"event_id" json:"event_id" validate:"required"`
	ClassID  string    `db:"class_id" json:"class_id" validate:"required"`
	Position int       `db:"position" json:"position" validate:"required,gte=1,lte=3"`
	EntryID  string    `db:"entry_id" json:"entry_id" validate:"required"`
}

// ManufacturerPick predicts the rank of a manufacturer within a class
type ManufacturerPick struct {
	UserID       uuid.UUID `db:"user_id" json:"user_id" validate:"required"`
	EventID      uuid.UUID `db:"event_id" json:"event_id" validate:"required"`
	ClassID      string    `db:"class_id" json:"class_id" validate:"required"`
	Rank         int       `db:"rank" json:"rank" validate:"required,gte=1"`
	Manufacturer string    `db:"manufacturer" json:"manufacturer" validate:"required"`
}

// PodiumEdit replaces a podium slot. A nil EntryID clears the slot.
type PodiumEdit struct {
	ClassID  string  `json:"class_id" validate:"required"`
	Position int     `json:"position" validate:"required,gte=1,lte=3"`
	EntryID  *string `json:"entry_id"`
}

// ManufacturerEdit replaces a manufacturer rank slot. A nil Manufacturer clears the slot.
type ManufacturerEdit struct {
	ClassID      string  `json:"class_id" validate:"required"`
	Rank         int     `json:"rank" validate:"required,gte=1"`
	Manufacturer *string `json:"manufacturer"`
}
