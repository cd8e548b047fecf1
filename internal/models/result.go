package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FinishStatus is the classification of an entry or driver at the flag
type FinishStatus string

// Finish statuses. An empty status means the source did not record one.
const (
	StatusUnknown  FinishStatus = ""
	StatusFinished FinishStatus = "finished"
	StatusDNF      FinishStatus = "dnf"
)

// ScheduleEntry is one week of the actual season calendar
type ScheduleEntry struct {
	Week    int    `db:"week" json:"week"`
	TrackID string `db:"track_id" json:"track_id"`
}

// SeasonSchedule is the actual calendar for a season
type SeasonSchedule struct {
	SeasonID      uuid.UUID       `db:"season_id" json:"season_id"`
	Week1Deadline time.Time       `db:"week1_deadline" json:"week1_deadline"`
	Weeks         []ScheduleEntry `json:"weeks"`
}

// TrackForWeek returns the track scheduled for week
func (s SeasonSchedule) TrackForWeek(week int) (string, bool) {
	for _, w := range s.Weeks {
		if w.Week == week {
			return w.TrackID, true
		}
	}
	return "", false
}

// HasTrack reports whether the track appears anywhere in the schedule
func (s SeasonSchedule) HasTrack(trackID string) bool {
	for _, w := range s.Weeks {
		if w.TrackID == trackID {
			return true
		}
	}
	return false
}

// SplitKey identifies one split of one division in one week
type SplitKey struct {
	Week     int `json:"week"`
	Division int `json:"division"`
	Split    int `json:"split"`
}

// String returns the key as week/division/split
func (k SplitKey) String() string {
	return fmt.Sprintf("w%d/d%d/s%d", k.Week, k.Division, k.Split)
}

// Less orders keys by week, then division, then split
func (k SplitKey) Less(o SplitKey) bool {
	if k.Week != o.Week {
		return k.Week < o.Week
	}
	if k.Division != o.Division {
		return k.Division < o.Division
	}
	return k.Split < o.Split
}

// DriverFinish is one driver's classification in a split
type DriverFinish struct {
	DriverID string       `db:"driver_id" json:"driver_id"`
	Position int          `db:"position" json:"position"`
	Status   FinishStatus `db:"status" json:"status"`
}

// SplitResult is the official finishing order for one split
type SplitResult struct {
	Week             int            `db:"week" json:"week"`
	Division         int            `db:"division" json:"division"`
	Split            int            `db:"split" json:"split"`
	ParticipantCount int            `db:"participant_count" json:"participant_count"`
	Finishes         []DriverFinish `json:"finishes"`
}

// Key returns the split key of the result
func (r SplitResult) Key() SplitKey {
	return SplitKey{Week: r.Week, Division: r.Division, Split: r.Split}
}

// EntryResult is the classification of one car in a multi-class event
type EntryResult struct {
	EntryID        string       `db:"entry_id" json:"entry_id"`
	ClassID        string       `db:"class_id" json:"class_id"`
	Manufacturer   string       `db:"manufacturer" json:"manufacturer"`
	FinishPosition int          `db:"finish_position" json:"finish_position"`
	Status         FinishStatus `db:"status" json:"status"`
}

// Finished reports whether the entry took the flag with a class position
func (e EntryResult) Finished() bool {
	return e.Status != StatusDNF && e.FinishPosition > 0
}

// ClassMeta describes a class in a multi-class event
type ClassMeta struct {
	ClassID              string `db:"class_id" json:"class_id"`
	Name                 string `db:"name" json:"name"`
	SupportsManufacturer bool   `db:"supports_manufacturer" json:"supports_manufacturer"`
	DisplayOrder         int    `db:"display_order" json:"display_order"`
}

// ManufacturerStanding is a manufacturer's derived rank within a class
type ManufacturerStanding struct {
	ClassID      string          `db:"class_id" json:"class_id"`
	Manufacturer string          `db:"manufacturer" json:"manufacturer"`
	MeanPosition decimal.Decimal `db:"mean_position" json:"mean_position"`
	Entries      int             `db:"entries" json:"entries"`
	Rank         int             `db:"rank" json:"rank"`
}
