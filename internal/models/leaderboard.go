package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction tells the leaderboard which totals rank first
type Direction string

// Ranking directions
const (
	LowerIsBetter  Direction = "lower_is_better"
	HigherIsBetter Direction = "higher_is_better"
)

// Valid reports whether d is a known direction
func (d Direction) Valid() bool {
	return d == LowerIsBetter || d == HigherIsBetter
}

// LeaderboardEntry is one ranked row. Rank 1 is always the best standing.
type LeaderboardEntry struct {
	UserID         uuid.UUID       `db:"user_id" json:"user_id"`
	Rank           int             `db:"rank" json:"rank"`
	TotalPoints    int             `db:"total_points" json:"total_points"`
	Tied           bool            `db:"tied" json:"tied"`
	TieSize        int             `db:"tie_size" json:"tie_size"`
	Participated   int             `db:"participated" json:"participated"`
	AveragePoints  decimal.Decimal `db:"average_points" json:"average_points"`
	PositionChange int             `db:"position_change" json:"position_change"`
	IsNew          bool            `db:"is_new" json:"is_new"`
}

// LeaderboardSnapshot is a ranked sequence as stored after a scoring run
type LeaderboardSnapshot struct {
	ContextID uuid.UUID          `db:"context_id" json:"context_id"`
	Kind      ContextKind        `db:"kind" json:"kind"`
	Direction Direction          `db:"direction" json:"direction"`
	Entries   []LeaderboardEntry `json:"entries"`
	BuiltAt   time.Time          `db:"built_at" json:"built_at"`
}
