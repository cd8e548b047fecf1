package service

import (
	"time"

	"github.com/yourusername/podium-picks/internal/leaderboard"
	"github.com/yourusername/podium-picks/internal/models"
	"github.com/yourusername/podium-picks/internal/scoring"
)

// RunReport describes one context's scoring run
type RunReport struct {
	Context        models.ContextRef             `json:"context"`
	DryRun         bool                          `json:"dry_run"`
	Scores         []models.PerPredictionScore   `json:"scores"`
	Totals         []models.UserTotal            `json:"totals"`
	ClassTotals    []models.ClassTotal           `json:"class_totals,omitempty"`
	Standings      []models.ManufacturerStanding `json:"manufacturer_standings,omitempty"`
	WeeklyAverages []leaderboard.WeekAverage     `json:"weekly_averages,omitempty"`
	Leaderboard    *models.LeaderboardSnapshot   `json:"leaderboard"`
	Issues         []scoring.Issue               `json:"issues,omitempty"`
	RowsWritten    map[string]int                `json:"rows_written,omitempty"`
	Duration       time.Duration                 `json:"duration"`
	Err            error                         `json:"-"`
}

// Status is the run outcome label used in metrics
func (r *RunReport) Status() string {
	switch {
	case r.Err != nil:
		return "failed"
	case r.DryRun:
		return "dry_run"
	default:
		return "success"
	}
}
