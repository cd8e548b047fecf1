package service

import (
	"github.com/yourusername/podium-picks/internal/config"
	"github.com/yourusername/podium-picks/internal/models"
)

// Options carries the scoring constants a service run uses
type Options struct {
	TrackOrder        models.TrackOrderRules
	WinnerPick        models.WinnerPickRules
	Directions        map[models.ContextKind]models.Direction
	RuleOverrides     []models.ScoringRule
	MaxConcurrentRuns int
}

// DefaultOptions returns the standard constants and directions
func DefaultOptions() Options {
	return Options{
		TrackOrder: models.DefaultTrackOrderRules(),
		WinnerPick: models.DefaultWinnerPickRules(),
		Directions: map[models.ContextKind]models.Direction{
			models.ContextTrackOrder: models.LowerIsBetter,
			models.ContextWinnerPick: models.LowerIsBetter,
			models.ContextMultiClass: models.HigherIsBetter,
		},
		MaxConcurrentRuns: 4,
	}
}

// OptionsFromConfig builds Options from a validated configuration
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	opts := Options{
		TrackOrder:        cfg.TrackOrderRules(),
		WinnerPick:        cfg.WinnerPickRules(),
		Directions:        make(map[models.ContextKind]models.Direction, 3),
		RuleOverrides:     cfg.RuleOverrides(),
		MaxConcurrentRuns: cfg.Scoring.MaxConcurrentRuns,
	}
	for _, kind := range []models.ContextKind{models.ContextTrackOrder, models.ContextWinnerPick, models.ContextMultiClass} {
		d, err := cfg.Direction(kind)
		if err != nil {
			return Options{}, err
		}
		opts.Directions[kind] = d
	}
	return opts, nil
}

func (o Options) direction(kind models.ContextKind) models.Direction {
	if d, ok := o.Directions[kind]; ok && d.Valid() {
		return d
	}
	return DefaultOptions().Directions[kind]
}
