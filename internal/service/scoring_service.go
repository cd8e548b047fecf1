// Package service orchestrates scoring runs: fetch inputs, score, rank and write back.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/podium-picks/internal/cache"
	"github.com/yourusername/podium-picks/internal/leaderboard"
	"github.com/yourusername/podium-picks/internal/logger"
	"github.com/yourusername/podium-picks/internal/metrics"
	"github.com/yourusername/podium-picks/internal/models"
	"github.com/yourusername/podium-picks/internal/repository"
	"github.com/yourusername/podium-picks/internal/scoring"
)

// Notifier publishes a rebuilt leaderboard
type Notifier interface {
	Publish(ctx context.Context, snap *models.LeaderboardSnapshot) error
}

// ScoringService runs the scorers against stored predictions and results
type ScoringService struct {
	repos     *repository.Repositories
	opts      Options
	snapshots *cache.SnapshotCache
	rules     *cache.RuleCache
	notifier  Notifier
	validator *recordValidator
	log       *logger.ScoringLogger
	audit     *logger.AuditLogger
	now       func() time.Time
}

// NewScoringService creates a new scoring service. snapshots, rules and
// notifier may be nil.
func NewScoringService(
	repos *repository.Repositories,
	opts Options,
	snapshots *cache.SnapshotCache,
	rules *cache.RuleCache,
	notifier Notifier,
	log *logrus.Logger,
) *ScoringService {
	if opts.MaxConcurrentRuns <= 0 {
		opts.MaxConcurrentRuns = 1
	}
	return &ScoringService{
		repos:     repos,
		opts:      opts,
		snapshots: snapshots,
		rules:     rules,
		notifier:  notifier,
		validator: newRecordValidator(),
		log:       logger.NewScoringLogger(log),
		audit:     logger.NewAuditLogger(log),
		now:       time.Now,
	}
}

// scored is the kind-independent output of one scorer
type scored struct {
	predictions int
	scores      []models.PerPredictionScore
	totals      []models.UserTotal
	classTotals []models.ClassTotal
	standings   []models.ManufacturerStanding
	issues      []scoring.Issue
}

// ScoreByID looks up a context and runs it
func (s *ScoringService) ScoreByID(ctx context.Context, id uuid.UUID, dryRun bool) (*RunReport, error) {
	ref, err := s.repos.Contexts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get context: %w", err)
	}
	return s.Score(ctx, *ref, dryRun)
}

// ScoreTrackOrder scores a season's track-order game
func (s *ScoringService) ScoreTrackOrder(ctx context.Context, seasonID uuid.UUID, dryRun bool) (*RunReport, error) {
	return s.Score(ctx, models.ContextRef{ID: seasonID, Kind: models.ContextTrackOrder}, dryRun)
}

// ScoreWinnerPicks scores a season's race-winner game
func (s *ScoringService) ScoreWinnerPicks(ctx context.Context, seasonID uuid.UUID, dryRun bool) (*RunReport, error) {
	return s.Score(ctx, models.ContextRef{ID: seasonID, Kind: models.ContextWinnerPick}, dryRun)
}

// ScoreEvent scores a multi-class event
func (s *ScoringService) ScoreEvent(ctx context.Context, eventID uuid.UUID, dryRun bool) (*RunReport, error) {
	return s.Score(ctx, models.ContextRef{ID: eventID, Kind: models.ContextMultiClass}, dryRun)
}

// Score runs one context end to end. Nothing is written when the scorer
// fails or dryRun is set.
func (s *ScoringService) Score(ctx context.Context, ref models.ContextRef, dryRun bool) (*RunReport, error) {
	start := s.now()
	report := &RunReport{Context: ref, DryRun: dryRun}

	err := s.run(ctx, ref, report)
	report.Err = err
	report.Duration = s.now().Sub(start)
	metrics.RecordScoringRun(string(ref.Kind), report.Status(), report.Duration.Seconds())

	if err != nil {
		s.log.LogRunFailed(string(ref.Kind), ref.ID.String(), err)
		return report, err
	}

	users := 0
	if report.Leaderboard != nil {
		users = len(report.Leaderboard.Entries)
	}
	s.log.LogRunCompleted(string(ref.Kind), ref.ID.String(), len(report.Scores), users, len(report.Issues), report.Duration)
	return report, nil
}

func (s *ScoringService) run(ctx context.Context, ref models.ContextRef, report *RunReport) error {
	var (
		out *scored
		err error
	)
	switch ref.Kind {
	case models.ContextTrackOrder:
		out, err = s.scoreTrackOrder(ctx, ref.ID)
	case models.ContextWinnerPick:
		out, err = s.scoreWinnerPicks(ctx, ref.ID)
	case models.ContextMultiClass:
		out, err = s.scoreEvent(ctx, ref.ID)
	default:
		return fmt.Errorf("%q: %w", ref.Kind, models.ErrUnknownContextKind)
	}
	if err != nil {
		return err
	}
	s.log.LogRunStarted(string(ref.Kind), ref.ID.String(), out.predictions, report.DryRun)

	report.Scores = out.scores
	report.Totals = out.totals
	report.ClassTotals = out.classTotals
	report.Standings = out.standings
	report.Issues = out.issues
	if ref.Kind == models.ContextWinnerPick {
		report.WeeklyAverages = leaderboard.WeeklyAverages(out.scores)
	}

	for _, issue := range out.issues {
		userID := ""
		if issue.UserID != uuid.Nil {
			userID = issue.UserID.String()
		}
		s.log.LogIssue(string(ref.Kind), ref.ID.String(), string(issue.Kind), userID, issue.Detail)
		metrics.RecordIssue(string(issue.Kind))
	}
	metrics.RecordPredictionsScored(string(ref.Kind), len(out.scores))

	prior, err := s.priorEntries(ctx, ref.ID)
	if err != nil {
		return err
	}

	direction := s.opts.direction(ref.Kind)
	entries, err := leaderboard.Build(out.totals, direction, prior)
	if err != nil {
		return fmt.Errorf("failed to build leaderboard: %w", err)
	}
	snap := &models.LeaderboardSnapshot{
		ContextID: ref.ID,
		Kind:      ref.Kind,
		Direction: direction,
		Entries:   entries,
		BuiltAt:   s.now().UTC(),
	}
	report.Leaderboard = snap
	metrics.UpdateLeaderboardEntries(string(ref.Kind), len(entries))

	leaderID, leaderPoints := "", 0
	if len(entries) > 0 {
		leaderID, leaderPoints = entries[0].UserID.String(), entries[0].TotalPoints
	}
	s.log.LogLeaderboardBuilt(string(ref.Kind), ref.ID.String(), len(entries), leaderID, leaderPoints)

	if report.DryRun {
		return nil
	}

	rows, err := s.writeBack(ctx, ref, out, snap)
	if err != nil {
		return err
	}
	report.RowsWritten = rows

	if s.snapshots != nil {
		s.snapshots.Set(snap)
	}
	s.publish(ctx, snap)
	return nil
}

func (s *ScoringService) scoreTrackOrder(ctx context.Context, seasonID uuid.UUID) (*scored, error) {
	schedule, err := s.repos.Results.GetSchedule(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	preds, err := s.repos.Predictions.GetTrackOrderPredictions(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get track order predictions: %w", err)
	}
	participants, err := s.repos.Predictions.GetParticipants(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}

	valid, rejected := filterValid(s.validator, preds, func(p models.TrackOrderPrediction) uuid.UUID { return p.UserID })
	res, err := scoring.ScoreTrackOrder(valid, schedule, s.opts.TrackOrder, scoring.WithParticipants(participants...))
	if err != nil {
		return nil, err
	}
	return &scored{
		predictions: len(preds),
		scores:      res.Scores,
		totals:      res.Totals,
		issues:      append(rejected, res.Issues...),
	}, nil
}

func (s *ScoringService) scoreWinnerPicks(ctx context.Context, seasonID uuid.UUID) (*scored, error) {
	results, err := s.repos.Results.GetSplitResults(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get split results: %w", err)
	}
	picks, err := s.repos.Predictions.GetWinnerPicks(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get winner picks: %w", err)
	}
	participants, err := s.repos.Predictions.GetParticipants(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}

	valid, rejected := filterValid(s.validator, picks, func(p models.WinnerPick) uuid.UUID { return p.UserID })
	res, err := scoring.ScoreWinnerPicks(valid, results, nil, s.opts.WinnerPick, scoring.WithParticipants(participants...))
	if err != nil {
		return nil, err
	}
	for i := range res.Scores {
		res.Scores[i].ContextID = seasonID
	}
	for i := range res.Totals {
		res.Totals[i].ContextID = seasonID
	}
	return &scored{
		predictions: len(picks),
		scores:      res.Scores,
		totals:      res.Totals,
		issues:      append(rejected, res.Issues...),
	}, nil
}

func (s *ScoringService) scoreEvent(ctx context.Context, eventID uuid.UUID) (*scored, error) {
	entries, err := s.repos.Results.GetEntryResults(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entry results: %w", err)
	}
	classes, err := s.repos.Results.GetClasses(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event classes: %w", err)
	}
	podium, err := s.repos.Predictions.GetPodiumPicks(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get podium picks: %w", err)
	}
	manufacturer, err := s.repos.Predictions.GetManufacturerPicks(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get manufacturer picks: %w", err)
	}
	rules, err := s.ruleTable(ctx)
	if err != nil {
		return nil, err
	}

	validPodium, rejectedPodium := filterValid(s.validator, podium, func(p models.PodiumPick) uuid.UUID { return p.UserID })
	validMfr, rejectedMfr := filterValid(s.validator, manufacturer, func(p models.ManufacturerPick) uuid.UUID { return p.UserID })

	res, err := scoring.ScoreMultiClassEvent(validPodium, validMfr, entries, classes, rules)
	if err != nil {
		return nil, err
	}

	issues := append(rejectedPodium, rejectedMfr...)
	scores := make([]models.PerPredictionScore, 0, len(res.PodiumScores)+len(res.ManufacturerScores))
	scores = append(scores, res.PodiumScores...)
	scores = append(scores, res.ManufacturerScores...)
	return &scored{
		predictions: len(podium) + len(manufacturer),
		scores:      scores,
		totals:      res.Totals,
		classTotals: res.ClassTotals,
		standings:   res.ManufacturerResults,
		issues:      append(issues, res.Issues...),
	}, nil
}

// ruleTable layers configured and stored overrides on the default table.
// Storage wins over configuration.
func (s *ScoringService) ruleTable(ctx context.Context) (scoring.RuleTable, error) {
	if s.rules != nil {
		if table, ok := s.rules.Get(); ok {
			return table, nil
		}
	}

	stored, err := s.repos.Rules.GetRules(ctx)
	if err != nil {
		return scoring.RuleTable{}, fmt.Errorf("failed to get scoring rules: %w", err)
	}
	for _, r := range s.opts.RuleOverrides {
		s.audit.LogRuleOverride("config", r.Key().String(), r.Points)
	}
	for _, r := range stored {
		s.audit.LogRuleOverride("storage", r.Key().String(), r.Points)
	}

	table := scoring.DefaultRuleTable().With(s.opts.RuleOverrides...).With(stored...)
	if s.rules != nil {
		s.rules.Set(table)
	}
	return table, nil
}

// priorEntries returns the last stored ranking, or nil when there is none
func (s *ScoringService) priorEntries(ctx context.Context, contextID uuid.UUID) ([]models.LeaderboardEntry, error) {
	if s.snapshots != nil {
		if snap, ok := s.snapshots.Get(contextID); ok {
			return snap.Entries, nil
		}
	}

	snap, err := s.repos.Scores.GetLatestLeaderboard(ctx, contextID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prior leaderboard: %w", err)
	}
	if s.snapshots != nil {
		s.snapshots.Set(snap)
	}
	return snap.Entries, nil
}

// writeBack stores every derived row of a run in one transaction
func (s *ScoringService) writeBack(ctx context.Context, ref models.ContextRef, out *scored, snap *models.LeaderboardSnapshot) (map[string]int, error) {
	rows := make(map[string]int)
	err := s.repos.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		n, err := s.repos.Scores.ReplaceScores(ctx, ref.ID, out.scores)
		if err != nil {
			return err
		}
		rows["prediction_scores"] = n

		if n, err = s.repos.Scores.UpsertUserTotals(ctx, ref.ID, out.totals); err != nil {
			return err
		}
		rows["user_totals"] = n

		if ref.Kind == models.ContextMultiClass {
			if n, err = s.repos.Scores.UpsertClassTotals(ctx, ref.ID, out.classTotals); err != nil {
				return err
			}
			rows["class_totals"] = n

			if n, err = s.repos.Scores.ReplaceManufacturerStandings(ctx, ref.ID, out.standings); err != nil {
				return err
			}
			rows["manufacturer_standings"] = n
		}

		if err := s.repos.Scores.SaveLeaderboard(ctx, snap); err != nil {
			return err
		}
		rows["leaderboard_snapshots"] = 1
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write back scores: %w", err)
	}

	for table, n := range rows {
		metrics.RecordWriteback(table, n)
		s.audit.LogWriteback(ref.ID.String(), table, n)
	}
	return rows, nil
}

// publish notifies subscribers; delivery failures never fail the run
func (s *ScoringService) publish(ctx context.Context, snap *models.LeaderboardSnapshot) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, snap); err != nil {
		s.log.WithError(err).WithField("context_id", snap.ContextID.String()).Warn("Leaderboard notification failed")
	}
}

// RescoreAll runs every scorable context, at most MaxConcurrentRuns at a
// time. A failed context is recorded in its report and does not stop the others.
func (s *ScoringService) RescoreAll(ctx context.Context, dryRun bool) ([]*RunReport, error) {
	refs, err := s.repos.Contexts.ListScorable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scorable contexts: %w", err)
	}

	reports := make([]*RunReport, len(refs))
	var g errgroup.Group
	g.SetLimit(s.opts.MaxConcurrentRuns)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				reports[i] = &RunReport{Context: ref, DryRun: dryRun, Err: err}
				return nil
			}
			report, _ := s.Score(ctx, ref, dryRun)
			reports[i] = report
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range reports {
		if r.Err != nil {
			failed++
		}
	}
	s.log.WithFields(logrus.Fields{
		"contexts": len(refs),
		"failed":   failed,
		"dry_run":  dryRun,
	}).Info("Rescore completed")
	return reports, nil
}
