package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ScoringLogger provides dedicated logging for scoring runs.
type ScoringLogger struct {
	*logrus.Entry
}

// NewScoringLogger creates a new scoring logger.
func NewScoringLogger(baseLogger *logrus.Logger) *ScoringLogger {
	return &ScoringLogger{
		Entry: baseLogger.WithField("component", "scoring"),
	}
}

// LogRunStarted logs the start of a context's scoring run.
func (sl *ScoringLogger) LogRunStarted(kind, contextID string, predictions int, dryRun bool) {
	sl.WithFields(logrus.Fields{
		"context_kind": kind,
		"context_id":   contextID,
		"predictions":  predictions,
		"dry_run":      dryRun,
	}).Info("Scoring run started")
}

// LogRunCompleted logs a finished scoring run.
func (sl *ScoringLogger) LogRunCompleted(kind, contextID string, scores, users, issues int, duration time.Duration) {
	sl.WithFields(logrus.Fields{
		"context_kind": kind,
		"context_id":   contextID,
		"scores":       scores,
		"users":        users,
		"issues":       issues,
		"duration_ms":  duration.Milliseconds(),
	}).Info("Scoring run completed")
}

// LogRunFailed logs a run that was aborted before write-back.
func (sl *ScoringLogger) LogRunFailed(kind, contextID string, err error) {
	sl.WithFields(logrus.Fields{
		"context_kind": kind,
		"context_id":   contextID,
	}).WithError(err).Error("Scoring run failed")
}

// LogIssue logs a non-fatal scoring issue.
func (sl *ScoringLogger) LogIssue(kind, contextID, issueKind, userID, detail string) {
	fields := logrus.Fields{
		"context_kind": kind,
		"context_id":   contextID,
		"issue_kind":   issueKind,
		"detail":       detail,
	}
	if userID != "" {
		fields["user_id"] = userID
	}
	sl.WithFields(fields).Warn("Scoring issue")
}

// LogLeaderboardBuilt logs a rebuilt leaderboard and its leader.
func (sl *ScoringLogger) LogLeaderboardBuilt(kind, contextID string, entries int, leaderID string, leaderPoints int) {
	sl.WithFields(logrus.Fields{
		"context_kind":  kind,
		"context_id":    contextID,
		"entries":       entries,
		"leader_id":     leaderID,
		"leader_points": leaderPoints,
	}).Info("Leaderboard built")
}
