// Package logger provides audit logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogWriteback logs rows written for a context.
func (al *AuditLogger) LogWriteback(contextID, table string, rows int) {
	al.WithFields(logrus.Fields{
		"context_id": contextID,
		"table":      table,
		"rows":       rows,
	}).Info("Scores written back")
}

// LogPredictionEdit logs one slot edit. An empty entry means the slot was cleared.
func (al *AuditLogger) LogPredictionEdit(contextID, userID, editType, classID string, slot int, entry string) {
	al.WithFields(logrus.Fields{
		"context_id": contextID,
		"user_id":    userID,
		"edit_type":  editType,
		"class_id":   classID,
		"slot":       slot,
		"entry":      entry,
		"cleared":    entry == "",
	}).Info("Prediction slot edited")
}

// LogRuleOverride logs a scoring rule replaced from configuration or storage.
func (al *AuditLogger) LogRuleOverride(source, key string, points int) {
	al.WithFields(logrus.Fields{
		"source":   source,
		"rule_key": key,
		"points":   points,
	}).Info("Scoring rule overridden")
}
