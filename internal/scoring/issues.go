package scoring

import (
	"fmt"

	"github.com/google/uuid"
)

// IssueKind classifies a non-fatal problem found while scoring
type IssueKind string

// Issue kinds
const (
	IssueIncompleteRuleTable IssueKind = "incomplete_rule_table"
	IssueMalformedPrediction IssueKind = "malformed_prediction"
)

// Issue is a non-fatal problem attached to a scoring result
type Issue struct {
	Kind   IssueKind `json:"kind"`
	UserID uuid.UUID `json:"user_id,omitempty"`
	Detail string    `json:"detail"`
}

func (i Issue) Error() string {
	if i.UserID == uuid.Nil {
		return fmt.Sprintf("%s: %s", i.Kind, i.Detail)
	}
	return fmt.Sprintf("%s: user %s: %s", i.Kind, i.UserID, i.Detail)
}

// issueLog collects issues, reporting each missing rule key once per run
type issueLog struct {
	issues      []Issue
	missingKeys map[string]struct{}
}

func (l *issueLog) malformed(userID uuid.UUID, format string, args ...interface{}) {
	l.issues = append(l.issues, Issue{
		Kind:   IssueMalformedPrediction,
		UserID: userID,
		Detail: fmt.Sprintf(format, args...),
	})
}

func (l *issueLog) missingRule(key string) {
	if l.missingKeys == nil {
		l.missingKeys = make(map[string]struct{})
	}
	if _, seen := l.missingKeys[key]; seen {
		return
	}
	l.missingKeys[key] = struct{}{}
	l.issues = append(l.issues, Issue{
		Kind:   IssueIncompleteRuleTable,
		Detail: fmt.Sprintf("no rule for %s, scoring zero", key),
	})
}

// Count returns how many issues of kind are present
func Count(issues []Issue, kind IssueKind) int {
	n := 0
	for _, i := range issues {
		if i.Kind == kind {
			n++
		}
	}
	return n
}
