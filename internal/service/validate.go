package service

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/yourusername/podium-picks/internal/scoring"
)

// recordValidator drops records that fail their struct tags and reports
// each as a malformed prediction.
type recordValidator struct {
	validate *validator.Validate
}

func newRecordValidator() *recordValidator {
	return &recordValidator{validate: validator.New()}
}

// filterValid returns the records of in that pass validation plus one issue per rejected record
func filterValid[T any](v *recordValidator, in []T, userOf func(T) uuid.UUID) ([]T, []scoring.Issue) {
	out := make([]T, 0, len(in))
	var issues []scoring.Issue
	for _, rec := range in {
		if err := v.validate.Struct(rec); err != nil {
			issues = append(issues, scoring.Issue{
				Kind:   scoring.IssueMalformedPrediction,
				UserID: userOf(rec),
				Detail: fmt.Sprintf("rejected %T: %v", rec, err),
			})
			continue
		}
		out = append(out, rec)
	}
	return out, issues
}

// check validates a single value such as an edit
func (v *recordValidator) check(rec any) error {
	return v.validate.Struct(rec)
}
