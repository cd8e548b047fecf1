package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yourusername/podium-picks/internal/models"
)

// EditPodium applies a user's podium slot edits for an event. The batch is
// rejected whole when any edit is invalid. Scores are left stale until the
// next run of the event.
func (s *ScoringService) EditPodium(ctx context.Context, userID, eventID uuid.UUID, edits []models.PodiumEdit) error {
	if userID == uuid.Nil || eventID == uuid.Nil {
		return fmt.Errorf("user and event are required: %w", models.ErrInvalidID)
	}
	for i, e := range edits {
		if err := s.validator.check(e); err != nil {
			return fmt.Errorf("invalid podium edit %d: %w", i, err)
		}
	}
	if err := s.repos.Edits.ApplyPodiumEdits(ctx, userID, eventID, edits); err != nil {
		return fmt.Errorf("failed to apply podium edits: %w", err)
	}
	for _, e := range edits {
		entry := ""
		if e.EntryID != nil {
			entry = *e.EntryID
		}
		s.audit.LogPredictionEdit(eventID.String(), userID.String(), "podium", e.ClassID, e.Position, entry)
	}
	return nil
}

// EditManufacturers applies a user's manufacturer rank edits for an event
func (s *ScoringService) EditManufacturers(ctx context.Context, userID, eventID uuid.UUID, edits []models.ManufacturerEdit) error {
	if userID == uuid.Nil || eventID == uuid.Nil {
		return fmt.Errorf("user and event are required: %w", models.ErrInvalidID)
	}
	for i, e := range edits {
		if err := s.validator.check(e); err != nil {
			return fmt.Errorf("invalid manufacturer edit %d: %w", i, err)
		}
	}
	if err := s.repos.Edits.ApplyManufacturerEdits(ctx, userID, eventID, edits); err != nil {
		return fmt.Errorf("failed to apply manufacturer edits: %w", err)
	}
	for _, e := range edits {
		mfr := ""
		if e.Manufacturer != nil {
			mfr = *e.Manufacturer
		}
		s.audit.LogPredictionEdit(eventID.String(), userID.String(), "manufacturer", e.ClassID, e.Rank, mfr)
	}
	return nil
}
