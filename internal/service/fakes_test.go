package service

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/podium-picks/internal/models"
	"github.com/yourusername/podium-picks/internal/repository"
)

// fakeStore is an in-memory implementation of every repository port
type fakeStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	contexts     []models.ContextRef
	schedules    map[uuid.UUID]models.SeasonSchedule
	trackPreds   map[uuid.UUID][]models.TrackOrderPrediction
	winnerPicks  map[uuid.UUID][]models.WinnerPick
	splits       map[uuid.UUID][]models.SplitResult
	podium       map[uuid.UUID][]models.PodiumPick
	manufacturer map[uuid.UUID][]models.ManufacturerPick
	entries      map[uuid.UUID][]models.EntryResult
	classes      map[uuid.UUID][]models.ClassMeta
	participants map[uuid.UUID][]uuid.UUID
	rules        []models.ScoringRule

	scores      map[uuid.UUID][]models.PerPredictionScore
	totals      map[uuid.UUID][]models.UserTotal
	classTotals map[uuid.UUID][]models.ClassTotal
	standings   map[uuid.UUID][]models.ManufacturerStanding
	snapshots   map[uuid.UUID]*models.LeaderboardSnapshot

	ruleReads   int
	saves       int
	failSave    error
	podiumEdits [][]models.PodiumEdit
	mfrEdits    [][]models.ManufacturerEdit
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		schedules:    make(map[uuid.UUID]models.SeasonSchedule),
		trackPreds:   make(map[uuid.UUID][]models.TrackOrderPrediction),
		winnerPicks:  make(map[uuid.UUID][]models.WinnerPick),
		splits:       make(map[uuid.UUID][]models.SplitResult),
		podium:       make(map[uuid.UUID][]models.PodiumPick),
		manufacturer: make(map[uuid.UUID][]models.ManufacturerPick),
		entries:      make(map[uuid.UUID][]models.EntryResult),
		classes:      make(map[uuid.UUID][]models.ClassMeta),
		participants: make(map[uuid.UUID][]uuid.UUID),
		scores:       make(map[uuid.UUID][]models.PerPredictionScore),
		totals:       make(map[uuid.UUID][]models.UserTotal),
		classTotals:  make(map[uuid.UUID][]models.ClassTotal),
		standings:    make(map[uuid.UUID][]models.ManufacturerStanding),
		snapshots:    make(map[uuid.UUID]*models.LeaderboardSnapshot),
	}
}

func (f *fakeStore) repositories() *repository.Repositories {
	return &repository.Repositories{
		Predictions: f,
		Results:     f,
		Rules:       f,
		Contexts:    f,
		Scores:      f,
		Edits:       f,
		Tx:          f,
	}
}

func (f *fakeStore) GetTrackOrderPredictions(ctx context.Context, seasonID uuid.UUID) ([]models.TrackOrderPrediction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.TrackOrderPrediction(nil), f.trackPreds[seasonID]...), nil
}

func (f *fakeStore) GetWinnerPicks(ctx context.Context, seasonID uuid.UUID) ([]models.WinnerPick, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.WinnerPick(nil), f.winnerPicks[seasonID]...), nil
}

func (f *fakeStore) GetPodiumPicks(ctx context.Context, eventID uuid.UUID) ([]models.PodiumPick, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.PodiumPick(nil), f.podium[eventID]...), nil
}

func (f *fakeStore) GetManufacturerPicks(ctx context.Context, eventID uuid.UUID) ([]models.ManufacturerPick, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ManufacturerPick(nil), f.manufacturer[eventID]...), nil
}

func (f *fakeStore) GetParticipants(ctx context.Context, contextID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uuid.UUID(nil), f.participants[contextID]...), nil
}

func (f *fakeStore) GetSchedule(ctx context.Context, seasonID uuid.UUID) (models.SeasonSchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.schedules[seasonID]
	if !ok {
		return models.SeasonSchedule{SeasonID: seasonID}, nil
	}
	return s, nil
}

func (f *fakeStore) GetSplitResults(ctx context.Context, seasonID uuid.UUID) ([]models.SplitResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.SplitResult(nil), f.splits[seasonID]...), nil
}

func (f *fakeStore) GetEntryResults(ctx context.Context, eventID uuid.UUID) ([]models.EntryResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.EntryResult(nil), f.entries[eventID]...), nil
}

func (f *fakeStore) GetClasses(ctx context.Context, eventID uuid.UUID) ([]models.ClassMeta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ClassMeta(nil), f.classes[eventID]...), nil
}

func (f *fakeStore) GetRules(ctx context.Context) ([]models.ScoringRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ruleReads++
	return append([]models.ScoringRule(nil), f.rules...), nil
}

func (f *fakeStore) UpsertRule(ctx context.Context, rule models.ScoringRule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, rule)
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*models.ContextRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.contexts {
		if c.ID == id {
			ref := c
			return &ref, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeStore) ListScorable(ctx context.Context) ([]models.ContextRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ContextRef(nil), f.contexts...), nil
}

func (f *fakeStore) ReplaceScores(ctx context.Context, contextID uuid.UUID, scores []models.PerPredictionScore) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scores[contextID] = append([]models.PerPredictionScore(nil), scores...)
	return len(scores), nil
}

func (f *fakeStore) UpsertUserTotals(ctx context.Context, contextID uuid.UUID, totals []models.UserTotal) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.totals[contextID] = append([]models.UserTotal(nil), totals...)
	return len(totals), nil
}

func (f *fakeStore) UpsertClassTotals(ctx context.Context, eventID uuid.UUID, totals []models.ClassTotal) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.classTotals[eventID] = append([]models.ClassTotal(nil), totals...)
	return len(totals), nil
}

func (f *fakeStore) ReplaceManufacturerStandings(ctx context.Context, eventID uuid.UUID, standings []models.ManufacturerStanding) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.standings[eventID] = append([]models.ManufacturerStanding(nil), standings...)
	return len(standings), nil
}

func (f *fakeStore) SaveLeaderboard(ctx context.Context, snap *models.LeaderboardSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSave != nil {
		return f.failSave
	}
	f.saves++
	f.snapshots[snap.ContextID] = snap
	return nil
}

func (f *fakeStore) GetLatestLeaderboard(ctx context.Context, contextID uuid.UUID) (*models.LeaderboardSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap, ok := f.snapshots[contextID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return snap, nil
}

func (f *fakeStore) ApplyPodiumEdits(ctx context.Context, userID, eventID uuid.UUID, edits []models.PodiumEdit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.podiumEdits = append(f.podiumEdits, edits)
	return nil
}

func (f *fakeStore) ApplyManufacturerEdits(ctx context.Context, userID, eventID uuid.UUID, edits []models.ManufacturerEdit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mfrEdits = append(f.mfrEdits, edits)
	return nil
}

// WithTransaction restores every written table when fn fails
func (f *fakeStore) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()

	f.mu.Lock()
	scores, totals := cloneMap(f.scores), cloneMap(f.totals)
	classTotals, standings := cloneMap(f.classTotals), cloneMap(f.standings)
	f.mu.Unlock()

	if err := fn(ctx); err != nil {
		f.mu.Lock()
		f.scores, f.totals = scores, totals
		f.classTotals, f.standings = classTotals, standings
		f.mu.Unlock()
		return err
	}
	return nil
}

func cloneMap[V any](m map[uuid.UUID]V) map[uuid.UUID]V {
	out := make(map[uuid.UUID]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type fakeNotifier struct {
	mu        sync.Mutex
	published []*models.LeaderboardSnapshot
	err       error
}

func (n *fakeNotifier) Publish(ctx context.Context, snap *models.LeaderboardSnapshot) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.published = append(n.published, snap)
	return nil
}

var errWriteFailed = errors.New("write failed")

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
