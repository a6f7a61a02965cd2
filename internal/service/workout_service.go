package service

import (
	"alcyxob/gym-tracker/internal/domain"
	"alcyxob/gym-tracker/internal/repository"
	"alcyxob/gym-tracker/internal/storage"
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// --- Error Definitions ---
var (
	ErrEmptyExerciseName = errors.New("exercise name cannot be empty")
	ErrEntryNotFound     = errors.New("workout entry not found")
	ErrDuplicateTarget   = errors.New("another entry already exists for that date and exercise")
	ErrValidationFailed  = errors.New("weight and reps must be non-negative")
)

// --- Service Interface ---
type WorkoutService interface {
	Log(ctx context.Context, username string) ([]domain.Entry, error)
	Exercises(ctx context.Context, username string) ([]string, error)
	SaveEntry(ctx context.Context, username string, date time.Time, exercise string, weight float64, reps int) (*domain.Entry, error)
	EditEntry(ctx context.Context, username string, origDate time.Time, origExercise string, newDate time.Time, newExercise string, weight float64, reps int) (*domain.Entry, error)
	EntriesFor(ctx context.Context, username, exercise string) ([]domain.Entry, error)
}

// --- Service Implementation ---

// workoutService implements the WorkoutService interface.
type workoutService struct {
	workouts  repository.WorkoutRepository
	snapshots storage.Snapshotter // optional, may be nil
	logger    *logrus.Logger
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(workouts repository.WorkoutRepository, snapshots storage.Snapshotter, logger *logrus.Logger) WorkoutService {
	return &workoutService{
		workouts:  workouts,
		snapshots: snapshots,
		logger:    logger,
	}
}

// Log returns the user's full workout log. A missing table is an empty log,
// not an error.
func (s *workoutService) Log(ctx context.Context, username string) ([]domain.Entry, error) {
	entries, dropped, err := s.workouts.Load(ctx, username)
	if err != nil {
		return nil, err
	}
	if dropped > 0 {
		s.logger.WithFields(logrus.Fields{
			"username": username,
			"dropped":  dropped,
		}).Warn("dropped malformed workout rows on load")
	}
	return entries, nil
}

// Exercises returns the distinct exercise names present in the user's log.
func (s *workoutService) Exercises(ctx context.Context, username string) ([]string, error) {
	entries, err := s.Log(ctx, username)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(entries))
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.Exercise]; ok {
			continue
		}
		seen[e.Exercise] = struct{}{}
		names = append(names, e.Exercise)
	}
	sort.Strings(names)
	return names, nil
}

// SaveEntry upserts one entry keyed by (date, exercise): an existing entry
// on the same key is replaced (last write wins), otherwise the entry is
// appended. The whole log is re-validated before it is persisted, mirroring
// the load-time filtering.
func (s *workoutService) SaveEntry(ctx context.Context, username string, date time.Time, exercise string, weight float64, reps int) (*domain.Entry, error) {
	exercise = strings.TrimSpace(exercise)
	if exercise == "" {
		return nil, ErrEmptyExerciseName
	}
	if weight < 0 || reps < 0 {
		return nil, ErrValidationFailed
	}

	entries, err := s.Log(ctx, username)
	if err != nil {
		return nil, err
	}

	entry := domain.Entry{
		Date:     domain.CanonicalDate(date),
		Exercise: exercise,
		Weight:   weight,
		Reps:     reps,
	}

	replaced := false
	for i := range entries {
		if entries[i].SameKey(entry.Date, entry.Exercise) {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, entry)
	}

	if err := s.persist(ctx, username, entries); err != nil {
		return nil, err
	}
	return &entry, nil
}

// EditEntry locates the entry matching the original (date, exercise) pair
// and overwrites all four fields in place. Unlike SaveEntry it does not go
// through the upsert path: moving an entry onto a key occupied by a third
// entry fails with ErrDuplicateTarget rather than silently merging.
func (s *workoutService) EditEntry(ctx context.Context, username string, origDate time.Time, origExercise string, newDate time.Time, newExercise string, weight float64, reps int) (*domain.Entry, error) {
	newExercise = strings.TrimSpace(newExercise)
	if newExercise == "" {
		return nil, ErrEmptyExerciseName
	}
	if weight < 0 || reps < 0 {
		return nil, ErrValidationFailed
	}

	entries, err := s.Log(ctx, username)
	if err != nil {
		return nil, err
	}

	origDate = domain.CanonicalDate(origDate)
	origExercise = strings.TrimSpace(origExercise)
	target := -1
	for i := range entries {
		if entries[i].SameKey(origDate, origExercise) {
			target = i
			break
		}
	}
	if target < 0 {
		return nil, ErrEntryNotFound
	}

	entry := domain.Entry{
		Date:     domain.CanonicalDate(newDate),
		Exercise: newExercise,
		Weight:   weight,
		Reps:     reps,
	}
	for i := range entries {
		if i != target && entries[i].SameKey(entry.Date, entry.Exercise) {
			return nil, ErrDuplicateTarget
		}
	}
	entries[target] = entry

	if err := s.persist(ctx, username, entries); err != nil {
		return nil, err
	}
	return &entry, nil
}

// EntriesFor returns the entries for one exercise, ascending by date. This
// feeds the charting layer; an exercise with no entries yields an empty
// slice.
func (s *workoutService) EntriesFor(ctx context.Context, username, exercise string) ([]domain.Entry, error) {
	entries, err := s.Log(ctx, username)
	if err != nil {
		return nil, err
	}
	matched := make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Exercise == exercise {
			matched = append(matched, e)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Date.Before(matched[j].Date)
	})
	return matched, nil
}

// persist re-validates and writes the full log, then mirrors the table to
// remote storage when a snapshotter is configured. Snapshot failures are
// logged, never surfaced: the local table is the source of truth.
func (s *workoutService) persist(ctx context.Context, username string, entries []domain.Entry) error {
	kept, dropped := domain.ValidateEntries(entries)
	if dropped > 0 {
		s.logger.WithFields(logrus.Fields{
			"username": username,
			"dropped":  dropped,
		}).Warn("dropped malformed workout rows before save")
	}
	if err := s.workouts.Save(ctx, username, kept); err != nil {
		return err
	}

	if s.snapshots != nil {
		if err := s.snapshots.PutTable(ctx, username, s.workouts.TablePath(username)); err != nil {
			s.logger.WithError(err).WithField("username", username).
				Warn("failed to snapshot workout table")
		}
	}
	return nil
}
