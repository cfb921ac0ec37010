package storage

import (
	"context"
	"fmt"
	"slices"

	"github.com/claude/workoutapi/internal/models"
)

// ListWorkouts returns workouts in storage order, narrowed by filter.
// The result is never nil.
func (db *DB) ListWorkouts(ctx context.Context, filter models.WorkoutFilter) ([]models.Workout, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]models.Workout, 0, len(db.doc.Workouts))
	for _, w := range db.doc.Workouts {
		if filter.Matches(w) {
			out = append(out, w.Clone())
		}
	}
	return out, nil
}

// GetWorkout returns the workout with the given ID, or ErrNotFound.
func (db *DB) GetWorkout(ctx context.Context, id string) (*models.Workout, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	i := db.workoutIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("workout %q: %w", id, ErrNotFound)
	}
	w := db.doc.Workouts[i].Clone()
	return &w, nil
}

// CreateWorkout appends w and persists the document. If a workout with the
// same name exists the store is left unchanged and ErrConflict is returned.
func (db *DB) CreateWorkout(ctx context.Context, w models.Workout) (*models.Workout, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.nameIndex(w.Name) >= 0 {
		return nil, fmt.Errorf("workout with the name %q: %w", w.Name, ErrConflict)
	}

	db.doc.Workouts = append(db.doc.Workouts, w.Clone())
	if err := db.persist(ctx); err != nil {
		return nil, err
	}
	out := w.Clone()
	return &out, nil
}

// UpdateWorkout merges patch over the stored workout, stamps updatedAt and
// persists. Renaming onto another workout's name returns ErrConflict.
func (db *DB) UpdateWorkout(ctx context.Context, id string, patch models.WorkoutPatch, updatedAt string) (*models.Workout, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	i := db.workoutIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("workout %q: %w", id, ErrNotFound)
	}
	if patch.Name != nil {
		if j := db.nameIndex(*patch.Name); j >= 0 && j != i {
			return nil, fmt.Errorf("workout with the name %q: %w", *patch.Name, ErrConflict)
		}
	}

	updated := patch.Apply(db.doc.Workouts[i])
	updated.UpdatedAt = updatedAt
	db.doc.Workouts[i] = updated
	if err := db.persist(ctx); err != nil {
		return nil, err
	}
	out := updated.Clone()
	return &out, nil
}

// DeleteWorkout removes the workout with the given ID and persists.
// Records referencing it are kept.
func (db *DB) DeleteWorkout(ctx context.Context, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	i := db.workoutIndex(id)
	if i < 0 {
		return fmt.Errorf("workout %q: %w", id, ErrNotFound)
	}
	db.doc.Workouts = slices.Delete(db.doc.Workouts, i, i+1)
	return db.persist(ctx)
}

func (db *DB) workoutIndex(id string) int {
	return slices.IndexFunc(db.doc.Workouts, func(w models.Workout) bool { return w.ID == id })
}

func (db *DB) nameIndex(name string) int {
	return slices.IndexFunc(db.doc.Workouts, func(w models.Workout) bool { return w.Name == name })
}
