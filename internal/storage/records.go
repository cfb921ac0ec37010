package storage

import (
	"context"

	"github.com/claude/workoutapi/internal/models"
)

// ListRecordsForWorkout returns every record whose workout field equals
// workoutID, in storage order. An unknown ID yields an empty slice.
func (db *DB) ListRecordsForWorkout(ctx context.Context, workoutID string) ([]models.Record, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]models.Record, 0)
	for _, r := range db.doc.Records {
		if r.Workout == workoutID {
			out = append(out, r)
		}
	}
	return out, nil
}
