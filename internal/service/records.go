package service

import (
	"context"

	"github.com/claude/workoutapi/internal/models"
)

// RecordStore is the persistence contract for records.
type RecordStore interface {
	ListRecordsForWorkout(ctx context.Context, workoutID string) ([]models.Record, error)
}

// Records is the record service.
type Records struct {
	store RecordStore
}

// NewRecords constructs a Records service.
func NewRecords(store RecordStore) *Records {
	return &Records{store: store}
}

// ListForWorkout returns the records logged against workoutID.
func (s *Records) ListForWorkout(ctx context.Context, workoutID string) ([]models.Record, error) {
	return s.store.ListRecordsForWorkout(ctx, workoutID)
}
