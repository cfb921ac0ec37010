package mcp

import (
	"context"

	"github.com/claude/workoutapi/internal/models"
	"github.com/claude/workoutapi/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	ListWorkouts(ctx context.Context, filter models.WorkoutFilter) ([]models.Workout, error)
	GetWorkout(ctx context.Context, id string) (*models.Workout, error)
	ListRecordsForWorkout(ctx context.Context, workoutID string) ([]models.Record, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
