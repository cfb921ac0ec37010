package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestListRecordsForWorkout verifies records are filtered by the workout
// field and returned in storage order.
func TestListRecordsForWorkout(t *testing.T) {
	db, _ := newTestDB(t, seedDocument())
	ctx := context.Background()

	got, err := db.ListRecordsForWorkout(ctx, "61dbae02-c147-4e28-863c-db7bd402b2d6")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "160 reps", got[0].Record)
	assert.Equal(t, "8:12 minutes", got[1].Record)
}

// TestListRecordsUnknownWorkout verifies an unknown workout yields an empty
// slice rather than an error.
func TestListRecordsUnknownWorkout(t *testing.T) {
	db, _ := newTestDB(t, seedDocument())

	got, err := db.ListRecordsForWorkout(context.Background(), "missing")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got)
}
