package mcp

import (
	"context"
	"errors"

	"github.com/claude/workoutapi/internal/models"
	"github.com/claude/workoutapi/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List workouts in catalog order. Optionally filter by exact mode (e.g. 'For Time', 'AMRAP 20')."),
	mcp.WithString("mode", mcp.Description("Exact, case-sensitive workout mode to filter by.")),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Fetch a single workout by ID."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout ID")),
)

var toolGetWorkoutRecords = mcp.NewTool("get_workout_records",
	mcp.WithDescription("List performance records logged against a workout. An unknown workout has no records."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout ID")),
)

func (h *handlers) listWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := models.WorkoutFilter{Mode: req.GetString("mode", "")}

	workouts, err := h.ds.ListWorkouts(ctx, filter)
	if err != nil {
		h.log.Error("mcp list_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(workouts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	workout, err := h.ds.GetWorkout(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return mcp.NewToolResultError("workout not found: " + id), nil
	}
	if err != nil {
		h.log.Error("mcp get_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(workout)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	records, err := h.ds.ListRecordsForWorkout(ctx, id)
	if err != nil {
		h.log.Error("mcp get_workout_records", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(records)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
