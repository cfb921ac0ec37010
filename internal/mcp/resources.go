package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/workoutapi/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) catalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	workouts, err := h.ds.ListWorkouts(ctx, models.WorkoutFilter{})
	if err != nil {
		return nil, err
	}

	modes := make(map[string]int)
	for _, w := range workouts {
		modes[w.Mode]++
	}

	data, err := json.Marshal(map[string]any{
		"count":    len(workouts),
		"modes":    modes,
		"workouts": workouts,
	})
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
