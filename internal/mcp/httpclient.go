package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/workoutapi/internal/models"
	"github.com/claude/workoutapi/internal/storage"
)

// HTTPClient implements DataSource by calling the workout REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// apiResponse mirrors the server's status/data envelope.
type apiResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// get fetches path and decodes the envelope's data into dst. A 404 maps to
// storage.ErrNotFound so callers see the same errors as with a local store.
func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, dst any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("httpclient: %s: %w", path, storage.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	var env apiResponse
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		return fmt.Errorf("httpclient: decode %s data: %w", path, err)
	}
	return nil
}

// ListWorkouts calls GET /api/v1/workouts.
func (c *HTTPClient) ListWorkouts(ctx context.Context, filter models.WorkoutFilter) ([]models.Workout, error) {
	params := url.Values{}
	if filter.Mode != "" {
		params.Set("mode", filter.Mode)
	}
	var out []models.Workout
	if err := c.get(ctx, "/api/v1/workouts", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetWorkout calls GET /api/v1/workouts/{id}.
func (c *HTTPClient) GetWorkout(ctx context.Context, id string) (*models.Workout, error) {
	var out models.Workout
	if err := c.get(ctx, "/api/v1/workouts/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListRecordsForWorkout calls GET /api/v1/workouts/{id}/records.
func (c *HTTPClient) ListRecordsForWorkout(ctx context.Context, workoutID string) ([]models.Record, error) {
	var out []models.Record
	if err := c.get(ctx, "/api/v1/workouts/"+url.PathEscape(workoutID)+"/records", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
