package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/claude/workoutapi/internal/models"
	"github.com/claude/workoutapi/internal/service"
	"github.com/claude/workoutapi/internal/storage"
)

const (
	tommyID = "61dbae02-c147-4e28-863c-db7bd402b2d6"
	deadID  = "d8be2362-7b68-4ea4-a1f6-03f8bc4eede7"
)

func testDocument() *models.Document {
	return &models.Document{
		Workouts: []models.Workout{
			{ID: tommyID, Name: "Tommy V", Mode: "For Time", Equipment: []string{"barbell", "rope"},
				Exercises: []string{"21 thrusters"}, CreatedAt: "4/20/2022, 2:21:56 PM", UpdatedAt: "4/20/2022, 2:21:56 PM",
				TrainerTips: []string{"Split the 21 thrusters as needed"}},
			{ID: deadID, Name: "Dead Push-Ups", Mode: "AMRAP 10", Equipment: []string{"barbell"},
				Exercises: []string{"15 deadlifts"}, CreatedAt: "1/25/2022, 1:15:44 PM", UpdatedAt: "3/10/2022, 8:21:56 AM",
				TrainerTips: []string{"Deadlifts are meant to be light and fast"}},
		},
		Records: []models.Record{
			{ID: "r1", Workout: tommyID, Record: "160 reps", CreatedAt: "4/20/2022, 2:21:56 PM", UpdatedAt: "4/20/2022, 2:21:56 PM"},
			{ID: "r2", Workout: deadID, Record: "7:23 minutes", CreatedAt: "4/20/2022, 2:21:56 PM", UpdatedAt: "4/20/2022, 2:21:56 PM"},
		},
	}
}

// failingPersister accepts the initial load but fails every save.
type failingPersister struct{}

func (failingPersister) Load(context.Context) (*models.Document, error) { return testDocument(), nil }
func (failingPersister) Save(context.Context, *models.Document) error {
	return io.ErrShortWrite
}
func (failingPersister) Close() error { return nil }

func newTestServerWith(t *testing.T, p storage.Persister, cache *ResponseCache) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := storage.New(context.Background(), p, log)
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	clock := func() time.Time { return time.Date(2022, 5, 1, 9, 30, 0, 0, time.UTC) }
	workouts := service.NewWorkouts(db, log, service.WithClock(clock))
	return New(workouts, service.NewRecords(db), cache, log)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	p := storage.NewJSONFile(filepath.Join(t.TempDir(), "db.json"))
	if err := p.Save(context.Background(), testDocument()); err != nil {
		t.Fatalf("seeding: %v", err)
	}
	return newTestServerWith(t, p, nil)
}

type response struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func do(t *testing.T, s http.Handler, method, path, body string) (*httptest.ResponseRecorder, response) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var resp response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode %s %s: %v (body %q)", method, path, err, rec.Body.String())
		}
	}
	return rec, resp
}

func errorMessage(t *testing.T, resp response) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(resp.Data, &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error
}

// TestListWorkouts verifies the envelope and the mode filter.
func TestListWorkouts(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		path    string
		wantLen int
	}{
		{"/api/v1/workouts", 2},
		{"/api/v1/workouts?mode=For%20Time", 1},
		{"/api/v1/workouts?mode=Unknown", 0},
	}
	for _, tt := range tests {
		rec, resp := do(t, s, http.MethodGet, tt.path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d, want 200", tt.path, rec.Code)
		}
		if resp.Status != "OK" {
			t.Errorf("status field = %q, want %q", resp.Status, "OK")
		}
		var got []models.Workout
		if err := json.Unmarshal(resp.Data, &got); err != nil {
			t.Fatalf("decode data: %v", err)
		}
		if len(got) != tt.wantLen {
			t.Errorf("GET %s returned %d workouts, want %d", tt.path, len(got), tt.wantLen)
		}
	}
}

// TestListWorkoutsEmptyIsArray verifies an empty result encodes as [] not null.
func TestListWorkoutsEmptyIsArray(t *testing.T) {
	s := newTestServer(t)
	_, resp := do(t, s, http.MethodGet, "/api/v1/workouts?mode=none", "")
	if string(resp.Data) != "[]" {
		t.Errorf("data = %s, want []", resp.Data)
	}
}

// TestGetWorkout covers found and not-found lookups.
func TestGetWorkout(t *testing.T) {
	s := newTestServer(t)

	rec, resp := do(t, s, http.MethodGet, "/api/v1/workouts/"+tommyID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var w models.Workout
	if err := json.Unmarshal(resp.Data, &w); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.Name != "Tommy V" {
		t.Errorf("name = %q, want %q", w.Name, "Tommy V")
	}

	rec, resp = do(t, s, http.MethodGet, "/api/v1/workouts/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing status = %d, want 404", rec.Code)
	}
	if resp.Status != "FAILED" {
		t.Errorf("status field = %q, want %q", resp.Status, "FAILED")
	}
	if msg := errorMessage(t, resp); msg == "" {
		t.Error("expected an error message")
	}
}

// TestListRecords verifies records are filtered by workout and that an
// unknown workout yields an empty list.
func TestListRecords(t *testing.T) {
	s := newTestServer(t)

	_, resp := do(t, s, http.MethodGet, "/api/v1/workouts/"+tommyID+"/records", "")
	var recs []models.Record
	if err := json.Unmarshal(resp.Data, &recs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(recs) != 1 || recs[0].Record != "160 reps" {
		t.Errorf("records = %+v, want one \"160 reps\"", recs)
	}

	rec, resp := do(t, s, http.MethodGet, "/api/v1/workouts/missing/records", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if string(resp.Data) != "[]" {
		t.Errorf("data = %s, want []", resp.Data)
	}
}

// TestCreateWorkout verifies a valid body creates a workout with 201.
func TestCreateWorkout(t *testing.T) {
	s := newTestServer(t)
	body := `{"name":"Heavy DT","mode":"5 Rounds For Time","equipment":["barbell"],"exercises":["12 deadlifts"],"trainerTips":["Pace yourself"]}`

	rec, resp := do(t, s, http.MethodPost, "/api/v1/workouts", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
	var w models.Workout
	if err := json.Unmarshal(resp.Data, &w); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.ID == "" {
		t.Error("expected a generated id")
	}
	if w.CreatedAt != "5/1/2022, 9:30:00 AM" || w.UpdatedAt != w.CreatedAt {
		t.Errorf("timestamps = %q/%q, want both %q", w.CreatedAt, w.UpdatedAt, "5/1/2022, 9:30:00 AM")
	}

	rec, _ = do(t, s, http.MethodGet, "/api/v1/workouts/"+w.ID, "")
	if rec.Code != http.StatusOK {
		t.Errorf("get after create status = %d, want 200", rec.Code)
	}
}

// TestCreateWorkoutDuplicate verifies a duplicate name maps to 409.
func TestCreateWorkoutDuplicate(t *testing.T) {
	s := newTestServer(t)
	body := `{"name":"Tommy V","mode":"AMRAP 20","equipment":[],"exercises":[],"trainerTips":[]}`

	rec, resp := do(t, s, http.MethodPost, "/api/v1/workouts", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if resp.Status != "FAILED" {
		t.Errorf("status field = %q, want FAILED", resp.Status)
	}

	_, resp = do(t, s, http.MethodGet, "/api/v1/workouts", "")
	var all []models.Workout
	json.Unmarshal(resp.Data, &all)
	if len(all) != 2 {
		t.Errorf("workouts = %d, want 2", len(all))
	}
}

// TestCreateWorkoutValidation verifies missing or empty keys are rejected
// before anything is created.
func TestCreateWorkoutValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing name", `{"mode":"x","equipment":[],"exercises":[],"trainerTips":[]}`, missingKeysMessage},
		{"empty mode", `{"name":"n","mode":"","equipment":[],"exercises":[],"trainerTips":[]}`, missingKeysMessage},
		{"null equipment", `{"name":"n","mode":"x","equipment":null,"exercises":[],"trainerTips":[]}`, missingKeysMessage},
		{"missing tips", `{"name":"n","mode":"x","equipment":[],"exercises":[]}`, missingKeysMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := do(t, s, http.MethodPost, "/api/v1/workouts", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if got := errorMessage(t, resp); got != tt.want {
				t.Errorf("error = %q, want %q", got, tt.want)
			}
		})
	}

	rec, _ := do(t, s, http.MethodPost, "/api/v1/workouts", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid JSON status = %d, want 400", rec.Code)
	}

	_, resp := do(t, s, http.MethodGet, "/api/v1/workouts", "")
	var all []models.Workout
	json.Unmarshal(resp.Data, &all)
	if len(all) != 2 {
		t.Errorf("workouts after rejected creates = %d, want 2", len(all))
	}
}

// TestUpdateWorkout verifies a patch changes only the given fields.
func TestUpdateWorkout(t *testing.T) {
	s := newTestServer(t)

	rec, resp := do(t, s, http.MethodPatch, "/api/v1/workouts/"+deadID, `{"mode":"AMRAP 12"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var w models.Workout
	if err := json.Unmarshal(resp.Data, &w); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.Mode != "AMRAP 12" {
		t.Errorf("mode = %q, want %q", w.Mode, "AMRAP 12")
	}
	if w.Name != "Dead Push-Ups" {
		t.Errorf("name = %q, want unchanged", w.Name)
	}
	if w.CreatedAt != "1/25/2022, 1:15:44 PM" {
		t.Errorf("createdAt = %q, want unchanged", w.CreatedAt)
	}
	if w.UpdatedAt != "5/1/2022, 9:30:00 AM" {
		t.Errorf("updatedAt = %q, want %q", w.UpdatedAt, "5/1/2022, 9:30:00 AM")
	}
}

// TestUpdateWorkoutErrors covers not-found, rename conflicts and bad JSON.
func TestUpdateWorkoutErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"not found", "/api/v1/workouts/missing", `{"mode":"x"}`, http.StatusNotFound},
		{"rename conflict", "/api/v1/workouts/" + deadID, `{"name":"Tommy V"}`, http.StatusConflict},
		{"invalid json", "/api/v1/workouts/" + deadID, `{`, http.StatusBadRequest},
		{"empty name", "/api/v1/workouts/" + deadID, `{"name":""}`, http.StatusBadRequest},
		{"empty mode", "/api/v1/workouts/" + deadID, `{"mode":""}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := do(t, s, http.MethodPatch, tt.path, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

// TestUpdateWorkoutEmptyBody verifies a PATCH without a body only refreshes
// updatedAt.
func TestUpdateWorkoutEmptyBody(t *testing.T) {
	s := newTestServer(t)

	rec, resp := do(t, s, http.MethodPatch, "/api/v1/workouts/"+deadID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var w models.Workout
	if err := json.Unmarshal(resp.Data, &w); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.Name != "Dead Push-Ups" || w.Mode != "AMRAP 10" {
		t.Errorf("workout = %q/%q, want unchanged", w.Name, w.Mode)
	}
	if w.UpdatedAt != "5/1/2022, 9:30:00 AM" {
		t.Errorf("updatedAt = %q, want %q", w.UpdatedAt, "5/1/2022, 9:30:00 AM")
	}
}

// TestDeleteWorkout verifies delete then get returns 404, and a second
// delete is also 404.
func TestDeleteWorkout(t *testing.T) {
	s := newTestServer(t)

	rec, resp := do(t, s, http.MethodDelete, "/api/v1/workouts/"+tommyID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp.Status != "OK" {
		t.Errorf("status field = %q, want OK", resp.Status)
	}

	rec, _ = do(t, s, http.MethodGet, "/api/v1/workouts/"+tommyID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
	rec, _ = do(t, s, http.MethodDelete, "/api/v1/workouts/"+tommyID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

// TestPersistenceFailure verifies a failed write surfaces as 500.
func TestPersistenceFailure(t *testing.T) {
	s := newTestServerWith(t, failingPersister{}, nil)

	rec, resp := do(t, s, http.MethodDelete, "/api/v1/workouts/"+tommyID, "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if resp.Status != "FAILED" {
		t.Errorf("status field = %q, want FAILED", resp.Status)
	}
}

// TestHealthz verifies the liveness probe.
func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec, _ := do(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("healthz = %d %q, want 200 \"ok\"", rec.Code, rec.Body.String())
	}
}

// TestMetricsEndpoint verifies request metrics are exposed after traffic.
func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodGet, "/api/v1/workouts", "")

	rec, _ := do(t, s, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "workoutapi_http_requests_total") {
		t.Error("metrics output missing workoutapi_http_requests_total")
	}
}
