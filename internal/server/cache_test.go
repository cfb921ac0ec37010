package server

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/claude/workoutapi/internal/models"
	"github.com/claude/workoutapi/internal/storage"
)

func newCachedServer(t *testing.T) (*Server, *ResponseCache) {
	t.Helper()
	cache, err := NewResponseCache(2*time.Minute, 100)
	if err != nil {
		t.Fatalf("NewResponseCache: %v", err)
	}
	t.Cleanup(cache.Close)

	p := storage.NewJSONFile(filepath.Join(t.TempDir(), "db.json"))
	if err := p.Save(context.Background(), testDocument()); err != nil {
		t.Fatalf("seeding: %v", err)
	}
	return newTestServerWith(t, p, cache), cache
}

// TestCacheHit verifies a repeated listing is served from the cache.
func TestCacheHit(t *testing.T) {
	s, cache := newCachedServer(t)

	rec, _ := do(t, s, http.MethodGet, "/api/v1/workouts", "")
	if got := rec.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("first X-Cache = %q, want MISS", got)
	}
	cache.cache.Wait()

	rec, resp := do(t, s, http.MethodGet, "/api/v1/workouts", "")
	if got := rec.Header().Get("X-Cache"); got != "HIT" {
		t.Errorf("second X-Cache = %q, want HIT", got)
	}
	if resp.Status != "OK" {
		t.Errorf("cached status field = %q, want OK", resp.Status)
	}

	// Different query is a different key.
	rec, _ = do(t, s, http.MethodGet, "/api/v1/workouts?mode=AMRAP%2010", "")
	if got := rec.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("filtered X-Cache = %q, want MISS", got)
	}
}

// TestCachePurgedOnWrite verifies a create invalidates cached listings.
func TestCachePurgedOnWrite(t *testing.T) {
	s, cache := newCachedServer(t)

	do(t, s, http.MethodGet, "/api/v1/workouts", "")
	cache.cache.Wait()

	body := `{"name":"Heavy DT","mode":"5 Rounds For Time","equipment":["barbell"],"exercises":["12 deadlifts"],"trainerTips":["Pace yourself"]}`
	if rec, _ := do(t, s, http.MethodPost, "/api/v1/workouts", body); rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", rec.Code)
	}

	rec, _ := do(t, s, http.MethodGet, "/api/v1/workouts", "")
	if got := rec.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("X-Cache after write = %q, want MISS", got)
	}
}

// TestCacheSkipsErrors verifies non-200 responses are not stored.
func TestCacheSkipsErrors(t *testing.T) {
	cache, err := NewResponseCache(time.Minute, 10)
	if err != nil {
		t.Fatalf("NewResponseCache: %v", err)
	}
	defer cache.Close()

	calls := 0
	h := cache.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeFailed(w, http.StatusInternalServerError, "boom")
	}))

	for range 2 {
		do(t, h, http.MethodGet, "/api/v1/workouts", "")
		cache.cache.Wait()
	}
	if calls != 2 {
		t.Errorf("handler calls = %d, want 2", calls)
	}
}

// TestCachePurgedOnPersistFailure verifies a write that fails to persist
// still drops cached listings, since the in-memory store has changed.
func TestCachePurgedOnPersistFailure(t *testing.T) {
	cache, err := NewResponseCache(2*time.Minute, 100)
	if err != nil {
		t.Fatalf("NewResponseCache: %v", err)
	}
	t.Cleanup(cache.Close)
	s := newTestServerWith(t, failingPersister{}, cache)

	do(t, s, http.MethodGet, "/api/v1/workouts", "")
	cache.cache.Wait()

	if rec, _ := do(t, s, http.MethodDelete, "/api/v1/workouts/"+tommyID, ""); rec.Code != http.StatusInternalServerError {
		t.Fatalf("delete status = %d, want 500", rec.Code)
	}

	rec, resp := do(t, s, http.MethodGet, "/api/v1/workouts", "")
	if got := rec.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("X-Cache after failed write = %q, want MISS", got)
	}
	var all []models.Workout
	if err := json.Unmarshal(resp.Data, &all); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("listed workouts = %d, want 1", len(all))
	}
}
