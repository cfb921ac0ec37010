package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/claude/workoutapi/internal/models"
	"github.com/claude/workoutapi/internal/storage"
	"github.com/go-chi/chi/v5"
)

const (
	statusOK     = "OK"
	statusFailed = "FAILED"
)

const (
	missingKeysMessage = "One of the following keys is missing or is empty in request body: 'name', 'mode', 'equipment', 'exercises', 'trainerTips'"
	emptyPatchMessage  = "The keys 'name' and 'mode' can not be empty"
)

// envelope wraps every API response body.
type envelope struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

type errorBody struct {
	Error string `json:"error"`
}

// createWorkoutRequest distinguishes absent keys from present ones.
type createWorkoutRequest struct {
	Name        *string  `json:"name"`
	Mode        *string  `json:"mode"`
	Equipment   []string `json:"equipment"`
	Exercises   []string `json:"exercises"`
	TrainerTips []string `json:"trainerTips"`
}

// validate reports whether every required key is present and non-empty.
// Empty arrays are accepted; a missing or null array is not.
func (req createWorkoutRequest) validate() (models.NewWorkout, bool) {
	if req.Name == nil || *req.Name == "" || req.Mode == nil || *req.Mode == "" ||
		req.Equipment == nil || req.Exercises == nil || req.TrainerTips == nil {
		return models.NewWorkout{}, false
	}
	return models.NewWorkout{
		Name:        *req.Name,
		Mode:        *req.Mode,
		Equipment:   req.Equipment,
		Exercises:   req.Exercises,
		TrainerTips: req.TrainerTips,
	}, true
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	filter := models.WorkoutFilter{Mode: r.URL.Query().Get("mode")}
	workouts, err := s.workouts.List(r.Context(), filter)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, workouts)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "workoutId")
	if id == "" {
		writeFailed(w, http.StatusBadRequest, "Parameter ':workoutId' can not be empty")
		return
	}

	workout, err := s.workouts.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, workout)
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "workoutId")
	if id == "" {
		writeFailed(w, http.StatusBadRequest, "Parameter ':workoutId' can not be empty")
		return
	}

	records, err := s.records.ListForWorkout(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeOK(w, http.StatusOK, records)
}

func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	var req createWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailed(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	in, ok := req.validate()
	if !ok {
		writeFailed(w, http.StatusBadRequest, missingKeysMessage)
		return
	}

	created, err := s.workouts.Create(r.Context(), in)
	if err != nil {
		s.purgeAfterFailedWrite(err)
		s.writeError(w, err)
		return
	}
	s.purgeCache()
	writeOK(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateWorkout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "workoutId")
	if id == "" {
		writeFailed(w, http.StatusBadRequest, "Parameter ':workoutId' can not be empty")
		return
	}

	// An empty body is an empty patch: nothing merges but updatedAt refreshes.
	var patch models.WorkoutPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil && !errors.Is(err, io.EOF) {
		writeFailed(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if !patch.Valid() {
		writeFailed(w, http.StatusBadRequest, emptyPatchMessage)
		return
	}

	updated, err := s.workouts.Update(r.Context(), id, patch)
	if err != nil {
		s.purgeAfterFailedWrite(err)
		s.writeError(w, err)
		return
	}
	s.purgeCache()
	writeOK(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "workoutId")
	if id == "" {
		writeFailed(w, http.StatusBadRequest, "Parameter ':workoutId' can not be empty")
		return
	}

	if err := s.workouts.Delete(r.Context(), id); err != nil {
		s.purgeAfterFailedWrite(err)
		s.writeError(w, err)
		return
	}
	s.purgeCache()
	writeOK(w, http.StatusOK, nil)
}

// purgeAfterFailedWrite drops cached reads when a write failed to persist. The
// mutation is still applied in memory, so cached listings no longer match it.
func (s *Server) purgeAfterFailedWrite(err error) {
	if errors.Is(err, storage.ErrPersistence) {
		s.purgeCache()
	}
}

// writeError maps store errors onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeFailed(w, http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrConflict):
		writeFailed(w, http.StatusConflict, err.Error())
	default:
		s.log.Error("request failed", "error", err)
		writeFailed(w, http.StatusInternalServerError, err.Error())
	}
}

func writeOK(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Status: statusOK, Data: data})
}

func writeFailed(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Status: statusFailed, Data: errorBody{Error: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
