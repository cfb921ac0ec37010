// Package service assigns identity and timestamps to workouts and hands
// everything else to the store.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/claude/workoutapi/internal/events"
	"github.com/claude/workoutapi/internal/models"
	"github.com/claude/workoutapi/internal/observability"
	"github.com/google/uuid"
)

// TimestampLayout renders times like "4/20/2022, 2:21:56 PM".
const TimestampLayout = "1/2/2006, 3:04:05 PM"

// FormatTimestamp formats t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// WorkoutStore is the persistence contract the service needs.
type WorkoutStore interface {
	ListWorkouts(ctx context.Context, filter models.WorkoutFilter) ([]models.Workout, error)
	GetWorkout(ctx context.Context, id string) (*models.Workout, error)
	CreateWorkout(ctx context.Context, w models.Workout) (*models.Workout, error)
	UpdateWorkout(ctx context.Context, id string, patch models.WorkoutPatch, updatedAt string) (*models.Workout, error)
	DeleteWorkout(ctx context.Context, id string) error
}

// Workouts is the workout service. Store errors are returned unchanged.
type Workouts struct {
	store     WorkoutStore
	publisher events.Publisher
	log       *slog.Logger
	now       func() time.Time
	newID     func() string
}

// Option configures a Workouts service.
type Option func(*Workouts)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Workouts) { s.now = now }
}

// WithIDGenerator overrides ID generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Workouts) { s.newID = newID }
}

// WithPublisher sets the change event publisher.
func WithPublisher(p events.Publisher) Option {
	return func(s *Workouts) { s.publisher = p }
}

// NewWorkouts constructs the service. IDs default to random UUIDs.
func NewWorkouts(store WorkoutStore, log *slog.Logger, opts ...Option) *Workouts {
	s := &Workouts{
		store:     store,
		publisher: events.NoopPublisher{},
		log:       log,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns all workouts matching filter.
func (s *Workouts) List(ctx context.Context, filter models.WorkoutFilter) ([]models.Workout, error) {
	return s.store.ListWorkouts(ctx, filter)
}

// Get returns one workout by ID.
func (s *Workouts) Get(ctx context.Context, id string) (*models.Workout, error) {
	return s.store.GetWorkout(ctx, id)
}

// Create stamps a new ID and equal createdAt/updatedAt and stores the workout.
func (s *Workouts) Create(ctx context.Context, in models.NewWorkout) (*models.Workout, error) {
	ts := FormatTimestamp(s.now())
	w := models.Workout{
		ID:          s.newID(),
		Name:        in.Name,
		Mode:        in.Mode,
		Equipment:   in.Equipment,
		Exercises:   in.Exercises,
		CreatedAt:   ts,
		UpdatedAt:   ts,
		TrainerTips: in.TrainerTips,
	}

	created, err := s.store.CreateWorkout(ctx, w)
	if err != nil {
		return nil, err
	}
	observability.RecordWorkoutMutation("create")
	s.publish(ctx, events.WorkoutEvent{Type: events.WorkoutCreated, WorkoutID: created.ID, Workout: created})
	return created, nil
}

// Update merges patch into the workout and refreshes updatedAt.
func (s *Workouts) Update(ctx context.Context, id string, patch models.WorkoutPatch) (*models.Workout, error) {
	updated, err := s.store.UpdateWorkout(ctx, id, patch, FormatTimestamp(s.now()))
	if err != nil {
		return nil, err
	}
	observability.RecordWorkoutMutation("update")
	s.publish(ctx, events.WorkoutEvent{Type: events.WorkoutUpdated, WorkoutID: id, Workout: updated})
	return updated, nil
}

// Delete removes the workout.
func (s *Workouts) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteWorkout(ctx, id); err != nil {
		return err
	}
	observability.RecordWorkoutMutation("delete")
	s.publish(ctx, events.WorkoutEvent{Type: events.WorkoutDeleted, WorkoutID: id})
	return nil
}

func (s *Workouts) publish(ctx context.Context, ev events.WorkoutEvent) {
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Warn("publishing workout event", "type", ev.Type, "workout_id", ev.WorkoutID, "error", err)
	}
}
