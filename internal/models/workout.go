package models

import "slices"

// Workout is a named routine stored in the workouts collection.
// Field order matches the persisted document layout.
type Workout struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Mode        string   `json:"mode"`
	Equipment   []string `json:"equipment"`
	Exercises   []string `json:"exercises"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
	TrainerTips []string `json:"trainerTips"`
}

// Clone returns a deep copy of w.
func (w Workout) Clone() Workout {
	w.Equipment = slices.Clone(w.Equipment)
	w.Exercises = slices.Clone(w.Exercises)
	w.TrainerTips = slices.Clone(w.TrainerTips)
	return w
}

// NewWorkout holds the client-supplied fields of a workout to be created.
// Identity and timestamps are assigned server-side.
type NewWorkout struct {
	Name        string   `json:"name"`
	Mode        string   `json:"mode"`
	Equipment   []string `json:"equipment"`
	Exercises   []string `json:"exercises"`
	TrainerTips []string `json:"trainerTips"`
}

// WorkoutPatch is a partial update. Nil fields are left untouched; non-nil
// sequence fields replace the stored sequence wholesale.
type WorkoutPatch struct {
	Name        *string   `json:"name,omitempty"`
	Mode        *string   `json:"mode,omitempty"`
	Equipment   *[]string `json:"equipment,omitempty"`
	Exercises   *[]string `json:"exercises,omitempty"`
	TrainerTips *[]string `json:"trainerTips,omitempty"`
}

// Valid reports whether the patch keeps name and mode non-empty. Absent
// fields are valid.
func (p WorkoutPatch) Valid() bool {
	return (p.Name == nil || *p.Name != "") && (p.Mode == nil || *p.Mode != "")
}

// Apply returns a copy of w with the patch merged over it.
func (p WorkoutPatch) Apply(w Workout) Workout {
	out := w.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Mode != nil {
		out.Mode = *p.Mode
	}
	if p.Equipment != nil {
		out.Equipment = slices.Clone(*p.Equipment)
	}
	if p.Exercises != nil {
		out.Exercises = slices.Clone(*p.Exercises)
	}
	if p.TrainerTips != nil {
		out.TrainerTips = slices.Clone(*p.TrainerTips)
	}
	return out
}

// WorkoutFilter narrows a workout listing. Empty fields match everything.
type WorkoutFilter struct {
	Mode string
}

// Matches reports whether w passes the filter. Comparison is exact and case-sensitive.
func (f WorkoutFilter) Matches(w Workout) bool {
	return f.Mode == "" || w.Mode == f.Mode
}
