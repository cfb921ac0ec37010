package models

// Record is a logged performance result for a workout.
// Workout holds the referenced workout's ID; the reference is not enforced.
type Record struct {
	ID        string `json:"id"`
	Workout   string `json:"workout"`
	Record    string `json:"record"`
	MemberID  string `json:"memberId,omitempty"`
	Member    string `json:"member,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}
