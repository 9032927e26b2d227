// ABOUTME: WorkoutSession model for a scheduled or completed instance of a workout.
// ABOUTME: Sessions belong to both a workout and a client.
package models

// SessionStatus tracks where a session is in its lifecycle.
type SessionStatus string

const (
	SessionScheduled  SessionStatus = "scheduled"
	SessionCompleted  SessionStatus = "completed"
	SessionSkipped    SessionStatus = "skipped"
	SessionInProgress SessionStatus = "in_progress"
)

// IsValid reports whether s is a known status.
func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionScheduled, SessionCompleted, SessionSkipped, SessionInProgress:
		return true
	}
	return false
}

// WorkoutSession is one run of a workout by a client.
type WorkoutSession struct {
	ID            string           `db:"id" json:"id"`
	WorkoutID     string           `db:"workout_id" json:"workoutId"`
	ClientID      string           `db:"client_id" json:"clientId"`
	ScheduledDate string           `db:"scheduled_date" json:"scheduledDate"`
	CompletedDate *string          `db:"completed_date" json:"completedDate,omitempty"`
	CompletedSets List[WorkoutSet] `db:"completed_sets" json:"completedSets"`
	Duration      *int             `db:"duration" json:"duration,omitempty"`
	Notes         *string          `db:"notes" json:"notes,omitempty"`
	Rating        *int             `db:"rating" json:"rating,omitempty"`
	Status        SessionStatus    `db:"status" json:"status"`
	CreatedAt     string           `db:"created_at" json:"createdAt"`
	UpdatedAt     string           `db:"updated_at" json:"updatedAt"`
}

// NewSession schedules workoutID for clientID on scheduledDate.
func NewSession(workoutID, clientID, scheduledDate string) *WorkoutSession {
	return &WorkoutSession{
		WorkoutID:     workoutID,
		ClientID:      clientID,
		ScheduledDate: scheduledDate,
		CompletedSets: List[WorkoutSet]{},
		Status:        SessionScheduled,
	}
}

// WithNotes sets session notes.
func (s *WorkoutSession) WithNotes(notes string) *WorkoutSession {
	s.Notes = &notes
	return s
}

// SessionPatch lists the session attributes an update may change.
type SessionPatch struct {
	ScheduledDate Field[string]
	CompletedDate Field[*string]
	CompletedSets Field[List[WorkoutSet]]
	Duration      Field[*int]
	Notes         Field[*string]
	Rating        Field[*int]
	Status        Field[SessionStatus]
}
