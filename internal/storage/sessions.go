// ABOUTME: WorkoutSession CRUD operations for SQLite storage.
// ABOUTME: Sessions list in schedule order and cascade with their workout or client.
package storage

import (
	"github.com/harperreed/coach/internal/models"
	"github.com/jmoiron/sqlx"
)

const sessionColumns = `id, workout_id, client_id, scheduled_date, completed_date, completed_sets,
	duration, notes, rating, status, created_at, updated_at`

// SessionRepository stores scheduled and completed workout sessions.
type SessionRepository struct {
	s *Store
}

func sessionRow(ws *models.WorkoutSession) map[string]any {
	return map[string]any{
		"id":             ws.ID,
		"workout_id":     ws.WorkoutID,
		"client_id":      ws.ClientID,
		"scheduled_date": ws.ScheduledDate,
		"completed_date": ws.CompletedDate,
		"completed_sets": ws.CompletedSets,
		"duration":       ws.Duration,
		"notes":          ws.Notes,
		"rating":         ws.Rating,
		"status":         ws.Status,
		"created_at":     ws.CreatedAt,
		"updated_at":     ws.UpdatedAt,
	}
}

// Create stores ws and returns its id. Ratings outside 1..5 are rejected
// by the schema.
func (r *SessionRepository) Create(ws *models.WorkoutSession) (string, error) {
	rec := *ws
	r.s.stamp(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	rec.CompletedSets = rec.CompletedSets.OrEmpty()

	err := r.s.run(func(db *sqlx.DB) error {
		return insertRow(db, "create session", tableSessions, sessionRow(&rec))
	})
	if err != nil {
		return "", err
	}
	*ws = rec
	return rec.ID, nil
}

// Get returns the session with id, or nil when there is none.
func (r *SessionRepository) Get(id string) (*models.WorkoutSession, error) {
	var ws *models.WorkoutSession
	err := r.s.run(func(db *sqlx.DB) error {
		var err error
		ws, err = getOne[models.WorkoutSession](db, "get session",
			"SELECT "+sessionColumns+" FROM workout_sessions WHERE id = ?", id)
		return err
	})
	return ws, err
}

// List returns a client's sessions, earliest scheduled first.
func (r *SessionRepository) List(clientID string) ([]*models.WorkoutSession, error) {
	var sessions []*models.WorkoutSession
	err := r.s.run(func(db *sqlx.DB) error {
		var err error
		sessions, err = listAll[models.WorkoutSession](db, "list sessions",
			"SELECT "+sessionColumns+" FROM workout_sessions WHERE client_id = ? ORDER BY scheduled_date ASC, id ASC",
			clientID)
		return err
	})
	return sessions, err
}

// ListByWorkout returns every session of a workout, earliest scheduled first.
func (r *SessionRepository) ListByWorkout(workoutID string) ([]*models.WorkoutSession, error) {
	var sessions []*models.WorkoutSession
	err := r.s.run(func(db *sqlx.DB) error {
		var err error
		sessions, err = listAll[models.WorkoutSession](db, "list workout sessions",
			"SELECT "+sessionColumns+" FROM workout_sessions WHERE workout_id = ? ORDER BY scheduled_date ASC, id ASC",
			workoutID)
		return err
	})
	return sessions, err
}

// Update applies the present fields of p.
func (r *SessionRepository) Update(id string, p models.SessionPatch) error {
	set := map[string]any{}
	setField(set, "scheduled_date", p.ScheduledDate)
	setField(set, "completed_date", p.CompletedDate)
	setField(set, "completed_sets", p.CompletedSets)
	setField(set, "duration", p.Duration)
	setField(set, "notes", p.Notes)
	setField(set, "rating", p.Rating)
	setField(set, "status", p.Status)
	return r.s.update("update session", tableSessions, id, set)
}

// Delete removes the session.
func (r *SessionRepository) Delete(id string) error {
	return r.s.remove("delete session", tableSessions, id)
}
