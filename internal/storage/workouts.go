// ABOUTME: Workout CRUD operations for SQLite storage.
// ABOUTME: Workouts cascade with their trainer; deleting their client only unassigns them.
package storage

import (
	"github.com/harperreed/coach/internal/models"
	"github.com/jmoiron/sqlx"
)

const workoutColumns = `id, trainer_id, client_id, name, description, type, difficulty,
	estimated_duration, exercises, warmup, cooldown, tags, is_template, created_at, updated_at`

// WorkoutRepository stores workout plans and templates.
type WorkoutRepository struct {
	s *Store
}

func workoutRow(w *models.Workout) map[string]any {
	return map[string]any{
		"id":                 w.ID,
		"trainer_id":         w.TrainerID,
		"client_id":          nullIfEmpty(w.ClientID),
		"name":               w.Name,
		"description":        w.Description,
		"type":               w.Type,
		"difficulty":         w.Difficulty,
		"estimated_duration": w.EstimatedDuration,
		"exercises":          w.Exercises,
		"warmup":             w.Warmup,
		"cooldown":           w.Cooldown,
		"tags":               w.Tags,
		"is_template":        boolInt(w.IsTemplate),
		"created_at":         w.CreatedAt,
		"updated_at":         w.UpdatedAt,
	}
}

// Create stores w and returns its id.
func (r *WorkoutRepository) Create(w *models.Workout) (string, error) {
	rec := *w
	r.s.stamp(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	rec.ClientID = nullIfEmpty(rec.ClientID)
	rec.Exercises = rec.Exercises.OrEmpty()
	rec.Warmup = rec.Warmup.OrEmpty()
	rec.Cooldown = rec.Cooldown.OrEmpty()
	rec.Tags = rec.Tags.OrEmpty()

	err := r.s.run(func(db *sqlx.DB) error {
		return insertRow(db, "create workout", tableWorkouts, workoutRow(&rec))
	})
	if err != nil {
		return "", err
	}
	*w = rec
	return rec.ID, nil
}

// Get returns the workout with id, or nil when there is none.
func (r *WorkoutRepository) Get(id string) (*models.Workout, error) {
	var w *models.Workout
	err := r.s.run(func(db *sqlx.DB) error {
		var err error
		w, err = getOne[models.Workout](db, "get workout",
			"SELECT "+workoutColumns+" FROM workouts WHERE id = ?", id)
		return err
	})
	return w, err
}

// List returns a trainer's workouts, most recently updated first.
func (r *WorkoutRepository) List(trainerID string) ([]*models.Workout, error) {
	var workouts []*models.Workout
	err := r.s.run(func(db *sqlx.DB) error {
		var err error
		workouts, err = listAll[models.Workout](db, "list workouts",
			"SELECT "+workoutColumns+" FROM workouts WHERE trainer_id = ? ORDER BY updated_at DESC, id DESC",
			trainerID)
		return err
	})
	return workouts, err
}

// ListTemplates returns a trainer's reusable templates.
func (r *WorkoutRepository) ListTemplates(trainerID string) ([]*models.Workout, error) {
	var workouts []*models.Workout
	err := r.s.run(func(db *sqlx.DB) error {
		var err error
		workouts, err = listAll[models.Workout](db, "list templates",
			"SELECT "+workoutColumns+" FROM workouts WHERE trainer_id = ? AND is_template = 1 ORDER BY updated_at DESC, id DESC",
			trainerID)
		return err
	})
	return workouts, err
}

// ListByClient returns workouts assigned to a client.
func (r *WorkoutRepository) ListByClient(clientID string) ([]*models.Workout, error) {
	var workouts []*models.Workout
	err := r.s.run(func(db *sqlx.DB) error {
		var err error
		workouts, err = listAll[models.Workout](db, "list client workouts",
			"SELECT "+workoutColumns+" FROM workouts WHERE client_id = ? ORDER BY updated_at DESC, id DESC",
			clientID)
		return err
	})
	return workouts, err
}

// Update applies the present fields of p.
func (r *WorkoutRepository) Update(id string, p models.WorkoutPatch) error {
	set := map[string]any{}
	setNullable(set, "client_id", p.ClientID)
	setField(set, "name", p.Name)
	setField(set, "description", p.Description)
	setField(set, "type", p.Type)
	setField(set, "difficulty", p.Difficulty)
	setField(set, "estimated_duration", p.EstimatedDuration)
	setField(set, "exercises", p.Exercises)
	setField(set, "warmup", p.Warmup)
	setField(set, "cooldown", p.Cooldown)
	setField(set, "tags", p.Tags)
	setBool(set, "is_template", p.IsTemplate)
	return r.s.update("update workout", tableWorkouts, id, set)
}

// Delete removes the workout and its sessions.
func (r *WorkoutRepository) Delete(id string) error {
	return r.s.remove("delete workout", tableWorkouts, id)
}
