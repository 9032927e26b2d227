// ABOUTME: Workout model for plans and reusable templates.
// ABOUTME: Exercises, warmup and cooldown are lists of WorkoutSet entries.
package models

// WorkoutType is the training focus of a workout.
type WorkoutType string

const (
	WorkoutStrength    WorkoutType = "strength"
	WorkoutCardio      WorkoutType = "cardio"
	WorkoutMixed       WorkoutType = "mixed"
	WorkoutFlexibility WorkoutType = "flexibility"
	WorkoutRecovery    WorkoutType = "recovery"
)

// AllWorkoutTypes returns every workout type.
func AllWorkoutTypes() []WorkoutType {
	return []WorkoutType{WorkoutStrength, WorkoutCardio, WorkoutMixed, WorkoutFlexibility, WorkoutRecovery}
}

// IsValid reports whether t is a known workout type.
func (t WorkoutType) IsValid() bool {
	for _, known := range AllWorkoutTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Difficulty rates how demanding a workout is.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// IsValid reports whether d is a known difficulty.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// WorkoutSet prescribes (or records) one exercise block.
type WorkoutSet struct {
	ExerciseID string   `json:"exerciseId"`
	Sets       int      `json:"sets"`
	Reps       *int     `json:"reps,omitempty"`
	Weight     *float64 `json:"weight,omitempty"`
	Duration   *int     `json:"duration,omitempty"`
	Distance   *float64 `json:"distance,omitempty"`
	RestTime   *int     `json:"restTime,omitempty"`
	RPE        *int     `json:"rpe,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

// Workout is a training plan, optionally assigned to a client.
type Workout struct {
	ID                string           `db:"id" json:"id"`
	TrainerID         string           `db:"trainer_id" json:"trainerId"`
	ClientID          *string          `db:"client_id" json:"clientId,omitempty"`
	Name              string           `db:"name" json:"name"`
	Description       *string          `db:"description" json:"description,omitempty"`
	Type              WorkoutType      `db:"type" json:"type"`
	Difficulty        Difficulty       `db:"difficulty" json:"difficulty"`
	EstimatedDuration *int             `db:"estimated_duration" json:"estimatedDuration,omitempty"`
	Exercises         List[WorkoutSet] `db:"exercises" json:"exercises"`
	Warmup            List[WorkoutSet] `db:"warmup" json:"warmup"`
	Cooldown          List[WorkoutSet] `db:"cooldown" json:"cooldown"`
	Tags              List[string]     `db:"tags" json:"tags"`
	IsTemplate        bool             `db:"is_template" json:"isTemplate"`
	CreatedAt         string           `db:"created_at" json:"createdAt"`
	UpdatedAt         string           `db:"updated_at" json:"updatedAt"`
}

// NewWorkout creates a workout owned by trainerID.
func NewWorkout(trainerID, name string, workoutType WorkoutType, difficulty Difficulty) *Workout {
	return &Workout{
		TrainerID:  trainerID,
		Name:       name,
		Type:       workoutType,
		Difficulty: difficulty,
		Exercises:  List[WorkoutSet]{},
		Warmup:     List[WorkoutSet]{},
		Cooldown:   List[WorkoutSet]{},
		Tags:       List[string]{},
	}
}

// ForClient assigns the workout to a client.
func (w *Workout) ForClient(clientID string) *Workout {
	w.ClientID = &clientID
	return w
}

// WithDescription sets the description.
func (w *Workout) WithDescription(description string) *Workout {
	w.Description = &description
	return w
}

// WithDuration sets the estimated duration in minutes.
func (w *Workout) WithDuration(minutes int) *Workout {
	w.EstimatedDuration = &minutes
	return w
}

// WithExercises sets the main block.
func (w *Workout) WithExercises(sets ...WorkoutSet) *Workout {
	w.Exercises = append(List[WorkoutSet]{}, sets...)
	return w
}

// WithTags sets the workout tags.
func (w *Workout) WithTags(tags ...string) *Workout {
	w.Tags = Strings(tags...)
	return w
}

// AsTemplate marks the workout as a reusable template.
func (w *Workout) AsTemplate() *Workout {
	w.IsTemplate = true
	return w
}

// WorkoutPatch lists the workout attributes an update may change.
// Setting ClientID to a nil value unassigns the workout.
type WorkoutPatch struct {
	ClientID          Field[*string]
	Name              Field[string]
	Description       Field[*string]
	Type              Field[WorkoutType]
	Difficulty        Field[Difficulty]
	EstimatedDuration Field[*int]
	Exercises         Field[List[WorkoutSet]]
	Warmup            Field[List[WorkoutSet]]
	Cooldown          Field[List[WorkoutSet]]
	Tags              Field[List[string]]
	IsTemplate        Field[bool]
}
