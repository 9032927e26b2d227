// ABOUTME: Goal model for tracked client targets.
// ABOUTME: Goals carry type, priority and status enumerations.
package models

// GoalType is what a goal measures.
type GoalType string

const (
	GoalWeightLoss  GoalType = "weight_loss"
	GoalMuscleGain  GoalType = "muscle_gain"
	GoalStrength    GoalType = "strength"
	GoalEndurance   GoalType = "endurance"
	GoalFlexibility GoalType = "flexibility"
	GoalOther       GoalType = "other"
)

// IsValid reports whether t is a known goal type.
func (t GoalType) IsValid() bool {
	switch t {
	case GoalWeightLoss, GoalMuscleGain, GoalStrength, GoalEndurance, GoalFlexibility, GoalOther:
		return true
	}
	return false
}

// Priority ranks goals.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// GoalStatus is whether a goal is still being worked.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalPaused    GoalStatus = "paused"
)

// Goal is a measurable client objective.
type Goal struct {
	ID           string     `db:"id" json:"id"`
	ClientID     string     `db:"client_id" json:"clientId"`
	Type         GoalType   `db:"type" json:"type"`
	Description  string     `db:"description" json:"description"`
	TargetValue  *float64   `db:"target_value" json:"targetValue,omitempty"`
	CurrentValue *float64   `db:"current_value" json:"currentValue,omitempty"`
	Unit         *string    `db:"unit" json:"unit,omitempty"`
	TargetDate   *string    `db:"target_date" json:"targetDate,omitempty"`
	Priority     Priority   `db:"priority" json:"priority"`
	Status       GoalStatus `db:"status" json:"status"`
	CreatedAt    string     `db:"created_at" json:"createdAt"`
	UpdatedAt    string     `db:"updated_at" json:"updatedAt"`
}

// NewGoal creates an active, medium-priority goal for clientID.
func NewGoal(clientID string, goalType GoalType, description string) *Goal {
	return &Goal{
		ClientID:    clientID,
		Type:        goalType,
		Description: description,
		Priority:    PriorityMedium,
		Status:      GoalActive,
	}
}

// WithTarget sets the target value and unit.
func (g *Goal) WithTarget(value float64, unit string) *Goal {
	g.TargetValue = &value
	g.Unit = &unit
	return g
}

// WithPriority sets the priority.
func (g *Goal) WithPriority(p Priority) *Goal {
	g.Priority = p
	return g
}

// GoalPatch lists the goal attributes an update may change.
type GoalPatch struct {
	Type         Field[GoalType]
	Description  Field[string]
	TargetValue  Field[*float64]
	CurrentValue Field[*float64]
	Unit         Field[*string]
	TargetDate   Field[*string]
	Priority     Field[Priority]
	Status       Field[GoalStatus]
}
