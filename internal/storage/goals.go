// ABOUTME: Goal CRUD operations for SQLite storage.
// ABOUTME: Goals list in creation order and cascade with their client.
package storage

import (
	"github.com/harperreed/coach/internal/models"
	"github.com/jmoiron/sqlx"
)

const goalColumns = `id, client_id, type, description, target_value, current_value, unit,
	target_date, priority, status, created_at, updated_at`

// GoalRepository stores client goals.
type GoalRepository struct {
	s *Store
}

func goalRow(g *models.Goal) map[string]any {
	return map[string]any{
		"id":            g.ID,
		"client_id":     g.ClientID,
		"type":          g.Type,
		"description":   g.Description,
		"target_value":  g.TargetValue,
		"current_value": g.CurrentValue,
		"unit":          g.Unit,
		"target_date":   g.TargetDate,
		"priority":      g.Priority,
		"status":        g.Status,
		"created_at":    g.CreatedAt,
		"updated_at":    g.UpdatedAt,
	}
}

// Create stores g and returns its id.
func (r *GoalRepository) Create(g *models.Goal) (string, error) {
	rec := *g
	r.s.stamp(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)

	err := r.s.run(func(db *sqlx.DB) error {
		return insertRow(db, "create goal", tableGoals, goalRow(&rec))
	})
	if err != nil {
		return "", err
	}
	*g = rec
	return rec.ID, nil
}

// Get returns the goal with id, or nil when there is none.
func (r *GoalRepository) Get(id string) (*models.Goal, error) {
	var g *models.Goal
	err := r.s.run(func(db *sqlx.DB) error {
		var err error
		g, err = getOne[models.Goal](db, "get goal", "SELECT "+goalColumns+" FROM goals WHERE id = ?", id)
		return err
	})
	return g, err
}

// List returns a client's goals in creation order.
func (r *GoalRepository) List(clientID string) ([]*models.Goal, error) {
	var goals []*models.Goal
	err := r.s.run(func(db *sqlx.DB) error {
		var err error
		goals, err = listAll[models.Goal](db, "list goals",
			"SELECT "+goalColumns+" FROM goals WHERE client_id = ? ORDER BY created_at ASC, id ASC", clientID)
		return err
	})
	return goals, err
}

// Update applies the present fields of p.
func (r *GoalRepository) Update(id string, p models.GoalPatch) error {
	set := map[string]any{}
	setField(set, "type", p.Type)
	setField(set, "description", p.Description)
	setField(set, "target_value", p.TargetValue)
	setField(set, "current_value", p.CurrentValue)
	setField(set, "unit", p.Unit)
	setField(set, "target_date", p.TargetDate)
	setField(set, "priority", p.Priority)
	setField(set, "status", p.Status)
	return r.s.update("update goal", tableGoals, id, set)
}

// Delete removes the goal.
func (r *GoalRepository) Delete(id string) error {
	return r.s.remove("delete goal", tableGoals, id)
}
