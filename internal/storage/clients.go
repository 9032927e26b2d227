// ABOUTME: Client CRUD operations for SQLite storage.
// ABOUTME: Goals, restrictions, preferences, measurements and contact info are JSON columns.
package storage

import (
	"github.com/harperreed/coach/internal/models"
	"github.com/jmoiron/sqlx"
)

const clientColumns = `id, trainer_id, name, email, phone, goals, restrictions, preferences,
	measurements, contact_info, created_at, updated_at`

// ClientRepository stores a trainer's clients.
type ClientRepository struct {
	s *Store
}

func clientRow(c *models.Client) map[string]any {
	return map[string]any{
		"id":           c.ID,
		"trainer_id":   c.TrainerID,
		"name":         c.Name,
		"email":        nullIfEmpty(c.Email),
		"phone":        nullIfEmpty(c.Phone),
		"goals":        c.Goals,
		"restrictions": c.Restrictions,
		"preferences":  c.Preferences,
		"measurements": c.Measurements,
		"contact_info": c.ContactInfo,
		"created_at":   c.CreatedAt,
		"updated_at":   c.UpdatedAt,
	}
}

// Create stores c and returns its id.
func (r *ClientRepository) Create(c *models.Client) (string, error) {
	rec := *c
	r.s.stamp(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	rec.Email = nullIfEmpty(rec.Email)
	rec.Phone = nullIfEmpty(rec.Phone)
	rec.Goals = rec.Goals.OrEmpty()
	rec.Restrictions = rec.Restrictions.OrEmpty()
	rec.Preferences = rec.Preferences.OrEmpty()

	err := r.s.run(func(db *sqlx.DB) error {
		return insertRow(db, "create client", tableClients, clientRow(&rec))
	})
	if err != nil {
		return "", err
	}
	*c = rec
	return rec.ID, nil
}

// Get returns the client with id, or nil when there is none.
func (r *ClientRepository) Get(id string) (*models.Client, error) {
	var c *models.Client
	err := r.s.run(func(db *sqlx.DB) error {
		var err error
		c, err = getOne[models.Client](db, "get client",
			"SELECT "+clientColumns+" FROM clients WHERE id = ?", id)
		return err
	})
	return c, err
}

// List returns a trainer's clients sorted by name.
func (r *ClientRepository) List(trainerID string) ([]*models.Client, error) {
	var clients []*models.Client
	err := r.s.run(func(db *sqlx.DB) error {
		var err error
		clients, err = listAll[models.Client](db, "list clients",
			"SELECT "+clientColumns+" FROM clients WHERE trainer_id = ? ORDER BY name ASC, id ASC",
			trainerID)
		return err
	})
	return clients, err
}

// Update applies the present fields of p.
func (r *ClientRepository) Update(id string, p models.ClientPatch) error {
	set := map[string]any{}
	setField(set, "name", p.Name)
	setNullable(set, "email", p.Email)
	setNullable(set, "phone", p.Phone)
	setField(set, "goals", p.Goals)
	setField(set, "restrictions", p.Restrictions)
	setField(set, "preferences", p.Preferences)
	setField(set, "measurements", p.Measurements)
	setField(set, "contact_info", p.ContactInfo)
	return r.s.update("update client", tableClients, id, set)
}

// Delete removes the client. Its sessions and goals cascade; workouts
// assigned to it are kept with no client.
func (r *ClientRepository) Delete(id string) error {
	return r.s.remove("delete client", tableClients, id)
}
