// ABOUTME: User CRUD operations for SQLite storage.
// ABOUTME: Email is unique when present; user type cannot be changed once stored.
package storage

import (
	"github.com/harperreed/coach/internal/models"
	"github.com/jmoiron/sqlx"
)

const userColumns = `id, name, email, type, profile_image, certification, specialties,
	experience, philosophy, bio, created_at, updated_at`

// UserRepository stores trainers and client accounts.
type UserRepository struct {
	s *Store
}

func userRow(u *models.User) map[string]any {
	return map[string]any{
		"id":            u.ID,
		"name":          u.Name,
		"email":         nullIfEmpty(u.Email),
		"type":          u.Type,
		"profile_image": u.ProfileImage,
		"certification": u.Certification,
		"specialties":   u.Specialties,
		"experience":    u.Experience,
		"philosophy":    u.Philosophy,
		"bio":           u.Bio,
		"created_at":    u.CreatedAt,
		"updated_at":    u.UpdatedAt,
	}
}

// Create stores u and returns its id. A caller-supplied u.ID is kept.
func (r *UserRepository) Create(u *models.User) (string, error) {
	rec := *u
	r.s.stamp(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	rec.Email = nullIfEmpty(rec.Email)
	rec.Specialties = rec.Specialties.OrEmpty()

	err := r.s.run(func(db *sqlx.DB) error {
		return insertRow(db, "create user", tableUsers, userRow(&rec))
	})
	if err != nil {
		return "", err
	}
	*u = rec
	return rec.ID, nil
}

// Get returns the user with id, or nil when there is none.
func (r *UserRepository) Get(id string) (*models.User, error) {
	var u *models.User
	err := r.s.run(func(db *sqlx.DB) error {
		var err error
		u, err = getOne[models.User](db, "get user", "SELECT "+userColumns+" FROM users WHERE id = ?", id)
		return err
	})
	return u, err
}

// List returns users of userType sorted by name. An empty type lists everyone.
func (r *UserRepository) List(userType models.UserType) ([]*models.User, error) {
	var users []*models.User
	err := r.s.run(func(db *sqlx.DB) error {
		var err error
		if userType == "" {
			users, err = listAll[models.User](db, "list users",
				"SELECT "+userColumns+" FROM users ORDER BY type ASC, name ASC, id ASC")
			return err
		}
		users, err = listAll[models.User](db, "list users",
			"SELECT "+userColumns+" FROM users WHERE type = ? ORDER BY name ASC, id ASC", userType)
		return err
	})
	return users, err
}

// Update applies the present fields of p.
func (r *UserRepository) Update(id string, p models.UserPatch) error {
	set := map[string]any{}
	setField(set, "name", p.Name)
	setNullable(set, "email", p.Email)
	setField(set, "profile_image", p.ProfileImage)
	setField(set, "certification", p.Certification)
	setField(set, "specialties", p.Specialties)
	setField(set, "experience", p.Experience)
	setField(set, "philosophy", p.Philosophy)
	setField(set, "bio", p.Bio)
	return r.s.update("update user", tableUsers, id, set)
}

// Delete removes the user and, by cascade, everything the user owns.
func (r *UserRepository) Delete(id string) error {
	return r.s.remove("delete user", tableUsers, id)
}
