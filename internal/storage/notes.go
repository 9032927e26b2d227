// ABOUTME: TrainerNote CRUD operations for SQLite storage.
// ABOUTME: Notes list newest-updated first and cascade with their trainer.
package storage

import (
	"github.com/harperreed/coach/internal/models"
	"github.com/jmoiron/sqlx"
)

const noteColumns = `id, trainer_id, title, content, tags, category, is_public, created_at, updated_at`

// NoteRepository stores trainer notes.
type NoteRepository struct {
	s *Store
}

func noteRow(n *models.TrainerNote) map[string]any {
	return map[string]any{
		"id":         n.ID,
		"trainer_id": n.TrainerID,
		"title":      n.Title,
		"content":    n.Content,
		"tags":       n.Tags,
		"category":   n.Category,
		"is_public":  boolInt(n.IsPublic),
		"created_at": n.CreatedAt,
		"updated_at": n.UpdatedAt,
	}
}

// Create stores n and returns its id.
func (r *NoteRepository) Create(n *models.TrainerNote) (string, error) {
	rec := *n
	r.s.stamp(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	rec.Tags = rec.Tags.OrEmpty()

	err := r.s.run(func(db *sqlx.DB) error {
		return insertRow(db, "create note", tableNotes, noteRow(&rec))
	})
	if err != nil {
		return "", err
	}
	*n = rec
	return rec.ID, nil
}

// Get returns the note with id, or nil when there is none.
func (r *NoteRepository) Get(id string) (*models.TrainerNote, error) {
	var n *models.TrainerNote
	err := r.s.run(func(db *sqlx.DB) error {
		var err error
		n, err = getOne[models.TrainerNote](db, "get note",
			"SELECT "+noteColumns+" FROM trainer_notes WHERE id = ?", id)
		return err
	})
	return n, err
}

// List returns a trainer's notes, most recently updated first.
func (r *NoteRepository) List(trainerID string) ([]*models.TrainerNote, error) {
	var notes []*models.TrainerNote
	err := r.s.run(func(db *sqlx.DB) error {
		var err error
		notes, err = listAll[models.TrainerNote](db, "list notes",
			"SELECT "+noteColumns+" FROM trainer_notes WHERE trainer_id = ? ORDER BY updated_at DESC, id DESC",
			trainerID)
		return err
	})
	return notes, err
}

// Update applies the present fields of p.
func (r *NoteRepository) Update(id string, p models.NotePatch) error {
	set := map[string]any{}
	setField(set, "title", p.Title)
	setField(set, "content", p.Content)
	setField(set, "tags", p.Tags)
	setField(set, "category", p.Category)
	setBool(set, "is_public", p.IsPublic)
	return r.s.update("update note", tableNotes, id, set)
}

// Delete removes the note.
func (r *NoteRepository) Delete(id string) error {
	return r.s.remove("delete note", tableNotes, id)
}
