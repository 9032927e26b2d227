// ABOUTME: TrainerNote model for a trainer's knowledge base.
// ABOUTME: Notes are categorized and cascade away with their trainer.
package models

// NoteCategory groups notes by subject.
type NoteCategory string

const (
	CategoryExercise   NoteCategory = "exercise"
	CategoryNutrition  NoteCategory = "nutrition"
	CategoryPhilosophy NoteCategory = "philosophy"
	CategoryTechnique  NoteCategory = "technique"
	CategoryOther      NoteCategory = "other"
)

// AllNoteCategories returns every category in display order.
func AllNoteCategories() []NoteCategory {
	return []NoteCategory{CategoryExercise, CategoryNutrition, CategoryPhilosophy, CategoryTechnique, CategoryOther}
}

// IsValid reports whether c is a known category.
func (c NoteCategory) IsValid() bool {
	for _, known := range AllNoteCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// TrainerNote is a piece of trainer-authored content.
type TrainerNote struct {
	ID        string       `db:"id" json:"id"`
	TrainerID string       `db:"trainer_id" json:"trainerId"`
	Title     string       `db:"title" json:"title"`
	Content   string       `db:"content" json:"content"`
	Tags      List[string] `db:"tags" json:"tags"`
	Category  NoteCategory `db:"category" json:"category"`
	IsPublic  bool         `db:"is_public" json:"isPublic"`
	CreatedAt string       `db:"created_at" json:"createdAt"`
	UpdatedAt string       `db:"updated_at" json:"updatedAt"`
}

// NewNote creates a note owned by trainerID.
func NewNote(trainerID, title, content string, category NoteCategory) *TrainerNote {
	return &TrainerNote{
		TrainerID: trainerID,
		Title:     title,
		Content:   content,
		Category:  category,
		Tags:      List[string]{},
	}
}

// WithTags sets the note tags.
func (n *TrainerNote) WithTags(tags ...string) *TrainerNote {
	n.Tags = Strings(tags...)
	return n
}

// WithPublic marks the note as shareable.
func (n *TrainerNote) WithPublic(public bool) *TrainerNote {
	n.IsPublic = public
	return n
}

// NotePatch lists the note attributes an update may change.
type NotePatch struct {
	Title    Field[string]
	Content  Field[string]
	Tags     Field[List[string]]
	Category Field[NoteCategory]
	IsPublic Field[bool]
}
