// ABOUTME: Export and import of the whole store as a snapshot.
// ABOUTME: Supports JSON and YAML round trips plus a Markdown report.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harperreed/coach/internal/models"
	"github.com/jmoiron/sqlx"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// SnapshotVersion is written into every export.
const SnapshotVersion = "1.0"

// Snapshot holds every row in the store.
type Snapshot struct {
	Version    string                   `json:"version"`
	ExportedAt string                   `json:"exportedAt"`
	Tool       string                   `json:"tool"`
	Users      []*models.User           `json:"users"`
	Notes      []*models.TrainerNote    `json:"notes"`
	Clients    []*models.Client         `json:"clients"`
	Workouts   []*models.Workout        `json:"workouts"`
	Sessions   []*models.WorkoutSession `json:"sessions"`
	Goals      []*models.Goal           `json:"goals"`
}

// Counts tallies rows per entity.
type Counts struct {
	Users    int `json:"users" db:"users"`
	Notes    int `json:"notes" db:"notes"`
	Clients  int `json:"clients" db:"clients"`
	Workouts int `json:"workouts" db:"workouts"`
	Sessions int `json:"sessions" db:"sessions"`
	Goals    int `json:"goals" db:"goals"`
}

// Total returns the number of rows across all entities.
func (c Counts) Total() int {
	return c.Users + c.Notes + c.Clients + c.Workouts + c.Sessions + c.Goals
}

// Counts tallies the rows held by the snapshot.
func (snap *Snapshot) Counts() Counts {
	return Counts{
		Users:    len(snap.Users),
		Notes:    len(snap.Notes),
		Clients:  len(snap.Clients),
		Workouts: len(snap.Workouts),
		Sessions: len(snap.Sessions),
		Goals:    len(snap.Goals),
	}
}

// Stats counts the rows in every table.
func (s *Store) Stats() (Counts, error) {
	var c Counts
	err := s.run(func(db *sqlx.DB) error {
		return db.Get(&c, `SELECT
			(SELECT COUNT(*) FROM users) AS users,
			(SELECT COUNT(*) FROM trainer_notes) AS notes,
			(SELECT COUNT(*) FROM clients) AS clients,
			(SELECT COUNT(*) FROM workouts) AS workouts,
			(SELECT COUNT(*) FROM workout_sessions) AS sessions,
			(SELECT COUNT(*) FROM goals) AS goals`)
	})
	if err != nil {
		return Counts{}, fmt.Errorf("stats: %w", err)
	}
	return c, nil
}

// Snapshot reads every row in the store.
func (s *Store) Snapshot() (*Snapshot, error) {
	snap := &Snapshot{Version: SnapshotVersion, ExportedAt: s.now(), Tool: "coach"}
	err := s.run(func(db *sqlx.DB) error {
		var err error
		const order = " ORDER BY created_at ASC, id ASC"
		if snap.Users, err = listAll[models.User](db, "snapshot users",
			"SELECT "+userColumns+" FROM users"+order); err != nil {
			return err
		}
		if snap.Notes, err = listAll[models.TrainerNote](db, "snapshot notes",
			"SELECT "+noteColumns+" FROM trainer_notes"+order); err != nil {
			return err
		}
		if snap.Clients, err = listAll[models.Client](db, "snapshot clients",
			"SELECT "+clientColumns+" FROM clients"+order); err != nil {
			return err
		}
		if snap.Workouts, err = listAll[models.Workout](db, "snapshot workouts",
			"SELECT "+workoutColumns+" FROM workouts"+order); err != nil {
			return err
		}
		if snap.Sessions, err = listAll[models.WorkoutSession](db, "snapshot sessions",
			"SELECT "+sessionColumns+" FROM workout_sessions"+order); err != nil {
			return err
		}
		snap.Goals, err = listAll[models.Goal](db, "snapshot goals",
			"SELECT "+goalColumns+" FROM goals"+order)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// validate rejects snapshots with null entries.
func (snap *Snapshot) validate() error {
	return multierr.Combine(
		nullEntry("users", snap.Users),
		nullEntry("notes", snap.Notes),
		nullEntry("clients", snap.Clients),
		nullEntry("workouts", snap.Workouts),
		nullEntry("sessions", snap.Sessions),
		nullEntry("goals", snap.Goals),
	)
}

func nullEntry[T any](kind string, rows []*T) error {
	for i, row := range rows {
		if row == nil {
			return fmt.Errorf("invalid snapshot: %s[%d] is null", kind, i)
		}
	}
	return nil
}

// Restore replaces the store contents with snap in one transaction,
// inserting parents first. Ids and timestamps are kept as exported. Any
// failure rolls back, leaving the previous contents in place.
func (s *Store) Restore(snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("restore: nil snapshot")
	}
	if err := snap.validate(); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	return s.run(func(db *sqlx.DB) error {
		tx, err := db.Beginx()
		if err != nil {
			return fmt.Errorf("restore: %w", err)
		}
		for _, table := range clearOrder {
			if _, err := tx.Exec("DELETE FROM " + table); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("restore: clear %s: %w", table, err)
			}
		}
		if err := restoreRows(tx, snap); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("restore: %w", err)
		}
		s.log.Info().Int("rows", snap.Counts().Total()).Msg("snapshot restored")
		return nil
	})
}

func restoreRows(tx *sqlx.Tx, snap *Snapshot) error {
	for _, u := range snap.Users {
		if err := insertRow(tx, "restore user", tableUsers, userRow(u)); err != nil {
			return err
		}
	}
	for _, n := range snap.Notes {
		if err := insertRow(tx, "restore note", tableNotes, noteRow(n)); err != nil {
			return err
		}
	}
	for _, c := range snap.Clients {
		if err := insertRow(tx, "restore client", tableClients, clientRow(c)); err != nil {
			return err
		}
	}
	for _, w := range snap.Workouts {
		if err := insertRow(tx, "restore workout", tableWorkouts, workoutRow(w)); err != nil {
			return err
		}
	}
	for _, ws := range snap.Sessions {
		if err := insertRow(tx, "restore session", tableSessions, sessionRow(ws)); err != nil {
			return err
		}
	}
	for _, g := range snap.Goals {
		if err := insertRow(tx, "restore goal", tableGoals, goalRow(g)); err != nil {
			return err
		}
	}
	return nil
}

// ExportJSON renders the store as indented JSON.
func (s *Store) ExportJSON() ([]byte, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(snap, "", "  ")
}

// ExportYAML renders the store as YAML with the same keys as the JSON form.
func (s *Store) ExportYAML() ([]byte, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return MarshalYAML(snap)
}

// MarshalYAML renders snap as YAML. Keys follow the json tags.
func MarshalYAML(snap *Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return yaml.Marshal(tree)
}

// ParseSnapshot decodes an export in format "json" or "yaml".
func ParseSnapshot(data []byte, format string) (*Snapshot, error) {
	switch strings.ToLower(format) {
	case "json":
	case "yaml", "yml":
		var tree any
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("unmarshal YAML: %w", err)
		}
		converted, err := json.Marshal(tree)
		if err != nil {
			return nil, fmt.Errorf("convert YAML: %w", err)
		}
		data = converted
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	if err := snap.validate(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// ExportMarkdown renders a readable report of one trainer's data.
func (s *Store) ExportMarkdown(trainerID string) (string, error) {
	trainer, err := s.Users.Get(trainerID)
	if err != nil {
		return "", err
	}
	if trainer == nil {
		return "", fmt.Errorf("trainer %s not found", trainerID)
	}
	notes, err := s.Notes.List(trainerID)
	if err != nil {
		return "", err
	}
	clients, err := s.Clients.List(trainerID)
	if err != nil {
		return "", err
	}
	workouts, err := s.Workouts.List(trainerID)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", trainer.Name)
	fmt.Fprintf(&sb, "Generated: %s\n\n", s.now())
	if len(trainer.Specialties) > 0 {
		fmt.Fprintf(&sb, "Specialties: %s\n\n", strings.Join(trainer.Specialties, ", "))
	}
	if trainer.Philosophy != nil {
		fmt.Fprintf(&sb, "> %s\n\n", *trainer.Philosophy)
	}

	grouped := make(map[models.NoteCategory][]*models.TrainerNote)
	for _, n := range notes {
		grouped[n.Category] = append(grouped[n.Category], n)
	}
	for _, category := range models.AllNoteCategories() {
		if len(grouped[category]) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "## Notes: %s\n\n", category)
		for _, n := range grouped[category] {
			fmt.Fprintf(&sb, "### %s\n\n%s\n\n", n.Title, n.Content)
			if len(n.Tags) > 0 {
				fmt.Fprintf(&sb, "Tags: %s\n\n", strings.Join(n.Tags, ", "))
			}
		}
	}

	if len(clients) > 0 {
		sb.WriteString("## Clients\n\n")
		sb.WriteString("| Name | Email | Goals |\n")
		sb.WriteString("|------|-------|-------|\n")
		for _, c := range clients {
			email := ""
			if c.Email != nil {
				email = *c.Email
			}
			fmt.Fprintf(&sb, "| %s | %s | %d |\n", c.Name, email, len(c.Goals))
		}
		sb.WriteString("\n")
	}

	if len(workouts) > 0 {
		sb.WriteString("## Workouts\n\n")
		sb.WriteString("| Name | Type | Difficulty | Duration | Exercises |\n")
		sb.WriteString("|------|------|------------|----------|-----------|\n")
		for _, w := range workouts {
			duration := ""
			if w.EstimatedDuration != nil {
				duration = fmt.Sprintf("%d min", *w.EstimatedDuration)
			}
			fmt.Fprintf(&sb, "| %s | %s | %s | %s | %d |\n",
				w.Name, w.Type, w.Difficulty, duration, len(w.Exercises))
		}
	}

	return sb.String(), nil
}
