// ABOUTME: CLI commands for trainer notes.
// ABOUTME: Supports add, list, update, and delete.
package main

import (
	"fmt"
	"strings"

	"github.com/harperreed/coach/internal/models"
	"github.com/spf13/cobra"
)

var (
	noteContent  string
	noteCategory string
	noteTags     []string
	notePublic   bool
	noteTitle    string
	noteLimit    int
)

var noteCmd = &cobra.Command{
	Use:     "note",
	Aliases: []string{"notes", "n"},
	Short:   "Manage trainer notes",
	Long: `Manage the trainer's notes.

CATEGORIES:

  exercise, nutrition, philosophy, technique, other

EXAMPLES:

  coach note add "Hinge first" -c "Teach the hip hinge before deadlifts" --category technique
  coach note list --category technique
  coach note update <id> --title "Hinge before pulling"
  coach note delete <id>`,
}

var noteAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, err := parseNoteCategory(noteCategory)
		if err != nil {
			return err
		}

		n := models.NewNote(trainerID, args[0], noteContent, category).
			WithTags(noteTags...).
			WithPublic(notePublic)

		id, err := store.Notes.Create(n)
		if err != nil {
			return fmt.Errorf("failed to create note: %w", err)
		}

		out := cmd.OutOrStdout()
		success(out, "Added %s note", category)
		fmt.Fprintf(out, "  %s %s\n", faint.Sprint(id), n.Title)
		return nil
	},
}

var noteListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List notes, most recently updated first",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if noteCategory != "" {
			if _, err := parseNoteCategory(noteCategory); err != nil {
				return err
			}
		}

		notes, err := store.Notes.List(trainerID)
		if err != nil {
			return fmt.Errorf("failed to list notes: %w", err)
		}

		out := cmd.OutOrStdout()
		shown := 0
		for _, n := range notes {
			if noteCategory != "" && string(n.Category) != noteCategory {
				continue
			}
			if noteLimit > 0 && shown == noteLimit {
				break
			}
			tags := ""
			if len(n.Tags) > 0 {
				tags = faint.Sprintf(" [%s]", strings.Join(n.Tags, ", "))
			}
			fmt.Fprintf(out, "%s %s %s%s\n",
				faint.Sprint(n.ID),
				padRight(string(n.Category), 11),
				truncate(n.Title, 40),
				tags)
			shown++
		}

		if shown == 0 {
			fmt.Fprintln(out, "No notes found.")
		}
		return nil
	},
}

var noteUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change fields of a note",
	Long: `Change fields of a note. Only flags you pass are changed.

EXAMPLES:

  coach note update <id> --title "New title"
  coach note update <id> --tags squat,hinge --public`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		existing, err := store.Notes.Get(id)
		if err != nil {
			return fmt.Errorf("failed to get note: %w", err)
		}
		if existing == nil {
			return fmt.Errorf("note not found: %s", id)
		}

		flags := cmd.Flags()
		var p models.NotePatch
		if flags.Changed("title") {
			p.Title = models.Some(noteTitle)
		}
		if flags.Changed("content") {
			p.Content = models.Some(noteContent)
		}
		if flags.Changed("category") {
			category, err := parseNoteCategory(noteCategory)
			if err != nil {
				return err
			}
			p.Category = models.Some(category)
		}
		if flags.Changed("tags") {
			p.Tags = models.Some(models.Strings(noteTags...))
		}
		if flags.Changed("public") {
			p.IsPublic = models.Some(notePublic)
		}

		if err := store.Notes.Update(id, p); err != nil {
			return fmt.Errorf("failed to update note: %w", err)
		}

		success(cmd.OutOrStdout(), "Updated note %s", id)
		return nil
	},
}

var noteDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a note",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		n, err := store.Notes.Get(id)
		if err != nil {
			return fmt.Errorf("failed to get note: %w", err)
		}
		if n == nil {
			return fmt.Errorf("note not found: %s", id)
		}

		if err := store.Notes.Delete(id); err != nil {
			return fmt.Errorf("failed to delete note: %w", err)
		}

		removed(cmd.OutOrStdout(), "Deleted note %q", n.Title)
		return nil
	},
}

func parseNoteCategory(name string) (models.NoteCategory, error) {
	if name == "" {
		return models.CategoryOther, nil
	}
	c := models.NoteCategory(name)
	if !c.IsValid() {
		return "", fmt.Errorf("unknown category: %s (use exercise, nutrition, philosophy, technique, or other)", name)
	}
	return c, nil
}

func init() {
	noteAddCmd.Flags().StringVarP(&noteContent, "content", "c", "", "note body")
	noteAddCmd.Flags().StringVar(&noteCategory, "category", "other", "note category")
	noteAddCmd.Flags().StringSliceVar(&noteTags, "tags", nil, "comma-separated tags")
	noteAddCmd.Flags().BoolVar(&notePublic, "public", false, "mark the note as shareable")

	noteListCmd.Flags().StringVar(&noteCategory, "category", "", "filter by category")
	noteListCmd.Flags().IntVarP(&noteLimit, "limit", "n", 20, "max number of results")

	noteUpdateCmd.Flags().StringVar(&noteTitle, "title", "", "new title")
	noteUpdateCmd.Flags().StringVarP(&noteContent, "content", "c", "", "new body")
	noteUpdateCmd.Flags().StringVar(&noteCategory, "category", "", "new category")
	noteUpdateCmd.Flags().StringSliceVar(&noteTags, "tags", nil, "replacement tags")
	noteUpdateCmd.Flags().BoolVar(&notePublic, "public", false, "mark the note as shareable")

	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteListCmd)
	noteCmd.AddCommand(noteUpdateCmd)
	noteCmd.AddCommand(noteDeleteCmd)
	rootCmd.AddCommand(noteCmd)
}
