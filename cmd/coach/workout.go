// ABOUTME: CLI commands for managing workouts and their sessions.
// ABOUTME: Supports add, list, delete, schedule, and sessions subcommands.
package main

import (
	"fmt"
	"time"

	"github.com/harperreed/coach/internal/models"
	"github.com/spf13/cobra"
)

var (
	workoutType       string
	workoutDifficulty string
	workoutClient     string
	workoutDuration   int
	workoutTags       []string
	workoutTemplate   bool
	workoutTemplates  bool
	sessionNotes      string
)

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"w"},
	Short:   "Manage workouts",
	Long: `Manage workout plans and templates.

TYPES:        strength, cardio, mixed, flexibility, recovery
DIFFICULTY:   beginner, intermediate, advanced

WORKFLOW:

  1. Create a workout:    coach workout add "Lower A" --type strength --client <client-id>
  2. Schedule a session:  coach workout schedule <workout-id> <client-id> 2024-06-01
  3. See the client plan: coach workout sessions <client-id>

Deleting a workout also deletes its sessions.`,
}

var workoutAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a workout",
	Long: `Add a workout plan.

Examples:
  coach workout add "Lower A" --type strength --duration 45
  coach workout add "Easy Run" --type cardio --template`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wt := models.WorkoutType(workoutType)
		if !wt.IsValid() {
			return fmt.Errorf("unknown workout type: %s", workoutType)
		}
		difficulty := models.Difficulty(workoutDifficulty)
		if !difficulty.IsValid() {
			return fmt.Errorf("unknown difficulty: %s", workoutDifficulty)
		}

		w := models.NewWorkout(trainerID, args[0], wt, difficulty).WithTags(workoutTags...)
		if workoutClient != "" {
			w.ForClient(workoutClient)
		}
		if workoutDuration > 0 {
			w.WithDuration(workoutDuration)
		}
		if workoutTemplate {
			w.AsTemplate()
		}

		id, err := store.Workouts.Create(w)
		if err != nil {
			return fmt.Errorf("failed to create workout: %w", err)
		}

		out := cmd.OutOrStdout()
		success(out, "Added %s workout %s", wt, w.Name)
		fmt.Fprintf(out, "  ID: %s\n", id)
		if w.EstimatedDuration != nil {
			fmt.Fprintf(out, "  Duration: %d min\n", *w.EstimatedDuration)
		}
		return nil
	},
}

var workoutListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List workouts, most recently updated first",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			workouts []*models.Workout
			err      error
		)
		switch {
		case workoutTemplates:
			workouts, err = store.Workouts.ListTemplates(trainerID)
		case workoutClient != "":
			workouts, err = store.Workouts.ListByClient(workoutClient)
		default:
			workouts, err = store.Workouts.List(trainerID)
		}
		if err != nil {
			return fmt.Errorf("failed to list workouts: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(workouts) == 0 {
			fmt.Fprintln(out, "No workouts found.")
			return nil
		}

		for _, w := range workouts {
			duration := ""
			if w.EstimatedDuration != nil {
				duration = fmt.Sprintf("%d min", *w.EstimatedDuration)
			}
			marker := ""
			if w.IsTemplate {
				marker = faint.Sprint(" (template)")
			}
			fmt.Fprintf(out, "%s %s %s %s %s%s\n",
				faint.Sprint(w.ID),
				padRight(truncate(w.Name, 24), 24),
				padRight(string(w.Type), 12),
				padRight(string(w.Difficulty), 13),
				duration,
				marker)
		}
		return nil
	},
}

var workoutDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a workout and its sessions",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		w, err := store.Workouts.Get(id)
		if err != nil {
			return fmt.Errorf("failed to get workout: %w", err)
		}
		if w == nil {
			return fmt.Errorf("workout not found: %s", id)
		}

		if err := store.Workouts.Delete(id); err != nil {
			return fmt.Errorf("failed to delete workout: %w", err)
		}

		removed(cmd.OutOrStdout(), "Deleted workout %s", w.Name)
		return nil
	},
}

var workoutScheduleCmd = &cobra.Command{
	Use:   "schedule <workout-id> <client-id> <date>",
	Short: "Schedule a session of a workout for a client",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := args[2]
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", date)
		}

		ws := models.NewSession(args[0], args[1], date)
		if sessionNotes != "" {
			ws.WithNotes(sessionNotes)
		}

		id, err := store.Sessions.Create(ws)
		if err != nil {
			return fmt.Errorf("failed to schedule session: %w", err)
		}

		out := cmd.OutOrStdout()
		success(out, "Scheduled session on %s", date)
		fmt.Fprintf(out, "  ID: %s\n", id)
		return nil
	},
}

var workoutSessionsCmd = &cobra.Command{
	Use:   "sessions <client-id>",
	Short: "List a client's sessions by date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := store.Sessions.List(args[0])
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions found.")
			return nil
		}

		for _, s := range sessions {
			fmt.Fprintf(out, "%s %s %s %s\n",
				faint.Sprint(s.ID),
				s.ScheduledDate,
				padRight(string(s.Status), 12),
				faint.Sprint(truncate(deref(s.Notes), 30)))
		}
		return nil
	},
}

func init() {
	workoutAddCmd.Flags().StringVarP(&workoutType, "type", "t", string(models.WorkoutStrength), "workout type")
	workoutAddCmd.Flags().StringVarP(&workoutDifficulty, "difficulty", "d", string(models.DifficultyBeginner), "difficulty")
	workoutAddCmd.Flags().StringVar(&workoutClient, "client", "", "assign to this client id")
	workoutAddCmd.Flags().IntVar(&workoutDuration, "duration", 0, "estimated duration in minutes")
	workoutAddCmd.Flags().StringSliceVar(&workoutTags, "tags", nil, "comma-separated tags")
	workoutAddCmd.Flags().BoolVar(&workoutTemplate, "template", false, "save as a reusable template")

	workoutListCmd.Flags().StringVar(&workoutClient, "client", "", "only workouts assigned to this client id")
	workoutListCmd.Flags().BoolVar(&workoutTemplates, "templates", false, "only templates")

	workoutScheduleCmd.Flags().StringVar(&sessionNotes, "notes", "", "session notes")

	workoutCmd.AddCommand(workoutAddCmd)
	workoutCmd.AddCommand(workoutListCmd)
	workoutCmd.AddCommand(workoutDeleteCmd)
	workoutCmd.AddCommand(workoutScheduleCmd)
	workoutCmd.AddCommand(workoutSessionsCmd)
	rootCmd.AddCommand(workoutCmd)
}
