// ABOUTME: CLI commands for client goals.
// ABOUTME: Supports add, list, and progress updates.
package main

import (
	"fmt"
	"strconv"

	"github.com/harperreed/coach/internal/models"
	"github.com/spf13/cobra"
)

var (
	goalType     string
	goalTarget   float64
	goalUnit     string
	goalPriority string
)

var goalCmd = &cobra.Command{
	Use:     "goal",
	Aliases: []string{"goals", "g"},
	Short:   "Manage client goals",
	Long: `Track measurable goals for a client.

TYPES:      weight_loss, muscle_gain, strength, endurance, flexibility, other
PRIORITY:   low, medium, high

EXAMPLES:

  coach goal add <client-id> "Deadlift bodyweight" --type strength --target 80 --unit kg
  coach goal progress <goal-id> 72.5
  coach goal list <client-id>`,
}

var goalAddCmd = &cobra.Command{
	Use:   "add <client-id> <description>",
	Short: "Add a goal for a client",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		gt := models.GoalType(goalType)
		if !gt.IsValid() {
			return fmt.Errorf("unknown goal type: %s", goalType)
		}

		g := models.NewGoal(args[0], gt, args[1])
		if cmd.Flags().Changed("target") {
			g.WithTarget(goalTarget, goalUnit)
		}
		if goalPriority != "" {
			g.WithPriority(models.Priority(goalPriority))
		}

		id, err := store.Goals.Create(g)
		if err != nil {
			return fmt.Errorf("failed to create goal: %w", err)
		}

		out := cmd.OutOrStdout()
		success(out, "Added %s goal", gt)
		fmt.Fprintf(out, "  ID: %s\n", id)
		return nil
	},
}

var goalListCmd = &cobra.Command{
	Use:     "list <client-id>",
	Aliases: []string{"ls"},
	Short:   "List a client's goals",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		goals, err := store.Goals.List(args[0])
		if err != nil {
			return fmt.Errorf("failed to list goals: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(goals) == 0 {
			fmt.Fprintln(out, "No goals found.")
			return nil
		}

		for _, g := range goals {
			fmt.Fprintf(out, "%s %s %s %s %s\n",
				faint.Sprint(g.ID),
				padRight(string(g.Type), 12),
				padRight(string(g.Status), 10),
				truncate(g.Description, 40),
				faint.Sprint(progress(g)))
		}
		return nil
	},
}

var goalProgressCmd = &cobra.Command{
	Use:   "progress <goal-id> <value>",
	Short: "Record the current value of a goal",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid value: %s", args[1])
		}

		g, err := store.Goals.Get(args[0])
		if err != nil {
			return fmt.Errorf("failed to get goal: %w", err)
		}
		if g == nil {
			return fmt.Errorf("goal not found: %s", args[0])
		}

		p := models.GoalPatch{CurrentValue: models.Some(&value)}
		if g.TargetValue != nil && value >= *g.TargetValue {
			p.Status = models.Some(models.GoalCompleted)
		}
		if err := store.Goals.Update(g.ID, p); err != nil {
			return fmt.Errorf("failed to update goal: %w", err)
		}

		success(cmd.OutOrStdout(), "Recorded %.2f %s", value, deref(g.Unit))
		return nil
	},
}

func progress(g *models.Goal) string {
	if g.TargetValue == nil {
		return ""
	}
	current := "-"
	if g.CurrentValue != nil {
		current = strconv.FormatFloat(*g.CurrentValue, 'f', -1, 64)
	}
	return fmt.Sprintf("%s/%s %s", current, strconv.FormatFloat(*g.TargetValue, 'f', -1, 64), deref(g.Unit))
}

func init() {
	goalAddCmd.Flags().StringVarP(&goalType, "type", "t", string(models.GoalOther), "goal type")
	goalAddCmd.Flags().Float64Var(&goalTarget, "target", 0, "target value")
	goalAddCmd.Flags().StringVar(&goalUnit, "unit", "", "unit of the target value")
	goalAddCmd.Flags().StringVar(&goalPriority, "priority", "", "low, medium or high (default medium)")

	goalCmd.AddCommand(goalAddCmd)
	goalCmd.AddCommand(goalListCmd)
	goalCmd.AddCommand(goalProgressCmd)
	rootCmd.AddCommand(goalCmd)
}
