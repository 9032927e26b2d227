// ABOUTME: CLI command for clearing all coach data.
// ABOUTME: Deletes every row and re-seeds the default trainer.
package main

import (
	"fmt"

	"github.com/harperreed/coach/internal/storage"
	"github.com/spf13/cobra"
)

var resetConfirm bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all data and re-seed the default trainer",
	Long: `Delete every trainer, note, client, workout, session and goal in one
transaction, then create the default trainer again.

This is a DESTRUCTIVE operation and requires --yes.

  coach reset --yes`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetConfirm {
			return fmt.Errorf("refusing to delete all data without --yes")
		}

		before, err := store.Stats()
		if err != nil {
			return err
		}
		if err := store.ClearAllData(); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
		trainerID, err = storage.EnsureDefaultTrainer(store)
		if err != nil {
			return fmt.Errorf("failed to bootstrap: %w", err)
		}

		removed(cmd.OutOrStdout(), "Deleted %d rows", before.Total())
		success(cmd.OutOrStdout(), "Default trainer restored")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetConfirm, "yes", "y", false, "confirm deleting all data")
	rootCmd.AddCommand(resetCmd)
}
