// ABOUTME: CLI commands for mirroring the store to Charm Cloud.
// ABOUTME: Supports push, pull, status, and reset operations.
package main

import (
	"fmt"

	"github.com/harperreed/coach/internal/charm"
	"github.com/harperreed/coach/internal/logging"
	"github.com/harperreed/coach/internal/storage"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var syncResetConfirm bool

// openMirror opens the Charm KV mirror. Tests replace it with an in-memory KV.
var openMirror = func(log zerolog.Logger) (*charm.Client, error) {
	return charm.Open(log)
}

// accountID looks up the linked Charm account.
var accountID = func(c *charm.Client) (string, error) {
	return c.ID()
}

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Mirror coach data to Charm Cloud",
	Long: `Mirror coach data to Charm Cloud.

The SQLite database stays the source of truth. 'push' writes a snapshot of
every row to the Charm KV store, one key per row, and syncs it. 'pull'
fetches the mirror and replaces the local database with it.

Your data is E2E encrypted with your SSH key before upload.

COMMANDS:

  push     Write the local store to the mirror
  pull     Replace the local store with the mirror
  status   Show what the mirror holds
  reset    Rebuild the local mirror cache from the cloud (destructive)`,
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Write the local store to the mirror",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMirror(func(m *charm.Client) error {
			snap, err := store.Snapshot()
			if err != nil {
				return err
			}
			counts, err := m.Push(snap)
			if err != nil {
				return fmt.Errorf("push failed: %w", err)
			}

			out := cmd.OutOrStdout()
			success(out, "Pushed %d rows", counts.Total())
			printCounts(out, counts)
			return nil
		})
	},
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Replace the local store with the mirror",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMirror(func(m *charm.Client) error {
			snap, err := m.Pull()
			if err != nil {
				return fmt.Errorf("pull failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if snap.Counts().Total() == 0 {
				fmt.Fprintln(out, "Mirror is empty; nothing to pull.")
				return nil
			}

			if err := store.Restore(snap); err != nil {
				return fmt.Errorf("pull failed: %w", err)
			}
			trainerID, err = storage.EnsureDefaultTrainer(store)
			if err != nil {
				return fmt.Errorf("failed to bootstrap: %w", err)
			}

			success(out, "Pulled %d rows", snap.Counts().Total())
			printCounts(out, snap.Counts())
			return nil
		})
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what the mirror holds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMirror(func(m *charm.Client) error {
			out := cmd.OutOrStdout()

			if id, err := accountID(m); err != nil {
				yellow.Fprintln(out, "Not linked to Charm")
			} else {
				fmt.Fprintln(out, "Charm ID:", id)
			}

			st, err := m.Status()
			if err != nil {
				return fmt.Errorf("status failed: %w", err)
			}

			heading.Fprintln(out, "Mirror")
			if st.LastPushed != "" {
				detail(out, "Last push", st.LastPushed)
			} else {
				detail(out, "Last push", "never")
			}
			if st.ReadOnly {
				yellow.Fprintln(out, "  Read-only: another process holds the lock")
			}
			printCounts(out, st.Counts)

			local, err := store.Stats()
			if err != nil {
				return err
			}
			heading.Fprintln(out, "Local")
			printCounts(out, local)
			return nil
		})
	},
}

var syncResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Rebuild the local mirror cache from the cloud",
	Long: `Delete the local Charm KV cache and restore it from Charm Cloud.

The SQLite database is not touched. Run 'coach sync pull' afterwards to
load the restored mirror. Requires --yes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !syncResetConfirm {
			return fmt.Errorf("refusing to reset the mirror without --yes")
		}
		return withMirror(func(m *charm.Client) error {
			if err := m.Reset(); err != nil {
				return fmt.Errorf("reset failed: %w", err)
			}
			success(cmd.OutOrStdout(), "Mirror cache reset from cloud")
			return nil
		})
	},
}

func withMirror(fn func(m *charm.Client) error) (err error) {
	m, err := openMirror(logging.Component(logger, "charm"))
	if err != nil {
		return fmt.Errorf("failed to open charm mirror: %w", err)
	}
	defer func() {
		err = multierr.Append(err, m.Close())
	}()
	return fn(m)
}

func init() {
	syncResetCmd.Flags().BoolVarP(&syncResetConfirm, "yes", "y", false, "confirm the reset")

	syncCmd.AddCommand(syncPushCmd)
	syncCmd.AddCommand(syncPullCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncResetCmd)
	rootCmd.AddCommand(syncCmd)
}
