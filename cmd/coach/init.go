// ABOUTME: CLI commands for first-run setup and the trainer profile.
// ABOUTME: init reports the database location; trainer show prints the profile.
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database and default trainer",
	Long: `Create the coach database if needed, apply the schema and make sure the
default trainer exists. Safe to run more than once.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := store.SchemaVersion()
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}

		out := cmd.OutOrStdout()
		success(out, "Database ready")
		detail(out, "Path", store.Path())
		detail(out, "Schema", strconv.FormatUint(uint64(version), 10))
		detail(out, "Trainer", trainerID)
		return nil
	},
}

var trainerCmd = &cobra.Command{
	Use:   "trainer",
	Short: "Show the trainer profile",
}

var trainerShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the trainer profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := store.Users.Get(trainerID)
		if err != nil {
			return fmt.Errorf("failed to get trainer: %w", err)
		}
		if u == nil {
			return fmt.Errorf("trainer not found: %s", trainerID)
		}

		out := cmd.OutOrStdout()
		bold.Fprintln(out, u.Name)
		detail(out, "ID", u.ID)
		detail(out, "Email", deref(u.Email))
		detail(out, "Certification", deref(u.Certification))
		detail(out, "Specialties", joinOrDash(u.Specialties))
		if u.Experience != nil {
			detail(out, "Experience", fmt.Sprintf("%d years", *u.Experience))
		}
		detail(out, "Philosophy", deref(u.Philosophy))
		detail(out, "Bio", deref(u.Bio))
		return nil
	},
}

func init() {
	trainerCmd.AddCommand(trainerShowCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(trainerCmd)
}
