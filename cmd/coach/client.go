// ABOUTME: CLI commands for the trainer's clients.
// ABOUTME: Supports add, list, and delete.
package main

import (
	"fmt"

	"github.com/harperreed/coach/internal/models"
	"github.com/spf13/cobra"
)

var (
	clientEmail        string
	clientPhone        string
	clientRestrictions []string
)

var clientCmd = &cobra.Command{
	Use:     "client",
	Aliases: []string{"clients", "c"},
	Short:   "Manage clients",
	Long: `Manage the trainer's clients.

Deleting a client also deletes their sessions and goals. Workouts assigned
to the client are kept and become unassigned.

EXAMPLES:

  coach client add "Ana Silva" --email ana@example.com --restrictions "left knee"
  coach client list
  coach client delete <id>`,
}

var clientAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := models.NewClient(trainerID, args[0]).WithRestrictions(clientRestrictions...)
		if clientEmail != "" {
			c.WithEmail(clientEmail)
		}
		if clientPhone != "" {
			c.WithPhone(clientPhone)
		}

		id, err := store.Clients.Create(c)
		if err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}

		out := cmd.OutOrStdout()
		success(out, "Added client %s", c.Name)
		fmt.Fprintf(out, "  %s\n", faint.Sprint(id))
		return nil
	},
}

var clientListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List clients by name",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		clients, err := store.Clients.List(trainerID)
		if err != nil {
			return fmt.Errorf("failed to list clients: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(clients) == 0 {
			fmt.Fprintln(out, "No clients found.")
			return nil
		}

		for _, c := range clients {
			fmt.Fprintf(out, "%s %s %s\n",
				faint.Sprint(c.ID),
				padRight(truncate(c.Name, 24), 24),
				faint.Sprint(deref(c.Email)))
		}
		return nil
	},
}

var clientDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a client with their sessions and goals",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		c, err := store.Clients.Get(id)
		if err != nil {
			return fmt.Errorf("failed to get client: %w", err)
		}
		if c == nil {
			return fmt.Errorf("client not found: %s", id)
		}

		if err := store.Clients.Delete(id); err != nil {
			return fmt.Errorf("failed to delete client: %w", err)
		}

		removed(cmd.OutOrStdout(), "Deleted client %s", c.Name)
		return nil
	},
}

func init() {
	clientAddCmd.Flags().StringVar(&clientEmail, "email", "", "contact email")
	clientAddCmd.Flags().StringVar(&clientPhone, "phone", "", "contact phone")
	clientAddCmd.Flags().StringSliceVar(&clientRestrictions, "restrictions", nil, "injuries or limitations")

	clientCmd.AddCommand(clientAddCmd)
	clientCmd.AddCommand(clientListCmd)
	clientCmd.AddCommand(clientDeleteCmd)
	rootCmd.AddCommand(clientCmd)
}
