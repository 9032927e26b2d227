// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio-based MCP server over the coach store.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/harperreed/coach/internal/logging"
	"github.com/harperreed/coach/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout and acts for the default trainer.
Logs go to stderr or the configured log file, never stdout.

CONFIGURATION:

  {
    "mcpServers": {
      "coach": {
        "command": "coach",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  get_trainer        Trainer profile
  add_note           Save a coaching note
  list_notes         List notes, optionally by category
  update_note        Change fields of a note
  delete_note        Delete a note
  add_client         Add a client
  list_clients       List clients
  add_workout        Create a workout or template
  list_workouts      List workouts for the trainer, a client, or templates
  schedule_session   Schedule a session for a client
  list_sessions      List a client's sessions

AVAILABLE RESOURCES:

  coach://summary    Trainer, row counts, recent notes and workouts
  coach://notes      Notes grouped by category`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(store, trainerID, logging.Component(logger, "mcp"))
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
