// ABOUTME: Root Cobra command for the coach CLI.
// ABOUTME: Opens config, logging and the store in PersistentPreRunE and closes them afterwards.
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/harperreed/coach/internal/config"
	"github.com/harperreed/coach/internal/logging"
	"github.com/harperreed/coach/internal/storage"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var (
	dbPath     string
	configPath string

	cfg       *config.Config
	logger    = zerolog.Nop()
	logCloser io.Closer
	store     *storage.Store
	trainerID string
)

var rootCmd = &cobra.Command{
	Use:   "coach",
	Short: "Local data store for a fitness-coaching assistant",
	Long: `Coach keeps a trainer's notes, clients, workouts, sessions and goals in a
local SQLite database.

QUICK START:

  $ coach init                                   # Create the database and default trainer
  $ coach trainer show                           # Show the trainer profile
  $ coach note add "Hinge first" -c "Teach the hip hinge" --category technique
  $ coach client add "Ana Silva" --email ana@example.com
  $ coach workout add "Lower A" --type strength --client <id>

DATA:

  $ coach export json -o backup.json   # Snapshot every row
  $ coach import backup.json           # Replace the store with a snapshot
  $ coach migrate --from old.db        # Copy another coach database in
  $ coach reset --yes                  # Clear all data and re-seed

SYNC:

  $ coach sync push     # Mirror the store to Charm Cloud
  $ coach sync pull     # Replace the store with the cloud mirror

MCP INTEGRATION:

  Run 'coach mcp' to start the Model Context Protocol server:

  {
    "mcpServers": {
      "coach": { "command": "coach", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  The database lives at ~/.local/share/coach/coach.db unless --db or
  data_dir in ~/.config/coach/config.toml says otherwise.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" || strings.HasPrefix(cmd.Name(), "__complete") {
			return nil
		}
		return openStore()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return shutdown()
	},
}

// Execute runs the root command and releases the store even when a
// command fails.
func Execute() error {
	err := rootCmd.Execute()
	return multierr.Append(err, shutdown())
}

func openStore() error {
	if err := shutdown(); err != nil {
		return err
	}

	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, logCloser, err = logging.New(logging.Options{
		Level:      cfg.GetLogLevel(),
		Format:     cfg.GetLogFormat(),
		File:       cfg.GetLogFile(),
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	path := cfg.DBPath()
	if dbPath != "" {
		path = config.ExpandPath(dbPath)
	}

	s := storage.New(path, storage.WithLogger(logging.Component(logger, "storage")))
	if err := s.Initialize(); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	store = s

	trainerID, err = storage.EnsureDefaultTrainer(store)
	if err != nil {
		return fmt.Errorf("failed to bootstrap: %w", err)
	}
	return nil
}

// shutdown closes the store and the log file. Safe to call repeatedly.
func shutdown() error {
	var err error
	if store != nil {
		err = multierr.Append(err, store.Close())
		store = nil
	}
	if logCloser != nil {
		err = multierr.Append(err, logCloser.Close())
		logCloser = nil
	}
	logger = zerolog.Nop()
	trainerID = ""
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: $XDG_DATA_HOME/coach/coach.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/coach/config.toml)")
}
