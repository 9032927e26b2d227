// ABOUTME: Coach configuration loaded from a TOML file under XDG_CONFIG_HOME.
// ABOUTME: Handles data directory, logging settings, defaults and validation.

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/harperreed/coach/internal/storage"
)

// Config stores coach tool configuration.
type Config struct {
	// DataDir is where coach.db lives. Supports ~ expansion.
	// Defaults to ~/.local/share/coach.
	DataDir string `toml:"data_dir,omitempty"`

	// LogLevel is one of trace, debug, info, warn, error. Defaults to warn.
	LogLevel string `toml:"log_level,omitempty" validate:"omitempty,oneof=trace debug info warn error"`

	// LogFormat is console or json. Defaults to console.
	LogFormat string `toml:"log_format,omitempty" validate:"omitempty,oneof=console json"`

	// LogFile sends logs to a rotating file instead of stderr.
	LogFile string `toml:"log_file,omitempty"`

	// LogMaxSizeMB is the size at which the log file rotates.
	LogMaxSizeMB int `toml:"log_max_size_mb,omitempty" validate:"gte=0"`

	// LogMaxBackups is how many rotated files are kept.
	LogMaxBackups int `toml:"log_max_backups,omitempty" validate:"gte=0"`
}

var validate = validator.New()

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// DBPath returns the database path inside the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.GetDataDir(), "coach.db")
}

// GetLogLevel returns the configured level, defaulting to "warn".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "warn"
	}
	return c.LogLevel
}

// GetLogFormat returns the configured format, defaulting to "console".
func (c *Config) GetLogFormat() string {
	if c.LogFormat == "" {
		return "console"
	}
	return c.LogFormat
}

// GetLogFile returns the log file path with ~ expanded, or "" for stderr.
func (c *Config) GetLogFile() string {
	return ExpandPath(c.LogFile)
}

// Validate checks field values against their allowed sets.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "coach", "config.toml")
}

// Load reads config from the default path. A missing file yields defaults.
func Load() (*Config, error) {
	return LoadFile(GetConfigPath())
}

// LoadFile reads and validates config from path.
func LoadFile(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to the default path.
func (c *Config) Save() error {
	return c.SaveFile(GetConfigPath())
}

// SaveFile writes config to path.
func (c *Config) SaveFile(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0600)
}
