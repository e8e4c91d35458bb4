// Package config handles XDG configuration directory and file paths.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "taskdeck"

	// SettingsFile is the optional YAML settings filename.
	SettingsFile = "config.yaml"

	// SessionUserFile holds the persisted principal entry.
	SessionUserFile = "session_user.json"

	// SessionFlagFile holds the persisted authenticated flag entry.
	SessionFlagFile = "session_authenticated"

	// DefaultGatewayURL is the gateway address used when neither the
	// settings file nor the --gateway flag names one.
	DefaultGatewayURL = "http://localhost:3000"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// GatewayURL is the Remote Data Gateway base URL.
	GatewayURL string

	// Timeout is the per-call gateway timeout; zero means the client
	// default.
	Timeout time.Duration

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// settings is the on-disk shape of config.yaml.
type settings struct {
	GatewayURL string        `yaml:"gateway_url"`
	Timeout    time.Duration `yaml:"timeout"`
}

// New creates a Config rooted at configDir, reading config.yaml if one
// exists there. If configDir is empty, uses XDG_CONFIG_HOME/taskdeck or
// $HOME/.config/taskdeck.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir, GatewayURL: DefaultGatewayURL}

	data, err := os.ReadFile(cfg.SettingsPath())
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", SettingsFile, err)
	}

	var s settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", SettingsFile, err)
	}
	if s.GatewayURL != "" {
		cfg.GatewayURL = s.GatewayURL
	}
	if s.Timeout > 0 {
		cfg.Timeout = s.Timeout
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SettingsPath returns the path to the YAML settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// SessionUserPath returns the path of the persisted principal entry.
func (c *Config) SessionUserPath() string {
	return filepath.Join(c.Dir, SessionUserFile)
}

// SessionFlagPath returns the path of the persisted authenticated flag.
func (c *Config) SessionFlagPath() string {
	return filepath.Join(c.Dir, SessionFlagFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}
