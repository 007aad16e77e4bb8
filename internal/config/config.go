// Package config loads wt settings from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

const (
	DefaultDir      = "~/.wt"
	DefaultLogLevel = "info"
	DefaultTheme    = "classic"
	configFileName  = "config.yaml"
)

// ErrInvalid is wrapped by errors about malformed or out-of-range settings.
var ErrInvalid = errors.New("invalid config")

// Config holds all wt configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
	UI      UIConfig      `yaml:"ui"`
}

// StorageConfig selects the key-value backend.
type StorageConfig struct {
	Driver string `yaml:"driver"` // json, sqlite, memory
	Dir    string `yaml:"dir"`    // data directory for json files and the sqlite database
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // empty means <storage dir>/wt.log
}

type UIConfig struct {
	Theme         string `yaml:"theme"` // classic, neon, mono
	ConfirmDelete bool   `yaml:"confirm_delete"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{Driver: DriverJSON, Dir: DefaultDir},
		Logging: LoggingConfig{Level: DefaultLogLevel},
		UI:      UIConfig{Theme: DefaultTheme, ConfirmDelete: true},
	}
}

// DefaultPath is where Load looks when no path is given: $WT_CONFIG or
// ~/.wt/config.yaml.
func DefaultPath() string {
	if p := os.Getenv("WT_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(DefaultDir, configFileName)
}

// Load reads path over the defaults, then applies environment overrides.
// A missing file is not an error. Values are normalized but not validated:
// callers apply their own overrides (flags) and then call Finalize.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(ExpandHome(path))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: failed to parse %s: %w", ErrInvalid, path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()
	cfg.finalize()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	path = ExpandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("WT_STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("WT_DATA_DIR"); v != "" {
		c.Storage.Dir = v
	}
	if v := os.Getenv("WT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("WT_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv("WT_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// finalize normalizes case and fills derived defaults. Callers that change
// fields after Load (flags) call it again.
func (c *Config) finalize() {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.UI.Theme = strings.ToLower(strings.TrimSpace(c.UI.Theme))
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverJSON
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = DefaultDir
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.UI.Theme == "" {
		c.UI.Theme = DefaultTheme
	}
	c.Storage.Dir = ExpandHome(c.Storage.Dir)
	c.Logging.File = ExpandHome(c.Logging.File)
}

// Finalize is finalize followed by Validate.
func (c *Config) Finalize() error {
	c.finalize()
	return c.Validate()
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverJSON, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("%w: storage driver %q (want json, sqlite or memory)", ErrInvalid, c.Storage.Driver)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log level %q (want debug, info, warn or error)", ErrInvalid, c.Logging.Level)
	}
	switch c.UI.Theme {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("%w: theme %q (want classic, neon or mono)", ErrInvalid, c.UI.Theme)
	}
	return nil
}

// LogPath is the log file, defaulting to wt.log in the data directory.
func (c *Config) LogPath() string {
	if c.Logging.File != "" {
		return c.Logging.File
	}
	return filepath.Join(c.Storage.Dir, "wt.log")
}

// SQLitePath is the database file used by the sqlite driver.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.Storage.Dir, "wt.db")
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
