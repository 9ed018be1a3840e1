// Package config loads the application configuration from a TOML
// file, with sane defaults when no file exists.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Errors returned by configuration operations.
var (
	ErrInvalidInterval = errors.New("autosave interval must be positive")
	ErrInvalidLimit    = errors.New("history limit must be positive")
	ErrMissingStorage  = errors.New("storage dir must be set")
	ErrInvalidLogLevel = errors.New("unknown log level")
)

// EnvStorageDir overrides the configured storage directory when set.
const EnvStorageDir = "INKWELL_STORAGE_DIR"

// Duration wraps time.Duration so TOML can carry values like "30s".
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText renders the duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the application configuration.
type Config struct {
	// StorageDir is the root of the blob store.
	StorageDir string `toml:"storage_dir"`

	// TemplatesDir optionally backs templates with a separate store
	// root. Empty means templates share StorageDir.
	TemplatesDir string `toml:"templates_dir"`

	// AutosaveInterval is the time between autosave ticks.
	AutosaveInterval Duration `toml:"autosave_interval"`

	// HistoryLimit bounds the undo stack.
	HistoryLimit int `toml:"history_limit"`

	// LogLevel is one of trace, debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		StorageDir:       home + "/.inkwell/storage",
		AutosaveInterval: Duration(30 * time.Second),
		HistoryLimit:     100,
		LogLevel:         "info",
	}
}

// Load reads configuration from path, layered over the defaults.
// A missing file is not an error; the defaults are returned. The
// INKWELL_STORAGE_DIR environment variable overrides the storage
// directory from any source.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Defaults stand.
	default:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if dir := os.Getenv(EnvStorageDir); dir != "" {
		cfg.StorageDir = dir
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for usable values.
func (c Config) Validate() error {
	if c.StorageDir == "" {
		return ErrMissingStorage
	}
	if c.AutosaveInterval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, c.AutosaveInterval.Std())
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLimit, c.HistoryLimit)
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
}
