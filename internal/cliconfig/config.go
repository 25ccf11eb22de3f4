// Package cliconfig loads the analyzer's optional TOML defaults file,
// layered under whatever flags the CLI was invoked with.
package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"

	"github.com/FTWinston/Stabalyzer/internal/apperr"
)

// ConfigError wraps any failure to resolve Analyze's settings, whether
// from a malformed config file or an invalid flag value, so the CLI can
// treat every such failure as one Kind rather than matching its message.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string     { return e.Err.Error() }
func (e *ConfigError) Unwrap() error     { return e.Err }
func (e *ConfigError) Kind() apperr.Kind { return apperr.KindConfig }

// NewConfigError wraps err as a *ConfigError, satisfying apperr.StabalyzerError.
func NewConfigError(err error) *ConfigError { return &ConfigError{Err: err} }

// Config holds every Analyze setting, independent of how it was sourced
// (defaults, config file, or flag).
type Config struct {
	URL         string   `toml:"url"`
	Coalition   string   `toml:"coalition"`
	Priorities  []string `toml:"priorities"`
	OptimizeFor string   `toml:"optimize_for"`
	MaxDepth    int      `toml:"max_depth"`
	SearchTime  int      `toml:"search_time_seconds"`
	Threads     int      `toml:"threads"`
	Seed        int64    `toml:"seed"`
	Verbose     bool     `toml:"verbose"`
}

// DefaultConfig returns the baseline every run starts from, before any
// config file or flag is applied.
func DefaultConfig() Config {
	return Config{
		SearchTime: 60,
		Threads:    runtime.NumCPU(),
	}
}

// Load reads path (or analyzerHome()/config.toml when path is empty)
// over DefaultConfig if present, returning the defaults unchanged when
// no file exists.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = filepath.Join(analyzerHome(), "config.toml")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, NewConfigError(fmt.Errorf("parse config %s: %w", path, err))
	}
	return cfg, nil
}

// analyzerHome returns the directory an optional config.toml lives in.
func analyzerHome() string {
	if env := os.Getenv("STABALYZER_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".stabalyzer")
}
