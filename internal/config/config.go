// Package config loads the CLI configuration from a YAML file. All
// settings have working defaults; a missing config file is not an error.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds the tool settings.
type Config struct {
	LogLevel string `yaml:"log_level"` // debug, info, warn, error
	SeqURL   string `yaml:"seq_url"`   // empty disables the Seq log sink
	DataDir  string `yaml:"data_dir"`  // where demo databases are written
	Workers  int    `yaml:"workers"`   // worker count for parallel persistence
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		LogLevel: "info",
		DataDir:  "data",
		Workers:  runtime.NumCPU(),
	}
}

// Load reads path and overlays it onto the defaults. A missing file
// yields the defaults; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg, nil
}

// Level maps the configured log level name onto a slog level, defaulting
// to info for unknown names.
func (c Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
