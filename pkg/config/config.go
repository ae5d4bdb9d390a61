// Package config loads the application configuration file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/germanamz/tweak/pkg/tweak"
)

// Config is the top-level application configuration.
type Config struct {
	DataDir     string    `yaml:"-"` // Set by CLI, not from YAML.
	ModulesDir  string    `yaml:"modules_dir"`
	Disabled    []string  `yaml:"disabled"`
	Log         LogConfig `yaml:"log"`
	StartModule string    `yaml:"start_module"`
	ReportURL   string    `yaml:"report_url"`
	DryRun      bool      `yaml:"dry_run"`
}

// LogConfig controls the log file written under the data directory.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn or error (default info).
	Format string `yaml:"format"` // text or json (default text).
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Log:       LogConfig{Level: "info", Format: "text"},
		ReportURL: tweak.DefaultReportURL,
	}
}

// Load reads a YAML file over the defaults.
// Environment variables referenced as ${VAR} or $VAR in the YAML are expanded
// before parsing, so paths such as ${HOME}/tweaks work.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Config{}, fmt.Errorf("config: load: %w", err)
	}

	return Parse(data)
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Parse parses YAML over the defaults after expanding environment variables.
func Parse(data []byte) (Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: log format %q: must be text or json", c.Log.Format)
	}

	seen := make(map[string]struct{}, len(c.Disabled))
	for _, name := range c.Disabled {
		if name == "" {
			return fmt.Errorf("config: disabled: empty module name")
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("config: disabled: duplicate module name %q", name)
		}
		seen[name] = struct{}{}
	}

	if c.StartModule != "" {
		if _, off := seen[c.StartModule]; off {
			return fmt.Errorf("config: start_module %q is disabled", c.StartModule)
		}
	}

	return nil
}

// SlogLevel converts the configured level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("config: log level %q: must be debug, info, warn or error", l.Level)
}
