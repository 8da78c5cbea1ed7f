package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment override, e.g. TASKBLASTER_ADDR.
const EnvPrefix = "TASKBLASTER_"

// Load reads and merges configuration from global and project paths, then
// applies environment overrides.
// Order of precedence (highest to lowest): environment, project config,
// global config, defaults.
// Missing files are not errors; malformed JSON returns an error.
func Load(globalPath, projectPath string) (*Config, error) {
	cfg := DefaultConfig()

	if globalPath != "" {
		if err := mergeConfigFile(cfg, globalPath); err != nil {
			return nil, fmt.Errorf("loading global config: %w", err)
		}
	}

	// Project config has the highest file precedence
	if projectPath != "" {
		if err := mergeConfigFile(cfg, projectPath); err != nil {
			return nil, fmt.Errorf("loading project config: %w", err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPaths returns the conventional config locations.
// Global: ~/.taskblaster/config.json
// Project: .taskblaster/config.json (relative to cwd)
func DefaultPaths() (global, project string, err error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".taskblaster", "config.json"), filepath.Join(".taskblaster", "config.json"), nil
}

// LoadDefault loads configuration from the conventional paths.
func LoadDefault() (*Config, error) {
	global, project, err := DefaultPaths()
	if err != nil {
		return nil, err
	}
	return Load(global, project)
}

// mergeConfigFile overlays a JSON config file onto base. Keys absent from
// the file keep their current value; token maps merge per token.
func mergeConfigFile(base *Config, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil // Missing file is not an error
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if err := json.Unmarshal(data, base); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// SlogLevel parses the configured level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
