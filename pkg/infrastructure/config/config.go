// Package config loads CLI settings. Sources are applied in order, each
// overriding the last: built-in defaults, a YAML file, a .env file and
// the process environment. Command-line flags are applied by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/pantry/pkg/application/services/sorting"
	"github.com/vsinha/pantry/pkg/infrastructure/logger"
)

// Environment variables read by ApplyEnv
const (
	EnvDataDir       = "PANTRY_DATA_DIR"
	EnvFormat        = "PANTRY_FORMAT"
	EnvLogLevel      = "PANTRY_LOG_LEVEL"
	EnvColor         = "PANTRY_COLOR"
	EnvSortField     = "PANTRY_SORT_FIELD"
	EnvSortDirection = "PANTRY_SORT_DIRECTION"
)

// SortConfig is the default ordering of list views
type SortConfig struct {
	Field     string `yaml:"field"`
	Direction string `yaml:"direction"`
}

// Config holds settings shared by every pantry subcommand
type Config struct {
	DataDir  string     `yaml:"data_dir"`
	Format   string     `yaml:"format"`
	LogLevel string     `yaml:"log_level"`
	Color    bool       `yaml:"color"`
	Sort     SortConfig `yaml:"sort"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		DataDir:  ".",
		Format:   "text",
		LogLevel: "normal",
		Color:    true,
		Sort: SortConfig{
			Field:     "name",
			Direction: "asc",
		},
	}
}

// Load builds a config from defaults, the YAML file at path (skipped
// when empty), the .env file at envFile (skipped when missing) and the
// process environment
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path onto c. Keys absent from the
// file keep their current value.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays the PANTRY_* variables found by lookup
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	set(EnvDataDir, &c.DataDir)
	set(EnvFormat, &c.Format)
	set(EnvLogLevel, &c.LogLevel)
	set(EnvSortField, &c.Sort.Field)
	set(EnvSortDirection, &c.Sort.Direction)

	if v, ok := lookup(EnvColor); ok && strings.TrimSpace(v) != "" {
		color, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s: %s", EnvColor, v)
		}
		c.Color = color
	}
	return nil
}

// Validate checks every enumerated setting
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid format: %s (expected text or json)", c.Format)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.SortField(); err != nil {
		return err
	}
	if _, err := c.SortDirection(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel
func (c *Config) Level() (logger.Level, error) {
	return logger.ParseLevel(c.LogLevel)
}

// SortField parses Sort.Field
func (c *Config) SortField() (sorting.Field, error) {
	return sorting.ParseField(c.Sort.Field)
}

// SortDirection parses Sort.Direction
func (c *Config) SortDirection() (sorting.Direction, error) {
	return sorting.ParseDirection(c.Sort.Direction)
}
