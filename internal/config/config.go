// Package config handles reading and writing the maint configuration file
// (~/.maint/config.toml).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Environment variables that override file locations.
const (
	EnvConfig = "MAINT_CONFIG"
	EnvDB     = "MAINT_DB"
)

// Config holds maint configuration settings.
type Config struct {
	DBPath        string `toml:"db_path,omitempty" json:"db_path,omitempty" yaml:"db_path,omitempty"`
	DefaultFormat string `toml:"default_format,omitempty" json:"default_format,omitempty" yaml:"default_format,omitempty"`
	Editor        string `toml:"editor,omitempty" json:"editor,omitempty" yaml:"editor,omitempty"`
	DefaultWorker string `toml:"default_worker,omitempty" json:"default_worker,omitempty" yaml:"default_worker,omitempty"`
	ForeignKeys   bool   `toml:"foreign_keys,omitempty" json:"foreign_keys,omitempty" yaml:"foreign_keys,omitempty"`
}

// validKeys lists the allowed configuration keys.
var validKeys = map[string]bool{
	"db_path":        true,
	"default_format": true,
	"editor":         true,
	"default_worker": true,
	"foreign_keys":   true,
}

// ValidKeys returns the sorted list of valid configuration keys.
func ValidKeys() []string {
	return []string{"db_path", "default_format", "default_worker", "editor", "foreign_keys"}
}

// Path returns the config file path: $MAINT_CONFIG if set, otherwise
// ~/.maint/config.toml.
func Path() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".maint", "config.toml")
	}
	return filepath.Join(home, ".maint", "config.toml")
}

// DefaultDBPath returns ~/.maint.db, falling back to the working directory
// when the home directory is unknown.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".maint.db"
	}
	return filepath.Join(home, ".maint.db")
}

// ResolveDBPath picks the database location. An explicit flag wins, then
// $MAINT_DB, then db_path from the config, then DefaultDBPath.
func ResolveDBPath(flag string, cfg *Config) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvDB); env != "" {
		return env
	}
	if cfg != nil && cfg.DBPath != "" {
		return cfg.DBPath
	}
	return DefaultDBPath()
}

// LoadFrom reads the config from a specific path. Returns an empty Config if
// the file does not exist.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// SaveTo writes the config to a specific path, creating parent directories as needed.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Get returns the string value of a configuration key.
func (c *Config) Get(key string) (string, error) {
	if !validKeys[key] {
		return "", fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(ValidKeys(), ", "))
	}
	switch key {
	case "db_path":
		return c.DBPath, nil
	case "default_format":
		return c.DefaultFormat, nil
	case "editor":
		return c.Editor, nil
	case "default_worker":
		return c.DefaultWorker, nil
	case "foreign_keys":
		if !c.ForeignKeys {
			return "", nil
		}
		return "true", nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// Set assigns a value to a configuration key.
func (c *Config) Set(key, value string) error {
	if !validKeys[key] {
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(ValidKeys(), ", "))
	}
	switch key {
	case "db_path":
		c.DBPath = value
	case "default_format":
		if value != "" && value != "table" && value != "json" && value != "yaml" {
			return fmt.Errorf("default_format must be \"table\", \"json\" or \"yaml\", got %q", value)
		}
		c.DefaultFormat = value
	case "editor":
		c.Editor = value
	case "default_worker":
		c.DefaultWorker = strings.TrimSpace(value)
	case "foreign_keys":
		if value == "" {
			c.ForeignKeys = false
			return nil
		}
		on, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("foreign_keys must be true or false, got %q", value)
		}
		c.ForeignKeys = on
	}
	return nil
}
