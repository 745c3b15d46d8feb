// Package config handles configuration loading and validation for todo.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/brandonszeto/todo/internal/core/styles"
	"gopkg.in/yaml.v3"
)

// TokenLength is the length of a valid API token.
const TokenLength = 40

const (
	DefaultBaseURL = "https://api.todoist.com"
	DefaultTimeout = 10 * time.Second
)

// ErrUnknownProject is returned when a project name or pattern matches no configured project.
var ErrUnknownProject = errors.New("unknown project")

// Config holds the application configuration.
type Config struct {
	Token       string            `yaml:"token"`
	Timezone    string            `yaml:"timezone"`
	Color       *bool             `yaml:"color"`
	Theme       string            `yaml:"theme"`
	BaseURL     string            `yaml:"base_url"`
	Timeout     time.Duration     `yaml:"timeout"`
	Projects    map[string]string `yaml:"projects"`     // project name -> remote project id
	UpdateCheck *bool             `yaml:"update_check"` // nil = enabled
	DataDir     string            `yaml:"-"`            // set by caller, not from config file
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Theme:    styles.DefaultTheme,
		BaseURL:  DefaultBaseURL,
		Timeout:  DefaultTimeout,
		Projects: map[string]string{},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
// A TODO_TOKEN environment variable overrides the token from the file.
func Load(configPath, dataDir string) (*Config, error) {
	cfg, err := Read(configPath, dataDir)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Read is Load without validation. The config commands use it so a broken
// file can still be inspected and replaced.
func Read(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	if token := os.Getenv("TODO_TOKEN"); token != "" {
		cfg.Token = token
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if c.BaseURL == "" {
		c.BaseURL = defaults.BaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = defaults.Timeout
	}
	if c.Projects == nil {
		c.Projects = defaults.Projects
	}
}

// Save writes the configuration as YAML to path, creating parent directories.
// The file holds the API token, so it is only readable by the owner.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Location returns the configured timezone, or nil when none is set.
// Validate guarantees the name loads.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil
	}
	return loc
}

// ColorEnabled reports whether output should be colored. Defaults to true.
func (c *Config) ColorEnabled() bool {
	return c.Color == nil || *c.Color
}

// UpdateCheckEnabled reports whether the release check should run. Defaults to true.
func (c *Config) UpdateCheckEnabled() bool {
	return c.UpdateCheck == nil || *c.UpdateCheck
}

// ProjectID resolves a configured project by exact name, or else by the
// first name (in sorted order) matching pattern as a glob.
func (c *Config) ProjectID(pattern string) (string, error) {
	if id, ok := c.Projects[pattern]; ok {
		return id, nil
	}

	names := make([]string, 0, len(c.Projects))
	for name := range c.Projects {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		ok, err := doublestar.Match(pattern, name)
		if err != nil {
			return "", fmt.Errorf("project pattern %q: %w", pattern, err)
		}
		if ok {
			return c.Projects[name], nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownProject, pattern)
}

