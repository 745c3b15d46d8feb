package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/brandonszeto/todo/internal/core/styles"
	"github.com/hay-kot/criterio"
	"gopkg.in/yaml.v3"
)

// ErrMissingToken is returned by RequireToken when no API token is configured.
var ErrMissingToken = errors.New("no API token configured; run 'todo config init' or set TODO_TOKEN")

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// Validate checks that the configuration is structurally valid. An empty
// token is allowed here; commands that talk to the API call RequireToken.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if c.Token != "" {
		if err := ValidateToken(c.Token); err != nil {
			errs = errs.Append("token", err)
		}
	}

	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			errs = errs.Append("timezone", fmt.Errorf("unknown timezone %q", c.Timezone))
		}
	}

	if _, ok := styles.GetPalette(c.Theme); !ok {
		errs = errs.Append("theme", fmt.Errorf("unknown theme %q (available: %v)", c.Theme, styles.ThemeNames()))
	}

	if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = errs.Append("base_url", fmt.Errorf("must be an absolute URL, got %q", c.BaseURL))
	}

	if c.Timeout < 0 {
		errs = errs.Append("timeout", fmt.Errorf("cannot be negative"))
	}

	if c.DataDir == "" {
		errs = errs.Append("data_dir", fmt.Errorf("cannot be empty"))
	}

	for name, id := range c.Projects {
		if id == "" {
			errs = errs.Append(fmt.Sprintf("projects[%q]", name), fmt.Errorf("id cannot be empty"))
		}
	}

	return errs.ToError()
}

// ValidateDeep performs Validate plus checks that touch the filesystem. The
// configPath argument specifies the config file location to validate (empty
// string skips the config file check).
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		c.validateProjectNames(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Token == "" {
		warnings = append(warnings, ValidationWarning{
			Category: "Token",
			Message:  "no API token configured",
		})
	}

	if c.Timezone == "" {
		warnings = append(warnings, ValidationWarning{
			Category: "Timezone",
			Message:  "no timezone configured; dates without their own timezone are read as UTC",
		})
	}

	return warnings
}

// RequireToken returns ErrMissingToken when the token is empty.
func (c *Config) RequireToken() error {
	if c.Token == "" {
		return ErrMissingToken
	}
	return nil
}

// ValidateToken checks the shape of an API token.
func ValidateToken(token string) error {
	if len(token) != TokenLength {
		return fmt.Errorf("invalid length: %d (must be %d)", len(token), TokenLength)
	}
	return nil
}

// validateProjectNames rejects project names that would be read as malformed
// glob patterns when passed back through --project.
func (c *Config) validateProjectNames() error {
	var errs criterio.FieldErrorsBuilder
	for name := range c.Projects {
		if !doublestar.ValidatePattern(name) {
			errs = errs.Append(fmt.Sprintf("projects[%q]", name), fmt.Errorf("name is not a valid pattern"))
		}
	}
	return errs.ToError()
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot read: %w", err))
	}
	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("invalid YAML: %w", err))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
