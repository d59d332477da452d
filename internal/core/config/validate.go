package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/lector/internal/core/styles"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// theme names and file accessibility. The configPath argument specifies the
// config file location to validate (empty string skips config file check).
// This calls Validate() first for basic structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		criterio.Run("theme", c.Theme, themeExists),
		c.validateLimits(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Reader.SaveDelay > 0 && c.Reader.SaveDelay < c.Reader.Throttle {
		warnings = append(warnings, ValidationWarning{
			Category: "Reader",
			Item:     "save_delay",
			Message:  "save_delay is shorter than throttle; progress may be saved before it is computed",
		})
	}
	if c.DeepLink.Attempts > 100 {
		warnings = append(warnings, ValidationWarning{
			Category: "DeepLink",
			Item:     "attempts",
			Message:  fmt.Sprintf("%d attempts keeps failed jumps polling for %s", c.DeepLink.Attempts, c.DeepLink.Delay*time.Duration(c.DeepLink.Attempts)),
		})
	}

	return warnings
}

// validateFileAccess checks config file and data directory.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
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
	return nil
}

// validateLimits checks upper bounds and cross-field constraints.
func (c *Config) validateLimits() error {
	var errs criterio.FieldErrorsBuilder

	if c.Reader.WrapWidth > maxWrapWidth {
		errs = errs.Append("reader.wrap_width", fmt.Errorf("%d columns exceeds the maximum of %d", c.Reader.WrapWidth, maxWrapWidth))
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		errs = errs.Append("database.max_idle_conns", fmt.Errorf("cannot exceed max_open_conns (%d)", c.Database.MaxOpenConns))
	}

	return errs.ToError()
}

const maxWrapWidth = 1000

// themeExists validates a theme name against the built-in palettes.
func themeExists(name string) error {
	if _, ok := styles.GetPalette(name); ok {
		return nil
	}
	return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(styles.ThemeNames(), ", "))
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
