package config

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/plandiff/internal/core/styles"
	"github.com/hay-kot/plandiff/pkg/tmpl"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration
// including file accessibility, the git executable and the theme name. The
// configPath argument specifies the config file location to validate (empty
// string skips config file check). This calls Validate() first for basic
// structural validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		criterio.Run("render.theme", c.Render.Theme, themeExists),
		c.validateCopyCommand(),
		criterio.Run("review.prompt_header", c.Review.PromptHeader, tmpl.Validate),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Review.PromptHeader != "" && strings.Contains(c.Review.PromptHeader, "\n") {
		warnings = append(warnings, ValidationWarning{
			Category: "Review",
			Item:     "prompt_header",
			Message:  "prompt header spans multiple lines",
		})
	}

	if c.ContextLines() > 50 {
		warnings = append(warnings, ValidationWarning{
			Category: "Diff",
			Item:     "context_lines",
			Message:  fmt.Sprintf("%d context lines will show most of the document", c.ContextLines()),
		})
	}

	return warnings
}

// validateFileAccess checks config file, data directory, and git executable.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("git_path", c.GitPath, executableExists),
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

// validateCopyCommand checks that the program of the copy command exists.
func (c *Config) validateCopyCommand() error {
	fields := strings.Fields(c.Review.CopyCommand)
	if len(fields) == 0 {
		return nil
	}

	var errs criterio.FieldErrorsBuilder
	if err := executableExists(fields[0]); err != nil {
		errs = errs.Append("review.copy_command", err)
	}
	return errs.ToError()
}

// executableExists validates that path is an executable on PATH or on disk.
func executableExists(path string) error {
	if path == "" {
		return nil
	}
	if _, err := exec.LookPath(path); err != nil {
		return fmt.Errorf("executable not found: %s", path)
	}
	return nil
}

// themeExists validates that name is a built-in theme.
func themeExists(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(styles.ThemeNames(), ", "))
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
