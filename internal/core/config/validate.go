package config

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/glamour/styles"
	"github.com/hay-kot/criterio"

	"github.com/mdsn/manifold/pkg/tmpl"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// glob syntax, the status template, and executables on PATH. The configPath
// argument specifies the config file location to validate (empty string skips
// config file check). This calls Validate() first for basic structural
// validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateGlobs(),
		criterio.Run("formatter.markdown_style", c.Formatter.MarkdownStyle, isMarkdownStyle),
		criterio.Run("tui.status_format", c.TUI.StatusFormat, isStatusTemplate),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Formatter.Width > 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Formatter",
			Item:     "width",
			Message:  fmt.Sprintf("documents are always formatted at %d columns and do not reflow on resize", c.Formatter.Width),
		})
	}

	if c.Formatter.ColPath == "" {
		warnings = append(warnings, ValidationWarning{
			Category: "Formatter",
			Item:     "col_path",
			Message:  "col is disabled, overstrikes are filtered in-process",
		})
	}

	if len(c.KeysFor(ActionQuit)) == 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Keybindings",
			Message:  "no key is bound to quit, use :quit",
		})
	}

	return warnings
}

// validateFileAccess checks the config file and the formatter executables.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("formatter.man_path", c.Formatter.ManPath, executableExists),
		criterio.Run("formatter.col_path", c.Formatter.ColPath, executableExists),
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

// executableExists validates that path resolves to an executable.
func executableExists(path string) error {
	if path == "" {
		return nil
	}
	if _, err := exec.LookPath(path); err != nil {
		return fmt.Errorf("executable not found: %s", path)
	}
	return nil
}

// validateGlobs checks routing patterns are valid doublestar globs.
func (c *Config) validateGlobs() error {
	var errs criterio.FieldErrorsBuilder
	for i, pattern := range c.Formatter.MarkdownGlobs {
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(fmt.Sprintf("formatter.markdown_globs[%d]", i), fmt.Errorf("invalid glob %q", pattern))
		}
	}
	for i, pattern := range c.Formatter.TextGlobs {
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(fmt.Sprintf("formatter.text_globs[%d]", i), fmt.Errorf("invalid glob %q", pattern))
		}
	}
	return errs.ToError()
}

func isMarkdownStyle(name string) error {
	if _, ok := styles.DefaultStyles[name]; !ok {
		return fmt.Errorf("unknown glamour style %q", name)
	}
	return nil
}

// isStatusTemplate checks the template parses and only references StatusData fields.
func isStatusTemplate(s string) error {
	t, err := tmpl.Compile(s)
	if err != nil {
		return err
	}
	_, err = t.Execute(StatusData{})
	return err
}
