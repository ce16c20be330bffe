package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/mdsn/manifold/internal/core/config"
	"github.com/mdsn/manifold/internal/core/styles"
	"github.com/mdsn/manifold/pkg/iojson"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "manifold config validate [options]",
				Description: "Validates the configuration file, checking executables, glob patterns, the markdown style and the status template.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.run,
			},
		},
	})

	return app
}

// validationError is one failed check.
type validationError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type validationResult struct {
	Valid    bool                       `json:"valid"`
	Errors   []validationError          `json:"errors,omitempty"`
	Warnings []config.ValidationWarning `json:"warnings,omitempty"`
}

func (cmd *ConfigValidateCmd) run(_ context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	result := validationResult{
		Errors:   collectErrors(cfg.ValidateDeep(cmd.flags.ConfigPath)),
		Warnings: cfg.Warnings(),
	}
	result.Valid = len(result.Errors) == 0

	out := c.Root().Writer
	if cmd.format == "json" {
		if err := iojson.Write(out, result); err != nil {
			return err
		}
	} else {
		writeResult(out, result)
	}

	if !result.Valid {
		return cli.Exit("", 1)
	}
	return nil
}

func collectErrors(err error) []validationError {
	if err == nil {
		return nil
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return []validationError{{Message: err.Error()}}
	}

	out := make([]validationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, validationError{Field: fe.Field, Message: fe.Err.Error()})
	}
	return out
}

func writeResult(w io.Writer, r validationResult) {
	for _, warn := range r.Warnings {
		_, _ = fmt.Fprintln(w, styles.WarningStyle.Render("warning")+"  "+warn.Category+": "+warn.Message)
		if warn.Item != "" {
			_, _ = fmt.Fprintf(w, "  Item: %s\n", warn.Item)
		}
	}

	for _, e := range r.Errors {
		if e.Field != "" {
			_, _ = fmt.Fprintln(w, styles.ErrorStyle.Render("error")+"    "+e.Field+": "+e.Message)
			continue
		}
		_, _ = fmt.Fprintln(w, styles.ErrorStyle.Render("error")+"    "+e.Message)
	}

	_, _ = fmt.Fprintln(w)
	if r.Valid {
		_, _ = fmt.Fprintln(w, styles.SuccessStyle.Render("Configuration is valid"))
		return
	}
	_, _ = fmt.Fprintln(w, styles.ErrorStyle.Render(fmt.Sprintf("%d error(s) found", len(r.Errors))))
}
