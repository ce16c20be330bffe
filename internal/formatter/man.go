// Package formatter implements the document formatters: the system manual
// pipeline, markdown and plain text files, and the router choosing between
// them.
package formatter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mdsn/manifold/internal/core/config"
	"github.com/mdsn/manifold/internal/core/document"
	"github.com/mdsn/manifold/pkg/executil"
)

// man exits with 16 when no page matches.
const manNotFoundExit = 16

// Man renders manual pages through "MANWIDTH=<w> MANPAGER=cat man [section]
// name", optionally filtered through "col -bx".
type Man struct {
	exec    executil.Executor
	manPath string
	colPath string
	width   int
	log     zerolog.Logger
}

// NewMan creates a manual page formatter from the formatter config.
func NewMan(exec executil.Executor, cfg config.FormatterConfig, logger zerolog.Logger) *Man {
	return &Man{
		exec:    exec,
		manPath: cfg.ManPath,
		colPath: cfg.ColPath,
		width:   cfg.Width,
		log:     logger,
	}
}

// Render formats id at width, or at the configured fixed width.
func (m *Man) Render(ctx context.Context, id document.Identity, width int) (document.Rendered, error) {
	if m.width > 0 {
		width = m.width
	}
	width = max(width, 1)

	args := make([]string, 0, 2)
	if id.Section != "" {
		args = append(args, id.Section)
	}
	args = append(args, id.Name)

	out, err := m.exec.Output(ctx, executil.Cmd{
		Name: m.manPath,
		Args: args,
		Env:  []string{"MANWIDTH=" + strconv.Itoa(width), "MANPAGER=cat"},
	})
	if err != nil {
		return document.Rendered{}, m.manError(ctx, id, err)
	}

	if m.colPath != "" {
		out, err = m.exec.Output(ctx, executil.Cmd{
			Name:  m.colPath,
			Args:  []string{"-bx"},
			Stdin: bytes.NewReader(out),
		})
		if err != nil {
			if ctx.Err() != nil {
				return document.Rendered{}, ctx.Err()
			}
			return document.Rendered{}, fmt.Errorf("%w: %s: %w", document.ErrRenderFailed, m.colPath, err)
		}
	}

	lines, err := Sanitize(out)
	if err != nil {
		return document.Rendered{}, fmt.Errorf("man %s: %w", id, err)
	}

	m.log.Debug().Str("doc", id.String()).Int("width", width).Int("lines", len(lines)).Msg("man rendered")
	return document.Rendered{Lines: lines, Anchors: ExtractAnchors(lines, ManHeading)}, nil
}

func (m *Man) manError(ctx context.Context, id document.Identity, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	msg := err.Error()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if i := strings.LastIndex(msg, ": exit status"); i > 0 {
			msg = msg[:i]
		}
	}

	kind := document.ErrRenderFailed
	if strings.Contains(msg, "No manual entry") || (exitErr != nil && exitErr.ExitCode() == manNotFoundExit) {
		kind = document.ErrDocumentNotFound
	}
	if exitErr != nil && strings.HasPrefix(msg, "exec ") {
		msg = fmt.Sprintf("man %s exited with %d", id, exitErr.ExitCode())
	}
	return &pipelineError{kind: kind, msg: msg, err: err}
}
