package formatter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"

	"github.com/mdsn/manifold/internal/core/document"
)

// glamour indents its output by a two column margin.
const markdownGutter = 2

// Markdown renders markdown files with glamour. The identity name is the file
// path.
type Markdown struct {
	style string
	log   zerolog.Logger
}

// NewMarkdown creates a markdown formatter using the named glamour standard
// style.
func NewMarkdown(style string, logger zerolog.Logger) *Markdown {
	return &Markdown{style: style, log: logger}
}

// Render reads and formats the file named by id at width.
func (m *Markdown) Render(ctx context.Context, id document.Identity, width int) (document.Rendered, error) {
	src, err := readSource(id)
	if err != nil {
		return document.Rendered{}, err
	}
	if err := ctx.Err(); err != nil {
		return document.Rendered{}, err
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.style),
		glamour.WithWordWrap(max(width-markdownGutter, 1)),
	)
	if err != nil {
		return document.Rendered{}, fmt.Errorf("%w: markdown renderer: %w", document.ErrRenderFailed, err)
	}
	out, err := r.RenderBytes(src)
	if err != nil {
		return document.Rendered{}, fmt.Errorf("%w: render %s: %w", document.ErrRenderFailed, id.Name, err)
	}

	lines, err := Sanitize(out)
	if err != nil {
		return document.Rendered{}, fmt.Errorf("markdown %s: %w", id.Name, err)
	}
	lines = trimLeadingBlank(lines)

	m.log.Debug().Str("doc", id.Name).Int("width", width).Int("lines", len(lines)).Msg("markdown rendered")
	return document.Rendered{Lines: lines, Anchors: ExtractAnchors(lines, MarkdownHeading)}, nil
}

func readSource(id document.Identity) ([]byte, error) {
	src, err := os.ReadFile(id.Name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &pipelineError{kind: document.ErrDocumentNotFound, msg: "no such file " + id.Name, err: err}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", document.ErrRenderFailed, err)
	}
	return src, nil
}

func trimLeadingBlank(lines []string) []string {
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	return lines
}
