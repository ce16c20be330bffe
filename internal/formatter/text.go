package formatter

import (
	"context"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"github.com/rs/zerolog"

	"github.com/mdsn/manifold/internal/core/document"
)

// Text renders plain text files, word-wrapping each line at the width and
// hard-wrapping words longer than it.
type Text struct {
	log zerolog.Logger
}

// NewText creates a plain text formatter.
func NewText(logger zerolog.Logger) *Text {
	return &Text{log: logger}
}

// Render reads and wraps the file named by id at width.
func (t *Text) Render(ctx context.Context, id document.Identity, width int) (document.Rendered, error) {
	src, err := readSource(id)
	if err != nil {
		return document.Rendered{}, err
	}
	if err := ctx.Err(); err != nil {
		return document.Rendered{}, err
	}

	raw, err := Sanitize(src)
	if err != nil {
		return document.Rendered{}, err
	}

	width = max(width, 1)
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if line == "" {
			lines = append(lines, "")
			continue
		}
		wrapped := wrap.String(wordwrap.String(line, width), width)
		for _, l := range strings.Split(wrapped, "\n") {
			lines = append(lines, strings.TrimRight(l, " "))
		}
	}

	t.log.Debug().Str("doc", id.Name).Int("width", width).Int("lines", len(lines)).Msg("text rendered")
	return document.Rendered{Lines: lines, Anchors: ExtractAnchors(lines, nil)}, nil
}
