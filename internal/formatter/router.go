package formatter

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/mdsn/manifold/internal/core/config"
	"github.com/mdsn/manifold/internal/core/document"
	"github.com/mdsn/manifold/pkg/executil"
)

// Router picks a formatter per identity. Identities without a section that
// name an existing file matching a markdown or text glob are rendered from
// that file; everything else goes to the manual page pipeline.
type Router struct {
	man           document.Formatter
	markdown      document.Formatter
	text          document.Formatter
	markdownGlobs []string
	textGlobs     []string
	log           zerolog.Logger
}

// New builds the formatter router from config.
func New(exec executil.Executor, cfg config.FormatterConfig, logger zerolog.Logger) *Router {
	return &Router{
		man:           NewMan(exec, cfg, logger),
		markdown:      NewMarkdown(cfg.MarkdownStyle, logger),
		text:          NewText(logger),
		markdownGlobs: cfg.MarkdownGlobs,
		textGlobs:     cfg.TextGlobs,
		log:           logger,
	}
}

// Render dispatches to the formatter chosen by Route.
func (r *Router) Render(ctx context.Context, id document.Identity, width int) (document.Rendered, error) {
	return r.Route(id).Render(ctx, id, width)
}

// Route returns the formatter for id.
func (r *Router) Route(id document.Identity) document.Formatter {
	if id.Section != "" || !isFile(id.Name) {
		return r.man
	}

	path := globPath(id.Name)
	switch {
	case matchAny(r.markdownGlobs, path):
		return r.markdown
	case matchAny(r.textGlobs, path):
		return r.text
	default:
		return r.man
	}
}

// Kind names the formatter Route picks for id: "man", "markdown" or "text".
func (r *Router) Kind(id document.Identity) string {
	switch r.Route(id) {
	case r.markdown:
		return "markdown"
	case r.text:
		return "text"
	default:
		return "man"
	}
}

func isFile(name string) bool {
	info, err := os.Stat(name)
	return err == nil && info.Mode().IsRegular()
}

// globPath normalises a file name for matching: slash separated, without a
// leading slash, so "**/*.md" matches absolute paths too.
func globPath(name string) string {
	return strings.TrimPrefix(filepath.ToSlash(filepath.Clean(name)), "/")
}

func matchAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, path); err == nil && ok {
			return true
		}
	}
	return false
}
