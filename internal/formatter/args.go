package formatter

import (
	"context"
	"errors"
	"os/exec"

	"github.com/mdsn/manifold/internal/core/document"
	"github.com/mdsn/manifold/internal/core/logging"
	"github.com/mdsn/manifold/pkg/executil"
)

// ClassifyArgs turns command line arguments into identities, the way man
// reads them: with two or more arguments the first is a section when every
// remaining page exists in it ("man 2 read write"); otherwise every argument
// is a page. Arguments written as "read(2)" carry their own section. When man
// cannot be run at all, every argument is read as a page.
func ClassifyArgs(ctx context.Context, e executil.Executor, manPath string, args []string) ([]document.Identity, error) {
	if len(args) >= 2 {
		section := args[0]
		pages := args[1:]

		inSection := true
		for _, page := range pages {
			ok, err := pageExists(ctx, e, manPath, section, page)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				logging.Component("formatter").Warn().Err(err).
					Str("section", section).
					Str("page", page).
					Msg("section lookup unavailable")
				inSection = false
				break
			}
			if !ok {
				inSection = false
				break
			}
		}
		if inSection {
			ids := make([]document.Identity, len(pages))
			for i, page := range pages {
				ids[i] = document.Identity{Name: page, Section: section}
			}
			return ids, nil
		}
	}

	ids := make([]document.Identity, len(args))
	for i, arg := range args {
		ids[i] = document.ParseIdentity(arg)
	}
	return ids, nil
}

// pageExists runs "man -w -S section page". A non-zero exit means the page is
// not in that section; failing to run man at all is returned as an error.
func pageExists(ctx context.Context, e executil.Executor, manPath, section, page string) (bool, error) {
	_, err := e.Run(ctx, manPath, "-w", "-S", section, page)
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, nil
	}
	return false, err
}
