package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mdsn/manifold/internal/core/document"
	"github.com/mdsn/manifold/internal/formatter"
	"github.com/mdsn/manifold/pkg/executil"
)

// completionMsg carries a finished render into the event loop.
type completionMsg struct {
	completion document.Completion
}

// resultsClosedMsg reports that the render dispatcher has shut down.
type resultsClosedMsg struct{}

// topicsMsg carries the identities resolved from a ":man" command.
type topicsMsg struct {
	ids []document.Identity
	err error
}

// listenForCompletion waits for the next render completion.
func listenForCompletion(ch <-chan document.Completion) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return resultsClosedMsg{}
		}
		return completionMsg{completion: c}
	}
}

// resolveTopics classifies ":man" arguments off the event loop, since it may
// run man to look up sections.
func resolveTopics(e executil.Executor, manPath string, args []string) tea.Cmd {
	return func() tea.Msg {
		if e == nil {
			ids := make([]document.Identity, len(args))
			for i, a := range args {
				ids[i] = document.ParseIdentity(a)
			}
			return topicsMsg{ids: ids}
		}
		ids, err := formatter.ClassifyArgs(context.Background(), e, manPath, args)
		return topicsMsg{ids: ids, err: err}
	}
}
