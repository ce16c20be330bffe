package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/mdsn/manifold/internal/core/document"
	"github.com/mdsn/manifold/internal/core/logging"
	"github.com/mdsn/manifold/internal/core/render"
	"github.com/mdsn/manifold/internal/formatter"
	"github.com/mdsn/manifold/internal/tui"
	"github.com/mdsn/manifold/pkg/executil"
)

type TuiCmd struct {
	flags   *Flags
	section string
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{flags: flags}
}

// Flags returns the TUI-specific flags for registration on the root command
func (cmd *TuiCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "section",
			Aliases:     []string{"s"},
			Usage:       "manual section for every topic",
			Sources:     cli.EnvVars("MANIFOLD_SECTION"),
			Destination: &cmd.section,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config
	exec := &executil.RealExecutor{}

	ids, err := topicIdentities(ctx, exec, cfg.Formatter.ManPath, cmd.section, c.Args().Slice())
	if err != nil {
		return fmt.Errorf("resolve topics: %w", err)
	}

	fc := cmd.flags.FormatterConfig()
	router := formatter.New(exec, fc, logging.Component("formatter"))
	dispatcher := render.NewDispatcher(router, render.Options{
		Workers: fc.Workers,
		Timeout: fc.Timeout,
	}, logging.Component("render"))
	defer dispatcher.Close()

	model := tui.New(cfg, tui.Options{
		Scheduler: dispatcher,
		Results:   dispatcher.Results(),
		Executor:  exec,
		Topics:    ids,
	})

	log.Info().Int("topics", len(ids)).Msg("starting viewer")
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	return nil
}

// topicIdentities turns command line topics into identities. An explicit
// section applies to every topic; otherwise arguments are classified the way
// man reads them.
func topicIdentities(ctx context.Context, e executil.Executor, manPath, section string, args []string) ([]document.Identity, error) {
	if section == "" {
		return formatter.ClassifyArgs(ctx, e, manPath, args)
	}

	ids := make([]document.Identity, len(args))
	for i, arg := range args {
		ids[i] = document.Identity{Name: arg, Section: section}
	}
	return ids, nil
}
