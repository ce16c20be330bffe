package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/mdsn/manifold/internal/core/document"
	"github.com/mdsn/manifold/internal/core/logging"
	"github.com/mdsn/manifold/internal/formatter"
	"github.com/mdsn/manifold/pkg/executil"
	"github.com/mdsn/manifold/pkg/iojson"
)

const fallbackWidth = 80

type RenderCmd struct {
	flags   *Flags
	section string
	anchors bool
	format  string
}

// NewRenderCmd creates a new render command.
func NewRenderCmd(flags *Flags) *RenderCmd {
	return &RenderCmd{flags: flags}
}

// Register adds the render command to the application.
func (cmd *RenderCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "render",
		Usage:     "Render one document to stdout",
		UsageText: "manifold render [options] <topic>",
		Description: `Formats a manual page, markdown file or text file at the terminal width
(or --width) and prints the lines. With --anchors the inferred headings and
paragraph starts are printed instead.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "section",
				Aliases:     []string{"s"},
				Usage:       "manual section",
				Destination: &cmd.section,
			},
			&cli.BoolFlag{
				Name:        "anchors",
				Usage:       "print anchors instead of lines",
				Destination: &cmd.anchors,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})

	return app
}

type renderOutput struct {
	Title   string         `json:"title"`
	Width   int            `json:"width"`
	Lines   []string       `json:"lines"`
	Anchors []renderAnchor `json:"anchors"`
}

type renderAnchor struct {
	Kind string `json:"kind"`
	Line int    `json:"line"`
}

func (cmd *RenderCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("render takes exactly one topic")
	}

	id := document.ParseIdentity(c.Args().First())
	if cmd.section != "" {
		id = document.Identity{Name: c.Args().First(), Section: cmd.section}
	}

	fc := cmd.flags.FormatterConfig()
	width := fc.Width
	if width <= 0 {
		width = terminalWidth()
	}

	router := formatter.New(&executil.RealExecutor{}, fc, logging.Component("formatter"))
	ctx, cancel := context.WithTimeout(ctx, fc.Timeout)
	defer cancel()

	doc := document.New(1, id)
	if err := doc.EnsureRendered(ctx, router, width); err != nil {
		log.Error().Err(err).Str("doc", id.String()).Msg("render failed")
		return err
	}

	out := c.Root().Writer
	if cmd.format == "json" {
		return iojson.Write(out, cmd.output(doc))
	}
	return cmd.writeText(out, doc)
}

func (cmd *RenderCmd) output(doc *document.Document) renderOutput {
	o := renderOutput{
		Title: doc.Title(),
		Width: doc.Width(),
		Lines: doc.Lines(),
	}
	for _, a := range doc.Cache().Anchors {
		o.Anchors = append(o.Anchors, renderAnchor{Kind: a.Kind.String(), Line: a.Line})
	}
	return o
}

func (cmd *RenderCmd) writeText(w io.Writer, doc *document.Document) error {
	lines := doc.Lines()
	if !cmd.anchors {
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	}

	for _, a := range doc.Cache().Anchors {
		if _, err := fmt.Fprintf(w, "%5d  %-9s  %s\n", a.Line+1, a.Kind, lines[a.Line]); err != nil {
			return err
		}
	}
	return nil
}

// terminalWidth returns the width of stdout, or 80 when it is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return fallbackWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return fallbackWidth
	}
	return w
}
