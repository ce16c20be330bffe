// Package tui implements the interactive document viewer.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/mdsn/manifold/internal/core/config"
	"github.com/mdsn/manifold/internal/core/document"
	"github.com/mdsn/manifold/internal/core/logging"
	"github.com/mdsn/manifold/internal/core/tabs"
	"github.com/mdsn/manifold/pkg/executil"
	"github.com/mdsn/manifold/pkg/tmpl"
)

// UIState represents the current input mode of the TUI.
type UIState int

const (
	stateNormal UIState = iota
	stateShowingHelp
	stateCommand
	stateSearch
)

const (
	keyEnter = "enter"
	keyEsc   = "esc"
	keyCtrlC = "ctrl+c"

	defaultTitle       = "manifold"
	fallbackStatusLine = "{{ .Title }}"
)

// Options configures the TUI.
type Options struct {
	Scheduler tabs.Scheduler
	Results   <-chan document.Completion
	Executor  executil.Executor // classifies ":man" arguments
	Topics    []document.Identity
}

// searchSession remembers where an interactive search started so esc can
// return to it.
type searchSession struct {
	origin   int
	previous string
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	cfg     *config.Config
	keys    KeyMap
	tabs    *tabs.Manager
	results <-chan document.Completion
	exec    executil.Executor
	status  *tmpl.Template
	log     zerolog.Logger

	state  UIState
	input  textinput.Model
	help   help.Model
	width  int
	height int
	title  string

	message    string
	messageErr bool

	// probing holds documents opened by name whose first render has not
	// landed yet; a not-found result closes them.
	probing map[uint64]bool
	search  searchSession
}

// New creates the model and opens the initial topics. Their renders are
// dispatched once the terminal size is known.
func New(cfg *config.Config, opts Options) *Model {
	status, err := tmpl.Compile(cfg.TUI.StatusFormat)
	if err != nil {
		status, _ = tmpl.Compile(fallbackStatusLine)
	}

	input := textinput.New()
	input.Prompt = ":"

	m := &Model{
		cfg:     cfg,
		keys:    NewKeyMap(cfg),
		tabs:    tabs.New(opts.Scheduler, logging.Component("tabs")),
		results: opts.Results,
		exec:    opts.Executor,
		status:  status,
		log:     logging.Component("tui"),
		input:   input,
		help:    help.New(),
		probing: make(map[uint64]bool),
	}
	if err != nil {
		m.log.Warn().Err(err).Msg("invalid status format, using fallback")
	}

	m.openAll(opts.Topics)
	m.title = m.windowTitle()
	return m
}

// Tabs exposes the tab manager.
func (m *Model) Tabs() *tabs.Manager { return m.tabs }

// Init starts listening for render completions.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(listenForCompletion(m.results), tea.SetWindowTitle(m.windowTitle()))
}

func (m *Model) openAll(ids []document.Identity) {
	for _, id := range ids {
		d := m.tabs.Open(id)
		m.probing[d.ID()] = true
	}
}

func (m *Model) windowTitle() string {
	d, err := m.tabs.Active()
	if err != nil {
		return defaultTitle
	}
	return d.Title()
}

func (m *Model) setMessage(msg string) {
	m.message = msg
	m.messageErr = false
}

func (m *Model) setError(err error) {
	m.message = err.Error()
	m.messageErr = true
}

func (m *Model) clearMessage() {
	m.message = ""
	m.messageErr = false
}

// contentHeight is the number of document lines on screen.
func (m *Model) contentHeight() int {
	h := m.height - 1
	if m.cfg.TUI.ShowTabBar {
		h--
	}
	return max(h, 0)
}

func (m *Model) pageSize() int {
	return max(m.contentHeight(), 1)
}
