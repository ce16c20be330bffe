package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mdsn/manifold/internal/core/config"
	"github.com/mdsn/manifold/internal/core/document"
	"github.com/mdsn/manifold/internal/core/tabs"
)

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleResize(msg)
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	case completionMsg:
		m.handleCompletion(msg.completion)
		cmd = listenForCompletion(m.results)
	case resultsClosedMsg:
		m.log.Debug().Msg("render results closed")
	case topicsMsg:
		m.handleTopics(msg)
	}

	if title := m.windowTitle(); title != m.title {
		m.title = title
		cmd = tea.Batch(cmd, tea.SetWindowTitle(title))
	}
	return m, cmd
}

func (m *Model) handleResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.input.Width = max(msg.Width-2, 0)
	m.help.Width = msg.Width

	m.tabs.OnResize(msg.Width)
	m.tabs.SetViewportHeight(m.contentHeight())
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.state {
	case stateShowingHelp:
		return m.handleHelpKey(msg)
	case stateCommand:
		return m.handleCommandKey(msg)
	case stateSearch:
		return m.handleSearchKey(msg)
	}

	m.clearMessage()
	action, ok := m.keys.Resolve(msg)
	if !ok {
		return nil
	}
	return m.dispatch(action)
}

// dispatch runs a normal-mode action. Actions that need a tab do nothing
// when none is open.
func (m *Model) dispatch(action string) tea.Cmd {
	step := max(m.cfg.TUI.ScrollStep, 1)
	page := m.pageSize()
	half := max(page/2, 1)

	var err error
	switch action {
	case config.ActionLineDown:
		err = m.tabs.Scroll(step)
	case config.ActionLineUp:
		err = m.tabs.Scroll(-step)
	case config.ActionPageDown:
		err = m.tabs.Scroll(page)
	case config.ActionPageUp:
		err = m.tabs.Scroll(-page)
	case config.ActionHalfDown:
		err = m.tabs.Scroll(half)
	case config.ActionHalfUp:
		err = m.tabs.Scroll(-half)
	case config.ActionTop:
		err = m.tabs.ScrollTo(0)
	case config.ActionBottom:
		err = m.tabs.ScrollToBottom()
	case config.ActionNextTab:
		err = m.tabs.CycleNext()
	case config.ActionPrevTab:
		err = m.tabs.CyclePrev()
	case config.ActionCloseTab:
		err = m.closeActive()
	case config.ActionSearch:
		m.startSearch()
	case config.ActionNextMatch:
		m.jumpMatch(m.tabs.NextMatch)
	case config.ActionPrevMatch:
		m.jumpMatch(m.tabs.PrevMatch)
	case config.ActionClearSearch:
		err = m.tabs.ClearSearch()
	case config.ActionCommand:
		m.startPrompt(stateCommand, ":")
	case config.ActionReload:
		err = m.tabs.Reload()
	case config.ActionHelp:
		m.state = stateShowingHelp
	case config.ActionQuit:
		return tea.Quit
	}

	if err != nil && !errors.Is(err, tabs.ErrEmptyTabSet) {
		m.setError(err)
	}
	return nil
}

func (m *Model) closeActive() error {
	d, err := m.tabs.Active()
	if err != nil {
		return err
	}
	delete(m.probing, d.ID())
	return m.tabs.CloseActive()
}

func (m *Model) handleHelpKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == keyCtrlC {
		return tea.Quit
	}
	action, _ := m.keys.Resolve(msg)
	if msg.String() == keyEsc || action == config.ActionHelp || action == config.ActionQuit {
		m.state = stateNormal
	}
	return nil
}

func (m *Model) startPrompt(state UIState, prompt string) {
	m.state = state
	m.input.Prompt = prompt
	m.input.SetValue("")
	m.input.Focus()
}

func (m *Model) endPrompt() {
	m.state = stateNormal
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) handleCommandKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case keyCtrlC:
		return tea.Quit
	case keyEsc:
		m.endPrompt()
		return nil
	case keyEnter:
		input := m.input.Value()
		m.endPrompt()
		return m.runCommand(input)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) runCommand(input string) tea.Cmd {
	cmd, err := ResolveCommand(ParseCommandInput(input))
	if err != nil {
		m.setError(err)
		return nil
	}

	switch cmd.Kind {
	case CommandMan:
		return resolveTopics(m.exec, m.cfg.Formatter.ManPath, cmd.Topics)
	case CommandHelp:
		m.state = stateShowingHelp
	case CommandQuit:
		return tea.Quit
	case CommandWipe:
		err = m.closeActive()
	case CommandTab:
		err = m.tabs.SwitchTo(cmd.Index)
	case CommandMove:
		err = m.tabs.Move(m.tabs.ActiveIndex(), cmd.Index)
	}

	if err != nil && !errors.Is(err, tabs.ErrEmptyTabSet) {
		m.setError(err)
	}
	return nil
}

func (m *Model) handleTopics(msg topicsMsg) {
	if msg.err != nil {
		m.setError(msg.err)
		return
	}
	m.openAll(msg.ids)
}

// startSearch enters search mode, remembering the scroll and query to
// restore when the search is abandoned.
func (m *Model) startSearch() {
	d, err := m.tabs.Active()
	if err != nil {
		return
	}
	m.search = searchSession{origin: d.Scroll(), previous: d.Search().Query}
	m.startPrompt(stateSearch, "/")
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case keyCtrlC:
		return tea.Quit
	case keyEsc:
		m.endPrompt()
		m.restoreSearch()
		return nil
	case keyEnter:
		query := m.input.Value()
		m.endPrompt()
		if d, err := m.tabs.Active(); err == nil && query != "" && len(d.Search().Matches) == 0 {
			m.setMessage(fmt.Sprintf("Pattern not found: %s", query))
		}
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.incrementalSearch(m.input.Value())
	return cmd
}

// incrementalSearch reruns the query from the scroll at which the search
// began and jumps to the first match below it.
func (m *Model) incrementalSearch(query string) {
	if err := m.tabs.ScrollTo(m.search.origin); err != nil {
		return
	}
	if query == "" {
		_ = m.tabs.ClearSearch()
		return
	}
	if n, _ := m.tabs.Search(query); n > 0 {
		_, _, _ = m.tabs.NextMatch()
	}
}

func (m *Model) restoreSearch() {
	if err := m.tabs.ScrollTo(m.search.origin); err != nil {
		return
	}
	if m.search.previous == "" {
		_ = m.tabs.ClearSearch()
		return
	}
	_, _ = m.tabs.Search(m.search.previous)
}

func (m *Model) jumpMatch(jump func() (int, bool, error)) {
	d, err := m.tabs.Active()
	if err != nil || !d.Search().Active() {
		return
	}
	if _, ok, _ := jump(); !ok {
		m.setMessage(fmt.Sprintf("Pattern not found: %s", d.Search().Query))
	}
}

// handleCompletion applies a render result. A document opened by name whose
// first render finds nothing is closed and the reason shown.
func (m *Model) handleCompletion(c document.Completion) {
	out := m.tabs.Complete(c)
	if out.Doc == nil || !out.Applied {
		return
	}

	id := out.Doc.ID()
	if !m.probing[id] {
		return
	}
	delete(m.probing, id)

	if !errors.Is(out.Err, document.ErrDocumentNotFound) {
		return
	}
	for i, d := range m.tabs.Tabs() {
		if d.ID() == id {
			_ = m.tabs.Close(i)
			break
		}
	}
	m.setError(out.Err)
	m.log.Info().Str("doc", out.Doc.Title()).Msg("closed tab for missing document")
}
