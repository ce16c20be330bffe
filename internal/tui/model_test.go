package tui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdsn/manifold/internal/core/config"
	"github.com/mdsn/manifold/internal/core/document"
	"github.com/mdsn/manifold/internal/core/tabs"
	"github.com/mdsn/manifold/pkg/tuitest"
)

type recordingScheduler struct {
	requests []document.RenderRequest
}

func (s *recordingScheduler) Schedule(req document.RenderRequest) {
	s.requests = append(s.requests, req)
}

func (s *recordingScheduler) take() []document.RenderRequest {
	reqs := s.requests
	s.requests = nil
	return reqs
}

func pageLines(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("line %d", i)
	}
	return out
}

func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func newTestModel(t *testing.T, cfg *config.Config, topics ...string) (*Model, *recordingScheduler) {
	t.Helper()
	if cfg == nil {
		cfg = loadConfig(t)
	}
	s := &recordingScheduler{}
	ids := make([]document.Identity, len(topics))
	for i, topic := range topics {
		ids[i] = document.ParseIdentity(topic)
	}
	return New(cfg, Options{Scheduler: s, Topics: ids}), s
}

func send(m *Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

// complete answers every pending request with n lines.
func complete(m *Model, s *recordingScheduler, n int) {
	for _, req := range s.take() {
		send(m, completionMsg{completion: req.Complete(document.Rendered{Lines: pageLines(n)}, nil)})
	}
}

func active(t *testing.T, m *Model) *document.Document {
	t.Helper()
	d, err := m.Tabs().Active()
	require.NoError(t, err)
	return d
}

func TestModel_RendersAfterFirstResize(t *testing.T) {
	m, s := newTestModel(t, nil, "ls", "read(2)")
	assert.Empty(t, s.requests, "no width yet")
	assert.Equal(t, 2, m.Tabs().Len())

	send(m, tuitest.WindowSize(80, 24))
	reqs := s.take()
	require.Len(t, reqs, 1, "only the active tab renders")
	assert.Equal(t, document.Identity{Name: "read", Section: "2"}, reqs[0].Identity)
	assert.Equal(t, 80, reqs[0].Width)
	assert.Equal(t, 22, m.Tabs().Height())
}

func TestModel_View(t *testing.T) {
	m, s := newTestModel(t, nil, "ls")

	assert.Empty(t, m.View(), "nothing drawn before the first size")

	send(m, tuitest.WindowSize(60, 10))
	view := tuitest.StripANSI(m.View())
	assert.Contains(t, view, "Rendering ls")

	complete(m, s, 100)
	view = tuitest.StripANSI(m.View())
	lines := strings.Split(view, "\n")
	require.Len(t, lines, 10)
	assert.Contains(t, lines[0], "1")
	assert.Contains(t, lines[0], "ls")
	assert.Equal(t, "line 0", lines[1])
	assert.Equal(t, "line 7", lines[8])
	assert.Equal(t, "ls  1/100  1%", lines[9])
}

func TestModel_EmptyView(t *testing.T) {
	m, _ := newTestModel(t, nil)
	send(m, tuitest.WindowSize(80, 10))

	view := tuitest.StripANSI(m.View())
	assert.Contains(t, view, "No documents open")
	assert.Contains(t, view, "manifold")
}

func TestModel_ScrollKeys(t *testing.T) {
	m, s := newTestModel(t, nil, "ls")
	send(m, tuitest.WindowSize(80, 24))
	complete(m, s, 100)
	d := active(t, m)

	tests := []struct {
		key  tea.Msg
		want int
	}{
		{key: tuitest.KeyPress('j'), want: 1},
		{key: tuitest.KeyDown(), want: 2},
		{key: tuitest.KeyPress('k'), want: 1},
		{key: tuitest.KeyPress('f'), want: 23},
		{key: tuitest.KeyPress('u'), want: 12},
		{key: tuitest.KeyPress('G'), want: 78},
		{key: tuitest.KeyPress('j'), want: 78},
		{key: tuitest.KeyPress('b'), want: 56},
		{key: tuitest.KeyPress('g'), want: 0},
	}

	for _, tt := range tests {
		send(m, tt.key)
		assert.Equal(t, tt.want, d.Scroll(), "after %v", tt.key)
	}
}

func TestModel_CustomKeybindings(t *testing.T) {
	cfg := loadConfig(t)
	cfg.Keybindings["J"] = config.ActionLineDown
	delete(cfg.Keybindings, "j")
	m, s := newTestModel(t, cfg, "ls")
	send(m, tuitest.WindowSize(80, 24))
	complete(m, s, 100)

	send(m, tuitest.KeyPress('j'))
	assert.Equal(t, 0, active(t, m).Scroll())
	send(m, tuitest.KeyPress('J'))
	assert.Equal(t, 1, active(t, m).Scroll())
}

func TestModel_Tabs(t *testing.T) {
	m, s := newTestModel(t, nil, "ls", "cat", "cp")
	send(m, tuitest.WindowSize(80, 24))
	complete(m, s, 10)
	assert.Equal(t, 2, m.Tabs().ActiveIndex())

	send(m, tuitest.KeyPress('l'))
	assert.Equal(t, 0, m.Tabs().ActiveIndex(), "next wraps")
	reqs := s.take()
	require.Len(t, reqs, 1, "switching renders a stale tab")
	assert.Equal(t, "ls", reqs[0].Identity.Name)

	send(m, tuitest.KeyPress('h'))
	assert.Equal(t, 2, m.Tabs().ActiveIndex())

	send(m, tuitest.KeyPress('x'))
	assert.Equal(t, 2, m.Tabs().Len())
	assert.Equal(t, "cat", active(t, m).Title())
}

func TestModel_Search(t *testing.T) {
	m, s := newTestModel(t, nil, "ls")
	send(m, tuitest.WindowSize(80, 12))
	complete(m, s, 100)
	d := active(t, m)

	send(m, tuitest.KeyPress('/'))
	assert.Equal(t, stateSearch, m.state)

	send(m, tuitest.KeyPresses("line 4")...)
	assert.Equal(t, "line 4", d.Search().Query)
	assert.Equal(t, []int{4, 40, 41, 42, 43, 44, 45, 46, 47, 48, 49}, d.Search().Matches)
	line, ok := d.Search().CurrentLine()
	require.True(t, ok)
	assert.Equal(t, 4, line)

	send(m, tuitest.KeyPress('2'))
	line, _ = d.Search().CurrentLine()
	assert.Equal(t, 42, line, "incremental from the origin")
	assert.Equal(t, 37, d.Scroll(), "match centred")

	send(m, tuitest.KeyEnter())
	assert.Equal(t, stateNormal, m.state)
	assert.Equal(t, "line 42", d.Search().Query)

	view := tuitest.StripANSI(m.View())
	assert.Contains(t, view, "ls  38/100  38%")
}

func TestModel_SearchEscRestores(t *testing.T) {
	m, s := newTestModel(t, nil, "ls")
	send(m, tuitest.WindowSize(80, 12))
	complete(m, s, 100)
	d := active(t, m)

	send(m, tuitest.KeyPress('j'), tuitest.KeyPress('j'))
	send(m, tuitest.KeyPress('/'))
	send(m, tuitest.KeyPresses("line 9")...)
	require.NotEqual(t, 2, d.Scroll())

	send(m, tuitest.KeyEsc())
	assert.Equal(t, stateNormal, m.state)
	assert.Equal(t, 2, d.Scroll())
	assert.False(t, d.Search().Active())
}

func TestModel_MatchNavigation(t *testing.T) {
	m, s := newTestModel(t, nil, "ls")
	send(m, tuitest.WindowSize(80, 12))
	complete(m, s, 100)
	d := active(t, m)

	send(m, tuitest.KeyPress('/'))
	send(m, tuitest.KeyPresses("line 1")...)
	send(m, tuitest.KeyEnter())
	first, _ := d.Search().CurrentLine()
	assert.Equal(t, 1, first)

	send(m, tuitest.KeyPress('n'))
	line, _ := d.Search().CurrentLine()
	assert.Equal(t, 10, line)

	send(m, tuitest.KeyPress('N'), tuitest.KeyPress('N'))
	line, _ = d.Search().CurrentLine()
	assert.Equal(t, 19, line, "previous wraps around")

	send(m, tuitest.KeyEsc())
	assert.False(t, d.Search().Active(), "esc clears the search in normal mode")
}

func TestModel_SearchNotFound(t *testing.T) {
	m, s := newTestModel(t, nil, "ls")
	send(m, tuitest.WindowSize(80, 12))
	complete(m, s, 10)

	send(m, tuitest.KeyPress('/'))
	send(m, tuitest.KeyPresses("zebra")...)
	send(m, tuitest.KeyEnter())

	view := tuitest.StripANSI(m.View())
	assert.Contains(t, view, "Pattern not found: zebra")
}

func TestModel_Commands(t *testing.T) {
	m, s := newTestModel(t, nil, "ls", "cat")
	send(m, tuitest.WindowSize(80, 24))
	complete(m, s, 10)

	runCommand := func(input string) tea.Cmd {
		send(m, tuitest.KeyPress(':'))
		send(m, tuitest.KeyPresses(input)...)
		return send(m, tuitest.KeyEnter())
	}

	t.Run("unknown command", func(t *testing.T) {
		runCommand("frob")
		assert.Contains(t, tuitest.StripANSI(m.View()), "Unknown command 'frob'")

		send(m, tuitest.KeyPress('j'))
		assert.NotContains(t, tuitest.StripANSI(m.View()), "Unknown command", "next action clears the message")
	})

	t.Run("message survives resize", func(t *testing.T) {
		runCommand("frob")
		send(m, tuitest.WindowSize(80, 24))
		assert.Contains(t, tuitest.StripANSI(m.View()), "Unknown command 'frob'")
		send(m, tuitest.KeyPress('k'))
	})

	t.Run("tab", func(t *testing.T) {
		runCommand("tab 1")
		assert.Equal(t, 0, m.Tabs().ActiveIndex())
	})

	t.Run("tab out of range", func(t *testing.T) {
		runCommand("tab 9")
		assert.Equal(t, 0, m.Tabs().ActiveIndex())
		assert.Contains(t, tuitest.StripANSI(m.View()), "no such tab")
	})

	t.Run("move", func(t *testing.T) {
		runCommand("move 2")
		assert.Equal(t, 1, m.Tabs().ActiveIndex())
		assert.Equal(t, "ls", active(t, m).Title())
	})

	t.Run("man opens tabs", func(t *testing.T) {
		cmd := runCommand("man cp mv")
		require.NotNil(t, cmd)
		send(m, cmd())
		assert.Equal(t, 4, m.Tabs().Len())
		assert.Equal(t, "mv", active(t, m).Title())
	})

	t.Run("wipe", func(t *testing.T) {
		runCommand("w")
		assert.Equal(t, 3, m.Tabs().Len())
		assert.Equal(t, "cp", active(t, m).Title())
	})

	t.Run("esc cancels", func(t *testing.T) {
		send(m, tuitest.KeyPress(':'))
		send(m, tuitest.KeyPresses("q")...)
		cmd := send(m, tuitest.KeyEsc())
		assert.Nil(t, cmd)
		assert.Equal(t, stateNormal, m.state)
	})

	t.Run("quit", func(t *testing.T) {
		cmd := runCommand("q")
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})
}

func TestModel_NotFoundClosesTab(t *testing.T) {
	m, s := newTestModel(t, nil, "ls", "seek")
	send(m, tuitest.WindowSize(80, 24))

	reqs := s.take()
	require.Len(t, reqs, 1)
	err := fmt.Errorf("No manual entry for seek: %w", document.ErrDocumentNotFound)
	send(m, completionMsg{completion: reqs[0].Complete(document.Rendered{}, err)})

	assert.Equal(t, 1, m.Tabs().Len())
	assert.Equal(t, "ls", active(t, m).Title())
	assert.Contains(t, tuitest.StripANSI(m.View()), "No manual entry for seek")
}

func TestModel_FailureKeepsTabAfterFirstRender(t *testing.T) {
	m, s := newTestModel(t, nil, "ls")
	send(m, tuitest.WindowSize(80, 24))
	complete(m, s, 30)

	send(m, tuitest.KeyPress('r'))
	reqs := s.take()
	require.Len(t, reqs, 1)
	err := fmt.Errorf("%w: man exited with 3", document.ErrRenderFailed)
	send(m, completionMsg{completion: reqs[0].Complete(document.Rendered{}, err)})

	require.Equal(t, 1, m.Tabs().Len())
	view := tuitest.StripANSI(m.View())
	assert.Contains(t, view, "man exited with 3", "error banner")
	assert.Contains(t, view, "line 0", "stale content stays visible")
}

func TestModel_HelpOverlay(t *testing.T) {
	m, _ := newTestModel(t, nil)
	send(m, tuitest.WindowSize(80, 40))

	send(m, tuitest.KeyPress('?'))
	assert.Equal(t, stateShowingHelp, m.state)
	view := tuitest.StripANSI(m.View())
	assert.Contains(t, view, "manifold keys")
	assert.Contains(t, view, "half page down")

	send(m, tuitest.KeyPress('j'))
	assert.Equal(t, stateShowingHelp, m.state, "other keys are ignored")

	send(m, tuitest.KeyEsc())
	assert.Equal(t, stateNormal, m.state)
}

func TestModel_QuitKey(t *testing.T) {
	m, _ := newTestModel(t, nil)
	cmd := send(m, tuitest.KeyPress('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_EmptyTabSetIsQuiet(t *testing.T) {
	m, _ := newTestModel(t, nil)
	send(m, tuitest.WindowSize(80, 24))

	for _, r := range "jkfbGgxnNr" {
		send(m, tuitest.KeyPress(r))
	}
	assert.Empty(t, m.message)
	_, err := m.Tabs().Active()
	assert.ErrorIs(t, err, tabs.ErrEmptyTabSet)
}
