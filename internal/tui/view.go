package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/mdsn/manifold/internal/core/config"
	"github.com/mdsn/manifold/internal/core/document"
	"github.com/mdsn/manifold/internal/core/styles"
	"github.com/mdsn/manifold/internal/tui/components"
)

// View renders the TUI.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.state == stateShowingHelp {
		return m.helpDialog().Overlay(m.width, m.height)
	}

	var sections []string
	if m.cfg.TUI.ShowTabBar {
		sections = append(sections, m.renderTabBar())
	}
	sections = append(sections, m.renderContent(), m.renderBottomLine())
	return strings.Join(sections, "\n")
}

func (m *Model) helpDialog() *components.HelpDialog {
	groups := m.keys.FullHelp()
	titles := []string{"Scrolling", "Tabs", "Search & commands"}

	sections := make([]components.HelpDialogSection, 0, len(groups))
	for i, g := range groups {
		sections = append(sections, components.SectionFromBindings(titles[i], g))
	}
	return components.NewHelpDialog("manifold keys", sections)
}

func (m *Model) renderTabBar() string {
	docs := m.tabs.Tabs()
	active := m.tabs.ActiveIndex()

	var b strings.Builder
	for i, d := range docs {
		label := fmt.Sprintf("%d %s %s", i+1, tabIcon(d), d.Title())
		switch {
		case i == active:
			b.WriteString(styles.TabActiveStyle.Render(label))
		case !d.HasCache():
			b.WriteString(styles.TabPendingStyle.Render(label))
		default:
			b.WriteString(styles.TabInactiveStyle.Render(label))
		}
	}

	bar := ansi.Truncate(b.String(), m.width, "…")
	return styles.TabBarStyle.Width(m.width).Render(bar)
}

func tabIcon(d *document.Document) string {
	switch {
	case d.Err() != nil:
		return styles.IconError
	case d.Identity().Section != "":
		return styles.IconBook
	case strings.HasSuffix(d.Identity().Name, ".md"):
		return styles.IconMarkdown
	case strings.ContainsRune(d.Identity().Name, '/'):
		return styles.IconFile
	default:
		return styles.IconBook
	}
}

func (m *Model) renderContent() string {
	height := m.contentHeight()
	lines := make([]string, 0, height)

	d, err := m.tabs.Active()
	switch {
	case err != nil:
		lines = append(lines,
			styles.PlaceholderStyle.Render("No documents open. Type :man <topic> to open one."),
			"",
			m.help.ShortHelpView(m.keys.ShortHelp()),
		)
	case !d.HasCache():
		lines = append(lines, m.renderPlaceholder(d))
	default:
		if d.Err() != nil {
			lines = append(lines, m.errorBanner(d.Err()))
		}
		lines = append(lines, m.renderLines(d, height-len(lines))...)
	}

	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderPlaceholder(d *document.Document) string {
	if d.Err() != nil {
		return m.errorBanner(d.Err())
	}
	return styles.PlaceholderStyle.Render(fmt.Sprintf("%s Rendering %s…", styles.IconSpinner, d.Title()))
}

func (m *Model) errorBanner(err error) string {
	return ansi.Truncate(styles.ErrorBannerStyle.Render(styles.IconError+" "+err.Error()), m.width, "…")
}

// renderLines draws the visible part of d, highlighting lines that match
// the search.
func (m *Model) renderLines(d *document.Document, height int) []string {
	all := d.Lines()
	start := min(d.Scroll(), len(all))
	end := min(start+max(height, 0), len(all))

	search := d.Search()
	matched := make(map[int]bool, len(search.Matches))
	for _, l := range search.Matches {
		matched[l] = true
	}
	current, hasCurrent := search.CurrentLine()

	out := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		line := ansi.Truncate(all[i], m.width, "")
		switch {
		case hasCurrent && i == current:
			line = styles.CurrentMatchStyle.Render(line)
		case matched[i]:
			line = styles.MatchLineStyle.Render(line)
		}
		out = append(out, line)
	}
	return out
}

func (m *Model) renderBottomLine() string {
	switch {
	case m.state == stateCommand || m.state == stateSearch:
		return styles.PromptStyle.Render(m.input.View())
	case m.message != "" && m.messageErr:
		return styles.ErrorStyle.Render(ansi.Truncate(m.message, m.width, "…"))
	case m.message != "":
		return styles.StatusMessageStyle.Render(ansi.Truncate(m.message, m.width, "…"))
	}

	line, err := m.status.Execute(m.statusData())
	if err != nil {
		line = m.windowTitle()
	}
	line = ansi.Truncate(line, m.width, "…")
	return styles.StatusStyle.Width(m.width).Render(line)
}

func (m *Model) statusData() config.StatusData {
	data := config.StatusData{Title: defaultTitle, Tabs: m.tabs.Len()}

	d, err := m.tabs.Active()
	if err != nil {
		return data
	}

	data.Title = d.Title()
	data.Tab = m.tabs.ActiveIndex() + 1
	data.Lines = d.LineCount()
	if data.Lines > 0 {
		data.Line = d.Scroll() + 1
	}

	s := d.Search()
	data.Query = s.Query
	data.Hits = len(s.Matches)
	if s.Current >= 0 {
		data.Match = s.Current + 1
	}
	return data
}
