// Package components provides reusable TUI components.
package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/mdsn/manifold/internal/core/styles"
)

// HelpEntry represents a single keyboard shortcut entry.
type HelpEntry struct {
	Key  string
	Desc string
}

// HelpDialogSection groups related help entries under a title.
type HelpDialogSection struct {
	Title   string
	Entries []HelpEntry
}

// SectionFromBindings builds a help section from key bindings, skipping
// disabled ones.
func SectionFromBindings(title string, bindings []key.Binding) HelpDialogSection {
	s := HelpDialogSection{Title: title}
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		s.Entries = append(s.Entries, HelpEntry{Key: h.Key, Desc: h.Desc})
	}
	return s
}

// HelpDialog displays all available keyboard shortcuts.
type HelpDialog struct {
	title    string
	sections []HelpDialogSection
}

// NewHelpDialog creates a new help dialog with the given sections.
func NewHelpDialog(title string, sections []HelpDialogSection) *HelpDialog {
	return &HelpDialog{title: title, sections: sections}
}

// View renders the help dialog.
func (h *HelpDialog) View() string {
	title := styles.ModalTitleStyle.Render(h.title)
	separator := styles.DividerStyle.Render(strings.Repeat("─", 25))

	var lines []string
	for i, section := range h.sections {
		if section.Title != "" {
			if i > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, styles.CommandHeaderStyle.Render(section.Title), separator)
		}
		for _, entry := range section.Entries {
			lines = append(lines, formatKeyDesc(entry.Key, entry.Desc))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		strings.Join(lines, "\n"),
		styles.ModalHelpStyle.Render("esc/? close"),
	)
	return styles.ModalStyle.Render(content)
}

// Overlay renders the dialog centred in a width x height area. Dialogs taller
// than the area are cut at the bottom.
func (h *HelpDialog) Overlay(width, height int) string {
	modal := h.View()
	if lipgloss.Height(modal) > height && height > 0 {
		modal = strings.Join(strings.Split(modal, "\n")[:height], "\n")
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}

// formatKeyDesc formats a key-description pair with consistent alignment.
func formatKeyDesc(key, desc string) string {
	const keyWidth = 18

	displayWidth := lipgloss.Width(key)
	paddedKey := key + Pad(keyWidth-displayWidth)

	return styles.PromptStyle.Render(paddedKey) + desc
}
