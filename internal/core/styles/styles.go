// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import "github.com/charmbracelet/lipgloss"

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    lipgloss.TerminalColor
	ColorSecondary  lipgloss.TerminalColor
	ColorForeground lipgloss.TerminalColor
	ColorMuted      lipgloss.TerminalColor
	ColorBackground lipgloss.TerminalColor
	ColorSurface    lipgloss.TerminalColor
	ColorSuccess    lipgloss.TerminalColor
	ColorWarning    lipgloss.TerminalColor
	ColorError      lipgloss.TerminalColor
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	SuccessStyle       lipgloss.Style
	WarningStyle       lipgloss.Style
	ErrorStyle         lipgloss.Style
	DividerStyle       lipgloss.Style

	// Tab bar.
	TabBarStyle      lipgloss.Style
	TabActiveStyle   lipgloss.Style
	TabInactiveStyle lipgloss.Style
	TabPendingStyle  lipgloss.Style

	// Content.
	MatchLineStyle    lipgloss.Style
	CurrentMatchStyle lipgloss.Style
	PlaceholderStyle  lipgloss.Style
	ErrorBannerStyle  lipgloss.Style

	// Bottom line.
	StatusStyle        lipgloss.Style
	StatusMessageStyle lipgloss.Style
	PromptStyle        lipgloss.Style

	// Help overlay.
	ModalStyle      lipgloss.Style
	ModalTitleStyle lipgloss.Style
	ModalHelpStyle  lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	ErrorStyle = lipgloss.NewStyle().Foreground(ColorError)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	TabBarStyle = lipgloss.NewStyle().
		Background(ColorBackground)
	TabActiveStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorPrimary).
		Foreground(ColorBackground).
		Bold(true)
	TabInactiveStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorSurface).
		Foreground(ColorMuted)
	TabPendingStyle = TabInactiveStyle.
		Italic(true)

	MatchLineStyle = lipgloss.NewStyle().
		Foreground(ColorWarning)
	CurrentMatchStyle = lipgloss.NewStyle().
		Background(ColorSurface).
		Foreground(ColorWarning).
		Bold(true)
	PlaceholderStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true)
	ErrorBannerStyle = lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true)

	StatusStyle = lipgloss.NewStyle().
		Background(ColorSurface).
		Foreground(ColorForeground)
	StatusMessageStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary)
	PromptStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorForeground)
	ModalHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)
}

// SetThemeByName activates a built-in theme, reporting whether it exists.
func SetThemeByName(name string) bool {
	p, ok := GetPalette(name)
	if ok {
		SetTheme(p)
	}
	return ok
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
