// Package config handles configuration loading and validation for manifold.
package config

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mdsn/manifold/internal/core/styles"
)

// Actions that keys can be bound to.
const (
	ActionLineDown    = "line_down"
	ActionLineUp      = "line_up"
	ActionPageDown    = "page_down"
	ActionPageUp      = "page_up"
	ActionHalfDown    = "half_page_down"
	ActionHalfUp      = "half_page_up"
	ActionTop         = "top"
	ActionBottom      = "bottom"
	ActionNextTab     = "next_tab"
	ActionPrevTab     = "prev_tab"
	ActionCloseTab    = "close_tab"
	ActionSearch      = "search"
	ActionNextMatch   = "next_match"
	ActionPrevMatch   = "prev_match"
	ActionClearSearch = "clear_search"
	ActionCommand     = "command"
	ActionReload      = "reload"
	ActionHelp        = "help"
	ActionQuit        = "quit"
	ActionUnbind      = "none"
)

const (
	defaultStatusFormat  = "{{ .Title }}  {{ .Line }}/{{ .Lines }}  {{ percent .Line .Lines }}%"
	defaultManPath       = "man"
	defaultColPath       = "col"
	defaultTimeout       = 10 * time.Second
	defaultWorkers       = 2
	defaultScrollStep    = 1
	defaultTheme         = "tokyo-night"
	defaultMarkdownStyle = "notty"
)

// defaultKeybindings maps keys to actions. User keybindings are merged over
// them; binding a key to "none" removes it.
var defaultKeybindings = map[string]string{
	"j":         ActionLineDown,
	"down":      ActionLineDown,
	"k":         ActionLineUp,
	"up":        ActionLineUp,
	"f":         ActionPageDown,
	"pgdown":    ActionPageDown,
	" ":         ActionPageDown,
	"b":         ActionPageUp,
	"pgup":      ActionPageUp,
	"d":         ActionHalfDown,
	"ctrl+d":    ActionHalfDown,
	"u":         ActionHalfUp,
	"ctrl+u":    ActionHalfUp,
	"g":         ActionTop,
	"home":      ActionTop,
	"G":         ActionBottom,
	"end":       ActionBottom,
	"l":         ActionNextTab,
	"tab":       ActionNextTab,
	"h":         ActionPrevTab,
	"shift+tab": ActionPrevTab,
	"x":         ActionCloseTab,
	"/":         ActionSearch,
	"n":         ActionNextMatch,
	"N":         ActionPrevMatch,
	"esc":       ActionClearSearch,
	":":         ActionCommand,
	"r":         ActionReload,
	"?":         ActionHelp,
	"q":         ActionQuit,
	"ctrl+c":    ActionQuit,
}

// Config holds the application configuration.
type Config struct {
	Formatter   FormatterConfig   `yaml:"formatter"`
	TUI         TUIConfig         `yaml:"tui"`
	Keybindings map[string]string `yaml:"keybindings"`
}

// FormatterConfig configures the formatting pipeline.
type FormatterConfig struct {
	ManPath       string        `yaml:"man_path"`
	ColPath       string        `yaml:"col_path"` // empty filters overstrikes in-process
	Width         int           `yaml:"width"`    // fixed MANWIDTH; 0 follows the terminal
	Timeout       time.Duration `yaml:"timeout"`
	Workers       int           `yaml:"workers"`
	MarkdownGlobs []string      `yaml:"markdown_globs"`
	MarkdownStyle string        `yaml:"markdown_style"` // glamour standard style
	TextGlobs     []string      `yaml:"text_globs"`
}

// TUIConfig configures the interactive viewer.
type TUIConfig struct {
	Theme        string `yaml:"theme"`
	ScrollStep   int    `yaml:"scroll_step"`
	ShowTabBar   bool   `yaml:"show_tab_bar"`
	StatusFormat string `yaml:"status_format"` // text/template, see StatusData
}

// StatusData is the data available to tui.status_format.
type StatusData struct {
	Title string
	Line  int // 1-based first visible line
	Lines int
	Tab   int // 1-based
	Tabs  int
	Query string
	Match int // 1-based current match, 0 when none
	Hits  int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Formatter: FormatterConfig{
			ManPath:       defaultManPath,
			ColPath:       defaultColPath,
			Timeout:       defaultTimeout,
			Workers:       defaultWorkers,
			MarkdownGlobs: []string{"**/*.md", "**/*.markdown"},
			MarkdownStyle: defaultMarkdownStyle,
			TextGlobs:     []string{"**/*.txt"},
		},
		TUI: TUIConfig{
			Theme:        defaultTheme,
			ScrollStep:   defaultScrollStep,
			ShowTabBar:   true,
			StatusFormat: defaultStatusFormat,
		},
		Keybindings: map[string]string{},
	}
}

// Load reads configuration from the given path.
// If configPath is empty or doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Merge user keybindings into defaults (user config overrides defaults)
	cfg.Keybindings = mergeKeybindings(defaultKeybindings, cfg.Keybindings)

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Formatter.Timeout == 0 {
		c.Formatter.Timeout = defaults.Formatter.Timeout
	}
	if c.Formatter.Workers == 0 {
		c.Formatter.Workers = defaults.Formatter.Workers
	}
	if c.Formatter.MarkdownStyle == "" {
		c.Formatter.MarkdownStyle = defaults.Formatter.MarkdownStyle
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.TUI.ScrollStep == 0 {
		c.TUI.ScrollStep = defaults.TUI.ScrollStep
	}
	if c.TUI.StatusFormat == "" {
		c.TUI.StatusFormat = defaults.TUI.StatusFormat
	}
}

// mergeKeybindings merges user keybindings into defaults. User keybindings
// override defaults for the same key; keys bound to ActionUnbind are dropped.
func mergeKeybindings(defaults, user map[string]string) map[string]string {
	result := make(map[string]string, len(defaults)+len(user))
	maps.Copy(result, defaults)
	maps.Copy(result, user)

	maps.DeleteFunc(result, func(_, action string) bool {
		return action == ActionUnbind
	})
	return result
}

// KeysFor returns the keys bound to action in a stable order.
func (c *Config) KeysFor(action string) []string {
	var keys []string
	for k, a := range c.Keybindings {
		if a == action {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	if c.Formatter.ManPath == "" {
		return fmt.Errorf("formatter.man_path cannot be empty")
	}

	if c.Formatter.Width < 0 {
		return fmt.Errorf("formatter.width must not be negative")
	}

	if c.Formatter.Timeout < 0 {
		return fmt.Errorf("formatter.timeout must be positive")
	}

	if c.Formatter.Workers < 1 {
		return fmt.Errorf("formatter.workers must be at least 1")
	}

	if c.TUI.ScrollStep < 1 {
		return fmt.Errorf("tui.scroll_step must be at least 1")
	}

	if !IsValidTheme(c.TUI.Theme) {
		return fmt.Errorf("tui.theme %q is not a known theme", c.TUI.Theme)
	}

	for key, action := range c.Keybindings {
		if !isValidAction(action) {
			return fmt.Errorf("keybinding %q has invalid action %q", key, action)
		}
	}

	return nil
}

// IsValidTheme reports whether name is a built-in theme.
func IsValidTheme(name string) bool {
	_, ok := styles.GetPalette(name)
	return ok
}

var actions = []string{
	ActionLineDown, ActionLineUp, ActionPageDown, ActionPageUp,
	ActionHalfDown, ActionHalfUp, ActionTop, ActionBottom,
	ActionNextTab, ActionPrevTab, ActionCloseTab,
	ActionSearch, ActionNextMatch, ActionPrevMatch, ActionClearSearch,
	ActionCommand, ActionReload, ActionHelp, ActionQuit, ActionUnbind,
}

func isValidAction(action string) bool {
	return slices.Contains(actions, action)
}
