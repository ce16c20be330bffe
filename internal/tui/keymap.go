package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mdsn/manifold/internal/core/config"
)

// actionHelp is the help text shown for each bindable action, in the order
// the help overlay lists them.
var actionHelp = []struct {
	action string
	desc   string
}{
	{config.ActionLineDown, "line down"},
	{config.ActionLineUp, "line up"},
	{config.ActionPageDown, "page down"},
	{config.ActionPageUp, "page up"},
	{config.ActionHalfDown, "half page down"},
	{config.ActionHalfUp, "half page up"},
	{config.ActionTop, "top"},
	{config.ActionBottom, "bottom"},
	{config.ActionNextTab, "next tab"},
	{config.ActionPrevTab, "previous tab"},
	{config.ActionCloseTab, "close tab"},
	{config.ActionSearch, "search"},
	{config.ActionNextMatch, "next match"},
	{config.ActionPrevMatch, "previous match"},
	{config.ActionClearSearch, "clear search"},
	{config.ActionCommand, "command"},
	{config.ActionReload, "reload"},
	{config.ActionHelp, "help"},
	{config.ActionQuit, "quit"},
}

// KeyMap resolves key presses to configured actions.
type KeyMap struct {
	bindings map[string]key.Binding
	order    []string
}

// NewKeyMap builds key bindings from the configured key to action map.
// Actions with no keys are left disabled.
func NewKeyMap(cfg *config.Config) KeyMap {
	km := KeyMap{bindings: make(map[string]key.Binding, len(actionHelp))}
	for _, a := range actionHelp {
		keys := cfg.KeysFor(a.action)
		b := key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(displayKeys(keys), a.desc),
		)
		if len(keys) == 0 {
			b.SetEnabled(false)
		}
		km.bindings[a.action] = b
		km.order = append(km.order, a.action)
	}
	return km
}

// Resolve returns the action bound to msg.
func (km KeyMap) Resolve(msg tea.KeyMsg) (string, bool) {
	for _, action := range km.order {
		if key.Matches(msg, km.bindings[action]) {
			return action, true
		}
	}
	return "", false
}

// Binding returns the binding for action.
func (km KeyMap) Binding(action string) key.Binding {
	return km.bindings[action]
}

// ShortHelp implements help.KeyMap.
func (km KeyMap) ShortHelp() []key.Binding {
	return km.enabled(config.ActionCommand, config.ActionSearch, config.ActionHelp, config.ActionQuit)
}

// FullHelp implements help.KeyMap, grouping bindings into columns.
func (km KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		km.enabled(config.ActionLineDown, config.ActionLineUp, config.ActionPageDown, config.ActionPageUp,
			config.ActionHalfDown, config.ActionHalfUp, config.ActionTop, config.ActionBottom),
		km.enabled(config.ActionNextTab, config.ActionPrevTab, config.ActionCloseTab, config.ActionReload),
		km.enabled(config.ActionSearch, config.ActionNextMatch, config.ActionPrevMatch, config.ActionClearSearch,
			config.ActionCommand, config.ActionHelp, config.ActionQuit),
	}
}

func (km KeyMap) enabled(actions ...string) []key.Binding {
	out := make([]key.Binding, 0, len(actions))
	for _, a := range actions {
		if b := km.bindings[a]; b.Enabled() {
			out = append(out, b)
		}
	}
	return out
}

func displayKeys(keys []string) string {
	shown := make([]string, len(keys))
	for i, k := range keys {
		if k == " " {
			k = "space"
		}
		shown[i] = k
	}
	return strings.Join(shown, "/")
}
