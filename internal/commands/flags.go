package commands

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/mdsn/manifold/internal/core/config"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string

	// Width overrides formatter.width when positive.
	Width int

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// FormatterConfig returns the loaded formatter config with the --width
// override applied.
func (f *Flags) FormatterConfig() config.FormatterConfig {
	fc := f.Config.Formatter
	if f.Width > 0 {
		fc.Width = f.Width
	}
	return fc
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "manifold", "config.yaml")
}

// DefaultLogFile returns the default log file path using the system's state directory.
// On macOS: ~/Library/Logs/manifold/manifold.log
// On Linux: $XDG_STATE_HOME/manifold/manifold.log (defaults to ~/.local/state/manifold/manifold.log)
func DefaultLogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, "manifold", "manifold.log")
	}

	home, _ := os.UserHomeDir()

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "manifold", "manifold.log")
	}

	return filepath.Join(home, ".local", "state", "manifold", "manifold.log")
}
