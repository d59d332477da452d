package commands

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/colonyops/lector/internal/core/config"
)

// Flags holds the global options shared by every command.
type Flags struct {
	LogLevel     string
	LogFile      string // resolved in the Before hook when unset
	ConfigPath   string
	DataDir      string
	ProfilerPort int

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// xdgDir returns $env/lector, or ~/<fallback...>/lector when env is unset.
func xdgDir(env string, fallback ...string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, "lector")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(append(append([]string{home}, fallback...), "lector")...)
}

// DefaultConfigPath is $XDG_CONFIG_HOME/lector/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), "config.yaml")
}

// DefaultDataDir is $XDG_DATA_HOME/lector, holding the database.
func DefaultDataDir() string {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// DefaultLogFile returns the log path under the system's state directory:
// ~/Library/Logs/lector/lector.log on macOS unless XDG_STATE_HOME is set,
// $XDG_STATE_HOME/lector/lector.log otherwise.
func DefaultLogFile() string {
	if os.Getenv("XDG_STATE_HOME") == "" && runtime.GOOS == "darwin" {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Logs", "lector", "lector.log")
	}
	return filepath.Join(xdgDir("XDG_STATE_HOME", ".local", "state"), "lector.log")
}
