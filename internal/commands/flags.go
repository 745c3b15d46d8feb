package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/brandonszeto/todo/internal/core/config"
)

// Flags holds the global flag values shared by every command.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// LoadConfig loads Config for the named top-level command. The config group
// reads without validating so that 'config validate' can report a broken
// file and 'config init --force' can replace it.
func (f *Flags) LoadConfig(command string) error {
	if command == "config" {
		cfg, err := config.Read(f.ConfigPath, f.DataDir)
		if err != nil {
			defaults := config.DefaultConfig()
			defaults.DataDir = f.DataDir
			cfg = &defaults
		}
		f.Config = cfg
		return nil
	}

	cfg, err := config.Load(f.ConfigPath, f.DataDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	f.Config = cfg
	return nil
}

// DefaultConfigPath is $XDG_CONFIG_HOME/todo/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), "todo", "config.yaml")
}

// DefaultDataDir is $XDG_DATA_HOME/todo, which holds the cache and log.
func DefaultDataDir() string {
	return filepath.Join(xdgDir("XDG_DATA_HOME", ".local", "share"), "todo")
}

// xdgDir returns the directory named by env, or the fallback under $HOME.
func xdgDir(env string, fallback ...string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(append([]string{home}, fallback...)...)
}
