// Package paths provides XDG-compliant path resolution for carbon.
//
// Resolution order:
// 1. CARBON_HOME (portable root) → $CARBON_HOME/{config,state,cache}
// 2. XDG env vars → $XDG_*_HOME/carbon
// 3. Platform defaults → ~/.config/carbon, ~/.local/state/carbon, ~/.cache/carbon
package paths

import (
	"os"
	"path/filepath"
)

const appName = "carbon"

// base resolves one XDG base directory. sub is the CARBON_HOME child,
// env the XDG variable, fallback the path under the user's home.
func base(sub, env string, fallback ...string) string {
	if home := os.Getenv("CARBON_HOME"); home != "" {
		return filepath.Join(home, sub)
	}
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, appName)
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		parts := append([]string{homeDir}, fallback...)
		return filepath.Join(append(parts, appName)...)
	}
	return ""
}

// ConfigDir returns the directory holding the global carbon.yml.
func ConfigDir() string {
	return base("config", "XDG_CONFIG_HOME", ".config")
}

// StateDir returns the directory for logs and runtime state.
func StateDir() string {
	return base("state", "XDG_STATE_HOME", ".local", "state")
}

// CacheDir returns the directory for regenerable data such as the emissions cache.
func CacheDir() string {
	return base("cache", "XDG_CACHE_HOME", ".cache")
}

// LogsDir returns the directory log files are written to.
func LogsDir() string {
	state := StateDir()
	if state == "" {
		return ""
	}
	return filepath.Join(state, "logs")
}

// EnsureDirs creates all carbon directories if they don't exist.
func EnsureDirs() error {
	for _, dir := range []string{ConfigDir(), StateDir(), CacheDir(), LogsDir()} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
