package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvConfig names the environment variable that overrides config discovery.
const EnvConfig = "PAHEQ_CONFIG"

// ErrNotFound is returned by Discover when no config file exists.
var ErrNotFound = errors.New("config not found")

// xdgPath joins name under the XDG base directory in env, falling back to
// home-relative def when env is unset. fallback is used without a home directory.
func xdgPath(env string, def []string, fallback string, name ...string) string {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fallback
		}
		base = filepath.Join(append([]string{home}, def...)...)
	}
	return filepath.Join(append([]string{base, "paheq"}, name...)...)
}

// DefaultPath returns $XDG_CONFIG_HOME/paheq/config.toml.
func DefaultPath() string {
	return xdgPath("XDG_CONFIG_HOME", []string{".config"}, "./paheq.toml", "config.toml")
}

// DefaultHistoryPath returns $XDG_DATA_HOME/paheq/history.db.
func DefaultHistoryPath() string {
	return xdgPath("XDG_DATA_HOME", []string{".local", "share"}, "./paheq.db", "history.db")
}

// SearchPaths lists the config locations Discover checks, in order.
func SearchPaths() []string {
	return []string{
		"./paheq.toml",
		DefaultPath(),
		"/etc/paheq/config.toml",
	}
}

// Discover returns the config file to load. PAHEQ_CONFIG wins when set and
// must exist; otherwise the first existing SearchPaths entry is used.
func Discover() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvConfig, p, err)
		}
		return p, nil
	}

	paths := SearchPaths()
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w (checked %s)", ErrNotFound, strings.Join(paths, ", "))
}

func dirExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}
