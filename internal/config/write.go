package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed default_config.toml
var defaultConfig string

// ErrExists is returned when a write would replace an existing file.
var ErrExists = errors.New("config file already exists")

// WriteDefault writes the commented starter config to path.
func WriteDefault(path string, overwrite bool) error {
	return writeFile(path, overwrite, func(w io.Writer) error {
		_, err := io.WriteString(w, defaultConfig)
		return err
	})
}

// Write saves c to path as TOML. Comments and ${VAR} references are not kept.
func (c *Config) Write(path string, overwrite bool) error {
	return writeFile(path, overwrite, func(w io.Writer) error {
		return toml.NewEncoder(w).Encode(c)
	})
}

// writeFile fills a temp file next to path and renames it into place.
func writeFile(path string, overwrite bool, fill func(io.Writer) error) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".paheq-*.toml")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after the rename

	if err := fill(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
