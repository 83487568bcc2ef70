package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_DATA_HOME", "/xdg/data")
	assert.Equal(t, "/xdg/config/paheq/config.toml", DefaultPath())
	assert.Equal(t, "/xdg/data/paheq/history.db", DefaultHistoryPath())

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", "/home/kaede")
	assert.Equal(t, "/home/kaede/.config/paheq/config.toml", DefaultPath())
	assert.Equal(t, "/home/kaede/.local/share/paheq/history.db", DefaultHistoryPath())
}

// inDir runs the test from dir, restoring the working directory afterwards.
func inDir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

func TestDiscover(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "elsewhere.toml")
		require.NoError(t, os.WriteFile(path, []byte("[fetch]\n"), 0o644))
		t.Setenv(EnvConfig, path)

		got, err := Discover()
		require.NoError(t, err)
		assert.Equal(t, path, got)
	})

	t.Run("env override must exist", func(t *testing.T) {
		t.Setenv(EnvConfig, filepath.Join(t.TempDir(), "gone.toml"))

		_, err := Discover()
		require.Error(t, err)
		assert.Contains(t, err.Error(), EnvConfig)
		assert.NotErrorIs(t, err, ErrNotFound)
	})

	t.Run("current directory before XDG", func(t *testing.T) {
		xdg := t.TempDir()
		t.Setenv(EnvConfig, "")
		t.Setenv("XDG_CONFIG_HOME", xdg)
		require.NoError(t, os.MkdirAll(filepath.Join(xdg, "paheq"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(xdg, "paheq", "config.toml"), nil, 0o644))

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "paheq.toml"), nil, 0o644))
		inDir(t, dir)

		got, err := Discover()
		require.NoError(t, err)
		assert.Equal(t, "./paheq.toml", got)
	})

	t.Run("XDG", func(t *testing.T) {
		xdg := t.TempDir()
		t.Setenv(EnvConfig, "")
		t.Setenv("XDG_CONFIG_HOME", xdg)
		require.NoError(t, os.MkdirAll(filepath.Join(xdg, "paheq"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(xdg, "paheq", "config.toml"), nil, 0o644))
		inDir(t, t.TempDir())

		got, err := Discover()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(xdg, "paheq", "config.toml"), got)
	})

	t.Run("nothing found", func(t *testing.T) {
		if _, err := os.Stat("/etc/paheq/config.toml"); err == nil {
			t.Skip("system config present")
		}
		t.Setenv(EnvConfig, "")
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		inDir(t, t.TempDir())

		_, err := Discover()
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSearchPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, []string{"./paheq.toml", "/xdg/paheq/config.toml", "/etc/paheq/config.toml"}, SearchPaths())
}
