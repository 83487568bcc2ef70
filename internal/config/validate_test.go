// internal/config/validate_test.go
package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_DefaultsValid(t *testing.T) {
	errs := Default().Validate()
	assert.Empty(t, errs, "expected no errors for default config")
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"no script", func(c *Config) { c.Fetch.Script = " " }, "fetch.script"},
		{"zero threads", func(c *Config) { c.Fetch.Threads = 0 }, "fetch.threads"},
		{"too many threads", func(c *Config) { c.Fetch.Threads = 65 }, "fetch.threads"},
		{"no audio", func(c *Config) { c.Defaults.Audio = "" }, "defaults.audio"},
		{"bad resolution", func(c *Config) { c.Defaults.Resolution = "4k" }, "defaults.resolution"},
		{"negative retention", func(c *Config) { c.History.RetentionDays = -1 }, "history.retention_days"},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"negative rotation", func(c *Config) { c.Logging.MaxBackups = -2 }, "logging: rotation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			errs := cfg.Validate()
			assert.True(t, containsError(errs, tt.want), "expected %q error, got %v", tt.want, errs)
		})
	}
}

func TestValidate_ResolutionChoices(t *testing.T) {
	for _, res := range []string{"", "360", "480", "720", "1080"} {
		cfg := Default()
		cfg.Defaults.Resolution = res
		assert.Empty(t, cfg.Validate(), "resolution %q", res)
	}
}

func TestWarnings_MissingWorkDir(t *testing.T) {
	cfg := Default()
	cfg.Fetch.WorkDir = "/nonexistent/paheq/work"
	warns := cfg.Warnings()
	assert.True(t, containsError(warns, "fetch.work_dir"), "got %v", warns)

	cfg.Fetch.WorkDir = t.TempDir()
	assert.Empty(t, cfg.Warnings())
}

func containsError(errs []string, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}
