// internal/config/validate.go
package config

import (
	"fmt"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

var validLogFormats = map[string]bool{
	"text": true, "json": true,
}

// resolutions the fetch tool accepts for -r
var validResolutions = map[string]bool{
	"": true, "360": true, "480": true, "720": true, "1080": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	// Fetch validation
	if strings.TrimSpace(c.Fetch.Script) == "" {
		errs = append(errs, "fetch.script: required")
	}
	if c.Fetch.Threads < 1 || c.Fetch.Threads > 64 {
		errs = append(errs, fmt.Sprintf("fetch.threads: must be between 1 and 64, got %d", c.Fetch.Threads))
	}

	// Defaults validation
	if strings.TrimSpace(c.Defaults.Audio) == "" {
		errs = append(errs, "defaults.audio: required")
	}
	if !validResolutions[c.Defaults.Resolution] {
		errs = append(errs, fmt.Sprintf("defaults.resolution: must be one of 360, 480, 720, 1080 or empty; got %q", c.Defaults.Resolution))
	}

	// History validation
	if c.History.RetentionDays < 0 {
		errs = append(errs, fmt.Sprintf("history.retention_days: must not be negative, got %d", c.History.RetentionDays))
	}
	if c.Metadata.CacheTTL.Duration < 0 {
		errs = append(errs, fmt.Sprintf("metadata.cache_ttl: must not be negative, got %s", c.Metadata.CacheTTL.Duration))
	}

	// Logging validation
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("logging.level: must be one of debug, info, warn, error; got %q", c.Logging.Level))
	}
	if !validLogFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("logging.format: must be text or json; got %q", c.Logging.Format))
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxBackups < 0 || c.Logging.MaxAgeDays < 0 {
		errs = append(errs, "logging: rotation limits must not be negative")
	}

	return errs
}

// Warnings reports problems that do not stop the program, such as a
// work directory that does not exist yet.
func (c *Config) Warnings() []string {
	var warns []string
	if !dirExists(c.Fetch.WorkDir) {
		warns = append(warns, fmt.Sprintf("fetch.work_dir: directory %q does not exist", c.Fetch.WorkDir))
	}
	return warns
}
