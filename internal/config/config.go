// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Fetch    FetchConfig    `toml:"fetch"`
	Defaults DefaultsConfig `toml:"defaults"`
	Catalog  CatalogConfig  `toml:"catalog"`
	Metadata MetadataConfig `toml:"metadata"`
	History  HistoryConfig  `toml:"history"`
	Logging  LoggingConfig  `toml:"logging"`
}

// FetchConfig locates the download script.
type FetchConfig struct {
	Shell   string `toml:"shell"`
	Script  string `toml:"script"`
	WorkDir string `toml:"work_dir"`
	Threads int    `toml:"threads"`
}

// DefaultsConfig holds per-job defaults.
type DefaultsConfig struct {
	Audio      string `toml:"audio"`
	Resolution string `toml:"resolution"`
}

type CatalogConfig struct {
	ListFile string `toml:"list_file"`
}

type MetadataConfig struct {
	CacheTTL duration `toml:"cache_ttl"`
}

// HistoryConfig controls the SQLite event log. An empty path disables it.
type HistoryConfig struct {
	Path          string `toml:"path"`
	RetentionDays int    `toml:"retention_days"`
}

type LoggingConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

// duration decodes TOML strings like "24h".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Load reads and parses the configuration file.
// Unresolved environment variables and validation failures are returned as *Error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &Error{Path: path, Missing: missing}
	}

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &Error{Path: path, Errors: errs}
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Fetch.Shell == "" {
		c.Fetch.Shell = "bash"
	}
	if c.Fetch.Script == "" {
		c.Fetch.Script = "animepahe-dl.sh"
	}
	if c.Fetch.WorkDir == "" {
		c.Fetch.WorkDir = "."
	}
	if c.Fetch.Threads == 0 {
		c.Fetch.Threads = 16
	}
	if c.Defaults.Audio == "" {
		c.Defaults.Audio = "jpn"
	}
	if c.Catalog.ListFile == "" {
		c.Catalog.ListFile = "anime.list"
	}
	if c.Metadata.CacheTTL.Duration == 0 {
		c.Metadata.CacheTTL.Duration = 24 * time.Hour
	}
	if c.History.Path == "" {
		c.History.Path = DefaultHistoryPath()
	}
	if c.History.RetentionDays == 0 {
		c.History.RetentionDays = 90
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = 10
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = 3
	}
	if c.Logging.MaxAgeDays == 0 {
		c.Logging.MaxAgeDays = 28
	}
}

// ListPath returns the title list path, resolved against the work directory.
func (c *Config) ListPath() string {
	if filepath.IsAbs(c.Catalog.ListFile) {
		return c.Catalog.ListFile
	}
	return filepath.Join(c.Fetch.WorkDir, c.Catalog.ListFile)
}

// CacheTTL returns how long resolved metadata is remembered.
func (c *Config) CacheTTL() time.Duration {
	return c.Metadata.CacheTTL.Duration
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces environment references with their values.
// References that cannot be resolved are left in place and reported.
// Comment lines are left alone.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	expand := func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		name, op, arg := m[1], m[2], m[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case ":-":
			if !ok || value == "" {
				return arg
			}
			return value
		case ":?":
			if !ok || value == "" {
				missing = append(missing, fmt.Sprintf("%s: %s", name, strings.TrimSpace(arg)))
				return match
			}
			return value
		default:
			if !ok {
				missing = append(missing, name)
				return match
			}
			return value
		}
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines[i] = envVarPattern.ReplaceAllStringFunc(line, expand)
	}
	return strings.Join(lines, "\n"), missing
}
