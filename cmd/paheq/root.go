package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/paheq/internal/app"
	"github.com/vmunix/paheq/internal/config"
)

var version = "dev"

var (
	configPath string
	verbose    bool
	noHistory  bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "paheq",
	Short: "Download queue for animepahe episodes",
	Long: `paheq - download queue for animepahe episodes

Queues titles and episode ranges, then runs the animepahe-dl fetch
script once per episode, in order, reporting progress as it goes.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: discovered)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show fetch tool output")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "Do not record job history")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON where supported")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("paheq {{.Version}}\n")
}

// loadConfig reads the config named by --config, or the discovered one.
// With no config anywhere the defaults are used.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		found, err := config.Discover()
		if errors.Is(err, config.ErrNotFound) {
			return config.Default(), nil
		}
		if err != nil {
			return nil, err
		}
		path = found
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// session is an App plus everything that must be released with it.
type session struct {
	*app.App
	closers []io.Closer
}

func (s *session) Close() error {
	var errs []error
	if err := s.App.Close(); err != nil {
		errs = append(errs, err)
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// openSession loads config, sets up logging and history, and builds the App.
func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, logCloser, err := config.InitLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}
	s := &session{closers: []io.Closer{logCloser}}

	for _, w := range cfg.Warnings() {
		logger.Warn("config", "warning", w)
	}

	var db *sql.DB
	if !noHistory && cfg.History.Path != "" {
		db, err = app.OpenHistory(cfg.History.Path)
		if err != nil {
			logger.Warn("history disabled", "path", cfg.History.Path, "error", err)
			db = nil
		} else {
			s.closers = append(s.closers, db)
		}
	}
	s.App = app.New(cfg, db, logger)

	logger.Debug("session ready", "work_dir", cfg.Fetch.WorkDir, "history", db != nil)
	return s, nil
}
