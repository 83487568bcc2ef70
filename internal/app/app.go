// Package app wires the queue, fetch tool, metadata and event history
// together for the command-line front end.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmunix/paheq/internal/config"
	"github.com/vmunix/paheq/internal/events"
	"github.com/vmunix/paheq/internal/fetch"
	"github.com/vmunix/paheq/internal/metadata"
	"github.com/vmunix/paheq/internal/migrations"
	"github.com/vmunix/paheq/internal/queue"

	_ "modernc.org/sqlite"
)

// App holds the long-lived components of one paheq process.
type App struct {
	Config   *config.Config
	Bus      *events.Bus
	History  *events.EventLog // nil when history is disabled
	Fetcher  *fetch.Script
	Resolver *metadata.Resolver
	Queue    *queue.Manager

	db     *sql.DB
	cache  *metadata.Cache
	logger *slog.Logger
}

// New builds an App from cfg. db may be nil to run without history or
// metadata caching.
func New(cfg *config.Config, db *sql.DB, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{Config: cfg, db: db, logger: logger}

	if db != nil {
		a.History = events.NewEventLog(db)
		a.cache = metadata.NewCache(db)
	}
	a.Bus = events.NewBus(a.History, logger.With("component", "bus"))

	a.Fetcher = fetch.NewScript(fetch.Options{
		Shell:   cfg.Fetch.Shell,
		Script:  cfg.Fetch.Script,
		WorkDir: cfg.Fetch.WorkDir,
		Threads: cfg.Fetch.Threads,
	}, logger)

	a.Resolver = metadata.NewResolver(
		metadata.NewFinder(cfg.Fetch.WorkDir, logger),
		a.Fetcher,
		a.cache,
		cfg.CacheTTL(),
		logger,
	)

	a.Queue = queue.NewManager(a.Fetcher, a.Bus, logger)
	return a
}

// OpenHistory opens (creating if needed) the SQLite history database at path.
func OpenHistory(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// one writer; the bus persists from the queue goroutine
	db.SetMaxOpenConns(1)

	if err := migrations.Apply(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Close shuts down the bus.
func (a *App) Close() error {
	return a.Bus.Close()
}

// Item resolves the title's episode bounds and validates req into a
// queue item. Configured defaults fill in audio and resolution.
func (a *App) Item(ctx context.Context, req queue.Request) (queue.Item, error) {
	if strings.TrimSpace(req.Session) == "" {
		return queue.Item{}, queue.ErrNoSession
	}
	if req.Audio == "" {
		req.Audio = a.Config.Defaults.Audio
	}
	if req.Resolution == "" {
		req.Resolution = a.Config.Defaults.Resolution
	}

	loc, err := a.Resolver.Resolve(ctx, strings.TrimSpace(req.Session), req.Title)
	if err != nil {
		return queue.Item{}, fmt.Errorf("resolve episodes for %s: %w", req.Session, err)
	}
	if req.Title == "" {
		req.Title = filepath.Base(loc.Folder)
	}

	return queue.NewItem(req, loc.Bounds)
}
