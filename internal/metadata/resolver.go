package metadata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Primer asks the fetch tool to write metadata for a session.
type Primer interface {
	Prime(ctx context.Context, session string) error
}

// Resolver finds episode bounds, priming the fetch tool once when no
// metadata exists yet. Cache and primer are optional.
type Resolver struct {
	finder *Finder
	primer Primer
	cache  *Cache
	ttl    time.Duration
	log    *slog.Logger
}

// NewResolver creates a resolver.
func NewResolver(finder *Finder, primer Primer, cache *Cache, ttl time.Duration, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		finder: finder,
		primer: primer,
		cache:  cache,
		ttl:    ttl,
		log:    logger.With("component", "resolver"),
	}
}

// Resolve returns the location of session's metadata.
func (r *Resolver) Resolve(ctx context.Context, session, title string) (Location, error) {
	if loc, ok := r.cached(ctx, session); ok {
		r.log.Debug("metadata cache hit", "session", session, "folder", loc.Folder)
		return loc, nil
	}

	loc, err := r.finder.Lookup(session, title)
	if errors.Is(err, ErrNotFound) && r.primer != nil {
		r.log.Info("metadata missing, priming", "session", session)
		if perr := r.primer.Prime(ctx, session); perr != nil {
			// the tool may still have written metadata before failing
			r.log.Warn("prime failed", "session", session, "error", perr)
		}
		loc, err = r.finder.Lookup(session, title)
	}
	if err != nil {
		return Location{}, err
	}

	if r.cache != nil && r.ttl > 0 {
		if err := r.cache.Set(ctx, session, loc, r.ttl); err != nil {
			r.log.Warn("metadata cache write failed", "session", session, "error", err)
		}
	}
	return loc, nil
}

// cached returns a cache entry whose folder still holds metadata.
func (r *Resolver) cached(ctx context.Context, session string) (Location, bool) {
	if r.cache == nil {
		return Location{}, false
	}
	loc, ok := r.cache.Get(ctx, session)
	if !ok {
		return Location{}, false
	}
	if _, err := os.Stat(filepath.Join(loc.Folder, SourceFile)); err != nil {
		_ = r.cache.Delete(ctx, session)
		return Location{}, false
	}
	return loc, true
}

// String describes a location for status output.
func (l Location) String() string {
	return fmt.Sprintf("Episodes available: %s (%s)", l.Bounds, filepath.Base(l.Folder))
}
