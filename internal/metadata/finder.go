// Package metadata discovers the episode bounds of a title from the
// metadata files the fetch tool leaves in its output folders.
package metadata

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vmunix/paheq/internal/episode"
)

// Location is where metadata for a session was found.
type Location struct {
	Bounds episode.Bounds
	Folder string
}

// Finder scans a download directory for title metadata.
type Finder struct {
	root string
	log  *slog.Logger
}

// NewFinder creates a finder rooted at the fetch tool's work directory.
func NewFinder(root string, logger *slog.Logger) *Finder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Finder{root: root, log: logger.With("component", "metadata")}
}

// Lookup returns the episode bounds for session. The folder named after
// title is tried first; otherwise every folder is scanned, newest first,
// for metadata that lists session.
func (f *Finder) Lookup(session, title string) (Location, error) {
	if title != "" {
		dir := filepath.Join(f.root, FolderName(title))
		src, err := readSource(filepath.Join(dir, SourceFile))
		switch {
		case err == nil:
			b, err := src.bounds()
			if err != nil {
				return Location{}, fmt.Errorf("%s: %w", dir, err)
			}
			return Location{Bounds: b, Folder: dir}, nil
		case !errors.Is(err, os.ErrNotExist):
			return Location{}, err
		}
	}

	dirs, err := f.foldersByAge()
	if err != nil {
		return Location{}, err
	}
	for _, dir := range dirs {
		src, err := readSource(filepath.Join(dir, SourceFile))
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				f.log.Debug("skipping unreadable metadata", "folder", dir, "error", err)
			}
			continue
		}
		if !src.hasSession(session) {
			continue
		}
		b, err := src.bounds()
		if err != nil {
			f.log.Debug("skipping metadata without episodes", "folder", dir)
			continue
		}
		return Location{Bounds: b, Folder: dir}, nil
	}

	return Location{}, fmt.Errorf("%w: session %s", ErrNotFound, session)
}

// foldersByAge lists sub-directories of root, most recently modified first.
// The tool's own checkout directories are skipped.
func (f *Finder) foldersByAge() ([]string, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.root, err)
	}

	type folder struct {
		path    string
		modTime int64
	}
	var folders []folder
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), "animepahe-dl") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		folders = append(folders, folder{
			path:    filepath.Join(f.root, e.Name()),
			modTime: info.ModTime().UnixNano(),
		})
	}
	sort.SliceStable(folders, func(i, j int) bool {
		return folders[i].modTime > folders[j].modTime
	})

	paths := make([]string, len(folders))
	for i, d := range folders {
		paths[i] = d.path
	}
	return paths, nil
}
