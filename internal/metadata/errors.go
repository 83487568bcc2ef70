package metadata

import "errors"

// Sentinel errors for the metadata package.
var (
	// ErrNotFound is returned when no folder holds metadata for a session.
	ErrNotFound = errors.New("metadata not found")

	// ErrNoEpisodes is returned when a metadata file lists no usable episodes.
	ErrNoEpisodes = errors.New("metadata lists no episodes")
)
