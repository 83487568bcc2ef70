package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vmunix/paheq/internal/episode"
)

// SourceFile is the name of the metadata file the fetch tool writes into a title folder.
const SourceFile = ".source.json"

// source is the parsed metadata file. Older tool versions use "data"
// instead of "episodes".
type source struct {
	Episodes []sourceEntry `json:"episodes"`
	Data     []sourceEntry `json:"data"`
}

type sourceEntry struct {
	Episode flexString `json:"episode"`
	Session flexString `json:"session"`
	ID      flexString `json:"id"`
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*f = flexString(n.String())
	return nil
}

func readSource(path string) (*source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var src source
	if err := json.Unmarshal(data, &src); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &src, nil
}

func (s *source) entries() []sourceEntry {
	if s.Episodes != nil {
		return s.Episodes
	}
	return s.Data
}

// hasSession reports whether any entry belongs to session.
func (s *source) hasSession(session string) bool {
	for _, e := range s.entries() {
		key := e.Session
		if key == "" {
			key = e.ID
		}
		if string(key) == session {
			return true
		}
	}
	return false
}

// bounds returns the lowest and highest whole episode numbers listed.
// Fractional specials such as "12.5" are skipped.
func (s *source) bounds() (episode.Bounds, error) {
	var b episode.Bounds
	found := false
	for _, e := range s.entries() {
		n, err := strconv.Atoi(strings.TrimSpace(string(e.Episode)))
		if err != nil || n < 1 {
			continue
		}
		if !found || n < b.Min {
			b.Min = n
		}
		if !found || n > b.Max {
			b.Max = n
		}
		found = true
	}
	if !found {
		return episode.Bounds{}, ErrNoEpisodes
	}
	return b, nil
}
