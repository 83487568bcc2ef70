// Package catalog reads and searches the fetch tool's title list.
//
// The list is a text file of "[session-key] Title" lines that the tool
// regenerates when run without arguments.
package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

var linePattern = regexp.MustCompile(`^\[([a-zA-Z0-9-]+)\]\s*(.*)$`)

// Entry is one title from the list.
type Entry struct {
	Key    string // session identifier, empty if the line had none
	Title  string
	folded string
}

// String returns the entry in list format.
func (e Entry) String() string {
	if e.Key == "" {
		return e.Title
	}
	return fmt.Sprintf("[%s] %s", e.Key, e.Title)
}

// Match is a search hit.
type Match struct {
	Entry
	Score float64 // Jaro-Winkler similarity of the folded title to the keyword, 0-1
}

// Catalog is a parsed title list.
type Catalog struct {
	entries []Entry
}

// Load reads the title list at path.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open title list: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads "[key] Title" lines. Blank lines are skipped; lines
// without a key are kept as keyless titles.
func Parse(r io.Reader) (*Catalog, error) {
	c := &Catalog{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		e := Entry{Title: line}
		if m := linePattern.FindStringSubmatch(line); m != nil {
			e.Key = m[1]
			if title := strings.TrimSpace(m[2]); title != "" {
				e.Title = title
			}
		}
		e.folded = Fold(e.Title)
		c.entries = append(c.entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read title list: %w", err)
	}
	return c, nil
}

// Len returns the number of titles.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Lookup returns the entry with the given session key.
func (c *Catalog) Lookup(key string) (Entry, bool) {
	for _, e := range c.entries {
		if e.Key != "" && e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}

// Search returns titles containing keyword, ignoring case and accents,
// best match first. Ties keep list order.
func (c *Catalog) Search(keyword string) []Match {
	needle := Fold(keyword)
	if needle == "" {
		return nil
	}

	var matches []Match
	for _, e := range c.entries {
		if !strings.Contains(e.folded, needle) {
			continue
		}
		score := float64(edlib.JaroWinklerSimilarity(needle, e.folded))
		matches = append(matches, Match{Entry: e, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}
