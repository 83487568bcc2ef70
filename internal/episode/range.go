// Package episode parses and formats episode specifications such as "1,2,5-10".
package episode

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidRange is returned when an episode specification is malformed
// or falls outside the known bounds.
var ErrInvalidRange = errors.New("invalid episode range")

var (
	singlePattern = regexp.MustCompile(`^[0-9]+$`)
	rangePattern  = regexp.MustCompile(`^([0-9]+)-([0-9]+)$`)
)

// MaxEpisode is the highest episode number any title may have.
const MaxEpisode = 10000

// Bounds is the inclusive span of episodes available for a title.
type Bounds struct {
	Min int
	Max int
}

// Validate reports whether the bounds describe a usable span.
func (b Bounds) Validate() error {
	if b.Min < 1 || b.Max < 1 {
		return fmt.Errorf("bounds %d-%d: episodes must be positive", b.Min, b.Max)
	}
	if b.Min > b.Max {
		return fmt.Errorf("bounds %d-%d: min exceeds max", b.Min, b.Max)
	}
	if b.Max > MaxEpisode {
		return fmt.Errorf("bounds %d-%d: max above %d", b.Min, b.Max, MaxEpisode)
	}
	return nil
}

// String returns the full-range specification "min-max".
func (b Bounds) String() string {
	return fmt.Sprintf("%d-%d", b.Min, b.Max)
}

// Parse expands spec into a sorted, duplicate-free list of episode numbers.
// Every token must be valid for the whole parse to succeed.
// An empty spec is an error; callers substitute Bounds.String() first.
func Parse(spec string, min, max int) ([]int, error) {
	seen := make(map[int]struct{})

	for _, raw := range strings.Split(spec, ",") {
		token := strings.TrimSpace(raw)

		if singlePattern.MatchString(token) {
			n, err := strconv.Atoi(token)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidRange, token)
			}
			if n < min || n > max {
				return nil, fmt.Errorf("%w: %d outside %d-%d", ErrInvalidRange, n, min, max)
			}
			seen[n] = struct{}{}
			continue
		}

		m := rangePattern.FindStringSubmatch(token)
		if m == nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRange, token)
		}
		a, errA := strconv.Atoi(m[1])
		b, errB := strconv.Atoi(m[2])
		if errA != nil || errB != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRange, token)
		}
		if a > b || a < min || b > max {
			return nil, fmt.Errorf("%w: %s outside %d-%d", ErrInvalidRange, token, min, max)
		}
		for n := a; n <= b; n++ {
			seen[n] = struct{}{}
		}
	}

	episodes := make([]int, 0, len(seen))
	for n := range seen {
		episodes = append(episodes, n)
	}
	sort.Ints(episodes)
	return episodes, nil
}

// Format compresses a sorted episode list into range text, e.g. [1 2 3 5] -> "1-3,5".
func Format(episodes []int) string {
	if len(episodes) == 0 {
		return ""
	}

	var parts []string
	start, prev := episodes[0], episodes[0]
	flush := func() {
		if start == prev {
			parts = append(parts, strconv.Itoa(start))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", start, prev))
		}
	}
	for _, n := range episodes[1:] {
		if n == prev+1 {
			prev = n
			continue
		}
		flush()
		start, prev = n, n
	}
	flush()

	return strings.Join(parts, ",")
}
