package queue

import (
	"fmt"
	"strings"

	"github.com/vmunix/paheq/internal/episode"
)

// DefaultAudio is the audio track used when a request names none.
const DefaultAudio = "jpn"

// Request is a user-submitted job before validation.
type Request struct {
	Title       string `yaml:"title"`
	Session     string `yaml:"session"`
	EpisodeText string `yaml:"episodes"`
	Resolution  string `yaml:"resolution"` // empty means Auto
	Audio       string `yaml:"audio"`
}

// Item is a validated job. It is not modified after being queued.
type Item struct {
	ID          int64
	Title       string
	Session     string
	Episodes    []int
	Resolution  string
	Audio       string
	EpisodeText string
}

// NewItem validates req against the title's episode bounds.
// An empty episode text selects every episode.
func NewItem(req Request, bounds episode.Bounds) (Item, error) {
	if strings.TrimSpace(req.Session) == "" {
		return Item{}, ErrNoSession
	}
	if err := bounds.Validate(); err != nil {
		return Item{}, err
	}

	text := strings.TrimSpace(req.EpisodeText)
	if text == "" {
		text = bounds.String()
	}
	episodes, err := episode.Parse(text, bounds.Min, bounds.Max)
	if err != nil {
		return Item{}, err
	}

	audio := strings.TrimSpace(req.Audio)
	if audio == "" {
		audio = DefaultAudio
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = req.Session
	}

	return Item{
		Title:       title,
		Session:     strings.TrimSpace(req.Session),
		Episodes:    episodes,
		Resolution:  strings.TrimSpace(req.Resolution),
		Audio:       audio,
		EpisodeText: text,
	}, nil
}

// String returns the queue display line for the item.
func (i Item) String() string {
	res := i.Resolution
	if res == "" {
		res = "Auto"
	}
	return fmt.Sprintf("%s | Episodes: %s | Res: %s | Audio: %s", i.Title, i.EpisodeText, res, i.Audio)
}
