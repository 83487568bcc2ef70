package queue_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/vmunix/paheq/internal/episode"
	"github.com/vmunix/paheq/internal/events"
	"github.com/vmunix/paheq/internal/fetch"
	"github.com/vmunix/paheq/internal/queue"
)

// testLogger returns a discard logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// collector records every published event in order.
// onPublish, when set, runs after each event is recorded.
type collector struct {
	mu        sync.Mutex
	events    []events.Event
	onPublish func(events.Event)
}

func (c *collector) Publish(_ context.Context, e events.Event) error {
	c.mu.Lock()
	c.events = append(c.events, e)
	hook := c.onPublish
	c.mu.Unlock()
	if hook != nil {
		hook(e)
	}
	return nil
}

func (c *collector) all() []events.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]events.Event(nil), c.events...)
}

func (c *collector) ofType(eventType string) []events.Event {
	var out []events.Event
	for _, e := range c.all() {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

// mustItem builds an item covering spec within 1..max.
func mustItem(title, session, spec string, max int) queue.Item {
	item, err := queue.NewItem(queue.Request{Title: title, Session: session, EpisodeText: spec},
		episode.Bounds{Min: 1, Max: max})
	if err != nil {
		panic(err)
	}
	return item
}

// fetchFunc is the DoAndReturn shape for MockFetcher.Fetch.
type fetchFunc = func(ctx context.Context, req fetch.Request, out func(string)) error

// fetchEpisode matches a fetch.Request for episode n.
type fetchEpisode int

func (n fetchEpisode) Matches(x any) bool {
	req, ok := x.(fetch.Request)
	return ok && req.Episode == int(n)
}

func (n fetchEpisode) String() string {
	return fmt.Sprintf("is episode %d", int(n))
}
