package events

import (
	"context"
	"log/slog"
	"sync"
)

// subscription is one consumer channel on the bus.
type subscription struct {
	ch     chan Event
	gone   chan struct{}
	once   sync.Once
	mu     sync.RWMutex // held for reading while a publisher is sending on ch
	closed bool
}

func newSubscription(bufferSize int) *subscription {
	return &subscription{
		ch:   make(chan Event, bufferSize),
		gone: make(chan struct{}),
	}
}

// shut releases blocked publishers, then closes the channel once no
// publisher can still be sending on it.
func (s *subscription) shut() {
	s.once.Do(func() { close(s.gone) })

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// Bus is the central event bus for pub/sub.
//
// Delivery blocks until every subscriber has accepted the event, so each
// subscriber sees events in publish order and none are dropped. Subscribers
// must keep draining their channel until they unsubscribe.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]*subscription // eventType -> subscriptions
	allSubs     []*subscription            // subscribers to all events
	log         *EventLog                  // SQLite persistence (may be nil)
	logger      *slog.Logger
	closed      bool
	quit        chan struct{}
}

// NewBus creates a new event bus.
// The EventLog is optional - pass nil to disable persistence.
func NewBus(log *EventLog, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subscribers: make(map[string][]*subscription),
		log:         log,
		logger:      logger,
		quit:        make(chan struct{}),
	}
}

// Publish sends an event to all subscribers and optionally persists it.
// It returns ctx.Err() if the context ends before delivery completes.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return nil
	}

	// Get subscribers for this event type, then all-event subscribers
	subs := make([]*subscription, 0, len(b.subscribers[e.EventType()])+len(b.allSubs))
	subs = append(subs, b.subscribers[e.EventType()]...)
	subs = append(subs, b.allSubs...)
	b.mu.RUnlock()

	// Persist event
	if b.log != nil && persisted(e) {
		if _, err := b.log.Append(e); err != nil {
			b.logger.Error("failed to persist event", "type", e.EventType(), "error", err)
			// Continue - event delivery is more important than persistence
		}
	}

	for _, sub := range subs {
		if err := b.deliver(ctx, sub, e); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bus) deliver(ctx context.Context, sub *subscription, e Event) error {
	sub.mu.RLock()
	defer sub.mu.RUnlock()
	if sub.closed {
		return nil
	}

	select {
	case sub.ch <- e:
		return nil
	case <-sub.gone:
		return nil
	case <-b.quit:
		return nil
	case <-ctx.Done():
		b.logger.Warn("event delivery interrupted",
			"type", e.EventType(),
			"entity_type", e.EntityType(),
			"entity_id", e.EntityID())
		return ctx.Err()
	}
}

// persisted reports whether an event belongs in the history log.
// Log lines are high volume and only meaningful live.
func persisted(e Event) bool {
	return e.EventType() != EventLogLine
}

// Subscribe returns a channel for events of a specific type.
func (b *Bus) Subscribe(eventType string, bufferSize int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := newSubscription(bufferSize)
	if b.closed {
		sub.shut()
		return sub.ch
	}
	b.subscribers[eventType] = append(b.subscribers[eventType], sub)
	return sub.ch
}

// SubscribeAll returns a channel for all events.
func (b *Bus) SubscribeAll(bufferSize int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := newSubscription(bufferSize)
	if b.closed {
		sub.shut()
		return sub.ch
	}
	b.allSubs = append(b.allSubs, sub)
	return sub.ch
}

// Unsubscribe removes a subscription channel and closes it.
// It is safe to call while a publisher is blocked sending to that channel.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	target := b.remove(ch)
	b.mu.Unlock()

	if target != nil {
		target.shut()
	}
}

func (b *Bus) remove(ch <-chan Event) *subscription {
	for eventType, subs := range b.subscribers {
		for i, sub := range subs {
			if sub.ch == ch {
				b.subscribers[eventType] = append(subs[:i], subs[i+1:]...)
				return sub
			}
		}
	}
	for i, sub := range b.allSubs {
		if sub.ch == ch {
			b.allSubs = append(b.allSubs[:i], b.allSubs[i+1:]...)
			return sub
		}
	}
	return nil
}

// Close shuts down the bus and closes all subscriber channels.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.quit)

	var subs []*subscription
	for _, s := range b.subscribers {
		subs = append(subs, s...)
	}
	subs = append(subs, b.allSubs...)
	b.subscribers = nil
	b.allSubs = nil
	b.mu.Unlock()

	for _, sub := range subs {
		sub.shut()
	}
	return nil
}
