// internal/events/registry.go
package events

import (
	"encoding/json"
	"fmt"
)

// EventFactory creates a new zero-value event of a specific type.
type EventFactory func() Event

// Registry maps event types to their factories for deserialization.
type Registry struct {
	factories map[string]EventFactory
}

// NewRegistry creates a new event registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]EventFactory),
	}
}

// Register adds an event type to the registry.
func (r *Registry) Register(eventType string, factory EventFactory) {
	r.factories[eventType] = factory
}

// Unmarshal deserializes a raw event into its concrete type.
func (r *Registry) Unmarshal(raw RawEvent) (Event, error) {
	factory, ok := r.factories[raw.EventType]
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", raw.EventType)
	}

	event := factory()
	if err := json.Unmarshal([]byte(raw.Payload), event); err != nil {
		return nil, fmt.Errorf("unmarshal event payload: %w", err)
	}

	return event, nil
}

// DecodeAll decodes every record it can, in order. Records that fail to
// decode are skipped and counted.
func (r *Registry) DecodeAll(raws []RawEvent) ([]Event, int) {
	out := make([]Event, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		e, err := r.Unmarshal(raw)
		if err != nil {
			skipped++
			continue
		}
		out = append(out, e)
	}
	return out, skipped
}

// DefaultRegistry returns a registry with all standard event types registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	// Job events
	r.Register(EventLogLine, func() Event { return &LogLine{} })
	r.Register(EventProgress, func() Event { return &ProgressUpdated{} })
	r.Register(EventEpisodeStatus, func() Event { return &EpisodeStatusChanged{} })
	r.Register(EventJobStarted, func() Event { return &JobStarted{} })
	r.Register(EventJobFinished, func() Event { return &JobFinished{} })

	// Queue events
	r.Register(EventStatus, func() Event { return &StatusText{} })
	r.Register(EventQueueFinished, func() Event { return &QueueFinished{} })
	r.Register(EventQueueStopped, func() Event { return &QueueStopped{} })

	return r
}
