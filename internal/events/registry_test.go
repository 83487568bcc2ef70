// internal/events/registry_test.go
package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Unmarshal(t *testing.T) {
	registry := NewRegistry()

	// Register event types
	registry.Register(EventJobStarted, func() Event { return &JobStarted{} })
	registry.Register(EventJobFinished, func() Event { return &JobFinished{} })

	raw := RawEvent{
		EventType: EventJobStarted,
		Payload:   `{"type":"job.started","entity_type":"job","entity_id":4,"occurred_at":"2024-01-01T00:00:00Z","run_id":"r1","index":2,"title":"Frieren","session":"abc-123","episodes":[1,2,3]}`,
	}

	event, err := registry.Unmarshal(raw)
	require.NoError(t, err)

	started, ok := event.(*JobStarted)
	require.True(t, ok)
	assert.Equal(t, "Frieren", started.Title)
	assert.Equal(t, "abc-123", started.Session)
	assert.Equal(t, []int{1, 2, 3}, started.Episodes)
	assert.Equal(t, 2, started.Index)
}

func TestRegistry_UnmarshalUnknownType(t *testing.T) {
	registry := NewRegistry()

	raw := RawEvent{
		EventType: "unknown.event",
		Payload:   `{}`,
	}

	_, err := registry.Unmarshal(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown event type")
}

func TestRegistry_UnmarshalInvalidJSON(t *testing.T) {
	registry := NewRegistry()
	registry.Register(EventJobStarted, func() Event { return &JobStarted{} })

	raw := RawEvent{
		EventType: EventJobStarted,
		Payload:   `{invalid json`,
	}

	_, err := registry.Unmarshal(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal event payload")
}

func TestDefaultRegistry(t *testing.T) {
	registry := DefaultRegistry()

	// Verify all event types are registered
	eventTypes := []string{
		EventLogLine,
		EventStatus,
		EventProgress,
		EventEpisodeStatus,
		EventJobStarted,
		EventJobFinished,
		EventQueueFinished,
		EventQueueStopped,
	}

	for _, eventType := range eventTypes {
		t.Run(eventType, func(t *testing.T) {
			raw := RawEvent{
				EventType: eventType,
				Payload:   `{"type":"` + eventType + `","entity_type":"job","entity_id":1,"occurred_at":"2024-01-01T00:00:00Z"}`,
			}
			event, err := registry.Unmarshal(raw)
			require.NoError(t, err, "Failed to unmarshal %s", eventType)
			assert.Equal(t, eventType, event.EventType())
		})
	}
}

func TestRegistry_UnmarshalJobFinished(t *testing.T) {
	registry := DefaultRegistry()

	raw := RawEvent{
		EventType: EventJobFinished,
		Payload:   `{"type":"job.finished","entity_type":"job","entity_id":99,"occurred_at":"2024-01-01T12:00:00Z","run_id":"r1","index":0,"title":"Frieren","success":false,"completed":4,"failed":1}`,
	}

	event, err := registry.Unmarshal(raw)
	require.NoError(t, err)

	finished, ok := event.(*JobFinished)
	require.True(t, ok)
	assert.False(t, finished.Success)
	assert.Equal(t, 4, finished.Completed)
	assert.Equal(t, 1, finished.Failed)
	assert.Equal(t, int64(99), finished.EntityID())
}

func TestRegistry_DecodeAll(t *testing.T) {
	raws := []RawEvent{
		{EventType: EventJobFinished, Payload: `{"type":"job.finished","title":"Frieren","success":true}`},
		{EventType: "unknown.event", Payload: `{}`},
		{EventType: EventQueueStopped, Payload: `{"type":"queue.stopped","index":2,"reason":"context canceled"}`},
		{EventType: EventJobFinished, Payload: `nope`},
	}

	decoded, skipped := DefaultRegistry().DecodeAll(raws)
	assert.Equal(t, 2, skipped)
	require.Len(t, decoded, 2)
	assert.IsType(t, &JobFinished{}, decoded[0])
	assert.Equal(t, 2, decoded[1].(*QueueStopped).Index)
}
