package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// receive reads n events from ch or fails after a second.
func receive(t *testing.T, ch <-chan Event, n int) []Event {
	t.Helper()
	got := make([]Event, 0, n)
	timeout := time.After(time.Second)
	for len(got) < n {
		select {
		case e, ok := <-ch:
			if !ok {
				t.Fatalf("channel closed after %d of %d events", len(got), n)
			}
			got = append(got, e)
		case <-timeout:
			t.Fatalf("timeout after %d of %d events", len(got), n)
		}
	}
	return got
}

func TestBus_SubscribeByType(t *testing.T) {
	bus := NewBus(NewEventLog(setupTestDB(t)), nil)
	defer bus.Close()

	progress := bus.Subscribe(EventProgress, 10)
	ctx := context.Background()

	require.NoError(t, bus.Publish(ctx, &StatusText{BaseEvent: NewBaseEvent(EventStatus, EntityJob, 1), Text: "Downloading"}))
	require.NoError(t, bus.Publish(ctx, &ProgressUpdated{BaseEvent: NewBaseEvent(EventProgress, EntityJob, 1), Completed: 1, Total: 4}))

	got := receive(t, progress, 1)
	p, ok := got[0].(*ProgressUpdated)
	require.True(t, ok)
	assert.Equal(t, 1, p.Completed)
	assert.Equal(t, 4, p.Total)

	select {
	case e := <-progress:
		t.Fatalf("unexpected %s on progress subscription", e.EventType())
	default:
	}
}

func TestBus_SubscribeAllSeesEveryKind(t *testing.T) {
	bus := NewBus(nil, nil)
	defer bus.Close()

	ch := bus.SubscribeAll(10)
	ctx := context.Background()

	published := []Event{
		&JobStarted{BaseEvent: NewBaseEvent(EventJobStarted, EntityJob, 1), Title: "Frieren"},
		&LogLine{BaseEvent: NewBaseEvent(EventLogLine, EntityJob, 1), Episode: 1, Line: "fetching"},
		&JobFinished{BaseEvent: NewBaseEvent(EventJobFinished, EntityJob, 1), Success: true},
		&QueueFinished{BaseEvent: NewBaseEvent(EventQueueFinished, EntityQueue, 0), Jobs: 1, Succeeded: 1},
	}
	for _, e := range published {
		require.NoError(t, bus.Publish(ctx, e))
	}

	got := receive(t, ch, len(published))
	assert.Equal(t, published, got)
}

func TestBus_UnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus(nil, nil)
	defer bus.Close()

	ch := bus.Subscribe(EventStatus, 1)
	bus.Unsubscribe(ch)

	// no subscribers left, must not block
	require.NoError(t, bus.Publish(context.Background(), &StatusText{BaseEvent: NewBaseEvent(EventStatus, EntityQueue, 0), Text: "x"}))

	_, ok := <-ch
	assert.False(t, ok)

	// unknown channels are ignored
	bus.Unsubscribe(make(chan Event))
}

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := NewBus(nil, nil)
	defer bus.Close()

	ch := bus.SubscribeAll(4)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = bus.Publish(context.Background(), &LogLine{BaseEvent: NewBaseEvent(EventLogLine, EntityJob, int64(n)), Line: "line"})
		}(i)
	}

	// publishers block on the small buffer until drained
	got := receive(t, ch, 10)
	wg.Wait()
	assert.Len(t, got, 10)
}

func TestBus_PreservesOrderPerSubscriber(t *testing.T) {
	bus := NewBus(nil, nil)
	defer bus.Close()

	// Unbuffered: every publish waits for the reader
	ch := bus.SubscribeAll(0)

	const n = 50
	go func() {
		for i := 0; i < n; i++ {
			e := &ProgressUpdated{BaseEvent: NewBaseEvent(EventProgress, EntityJob, 1), Completed: i, Total: n}
			_ = bus.Publish(context.Background(), e)
		}
	}()

	for i := 0; i < n; i++ {
		select {
		case e := <-ch:
			p, ok := e.(*ProgressUpdated)
			require.True(t, ok)
			assert.Equal(t, i, p.Completed)
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for event %d", i)
		}
	}
}

func TestBus_PublishBlocksUntilContextDone(t *testing.T) {
	bus := NewBus(nil, nil)
	defer bus.Close()

	_ = bus.Subscribe("test.event", 0) // never drained

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	e := &testEvent{BaseEvent: NewBaseEvent("test.event", "test", 1), Message: "stuck"}
	err := bus.Publish(ctx, e)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBus_UnsubscribeReleasesBlockedPublisher(t *testing.T) {
	bus := NewBus(nil, nil)
	defer bus.Close()

	ch := bus.Subscribe("test.event", 0)

	done := make(chan error, 1)
	go func() {
		e := &testEvent{BaseEvent: NewBaseEvent("test.event", "test", 1), Message: "pending"}
		done <- bus.Publish(context.Background(), e)
	}()

	time.Sleep(10 * time.Millisecond)
	bus.Unsubscribe(ch)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("publisher still blocked after unsubscribe")
	}
}

func TestBus_LogLinesAreNotPersisted(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)
	bus := NewBus(log, nil)
	defer bus.Close()

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, &LogLine{BaseEvent: NewBaseEvent(EventLogLine, EntityJob, 1), Line: "downloading..."}))
	require.NoError(t, bus.Publish(ctx, &StatusText{BaseEvent: NewBaseEvent(EventStatus, EntityQueue, 0), Text: "Queue finished"}))

	events, err := log.Find(Filter{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventStatus, events[0].EventType)
}

func TestBus_SubscribeAfterClose(t *testing.T) {
	bus := NewBus(nil, nil)
	require.NoError(t, bus.Close())

	ch := bus.SubscribeAll(1)
	_, ok := <-ch
	assert.False(t, ok, "channel from a closed bus should be closed")

	e := &testEvent{BaseEvent: NewBaseEvent("test.event", "test", 1)}
	assert.NoError(t, bus.Publish(context.Background(), e))
}
