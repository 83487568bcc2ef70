// Package queue runs an ordered list of download jobs against the fetch tool.
package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/vmunix/paheq/internal/events"
)

// Entry is a display copy of one queued job.
type Entry struct {
	Index    int
	Item     Item
	State    JobState
	Episodes []EpisodeState
	Progress Progress
	Result   *Result // set once the job has finished
}

// String returns the item's display line plus its terminal suffix.
func (e Entry) String() string {
	s := e.Item.String()
	if e.State == JobFinished && e.Result != nil {
		if e.Result.Success {
			s += " [Done]"
		} else {
			s += " [Errors]"
		}
	}
	return s
}

type record struct {
	item     Item
	state    JobState
	episodes []EpisodeState
	progress Progress
	result   *Result
}

func newRecord(item Item) *record {
	r := &record{item: item}
	r.reset()
	return r
}

func (r *record) reset() {
	r.state = JobPending
	r.episodes = newEpisodeStates(r.item.Episodes)
	r.progress = Progress{Total: len(r.item.Episodes)}
	r.result = nil
}

// Manager owns the queue and its run state.
//
// While a run is active, entries at or before the current index are
// locked; later entries may be removed and new ones appended.
type Manager struct {
	mu      sync.Mutex
	records []*record
	running bool
	current int
	nextID  int64
	runID   string
	done    chan struct{}

	runner *Runner
	pub    Publisher
	log    *slog.Logger
}

// NewManager creates a queue manager. pub may be nil.
func NewManager(fetcher Fetcher, pub Publisher, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		pub: pub,
		log: logger.With("component", "queue"),
	}
	m.runner = NewRunner(fetcher, &tracker{m: m, next: pub}, logger)
	return m
}

// Add appends item and assigns its ID.
func (m *Manager) Add(item Item) (Item, error) {
	if len(item.Episodes) == 0 {
		return Item{}, ErrNoEpisodes
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	item.ID = m.nextID
	item.Episodes = append([]int(nil), item.Episodes...)
	m.records = append(m.records, newRecord(item))

	m.log.Debug("item queued", "job_id", item.ID, "title", item.Title, "position", len(m.records)-1)
	return item, nil
}

// Remove deletes the item at index and shifts later items down.
func (m *Manager) Remove(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running && index <= m.current {
		return fmt.Errorf("%w: %d", ErrLockedIndex, index)
	}
	if index < 0 || index >= len(m.records) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	m.records = append(m.records[:index], m.records[index+1:]...)
	return nil
}

// Clear empties the queue.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return ErrQueueBusy
	}
	m.records = nil
	m.current = 0
	return nil
}

// Start runs the queue from the first item on its own goroutine.
// Records from a previous run are reset. Canceling ctx stops the run
// after the episode in flight.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.records) == 0 {
		return ErrEmptyQueue
	}
	if m.running {
		return ErrAlreadyRunning
	}

	for _, r := range m.records {
		r.reset()
	}
	m.running = true
	m.current = 0
	m.runID = uuid.NewString()
	m.done = make(chan struct{})

	m.log.Info("queue started", "run_id", m.runID, "jobs", len(m.records))
	go m.loop(ctx, m.runID, m.done)
	return nil
}

// Wait blocks until the current run, if any, has ended.
func (m *Manager) Wait() {
	m.mu.Lock()
	done := m.done
	m.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Len returns the number of queued items.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// Running reports whether a run is active.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Current returns the index of the job being run, or the queue length
// once a run has finished.
func (m *Manager) Current() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Entries returns a snapshot of the queue for display.
func (m *Manager) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Entry, len(m.records))
	for i, r := range m.records {
		out[i] = Entry{
			Index:    i,
			Item:     r.item,
			State:    r.state,
			Episodes: append([]EpisodeState(nil), r.episodes...),
			Progress: r.progress,
		}
		if r.result != nil {
			res := *r.result
			out[i].Result = &res
		}
	}
	return out
}

// loop runs jobs in order until the queue is exhausted or ctx is canceled.
// It is the only writer of current.
func (m *Manager) loop(ctx context.Context, runID string, done chan struct{}) {
	defer close(done)
	pctx := context.WithoutCancel(ctx)

	jobs, succeeded := 0, 0
	for {
		m.mu.Lock()
		if ctx.Err() != nil {
			m.running = false
			index := m.current
			m.mu.Unlock()
			m.stopped(pctx, runID, index, ctx.Err())
			return
		}
		if m.current >= len(m.records) {
			m.running = false
			m.mu.Unlock()
			m.finished(pctx, runID, jobs, succeeded)
			return
		}
		rec := m.records[m.current]
		rec.state = JobRunning
		job := Job{RunID: runID, Index: m.current, Item: rec.item}
		m.mu.Unlock()

		res := m.runner.Run(ctx, job)

		m.mu.Lock()
		rec.state = JobFinished
		rec.result = &res
		m.current++
		m.mu.Unlock()

		jobs++
		if res.Success {
			succeeded++
		}
	}
}

func (m *Manager) finished(ctx context.Context, runID string, jobs, succeeded int) {
	m.log.Info("queue finished", "run_id", runID, "jobs", jobs, "succeeded", succeeded)
	m.publish(ctx, &events.QueueFinished{
		BaseEvent: events.NewQueueEvent(events.EventQueueFinished),
		RunID:     runID,
		Jobs:      jobs,
		Succeeded: succeeded,
	})
	m.publish(ctx, &events.StatusText{
		BaseEvent: events.NewQueueEvent(events.EventStatus),
		Text:      "Queue finished",
	})
}

func (m *Manager) stopped(ctx context.Context, runID string, index int, reason error) {
	m.log.Info("queue stopped", "run_id", runID, "index", index, "reason", reason)
	m.publish(ctx, &events.QueueStopped{
		BaseEvent: events.NewQueueEvent(events.EventQueueStopped),
		RunID:     runID,
		Index:     index,
		Reason:    reason.Error(),
	})
	m.publish(ctx, &events.StatusText{
		BaseEvent: events.NewQueueEvent(events.EventStatus),
		Text:      "Queue stopped",
	})
}

func (m *Manager) publish(ctx context.Context, e events.Event) {
	if m.pub == nil {
		return
	}
	if err := m.pub.Publish(ctx, e); err != nil {
		m.log.Warn("publish failed", "type", e.EventType(), "error", err)
	}
}

// tracker mirrors runner events into the manager's records before
// forwarding them.
type tracker struct {
	m    *Manager
	next Publisher
}

func (t *tracker) Publish(ctx context.Context, e events.Event) error {
	t.m.observe(e)
	if t.next == nil {
		return nil
	}
	return t.next.Publish(ctx, e)
}

func (m *Manager) observe(e events.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := m.recordByID(e.EntityID())
	if rec == nil {
		return
	}

	switch ev := e.(type) {
	case *events.EpisodeStatusChanged:
		for i := range rec.episodes {
			if rec.episodes[i].Episode == ev.Episode {
				rec.episodes[i].Status = EpisodeStatus(ev.To)
				rec.episodes[i].Detail = ev.Detail
				break
			}
		}
	case *events.ProgressUpdated:
		rec.progress = Progress{Completed: ev.Completed, Total: ev.Total}
	}
}

func (m *Manager) recordByID(id int64) *record {
	for _, r := range m.records {
		if r.item.ID == id {
			return r
		}
	}
	return nil
}
