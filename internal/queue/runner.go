package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vmunix/paheq/internal/events"
	"github.com/vmunix/paheq/internal/fetch"
)

//go:generate mockgen -destination=mocks/mock_fetcher.go -package=mocks github.com/vmunix/paheq/internal/queue Fetcher

// Fetcher downloads a single episode, reporting output lines as they arrive.
type Fetcher interface {
	Fetch(ctx context.Context, req fetch.Request, out func(line string)) error
}

// Publisher receives queue events.
type Publisher interface {
	Publish(ctx context.Context, e events.Event) error
}

// Job is one queue item handed to the runner.
type Job struct {
	RunID string
	Index int
	Item  Item
}

// Result is the outcome of one job.
type Result struct {
	Success   bool // every episode exited 0
	Completed int
	Failed    int
	Canceled  bool
}

// Runner executes jobs one episode at a time.
type Runner struct {
	fetcher Fetcher
	pub     Publisher
	log     *slog.Logger
}

// NewRunner creates a job runner.
func NewRunner(fetcher Fetcher, pub Publisher, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		fetcher: fetcher,
		pub:     pub,
		log:     logger.With("component", "runner"),
	}
}

// Run downloads every episode of job in ascending order. A failed episode
// is recorded and the job moves on. Cancellation is honored between
// episodes only; the remaining episodes stay queued.
func (r *Runner) Run(ctx context.Context, job Job) Result {
	item := job.Item
	// events still go out after cancellation
	pctx := context.WithoutCancel(ctx)

	r.publish(pctx, &events.JobStarted{
		BaseEvent: events.NewJobEvent(events.EventJobStarted, item.ID),
		RunID:     job.RunID,
		Index:     job.Index,
		Title:     item.Title,
		Session:   item.Session,
		Episodes:  item.Episodes,
	})
	r.log.Info("job started", "job_id", item.ID, "title", item.Title, "episodes", len(item.Episodes))

	states := newEpisodeStates(item.Episodes)
	agg := NewAggregator(len(states))
	var res Result

	for i := range states {
		st := &states[i]
		if ctx.Err() != nil {
			res.Canceled = true
			break
		}

		r.transition(pctx, item.ID, st, EpisodeDownloading, "")
		r.status(pctx, item.ID, fmt.Sprintf("Downloading %s episode %d (%d/%d)", item.Title, st.Episode, i+1, len(states)))

		// subscribers may have taken a while; don't spawn after a stop
		if ctx.Err() != nil {
			r.transition(pctx, item.ID, st, EpisodeQueued, "canceled")
			res.Canceled = true
			break
		}

		err := r.fetcher.Fetch(ctx, fetch.Request{
			Session:    item.Session,
			Episode:    st.Episode,
			Resolution: item.Resolution,
			Audio:      item.Audio,
		}, func(line string) {
			r.publish(pctx, &events.LogLine{
				BaseEvent: events.NewJobEvent(events.EventLogLine, item.ID),
				Episode:   st.Episode,
				Line:      line,
			})
		})

		if err == nil {
			res.Completed++
			r.transition(pctx, item.ID, st, EpisodeCompleted, "")
			r.progress(pctx, item.ID, agg.Complete())
			continue
		}

		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			r.transition(pctx, item.ID, st, EpisodeQueued, "canceled")
			res.Canceled = true
			break
		}
		res.Failed++
		r.transition(pctx, item.ID, st, EpisodeFailed, failureDetail(err))
		r.log.Warn("episode failed", "job_id", item.ID, "episode", st.Episode, "error", err)
	}

	res.Success = res.Failed == 0 && !res.Canceled
	r.progress(pctx, item.ID, agg.Finish())

	r.publish(pctx, &events.JobFinished{
		BaseEvent: events.NewJobEvent(events.EventJobFinished, item.ID),
		RunID:     job.RunID,
		Index:     job.Index,
		Title:     item.Title,
		Success:   res.Success,
		Completed: res.Completed,
		Failed:    res.Failed,
		Canceled:  res.Canceled,
	})
	r.log.Info("job finished", "job_id", item.ID, "success", res.Success,
		"completed", res.Completed, "failed", res.Failed, "canceled", res.Canceled)

	return res
}

func (r *Runner) transition(ctx context.Context, jobID int64, st *EpisodeState, to EpisodeStatus, detail string) {
	from := st.Status
	if err := st.Transition(to, detail); err != nil {
		r.log.Error("episode transition rejected", "job_id", jobID, "error", err)
		return
	}
	r.publish(ctx, &events.EpisodeStatusChanged{
		BaseEvent: events.NewJobEvent(events.EventEpisodeStatus, jobID),
		Episode:   st.Episode,
		From:      string(from),
		To:        string(to),
		Detail:    detail,
	})
}

func (r *Runner) status(ctx context.Context, jobID int64, text string) {
	r.publish(ctx, &events.StatusText{
		BaseEvent: events.NewJobEvent(events.EventStatus, jobID),
		Text:      text,
	})
}

func (r *Runner) progress(ctx context.Context, jobID int64, p Progress) {
	r.publish(ctx, &events.ProgressUpdated{
		BaseEvent: events.NewJobEvent(events.EventProgress, jobID),
		Completed: p.Completed,
		Total:     p.Total,
	})
}

func (r *Runner) publish(ctx context.Context, e events.Event) {
	if r.pub == nil {
		return
	}
	if err := r.pub.Publish(ctx, e); err != nil {
		r.log.Warn("publish failed", "type", e.EventType(), "error", err)
	}
}

// failureDetail describes why an episode failed.
func failureDetail(err error) string {
	var exitErr *fetch.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Sprintf("exit code %d", exitErr.Code)
	}
	return err.Error()
}
