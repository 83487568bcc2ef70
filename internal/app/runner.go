package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/paheq/internal/events"
)

// Sink receives every queue event in publish order.
type Sink func(events.Event)

// Run starts the queue and delivers its events to sink until the run
// ends. Canceling ctx stops the queue after the episode in flight.
// Old history is pruned alongside.
func (a *App) Run(ctx context.Context, sink Sink) error {
	ch := a.Bus.SubscribeAll(64)
	defer a.Bus.Unsubscribe(ch)

	if err := a.Queue.Start(ctx); err != nil {
		return err
	}

	done := make(chan struct{})
	go func() {
		a.Queue.Wait()
		close(done)
	}()

	// errgroup context is not used to stop the queue; ctx already does
	var g errgroup.Group

	g.Go(func() error {
		for {
			select {
			case e, ok := <-ch:
				if !ok {
					return nil
				}
				sink(e)
			case <-done:
				// delivery blocks, so anything published is already buffered
				for {
					select {
					case e, ok := <-ch:
						if !ok {
							return nil
						}
						sink(e)
					default:
						return nil
					}
				}
			}
		}
	})

	g.Go(func() error {
		a.prune(ctx)
		return nil
	})

	return g.Wait()
}

// Watch delivers events to sink until ctx is done. It is used by the
// interactive shell, where runs start and stop underneath it.
func (a *App) Watch(ctx context.Context, sink Sink) error {
	ch := a.Bus.SubscribeAll(64)
	defer a.Bus.Unsubscribe(ch)

	for {
		select {
		case e, ok := <-ch:
			if !ok {
				return nil
			}
			sink(e)
		case <-ctx.Done():
			return nil
		}
	}
}

// prune drops history and cached metadata past their retention.
func (a *App) prune(ctx context.Context) {
	if a.History != nil && a.Config.History.RetentionDays > 0 {
		age := time.Duration(a.Config.History.RetentionDays) * 24 * time.Hour
		if n, err := a.History.Prune(age); err != nil {
			a.logger.Warn("history prune failed", "error", err)
		} else if n > 0 {
			a.logger.Debug("history pruned", "events", n)
		}
	}
	if a.cache != nil {
		if _, err := a.cache.Prune(ctx); err != nil {
			a.logger.Warn("metadata cache prune failed", "error", err)
		}
	}
}
