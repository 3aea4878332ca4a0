// Package poller runs cancellable fixed-interval tasks.
package poller

import (
	"context"
	"sync"
	"time"
)

// Task runs a function immediately and then every interval until stopped.
// A Task is owned by whoever started it; that owner must call Stop.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Start launches fn in its own goroutine. fn receives a context that is
// cancelled by Stop or when ctx ends. Runs never overlap: the next tick is
// counted from the start of the run, and ticks missed during a slow run are
// dropped.
func Start(ctx context.Context, interval time.Duration, fn func(ctx context.Context)) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(t.done)

		fn(ctx)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if ctx.Err() != nil {
					return
				}
				fn(ctx)
			}
		}
	}()

	return t
}

// Stop cancels the task and waits for the running fn to return.
// It is safe to call more than once and from several goroutines.
func (t *Task) Stop() {
	t.once.Do(t.cancel)
	<-t.done
}

// Done is closed once the task goroutine has exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}
