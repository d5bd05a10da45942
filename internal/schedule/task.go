// internal/schedule/task.go
package schedule

import (
	"context"
	"sync"
	"time"
)

// Task runs at most one pending job at a time. Scheduling a new job cancels the
// previous one, both its timer and, if it already started, its context.
type Task struct {
	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Schedule runs fn after delay unless superseded or cancelled first.
func (t *Task) Schedule(parent context.Context, delay time.Duration, fn func(ctx context.Context)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()

	ctx, cancel := context.WithCancel(parent)
	t.cancel = cancel
	t.wg.Add(1)
	t.timer = time.AfterFunc(delay, func() {
		defer t.wg.Done()
		if ctx.Err() != nil {
			return
		}
		fn(ctx)
	})
}

// Cancel drops the pending job, if any.
func (t *Task) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Wait blocks until every job that was allowed to fire has returned.
func (t *Task) Wait() {
	t.wg.Wait()
}

func (t *Task) stopLocked() {
	if t.timer != nil {
		if t.timer.Stop() {
			// never fired, so its Done will not run
			t.wg.Done()
		}
		t.timer = nil
	}
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}
