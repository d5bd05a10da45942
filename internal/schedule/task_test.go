package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskRunsAfterDelay(t *testing.T) {
	var task Task
	done := make(chan struct{})
	task.Schedule(context.Background(), 10*time.Millisecond, func(context.Context) { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not run")
	}
}

func TestTaskLatestScheduleWins(t *testing.T) {
	var task Task
	var calls atomic.Int32
	var last atomic.Int32

	for i := 1; i <= 5; i++ {
		i := i
		task.Schedule(context.Background(), 30*time.Millisecond, func(context.Context) {
			calls.Add(1)
			last.Store(int32(i))
		})
	}
	time.Sleep(100 * time.Millisecond)
	task.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int32(5), last.Load())
}

func TestTaskCancel(t *testing.T) {
	var task Task
	var ran atomic.Bool
	task.Schedule(context.Background(), 20*time.Millisecond, func(context.Context) { ran.Store(true) })
	task.Cancel()
	time.Sleep(50 * time.Millisecond)
	task.Wait()
	assert.False(t, ran.Load())
}

func TestTaskSupersedeCancelsRunningContext(t *testing.T) {
	var task Task
	started := make(chan struct{})
	cancelled := make(chan struct{})

	task.Schedule(context.Background(), 0, func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		close(cancelled)
	})
	<-started
	task.Schedule(context.Background(), time.Hour, func(context.Context) {})

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("running job was not cancelled")
	}
	task.Cancel()
}
