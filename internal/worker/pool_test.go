package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donalcheung/dine-together-sub000/internal/testing/leaktest"
)

type testJob struct {
	executed *int32
	err      error
	done     chan struct{}
}

func (j *testJob) Process(ctx context.Context) error {
	atomic.AddInt32(j.executed, 1)
	if j.done != nil {
		j.done <- struct{}{}
	}
	return j.err
}

type blockingJob struct {
	started chan struct{}
}

func (j *blockingJob) Name() string { return "blocking" }

func (j *blockingJob) Process(ctx context.Context) error {
	close(j.started)
	<-ctx.Done()
	return ctx.Err()
}

func waitFor(t *testing.T, done <-chan struct{}, n int) {
	t.Helper()
	timeout := time.After(TestWaitTimeout)
	for i := 0; i < n; i++ {
		select {
		case <-done:
		case <-timeout:
			t.Fatalf("timed out after %d of %d jobs", i, n)
		}
	}
}

func TestPool(t *testing.T) {
	checker := leaktest.NewGoroutineChecker(t)

	var executed int32
	done := make(chan struct{}, TestQueueSize)
	pool := NewPool(TestWorkerCount, TestQueueSize)
	pool.Start()

	assert.True(t, pool.Enqueue(&testJob{executed: &executed, done: done}))
	assert.True(t, pool.Enqueue(&testJob{executed: &executed, done: done, err: errors.New("boom")}))
	waitFor(t, done, 2)

	pool.Stop()

	assert.Equal(t, int32(2), atomic.LoadInt32(&executed))
	checker.Check(0)
}

func TestPool_StopCancelsRunningJob(t *testing.T) {
	checker := leaktest.NewGoroutineChecker(t)

	pool := NewPool(1, 1)
	pool.Start()

	job := &blockingJob{started: make(chan struct{})}
	require.True(t, pool.Enqueue(job))
	<-job.started

	stopped := make(chan struct{})
	go func() {
		pool.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(TestWaitTimeout):
		t.Fatal("Stop did not cancel the running job")
	}

	// second Stop is a no-op
	pool.Stop()
	assert.False(t, pool.Enqueue(&testJob{executed: new(int32)}))
	checker.Check(0)
}

func TestPool_TryEnqueueFull(t *testing.T) {
	// not started, so nothing drains the queue
	pool := NewPool(1, 1)
	defer pool.Stop()

	assert.True(t, pool.TryEnqueue(&testJob{executed: new(int32)}))
	assert.False(t, pool.TryEnqueue(&testJob{executed: new(int32)}))
}

func TestJobName(t *testing.T) {
	assert.Equal(t, "blocking", jobName(&blockingJob{}))
	assert.Equal(t, "*worker.testJob", jobName(&testJob{}))
}
