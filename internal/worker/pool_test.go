package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeResult struct {
	err error
}

func (r *fakeResult) GetError() error { return r.err }

type fakeJob struct {
	fail     bool
	executed *int32
	hold     time.Duration
}

func (j *fakeJob) Execute(ctx context.Context) Result {
	if j.executed != nil {
		atomic.AddInt32(j.executed, 1)
	}
	if j.hold > 0 {
		select {
		case <-time.After(j.hold):
		case <-ctx.Done():
			return &fakeResult{err: ctx.Err()}
		}
	}
	if j.fail {
		return &fakeResult{err: errors.New("job failed")}
	}
	return &fakeResult{}
}

func TestNewPool_WorkerFloor(t *testing.T) {
	ctx := context.Background()
	if p := NewPool(ctx, 5); p.workers != 5 {
		t.Errorf("workers = %d, want 5", p.workers)
	}
	if p := NewPool(ctx, 0); p.workers != 1 {
		t.Errorf("workers = %d, want floor of 1", p.workers)
	}
	if p := NewPool(ctx, -3); p.workers != 1 {
		t.Errorf("workers = %d, want floor of 1", p.workers)
	}
}

func TestPool_ExecutesAllJobs(t *testing.T) {
	pool := NewPool(context.Background(), 2)
	pool.Start()

	var executed int32
	const count = 10
	for i := 0; i < count; i++ {
		pool.Submit(&fakeJob{executed: &executed})
	}

	results := pool.Wait()
	if len(results) != count {
		t.Errorf("results = %d, want %d", len(results), count)
	}
	if got := atomic.LoadInt32(&executed); got != count {
		t.Errorf("executed = %d, want %d", got, count)
	}
}

func TestPool_BoundsConcurrency(t *testing.T) {
	const workers = 3
	pool := NewPool(context.Background(), workers)
	pool.Start()

	var current, peak int32
	for i := 0; i < 20; i++ {
		pool.Submit(&trackingJob{current: &current, peak: &peak})
	}

	results := pool.Wait()
	if len(results) != 20 {
		t.Fatalf("results = %d, want 20", len(results))
	}
	if p := atomic.LoadInt32(&peak); p > workers {
		t.Errorf("peak concurrency %d exceeded %d workers", p, workers)
	}
}

type trackingJob struct {
	current *int32
	peak    *int32
}

func (j *trackingJob) Execute(ctx context.Context) Result {
	c := atomic.AddInt32(j.current, 1)
	for {
		p := atomic.LoadInt32(j.peak)
		if c <= p || atomic.CompareAndSwapInt32(j.peak, p, c) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	atomic.AddInt32(j.current, -1)
	return &fakeResult{}
}

func TestPool_CollectsErrors(t *testing.T) {
	pool := NewPool(context.Background(), 2)
	pool.Start()

	pool.Submit(&fakeJob{fail: true})
	pool.Submit(&fakeJob{})

	results := pool.Wait()
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}

	failed := 0
	for _, r := range results {
		if r.GetError() != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("failed results = %d, want 1", failed)
	}
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	pool := NewPool(context.Background(), 2)
	pool.Start()
	pool.Shutdown()

	done := make(chan struct{})
	go func() {
		pool.Submit(&fakeJob{})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Submit blocked after shutdown")
	}
}

func TestPool_HonorsCallerContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool(ctx, 1)
	pool.Start()
	cancel()

	done := make(chan struct{})
	go func() {
		pool.Submit(&fakeJob{})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Submit blocked after caller cancellation")
	}
}
