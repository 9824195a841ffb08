package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPool_StartStop(t *testing.T) {
	var processed atomic.Int64
	processor := func(ctx context.Context, job int) error {
		processed.Add(1)
		return nil
	}

	pool := NewPool("test", 2, 10, processor)

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	for i := 0; i < 5; i++ {
		if err := pool.Submit(ctx, i); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	time.Sleep(50 * time.Millisecond)

	cancel()
	pool.Stop()

	if processed.Load() != 5 {
		t.Errorf("expected 5 jobs processed, got %d", processed.Load())
	}
}

func TestPool_ConcurrentSubmit(t *testing.T) {
	var processed atomic.Int64
	processor := func(ctx context.Context, job int) error {
		processed.Add(1)
		return nil
	}

	pool := NewPool("test", 4, 100, processor)

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			pool.Submit(ctx, n)
		}(i)
	}
	wg.Wait()

	time.Sleep(100 * time.Millisecond)

	cancel()
	pool.Stop()

	if processed.Load() != 100 {
		t.Errorf("expected 100 jobs processed, got %d", processed.Load())
	}
}

func TestPool_ProcessorErrorDoesNotStopWorker(t *testing.T) {
	var calls atomic.Int64
	processor := func(ctx context.Context, job int) error {
		calls.Add(1)
		return errors.New("upstream unavailable")
	}

	pool := NewPool("test", 1, 4, processor)
	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	pool.Submit(ctx, 1)
	pool.Submit(ctx, 2)
	time.Sleep(50 * time.Millisecond)

	cancel()
	pool.Stop()

	if calls.Load() != 2 {
		t.Errorf("expected 2 calls, got %d", calls.Load())
	}
}

func TestPool_TrySubmitFullQueue(t *testing.T) {
	release := make(chan struct{})
	processor := func(ctx context.Context, job int) error {
		<-release
		return nil
	}

	pool := NewPool("test", 1, 1, processor)
	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	if !pool.TrySubmit(1) {
		t.Fatal("first job should be accepted")
	}
	// wait until the worker picks up the first job so the buffer is empty
	deadline := time.Now().Add(time.Second)
	for pool.Pending() != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if !pool.TrySubmit(2) {
		t.Fatal("second job should fill the buffer")
	}
	if pool.TrySubmit(3) {
		t.Error("third job should be rejected while the buffer is full")
	}

	close(release)
	cancel()
	pool.Stop()
}

func TestPool_SubmitAfterStop(t *testing.T) {
	pool := NewPool("test", 1, 1, func(ctx context.Context, job int) error { return nil })
	pool.Start(context.Background())
	pool.Stop()

	if err := pool.Submit(context.Background(), 1); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if pool.TrySubmit(1) {
		t.Error("TrySubmit should fail after Stop")
	}
	pool.Stop()
}

func TestPool_GracefulShutdown(t *testing.T) {
	var processed atomic.Int64
	processor := func(ctx context.Context, job int) error {
		time.Sleep(10 * time.Millisecond)
		processed.Add(1)
		return nil
	}

	pool := NewPool("test", 2, 50, processor)

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	for i := 0; i < 20; i++ {
		pool.Submit(ctx, i)
	}

	cancel()

	done := make(chan struct{})
	go func() {
		pool.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("pool.Stop() timed out")
	}

	t.Logf("processed %d jobs before shutdown", processed.Load())
}
