package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestPackLimiter_AcquireRelease(t *testing.T) {
	limiter := NewPackLimiter(2, time.Second)
	ctx := context.Background()

	if got := limiter.Available(); got != 2 {
		t.Errorf("initial Available = %d, want 2", got)
	}

	if err := limiter.Acquire(ctx, "run-1"); err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}
	if err := limiter.Acquire(ctx, "run-2"); err != nil {
		t.Fatalf("second Acquire failed: %v", err)
	}

	if got := limiter.ActiveCount(); got != 2 {
		t.Errorf("after two Acquires, ActiveCount = %d, want 2", got)
	}
	if got := limiter.Available(); got != 0 {
		t.Errorf("after two Acquires, Available = %d, want 0", got)
	}

	limiter.Release("run-1")
	limiter.Release("run-2")

	if got := limiter.ActiveCount(); got != 0 {
		t.Errorf("after Release, ActiveCount = %d, want 0", got)
	}
	if got := limiter.Available(); got != 2 {
		t.Errorf("after Release, Available = %d, want 2", got)
	}
}

func TestPackLimiter_SameKeyIsExclusive(t *testing.T) {
	limiter := NewPackLimiter(4, time.Second)
	ctx := context.Background()

	if err := limiter.Acquire(ctx, "RUN_1"); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	start := time.Now()
	err := limiter.Acquire(ctx, "RUN_1")
	if !errors.Is(err, ErrRunInProgress) {
		t.Fatalf("second Acquire of same key = %v, want ErrRunInProgress", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("duplicate key should fail immediately, waited %v", elapsed)
	}

	if got := limiter.Available(); got != 3 {
		t.Errorf("rejected Acquire consumed a slot: Available = %d, want 3", got)
	}

	limiter.Release("RUN_1")
	if err := limiter.TryAcquire("RUN_1"); err != nil {
		t.Errorf("key should be reusable after Release: %v", err)
	}
	limiter.Release("RUN_1")
}

func TestPackLimiter_BlocksWhenFull(t *testing.T) {
	limiter := NewPackLimiter(1, 100*time.Millisecond)
	ctx := context.Background()

	if err := limiter.Acquire(ctx, "a"); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	start := time.Now()
	err := limiter.Acquire(ctx, "b")
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTooManyPackagings) {
		t.Errorf("expected ErrTooManyPackagings, got %v", err)
	}
	if elapsed < 90*time.Millisecond {
		t.Errorf("timeout too fast: %v", elapsed)
	}

	// The timed-out key must not stay claimed.
	if got := limiter.ActiveCount(); got != 1 {
		t.Errorf("ActiveCount = %d, want 1", got)
	}

	limiter.Release("a")
}

func TestPackLimiter_WaitersAreNotActive(t *testing.T) {
	limiter := NewPackLimiter(1, time.Second)
	ctx := context.Background()

	if err := limiter.Acquire(ctx, "a"); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	acquired := make(chan error, 1)
	go func() { acquired <- limiter.Acquire(ctx, "b") }()

	deadline := time.Now().Add(500 * time.Millisecond)
	for limiter.WaitingCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("WaitingCount = %d, want 1", limiter.WaitingCount())
		}
		time.Sleep(5 * time.Millisecond)
	}

	status := limiter.Status()
	if status.Active != 1 || status.Waiting != 1 || status.Available != 0 {
		t.Errorf("Status = %+v, want 1 active, 1 waiting, 0 available", status)
	}
	if status.Active+status.Available != status.MaxConcurrent {
		t.Errorf("Active + Available = %d, want %d", status.Active+status.Available, status.MaxConcurrent)
	}

	limiter.Release("a")
	if err := <-acquired; err != nil {
		t.Fatalf("queued Acquire failed: %v", err)
	}
	if got := limiter.WaitingCount(); got != 0 {
		t.Errorf("after hand-off, WaitingCount = %d, want 0", got)
	}
	if got := limiter.ActiveCount(); got != 1 {
		t.Errorf("after hand-off, ActiveCount = %d, want 1", got)
	}
	limiter.Release("b")
}

func TestPackLimiter_ContextCancelled(t *testing.T) {
	limiter := NewPackLimiter(1, time.Second)

	if err := limiter.Acquire(context.Background(), "a"); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer limiter.Release("a")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	if err := limiter.Acquire(ctx, "b"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestPackLimiter_TryAcquire(t *testing.T) {
	limiter := NewPackLimiter(1, time.Second)

	if err := limiter.TryAcquire("a"); err != nil {
		t.Fatalf("first TryAcquire failed: %v", err)
	}
	if err := limiter.TryAcquire("b"); !errors.Is(err, ErrTooManyPackagings) {
		t.Errorf("second TryAcquire = %v, want ErrTooManyPackagings", err)
	}
	limiter.Release("a")
}

func TestPackLimiter_ConcurrentAccess(t *testing.T) {
	const maxConcurrent = 3
	const totalRequests = 10

	limiter := NewPackLimiter(maxConcurrent, time.Second)

	var wg sync.WaitGroup
	var mu sync.Mutex
	maxObserved := 0

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(key string) {
			defer wg.Done()

			if err := limiter.Acquire(context.Background(), key); err != nil {
				t.Errorf("Acquire failed: %v", err)
				return
			}
			defer limiter.Release(key)

			mu.Lock()
			if used := maxConcurrent - limiter.Available(); used > maxObserved {
				maxObserved = used
			}
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)
		}(fmt.Sprintf("run-%d", i))
	}

	wg.Wait()

	if maxObserved > maxConcurrent {
		t.Errorf("exceeded max concurrent: observed %d, max %d", maxObserved, maxConcurrent)
	}
	if got := limiter.ActiveCount(); got != 0 {
		t.Errorf("final ActiveCount = %d, want 0", got)
	}
}

func TestPackLimiter_WaitForDrain(t *testing.T) {
	limiter := NewPackLimiter(2, time.Second)

	if err := limiter.Acquire(context.Background(), "a"); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	go func() {
		time.Sleep(50 * time.Millisecond)
		limiter.Release("a")
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := limiter.WaitForDrain(ctx); err != nil {
		t.Errorf("WaitForDrain = %v, want nil", err)
	}
}

func TestPackLimiter_Defaults(t *testing.T) {
	limiter := NewPackLimiter(0, 0)

	status := limiter.Status()
	if status.MaxConcurrent != DefaultMaxConcurrentPackagings {
		t.Errorf("MaxConcurrent = %d, want %d", status.MaxConcurrent, DefaultMaxConcurrentPackagings)
	}
	if status.Available != DefaultMaxConcurrentPackagings || status.Active != 0 || status.Waiting != 0 {
		t.Errorf("Status = %+v", status)
	}
}
