package core

// pack_limiter.go implements concurrency control for archive packaging.
//
// The limiter uses a semaphore pattern to restrict parallel packaging to a
// configurable maximum. When all slots are occupied, new requests wait up to
// maxWait before failing with ErrTooManyPackagings.
//
// On top of the slot count it holds a set of active keys (run ids or archive
// names). Two packagings of the same key would race on the same destination
// file, so a second Acquire for an active key fails at once with
// ErrRunInProgress.
//
// WaitForDrain blocks until all active packagings complete, for graceful
// shutdown.

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrTooManyPackagings is returned when all slots are occupied and the
	// wait timeout expires. Clients should retry after a short delay.
	ErrTooManyPackagings = errors.New("too many packaging operations in progress, please try again later")

	// ErrRunInProgress is returned when the same key is already being packaged.
	ErrRunInProgress = errors.New("run already in progress")
)

// DefaultMaxConcurrentPackagings is the default limit for parallel packaging.
const DefaultMaxConcurrentPackagings = 4

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 30 * time.Second

// PackLimiter controls concurrent archive writes.
type PackLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.Mutex
	active map[string]struct{}
}

// NewPackLimiter creates a limiter that allows at most maxConcurrent
// simultaneous packagings. Requests that cannot acquire a slot within maxWait
// receive ErrTooManyPackagings.
func NewPackLimiter(maxConcurrent int, maxWait time.Duration) *PackLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentPackagings
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}

	return &PackLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
		active:    make(map[string]struct{}),
	}
}

// Acquire claims key and a packaging slot.
// The caller MUST call Release(key) when packaging completes (use defer).
func (l *PackLimiter) Acquire(ctx context.Context, key string) error {
	if err := l.claim(key); err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.semaphore <- struct{}{}:
		return nil

	case <-waitCtx.Done():
		l.unclaim(key)
		// Check if original context was cancelled vs timeout
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyPackagings
	}
}

// TryAcquire claims key and a slot without blocking.
func (l *PackLimiter) TryAcquire(key string) error {
	if err := l.claim(key); err != nil {
		return err
	}

	select {
	case l.semaphore <- struct{}{}:
		return nil
	default:
		l.unclaim(key)
		return ErrTooManyPackagings
	}
}

// Release frees key and its slot.
// Must be called exactly once for each successful Acquire/TryAcquire.
func (l *PackLimiter) Release(key string) {
	l.unclaim(key)
	<-l.semaphore
}

func (l *PackLimiter) claim(key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.active[key]; busy {
		return ErrRunInProgress
	}
	l.active[key] = struct{}{}
	return nil
}

func (l *PackLimiter) unclaim(key string) {
	l.mu.Lock()
	delete(l.active, key)
	l.mu.Unlock()
}

// ActiveCount returns the number of packagings holding a slot.
func (l *PackLimiter) ActiveCount() int {
	return len(l.semaphore)
}

// WaitingCount returns the number of callers that have claimed a key but
// are still queued for a slot.
func (l *PackLimiter) WaitingCount() int {
	if n := l.claimedCount() - len(l.semaphore); n > 0 {
		return n
	}
	return 0
}

func (l *PackLimiter) claimedCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.active)
}

// MaxConcurrent returns the maximum allowed concurrent packagings.
func (l *PackLimiter) MaxConcurrent() int {
	return cap(l.semaphore)
}

// Available returns the number of free slots.
func (l *PackLimiter) Available() int {
	return cap(l.semaphore) - len(l.semaphore)
}

// WaitForDrain blocks until all active and queued packagings complete or
// ctx is done.
func (l *PackLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.claimedCount() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// PackLimiterStatus is a snapshot of the limiter's state.
type PackLimiterStatus struct {
	Active        int `json:"active"`
	Waiting       int `json:"waiting"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state for monitoring.
func (l *PackLimiter) Status() PackLimiterStatus {
	return PackLimiterStatus{
		Active:        l.ActiveCount(),
		Waiting:       l.WaitingCount(),
		Available:     l.Available(),
		MaxConcurrent: l.MaxConcurrent(),
	}
}
