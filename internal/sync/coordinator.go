// Package sync retries unsynced test cases in the background.
package sync

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"qatrack/backend"
	"qatrack/internal/store"
)

// MinInterval is the shortest allowed delay between two retry rounds
const MinInterval = time.Second

// Retrier is the part of the store the coordinator drives
type Retrier interface {
	BulkRetrySync(ctx context.Context) store.SyncSummary
	Unsynced() []backend.TestCase
}

// RetryCoordinator periodically calls BulkRetrySync while unsynced cases remain
type RetryCoordinator struct {
	retrier  Retrier
	interval time.Duration

	wg sync.WaitGroup

	// prevents overlapping rounds
	retrying atomic.Bool
	shutdown atomic.Bool

	mu     sync.Mutex
	last   store.SyncSummary
	rounds int
	cancel context.CancelFunc

	logger *log.Logger
}

// NewRetryCoordinator creates a coordinator that retries every interval
func NewRetryCoordinator(r Retrier, interval time.Duration) (*RetryCoordinator, error) {
	if r == nil {
		return nil, fmt.Errorf("a store is required")
	}
	if interval < MinInterval {
		return nil, fmt.Errorf("retry interval must be at least %v, got %v", MinInterval, interval)
	}

	return &RetryCoordinator{
		retrier:  r,
		interval: interval,
		logger:   log.New(os.Stderr, "[AutoSync] ", log.LstdFlags),
	}, nil
}

// SetOutput redirects the coordinator's log lines
func (rc *RetryCoordinator) SetOutput(w io.Writer) {
	rc.logger.SetOutput(w)
}

// Start launches the retry loop. It runs until ctx is done or Shutdown is called.
func (rc *RetryCoordinator) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	rc.mu.Lock()
	rc.cancel = cancel
	rc.mu.Unlock()

	rc.wg.Add(1)
	go rc.loop(ctx)
}

func (rc *RetryCoordinator) loop(ctx context.Context) {
	defer rc.wg.Done()

	ticker := time.NewTicker(rc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rc.RetryNow(ctx)
		}
	}
}

// RetryNow runs one retry round unless one is already running or nothing is unsynced.
// It reports whether a round was run.
func (rc *RetryCoordinator) RetryNow(ctx context.Context) bool {
	if rc.shutdown.Load() {
		return false
	}
	if !rc.retrying.CompareAndSwap(false, true) {
		return false
	}
	defer rc.retrying.Store(false)

	defer func() {
		if r := recover(); r != nil {
			rc.logger.Printf("Panic in retry round: %v", r)
		}
	}()

	if len(rc.retrier.Unsynced()) == 0 {
		return false
	}

	summary := rc.retrier.BulkRetrySync(ctx)

	rc.mu.Lock()
	rc.last = summary
	rc.rounds++
	rc.mu.Unlock()

	if summary.Succeeded > 0 || summary.Failed > 0 {
		rc.logger.Printf("Retry completed: %d synced, %d still failing", summary.Succeeded, summary.Failed)
	}
	return true
}

// LastSummary returns the result of the most recent round and how many rounds ran
func (rc *RetryCoordinator) LastSummary() (store.SyncSummary, int) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.last, rc.rounds
}

// Shutdown stops the loop and waits for a running round up to timeout
func (rc *RetryCoordinator) Shutdown(timeout time.Duration) {
	rc.shutdown.Store(true)

	rc.mu.Lock()
	if rc.cancel != nil {
		rc.cancel()
	}
	rc.mu.Unlock()

	done := make(chan struct{})
	go func() {
		rc.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		rc.logger.Printf("Warning: retry round did not complete within %v", timeout)
	}
}
