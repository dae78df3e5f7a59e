package sync

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"qatrack/backend"
	"qatrack/internal/store"
)

type fakeRetrier struct {
	mu       sync.Mutex
	unsynced int
	calls    int
	block    chan struct{}
}

func (f *fakeRetrier) BulkRetrySync(ctx context.Context) store.SyncSummary {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	n := f.unsynced
	f.unsynced = 0
	return store.SyncSummary{Succeeded: n}
}

func (f *fakeRetrier) Unsynced() []backend.TestCase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return make([]backend.TestCase, f.unsynced)
}

func (f *fakeRetrier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newQuietCoordinator(t *testing.T, r Retrier) (*RetryCoordinator, *bytes.Buffer) {
	t.Helper()
	rc, err := NewRetryCoordinator(r, time.Minute)
	if err != nil {
		t.Fatalf("NewRetryCoordinator() error = %v", err)
	}
	var buf bytes.Buffer
	rc.SetOutput(&buf)
	return rc, &buf
}

func TestNewRetryCoordinator_Validation(t *testing.T) {
	tests := []struct {
		name     string
		retrier  Retrier
		interval time.Duration
		wantErr  bool
	}{
		{"valid", &fakeRetrier{}, 30 * time.Second, false},
		{"minimum interval", &fakeRetrier{}, MinInterval, false},
		{"interval too short", &fakeRetrier{}, 100 * time.Millisecond, true},
		{"missing store", nil, time.Minute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRetryCoordinator(tt.retrier, tt.interval)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewRetryCoordinator() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryNow_SkipsWhenNothingUnsynced(t *testing.T) {
	r := &fakeRetrier{}
	rc, _ := newQuietCoordinator(t, r)

	if rc.RetryNow(context.Background()) {
		t.Error("RetryNow() ran a round with nothing unsynced")
	}
	if r.callCount() != 0 {
		t.Errorf("BulkRetrySync called %d times, want 0", r.callCount())
	}
}

func TestRetryNow_RecordsSummary(t *testing.T) {
	r := &fakeRetrier{unsynced: 3}
	rc, buf := newQuietCoordinator(t, r)

	if !rc.RetryNow(context.Background()) {
		t.Fatal("RetryNow() did not run a round")
	}

	summary, rounds := rc.LastSummary()
	if summary.Succeeded != 3 || summary.Failed != 0 || rounds != 1 {
		t.Errorf("LastSummary() = %+v after %d rounds, want 3 succeeded after 1", summary, rounds)
	}
	if !strings.Contains(buf.String(), "3 synced, 0 still failing") {
		t.Errorf("log output %q missing round result", buf.String())
	}
}

func TestRetryNow_NoOverlap(t *testing.T) {
	r := &fakeRetrier{unsynced: 1, block: make(chan struct{})}
	rc, _ := newQuietCoordinator(t, r)

	done := make(chan bool)
	go func() { done <- rc.RetryNow(context.Background()) }()

	// wait until the first round holds the flag
	deadline := time.Now().Add(2 * time.Second)
	for !rc.retrying.Load() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	if rc.RetryNow(context.Background()) {
		t.Error("second RetryNow() ran while a round was in progress")
	}

	close(r.block)
	if !<-done {
		t.Error("first RetryNow() did not run")
	}
	if r.callCount() != 1 {
		t.Errorf("BulkRetrySync called %d times, want 1", r.callCount())
	}
}

func TestStart_RetriesOnInterval(t *testing.T) {
	r := &fakeRetrier{unsynced: 2}
	rc, _ := newQuietCoordinator(t, r)
	rc.interval = 10 * time.Millisecond

	rc.Start(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for r.callCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	rc.Shutdown(time.Second)

	if r.callCount() != 1 {
		t.Errorf("BulkRetrySync called %d times, want 1", r.callCount())
	}
	if rc.RetryNow(context.Background()) {
		t.Error("RetryNow() ran after Shutdown")
	}
}
