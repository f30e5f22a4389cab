package future

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// TestResolve verifies a future settles with exactly one value
func TestResolve(t *testing.T) {
	f := New[int]()

	if f.IsSettled() {
		t.Error("New future should not be settled")
	}

	if !f.Resolve(42) {
		t.Fatal("First Resolve should succeed")
	}

	if !f.IsSettled() {
		t.Error("Future should be settled after Resolve")
	}
	if f.Value() != 42 {
		t.Errorf("Expected 42, got %d", f.Value())
	}
	if f.Err() != nil {
		t.Errorf("Expected nil error, got %v", f.Err())
	}
}

// TestReject verifies a future settles with exactly one error
func TestReject(t *testing.T) {
	wantErr := errors.New("boom")
	f := New[string]()

	if !f.Reject(wantErr) {
		t.Fatal("First Reject should succeed")
	}

	if !errors.Is(f.Err(), wantErr) {
		t.Errorf("Expected %v, got %v", wantErr, f.Err())
	}
	if f.Value() != "" {
		t.Errorf("Expected zero value, got %q", f.Value())
	}
}

// TestSingleResolution verifies later resolutions are no-ops, value and
// error are never both set
func TestSingleResolution(t *testing.T) {
	f := New[int]()

	if !f.Resolve(1) {
		t.Fatal("First Resolve should succeed")
	}
	if f.Resolve(2) {
		t.Error("Second Resolve should be a no-op")
	}
	if f.Reject(errors.New("late")) {
		t.Error("Reject after Resolve should be a no-op")
	}

	if f.Value() != 1 {
		t.Errorf("Expected 1, got %d", f.Value())
	}
	if f.Err() != nil {
		t.Errorf("Expected nil error, got %v", f.Err())
	}
}

// TestConcurrentResolution verifies exactly one of many racing resolutions
// wins
func TestConcurrentResolution(t *testing.T) {
	f := New[int]()

	const racers = 16
	var wins int32
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if f.Resolve(n) {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("Expected exactly 1 winning resolution, got %d", wins)
	}
}

// TestGo verifies the blocking-call bridge settles from the function result
func TestGo(t *testing.T) {
	f := Go(func() (int, error) {
		time.Sleep(10 * time.Millisecond)
		return 7, nil
	})

	select {
	case <-f.Done():
	case <-time.After(1 * time.Second):
		t.Fatal("Timeout waiting for future to settle")
	}

	if f.Value() != 7 {
		t.Errorf("Expected 7, got %d", f.Value())
	}

	wantErr := errors.New("io failure")
	f2 := Go(func() (int, error) { return 0, wantErr })
	if !errors.Is(f2.Err(), wantErr) {
		t.Errorf("Expected %v, got %v", wantErr, f2.Err())
	}
}

// TestAwaitContext verifies Await honors an external deadline while the
// future itself never expires
func TestAwaitContext(t *testing.T) {
	f := New[int]()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := f.Await(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected DeadlineExceeded, got %v", err)
	}

	// The future is still pending and can settle afterwards
	if f.IsSettled() {
		t.Error("Future should still be pending after Await timeout")
	}
	f.Resolve(9)

	if v, err := f.Await(context.Background()); err != nil || v != 9 {
		t.Errorf("Expected (9, nil), got (%d, %v)", v, err)
	}
}

// TestIndependentFutures verifies concurrently pending futures share no state
func TestIndependentFutures(t *testing.T) {
	a := Resolved(1)
	b := Rejected[int](errors.New("b failed"))
	c := New[int]()

	if a.Err() != nil || a.Value() != 1 {
		t.Error("Future a corrupted")
	}
	if b.Err() == nil {
		t.Error("Future b should be rejected")
	}
	if c.IsSettled() {
		t.Error("Future c should be pending")
	}
}
