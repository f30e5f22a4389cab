package queue

import (
	"sync"
	"testing"
	"time"
)

// TestFIFOOrder verifies items are delivered in exactly the order pushed
func TestFIFOOrder(t *testing.T) {
	q := New[int]()
	defer q.Discard()

	for i := 0; i < 100; i++ {
		if !q.Push(i) {
			t.Fatalf("Failed to push item %d", i)
		}
	}

	for i := 0; i < 100; i++ {
		select {
		case val := <-q.Recv():
			if val != i {
				t.Errorf("Expected %d, got %d", i, val)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("Timeout waiting for item %d", i)
		}
	}
}

// TestBlockingConsume verifies the consumer blocks while empty and resumes
// as soon as an item is pushed
func TestBlockingConsume(t *testing.T) {
	q := New[string]()
	defer q.Discard()

	// Nothing buffered: the channel must not be ready
	select {
	case val := <-q.Recv():
		t.Fatalf("Queue should be empty, but got %q", val)
	case <-time.After(20 * time.Millisecond):
		// Expected, queue is empty
	}

	// Push from another goroutine after a delay
	go func() {
		time.Sleep(20 * time.Millisecond)
		q.Push("wakeup")
	}()

	select {
	case val := <-q.Recv():
		if val != "wakeup" {
			t.Errorf("Expected 'wakeup', got %q", val)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Timeout waiting for pushed item")
	}
}

// TestCloseDrains verifies Close delivers buffered items before completing
func TestCloseDrains(t *testing.T) {
	q := New[int]()

	for i := 0; i < 5; i++ {
		q.Push(i)
	}

	q.Close()

	// Writes must be rejected after close
	if q.Push(100) {
		t.Error("Should not be able to push after queue is closed")
	}

	// Buffered items are still delivered
	for i := 0; i < 5; i++ {
		select {
		case val := <-q.Recv():
			if val != i {
				t.Errorf("Expected %d, got %d", i, val)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("Timeout waiting for item %d after close", i)
		}
	}

	// The channel completes after the drain
	select {
	case _, ok := <-q.Recv():
		if ok {
			t.Error("Channel should be completed but delivered another item")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for channel completion")
	}
}

// TestDiscardDrops verifies Discard completes the sequence immediately and
// drops undelivered items
func TestDiscardDrops(t *testing.T) {
	q := New[int]()

	for i := 0; i < 50; i++ {
		q.Push(i)
	}

	q.Discard()

	if q.Push(100) {
		t.Error("Should not be able to push after queue is discarded")
	}

	// The channel must complete promptly; at most one item may slip through
	// (the one already handed to the pump when Discard was called)
	delivered := 0
	deadline := time.After(500 * time.Millisecond)
	for {
		select {
		case _, ok := <-q.Recv():
			if !ok {
				if delivered > 1 {
					t.Errorf("Expected at most 1 item after discard, got %d", delivered)
				}
				return
			}
			delivered++
		case <-deadline:
			t.Fatal("Timeout waiting for channel completion after discard")
		}
	}
}

// TestDiscardWhileBlocked verifies Discard unblocks a pump that holds an
// undelivered item
func TestDiscardWhileBlocked(t *testing.T) {
	q := New[int]()

	q.Push(1)
	// Give the pump time to pop the item and block on the unbuffered channel
	time.Sleep(20 * time.Millisecond)

	q.Discard()

	select {
	case _, ok := <-q.Recv():
		if ok {
			// The in-flight item may still be delivered, channel must
			// complete right after
			if _, ok := <-q.Recv(); ok {
				t.Error("Channel should be completed after discard")
			}
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Timeout waiting for completion after discard while blocked")
	}
}

// TestProducerConsumerDecoupling verifies a fast producer never blocks on a
// slow consumer
func TestProducerConsumerDecoupling(t *testing.T) {
	q := New[int]()
	defer q.Discard()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10000; i++ {
			if !q.Push(i) {
				t.Errorf("Failed to push item %d", i)
				return
			}
		}
	}()

	select {
	case <-done:
		// Producer finished without a consumer pulling
	case <-time.After(2 * time.Second):
		t.Fatal("Producer blocked, push path is not decoupled from consumer")
	}

	// Drain and verify order
	for i := 0; i < 10000; i++ {
		select {
		case val := <-q.Recv():
			if val != i {
				t.Fatalf("Expected %d, got %d", i, val)
			}
		case <-time.After(1 * time.Second):
			t.Fatalf("Timeout waiting for item %d", i)
		}
	}
}

// TestIdempotentTermination verifies Close and Discard are safe to call
// repeatedly and in combination
func TestIdempotentTermination(t *testing.T) {
	q := New[int]()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Close()
			q.Discard()
		}()
	}
	wg.Wait()

	if !q.IsClosed() {
		t.Error("Queue should report closed")
	}
}

// BenchmarkPush benchmarks the push path with an active consumer
func BenchmarkPush(b *testing.B) {
	q := New[int]()
	defer q.Discard()

	go func() {
		for range q.Recv() {
			// Just consume
		}
	}()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.Push(i)
	}
}
