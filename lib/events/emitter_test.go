package events

import (
	"sync"
	"testing"
	"time"
)

// TestNotifySubscriber verifies a subscriber observes a notification
func TestNotifySubscriber(t *testing.T) {
	e := NewEmitter()
	defer e.Close()

	ch, unsubscribe := e.Subscribe()
	defer unsubscribe()

	e.Notify()

	select {
	case <-ch:
		// Expected
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for notification")
	}
}

// TestNotifyAllSubscribers verifies fan-out to multiple subscribers
func TestNotifyAllSubscribers(t *testing.T) {
	e := NewEmitter()
	defer e.Close()

	const subscribers = 5
	channels := make([]<-chan struct{}, subscribers)
	for i := 0; i < subscribers; i++ {
		ch, unsubscribe := e.Subscribe()
		defer unsubscribe()
		channels[i] = ch
	}

	if e.SubscriberCount() != subscribers {
		t.Fatalf("Expected %d subscribers, got %d", subscribers, e.SubscriberCount())
	}

	e.Notify()

	for i, ch := range channels {
		select {
		case <-ch:
			// Expected
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("Subscriber %d did not receive notification", i)
		}
	}
}

// TestUnsubscribe verifies an unsubscribed channel completes and receives
// no further notifications
func TestUnsubscribe(t *testing.T) {
	e := NewEmitter()
	defer e.Close()

	ch, unsubscribe := e.Subscribe()
	unsubscribe()

	if e.SubscriberCount() != 0 {
		t.Errorf("Expected 0 subscribers, got %d", e.SubscriberCount())
	}

	e.Notify()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("Unsubscribed channel should be completed, not notified")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Unsubscribed channel should be completed")
	}

	// Double unsubscribe is a no-op
	unsubscribe()
}

// TestCloseCompletesSubscribers verifies Close completes every channel and
// a buffered notification is still observed first
func TestCloseCompletesSubscribers(t *testing.T) {
	e := NewEmitter()

	ch, _ := e.Subscribe()

	e.Notify()
	e.Close()
	e.Close() // idempotent

	// The buffered notification arrives before the completion
	select {
	case _, ok := <-ch:
		if !ok {
			t.Fatal("Expected the buffered notification before completion")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for buffered notification")
	}

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("Expected channel completion after close")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for channel completion")
	}
}

// TestSubscribeAfterClose verifies late subscribers get a completed channel
func TestSubscribeAfterClose(t *testing.T) {
	e := NewEmitter()
	e.Close()

	ch, unsubscribe := e.Subscribe()
	defer unsubscribe()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("Subscription after close should be completed immediately")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Subscription after close should be completed immediately")
	}
}

// TestConcurrentNotifyAndClose verifies notify, subscribe and close can race
// without a send on a closed channel
func TestConcurrentNotifyAndClose(t *testing.T) {
	e := NewEmitter()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				e.Notify()
			}
		}()
	}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, unsubscribe := e.Subscribe()
				unsubscribe()
			}
		}()
	}

	time.Sleep(5 * time.Millisecond)
	e.Close()
	wg.Wait()
}
