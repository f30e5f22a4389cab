package events

import (
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

const (
	// subscriberBuffer is the per-subscriber channel capacity. A subscriber
	// that lags further behind misses intermediate notifications.
	subscriberBuffer = 16
)

// Emitter broadcasts notifications to all current subscribers.
type Emitter struct {
	subs   *xsync.MapOf[uint64, chan struct{}]
	nextID uint64 // Atomic counter for subscriber IDs

	// mu orders Notify/Subscribe (read side) against Close/unsubscribe
	// (write side) so a channel is never sent to after it is closed
	mu     sync.RWMutex
	closed atomic.Bool
}

// NewEmitter creates a new emitter with no subscribers.
func NewEmitter() *Emitter {
	return &Emitter{
		subs: xsync.NewMapOf[uint64, chan struct{}](),
	}
}

// Subscribe registers a new subscriber and returns its notification channel
// together with an unsubscribe function. Subscribing to a closed emitter
// returns an already-completed channel.
func (e *Emitter) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, subscriberBuffer)

	e.mu.RLock()
	if e.closed.Load() {
		e.mu.RUnlock()
		close(ch)
		return ch, func() {}
	}
	id := atomic.AddUint64(&e.nextID, 1)
	e.subs.Store(id, ch)
	e.mu.RUnlock()

	unsubscribe := func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if c, ok := e.subs.LoadAndDelete(id); ok {
			close(c)
		}
	}
	return ch, unsubscribe
}

// Notify broadcasts one notification to every current subscriber. It never
// blocks: subscribers with a full buffer are skipped.
func (e *Emitter) Notify() {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed.Load() {
		return
	}

	e.subs.Range(func(_ uint64, ch chan struct{}) bool {
		select {
		case ch <- struct{}{}:
		default:
			// Subscriber is full - it will still observe the level change
			// through the notifications already buffered
		}
		return true
	})
}

// SubscriberCount returns the number of current subscribers. Intended for
// diagnostics.
func (e *Emitter) SubscriberCount() int {
	return e.subs.Size()
}

// Close completes every subscriber channel exactly once. Further Subscribe
// calls return completed channels, further Notify calls are no-ops.
func (e *Emitter) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.closed.CompareAndSwap(false, true) {
		return
	}

	e.subs.Range(func(id uint64, _ chan struct{}) bool {
		if c, ok := e.subs.LoadAndDelete(id); ok {
			close(c)
		}
		return true
	})
}
