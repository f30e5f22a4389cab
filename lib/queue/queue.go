package queue

import (
	"sync"
	"sync/atomic"
)

// BlockingQueue is an unbounded FIFO queue with a blocking pull sequence.
// Push appends to an internal buffer and wakes the consumer; the consumer
// reads from the Recv() channel and blocks while the buffer is empty.
type BlockingQueue[T any] struct {
	mu   sync.Mutex
	cond *sync.Cond
	buf  []T

	out      chan T
	done     chan struct{} // closed by Discard to abandon in-flight delivery
	consumer sync.WaitGroup

	closed    atomic.Bool // no further writes
	discarded atomic.Bool
}

// New creates a new blocking queue and starts its internal consumer pump.
func New[T any]() *BlockingQueue[T] {
	q := &BlockingQueue[T]{
		out:  make(chan T),
		done: make(chan struct{}),
	}
	q.cond = sync.NewCond(&q.mu)

	q.consumer.Add(1)
	go q.pump()

	return q
}

// Push appends an item to the tail of the queue and wakes a waiting consumer.
// It never blocks. Returns false if the queue has been closed or discarded.
//
// Thread-safety: This method is thread-safe and can be called concurrently,
// although the queue is designed for a single producer (ordering between
// concurrent producers is whichever acquires the internal lock first).
func (q *BlockingQueue[T]) Push(value T) bool {
	if q.closed.Load() {
		return false
	}

	q.mu.Lock()
	// Re-check under the lock so a concurrent Close cannot lose the item
	// silently after delivering the buffered tail.
	if q.closed.Load() {
		q.mu.Unlock()
		return false
	}
	q.buf = append(q.buf, value)
	q.cond.Signal()
	q.mu.Unlock()

	return true
}

// pump moves items from the internal buffer to the output channel in strict
// FIFO order, blocking on the condition variable while the buffer is empty.
func (q *BlockingQueue[T]) pump() {
	defer q.consumer.Done()
	defer close(q.out)

	for {
		q.mu.Lock()
		for len(q.buf) == 0 && !q.closed.Load() {
			q.cond.Wait()
		}

		// Discard drops everything still buffered
		if q.discarded.Load() {
			q.buf = nil
			q.mu.Unlock()
			return
		}

		// Closed and fully drained
		if len(q.buf) == 0 {
			q.mu.Unlock()
			return
		}

		value := q.buf[0]
		var zero T
		q.buf[0] = zero // help go gc
		q.buf = q.buf[1:]
		if len(q.buf) == 0 {
			q.buf = nil // release the backing array
		}
		q.mu.Unlock()

		select {
		case q.out <- value:
		case <-q.done:
			// Discarded while the consumer was not pulling
			return
		}
	}
}

// Recv returns the receive-only pull sequence of the queue. The channel
// completes after Close (once drained) or Discard (immediately).
//
// There is a single logical consumer: multiple goroutines reading from this
// channel would compete for items.
func (q *BlockingQueue[T]) Recv() <-chan T {
	return q.out
}

// Close stops further writes. Items already buffered are still delivered to
// the consumer before the Recv() channel completes.
func (q *BlockingQueue[T]) Close() {
	if q.closed.CompareAndSwap(false, true) {
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	}
}

// Discard stops further writes and completes the Recv() channel immediately.
// Buffered but undelivered items are dropped.
func (q *BlockingQueue[T]) Discard() {
	if q.discarded.CompareAndSwap(false, true) {
		q.closed.Store(true)
		close(q.done)
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	}
}

// IsClosed returns true if the queue no longer accepts writes.
func (q *BlockingQueue[T]) IsClosed() bool {
	return q.closed.Load()
}

// Len returns the number of items currently buffered (not yet handed to the
// consumer). Intended for diagnostics.
func (q *BlockingQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf)
}
