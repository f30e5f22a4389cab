package future

import (
	"context"
	"sync/atomic"
)

// Future is a single-resolution asynchronous result: it carries exactly one
// completion value or exactly one error, whichever is set first.
type Future[T any] struct {
	done    chan struct{}
	settled atomic.Bool

	// written once before done is closed, read only after done is closed
	value T
	err   error
}

// --------------------------------------------------------------------------
// Constructors
// --------------------------------------------------------------------------

// New creates a pending future.
func New[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolved creates a future already settled with the given value.
func Resolved[T any](value T) *Future[T] {
	f := New[T]()
	f.Resolve(value)
	return f
}

// Rejected creates a future already settled with the given error.
func Rejected[T any](err error) *Future[T] {
	f := New[T]()
	f.Reject(err)
	return f
}

// Go runs fn on a new goroutine and settles the returned future from its
// result. This is the bridge from a blocking call to an awaitable one.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := New[T]()
	go func() {
		value, err := fn()
		if err != nil {
			f.Reject(err)
		} else {
			f.Resolve(value)
		}
	}()
	return f
}

// --------------------------------------------------------------------------
// Resolution
// --------------------------------------------------------------------------

// Resolve settles the future with a value. Returns false if the future was
// already settled (the call is then a no-op).
func (f *Future[T]) Resolve(value T) bool {
	if !f.settled.CompareAndSwap(false, true) {
		return false
	}
	f.value = value
	close(f.done)
	return true
}

// Reject settles the future with an error. Returns false if the future was
// already settled (the call is then a no-op).
func (f *Future[T]) Reject(err error) bool {
	if !f.settled.CompareAndSwap(false, true) {
		return false
	}
	f.err = err
	close(f.done)
	return true
}

// --------------------------------------------------------------------------
// Consumption
// --------------------------------------------------------------------------

// Done returns a channel that is closed once the future settles. Select on
// it next to a cancel signal to abandon the result without waiting.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future settles or the context expires. The context
// is the only deadline mechanism: the future itself never times out.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Value blocks until the future settles and returns its value (the zero
// value if it was rejected).
func (f *Future[T]) Value() T {
	<-f.done
	return f.value
}

// Err blocks until the future settles and returns its error (nil if it was
// resolved).
func (f *Future[T]) Err() error {
	<-f.done
	return f.err
}

// IsSettled reports whether the future has already settled, without blocking.
func (f *Future[T]) IsSettled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
