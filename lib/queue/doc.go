// Package queue provides a generic blocking FIFO queue that bridges a push
// style producer to a pull style consumer.
//
// Features and Guarantees:
//
//   - Unbounded Size: the queue can grow to any size as needed, limited only
//     by available memory
//   - Strict FIFO: items are delivered to the consumer in exactly the order
//     they were pushed
//   - Blocking Consumption: the consumer blocks (via the Recv() channel) while
//     the queue is empty and resumes as soon as an item is pushed
//   - Decoupled Timing: the producer never blocks on a slow consumer; Push()
//     returns immediately
//   - Single Consumer: designed for a single goroutine to consume values;
//     concurrent consumers would race on ordering
//
// The queue has two termination modes: Close() stops further writes and
// delivers all buffered items before completing the Recv() channel, while
// Discard() completes the channel immediately and drops any undelivered
// items. The sequence never completes on its own - one of the two must be
// called by the owner.
package queue
