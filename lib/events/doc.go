// Package events provides a lightweight broadcast hub for lifecycle
// notifications (connected, disconnected, disposed).
//
// An Emitter fans a notification out to zero or more subscribers. There is no
// return value and no ordering guarantee beyond "notified after the
// corresponding state change is committed". Notifications are level-style
// signals, not a queue: each subscriber has a small buffered channel and a
// subscriber that has fallen more than the buffer behind misses intermediate
// notifications rather than stalling the notifier.
//
// Close completes all subscriber channels exactly once; a notification
// delivered immediately before Close is still observed by subscribers because
// buffered values are received before the channel close.
package events
