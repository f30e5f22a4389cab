// Package future provides a generic single-resolution future used to lift
// blocking I/O calls (connect, read, write) into awaitable results.
//
// A Future settles exactly once with either a value or an error, never both;
// later resolutions are no-ops. Multiple pending futures share no state, so
// any number of operations can be in flight independently.
//
// The typical pattern is Go(), which runs a blocking function on its own
// goroutine and settles the future from its return values. Callers can then
// select on Done() next to a cancel signal to abandon an in-flight operation
// without waiting for it to drain, or use Await() with a context to impose
// an external deadline (the future itself never expires on its own).
package future
