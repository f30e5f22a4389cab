// Package sock implements a reactive wrapper around a TCP connection. It
// turns raw socket I/O into two observable byte sequences - received bytes
// and sent bytes - and exposes connect/disconnect/dispose lifecycle events,
// while guaranteeing thread-safe writes and ordered delivery of bytes.
//
// It is a building block for protocol layers built on top (framing,
// request/response correlation, ...), not a protocol implementation itself.
//
// Key Components:
//
//   - Socket: the base connection object. It owns the transport handle, the
//     receive queue, the send serialization lock and the lifecycle event
//     surface, and runs the continuous background read loop
//
//   - Client: adds outbound connect semantics (resolve and dial a remote
//     endpoint) and an optional one-time transform of the raw transport
//     stream (e.g. wrapping it with a TLS client), built on top of Socket
//
// Data flow: Client.ConnectAsync dials the endpoint, Socket.Connect wires the
// handle in and starts the read loop; the read loop pushes byte chunks into
// the receive queue whose pull sequence is exposed via Receiver(). On the
// send path, SendAsync writes under the send lock on a background goroutine
// and, only on success, publishes the payload to the Sender() sequence. The
// sent sequence is hot: payloads written before the first Sender() call are
// not retained, so a socket whose sent bytes nobody observes buffers nothing.
//
// The package performs no framing, no retries and no multiplexing; a broken
// connection surfaces as a Disconnected event (plus a rejected send future
// for writes) and the caller decides whether to reconnect.
package sock
