package sock

import (
	"context"
	"net"

	"github.com/ValentinKolb/rsock/lib/events"
	"github.com/ValentinKolb/rsock/lib/future"
)

// --------------------------------------------------------------------------
// Socket
// --------------------------------------------------------------------------

// ISocket is the interface of the reactive socket core. It is implemented by
// Socket (and by extension Client).
type ISocket interface {
	// IsConnected returns true iff a live connection handle is attached
	IsConnected() bool

	// Connect attaches an established connection handle and starts the read
	// loop. Connecting the currently attached handle is a no-op; connecting
	// a different handle implicitly disconnects the old one first.
	Connect(conn net.Conn) error

	// Disconnect tears the current connection down without disposing the
	// socket. The socket can be reconnected afterwards.
	Disconnect() error

	// Dispose terminally tears the socket down: it completes the Sender and
	// Receiver sequences and fires Disposed exactly once. Idempotent.
	Dispose()

	// SendAsync writes the payload under the send lock on a background
	// goroutine and resolves with the number of bytes written. On success
	// the payload is also published to the Sender sequence.
	SendAsync(p []byte) *future.Future[int]

	// Receiver is the received-byte sequence, bounded in lifetime by
	// disposal (not by transient disconnects). Single logical consumer.
	Receiver() <-chan []byte

	// Sender is the sent-byte sequence: payloads appear only after they
	// were successfully written to the transport; completes on disposal.
	// The sequence is hot - publication starts with the first Sender call
	// and payloads written while no consumer exists are not retained.
	Sender() <-chan []byte

	// Lifecycle notifications. Connected/Disconnected may fire multiple
	// times across reconnects; Disposed fires at most once.
	Connected() *events.Emitter
	Disconnected() *events.Emitter
	Disposed() *events.Emitter

	// SetReceiveBufferSize changes the size of subsequent reads issued by
	// the read loop and applies the size to the live handle immediately.
	// In-flight reads keep the prior size.
	SetReceiveBufferSize(size int)
}

// --------------------------------------------------------------------------
// Client
// --------------------------------------------------------------------------

// IClient extends the socket with outbound connect semantics.
type IClient interface {
	ISocket

	// ConnectAsync resolves and establishes a new outbound connection on a
	// background goroutine and attaches it via Connect. Lifecycle state is
	// not mutated until the attach step succeeds.
	ConnectAsync(ctx context.Context) *future.Future[net.Addr]
}
