package sock

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/ValentinKolb/rsock/lib/events"
	"github.com/ValentinKolb/rsock/lib/future"
	"github.com/ValentinKolb/rsock/lib/queue"
)

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

// StreamProvider obtains the byte-level stream view of a connection handle.
// It is invoked at most once per connection; the result is cached for the
// lifetime of that connection. The default provider returns the handle
// itself, Client installs a provider that applies its stream transform.
type StreamProvider func(conn net.Conn) (io.ReadWriter, error)

// readResult carries one read completion through the async bridge. A read
// can yield bytes and a trailing error at the same time; the bytes are
// processed before the error triggers the disconnect.
type readResult struct {
	n   int
	err error
}

// --------------------------------------------------------------------------
// Socket
// --------------------------------------------------------------------------

// Socket is the base reactive connection object. The zero value is not
// usable; construct via New or NewAccepted.
type Socket struct {
	config Config

	// mu guards the connection handle, the cached stream, the read loop
	// bookkeeping and the last read error
	mu         sync.Mutex
	conn       net.Conn
	stream     io.ReadWriter
	provider   StreamProvider
	loopCancel chan struct{}
	readErr    error

	// connMu is the send lock: at most one in-flight write per connection,
	// and publication to the sent sequence happens in write order
	connMu sync.Mutex

	recvQ *queue.BlockingQueue[[]byte]
	sentQ *queue.BlockingQueue[[]byte]

	connected   atomic.Bool
	disposed    atomic.Bool
	recvBufSize atomic.Int64

	// senderOn is set by the first Sender() call. The sent sequence is hot:
	// payloads written while nobody requested it are not retained, otherwise
	// an unconsumed sequence would buffer every payload ever written
	senderOn atomic.Bool

	connectedEv    *events.Emitter
	disconnectedEv *events.Emitter
	disposedEv     *events.Emitter
}

// New creates a new, unconnected socket.
func New(config Config) *Socket {
	s := &Socket{
		config:         config,
		recvQ:          queue.New[[]byte](),
		sentQ:          queue.New[[]byte](),
		connectedEv:    events.NewEmitter(),
		disconnectedEv: events.NewEmitter(),
		disposedEv:     events.NewEmitter(),
	}

	size := config.ReceiveBufferSize
	if size <= 0 {
		size = DefaultReceiveBufferSize
	}
	s.recvBufSize.Store(int64(size))

	return s
}

// NewAccepted wraps an already-established connection handle (e.g. one
// produced by a listener) and starts its read loop.
func NewAccepted(conn net.Conn, config Config) (*Socket, error) {
	s := New(config)
	if err := s.Connect(conn); err != nil {
		return nil, err
	}
	return s, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see ISocket)
// --------------------------------------------------------------------------

func (s *Socket) IsConnected() bool {
	return s.connected.Load()
}

func (s *Socket) Connected() *events.Emitter {
	return s.connectedEv
}

func (s *Socket) Disconnected() *events.Emitter {
	return s.disconnectedEv
}

func (s *Socket) Disposed() *events.Emitter {
	return s.disposedEv
}

func (s *Socket) Receiver() <-chan []byte {
	return s.recvQ.Recv()
}

func (s *Socket) Sender() <-chan []byte {
	s.senderOn.Store(true)
	return s.sentQ.Recv()
}

func (s *Socket) Connect(conn net.Conn) error {
	if s.disposed.Load() {
		return ErrDisposed
	}
	if conn == nil {
		return ErrInvalidHandle
	}
	if conn.RemoteAddr() == nil {
		return ErrNotEstablished
	}

	s.mu.Lock()

	// Re-check under the lock so Connect cannot race a concurrent Dispose
	if s.disposed.Load() {
		s.mu.Unlock()
		return ErrDisposed
	}

	// Reconnecting the currently attached handle is a no-op
	if s.conn == conn {
		s.mu.Unlock()
		return nil
	}

	// Apply the configured socket options before touching any state, so a
	// failed upgrade leaves the previous connection untouched
	if err := UpgradeConnection(conn, s.config); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	// Obtain the stream view once per connection. The read loop needs it
	// right away, and failing here leaves the previous connection intact.
	// The provider is never re-invoked for this connection: the result is
	// cached for its whole lifetime (a stateful transform like a TLS
	// handshake must not run twice).
	stream := io.ReadWriter(conn)
	if s.provider != nil {
		provided, err := s.provider(conn)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to acquire stream: %w", err)
		}
		stream = provided
	}

	// A different handle implicitly disconnects the old one first
	if s.conn != nil {
		s.teardownLocked()
	}

	s.conn = conn
	s.stream = stream
	s.readErr = nil
	cancel := make(chan struct{})
	s.loopCancel = cancel
	s.connected.Store(true)
	s.mu.Unlock()

	go s.readLoop(conn, stream, cancel)

	metricConnects.Inc()
	Logger.Infof("connected to %s", conn.RemoteAddr())
	s.connectedEv.Notify()

	return nil
}

func (s *Socket) Disconnect() error {
	if s.disposed.Load() {
		return ErrDisposed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return ErrNotConnected
	}

	s.teardownLocked()
	return nil
}

func (s *Socket) Dispose() {
	// Second call is a no-op
	if !s.disposed.CompareAndSwap(false, true) {
		return
	}

	s.mu.Lock()
	s.teardownLocked()
	s.mu.Unlock()

	// Complete the sent sequence (drained) and the receive sequence
	// (immediately, dropping queued-but-undelivered chunks)
	s.sentQ.Close()
	s.recvQ.Discard()

	Logger.Infof("socket disposed")
	s.disposedEv.Notify()

	s.connectedEv.Close()
	s.disconnectedEv.Close()
	s.disposedEv.Close()
}

func (s *Socket) SendAsync(p []byte) *future.Future[int] {
	if s.disposed.Load() {
		return future.Rejected[int](ErrDisposed)
	}

	stream, conn, err := s.acquireStream()
	if err != nil {
		return future.Rejected[int](err)
	}

	return future.Go(func() (int, error) {
		s.connMu.Lock()
		n, err := stream.Write(p)
		if err == nil && s.senderOn.Load() {
			// Publish under the send lock so the sent sequence preserves
			// write completion order
			sent := make([]byte, len(p))
			copy(sent, p)
			s.sentQ.Push(sent)
		}
		s.connMu.Unlock()

		if err != nil {
			metricSendErrors.Inc()
			Logger.Warningf("write to %s failed: %v", conn.RemoteAddr(), err)
			// A failed write means the connection is no longer usable
			s.disconnectFrom(conn)
			return n, fmt.Errorf("send failed: %w", err)
		}

		metricBytesSent.Add(n)
		return n, nil
	})
}

func (s *Socket) SetReceiveBufferSize(size int) {
	if size <= 0 {
		return
	}
	s.recvBufSize.Store(int64(size))

	// Apply to the live handle immediately; in-flight reads keep the size
	// they were issued with
	s.mu.Lock()
	defer s.mu.Unlock()
	if tcpConn, ok := s.conn.(*net.TCPConn); ok {
		if err := tcpConn.SetReadBuffer(size); err != nil {
			Logger.Warningf("failed to set read buffer to %d: %v", size, err)
		}
	}
}

// --------------------------------------------------------------------------
// Diagnostics
// --------------------------------------------------------------------------

// LastReadError returns the error that ended the most recent read loop, or
// nil after a graceful peer close. Purely diagnostic: both outcomes result
// in the same Disconnected event.
func (s *Socket) LastReadError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readErr
}

// RemoteAddr returns the remote address of the live handle, or nil if not
// connected.
func (s *Socket) RemoteAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	return s.conn.RemoteAddr()
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// setStreamProvider installs the stream acquisition override. Must be called
// before the first connect; used by Client to layer its stream transform.
func (s *Socket) setStreamProvider(provider StreamProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = provider
}

// acquireStream returns the cached stream view of the current connection
// (set once by Connect) together with the handle it belongs to.
func (s *Socket) acquireStream() (io.ReadWriter, net.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil, nil, ErrNotConnected
	}

	return s.stream, s.conn, nil
}

// disconnectFrom tears the connection down iff the given handle is still the
// attached one. This keeps a stale read loop or a failed write from killing
// a connection established afterwards.
func (s *Socket) disconnectFrom(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != conn {
		return
	}
	s.teardownLocked()
}

// teardownLocked is the idempotent internal disconnect: it cancels the read
// loop, closes the handle, clears the handle and stream references and fires
// Disconnected. Fires also during disposal for a uniform notification
// contract. Caller must hold s.mu.
func (s *Socket) teardownLocked() {
	if s.conn == nil {
		return
	}

	if s.loopCancel != nil {
		close(s.loopCancel)
		s.loopCancel = nil
	}

	_ = s.conn.Close()
	remote := s.conn.RemoteAddr()
	s.conn = nil
	s.stream = nil
	s.connected.Store(false)

	metricDisconnects.Inc()
	Logger.Infof("disconnected from %s", remote)
	s.disconnectedEv.Notify()
}

// --------------------------------------------------------------------------
// Read loop
// --------------------------------------------------------------------------

// readLoop continuously issues reads of up to the configured buffer size and
// pushes non-empty chunks into the receive queue. A zero-byte read (graceful
// peer close) or a read error ends the loop with a non-disposing disconnect;
// both are normal, not fatal, outcomes. Cancellation abandons the in-flight
// read instead of waiting for it to drain.
func (s *Socket) readLoop(conn net.Conn, stream io.ReadWriter, cancel chan struct{}) {
	for {
		// A fresh buffer per read: an abandoned in-flight read may still
		// write into its buffer after cancellation
		buf := make([]byte, s.recvBufSize.Load())

		fut := future.Go(func() (readResult, error) {
			n, err := stream.Read(buf)
			if n > 0 {
				// Deliver the bytes first, the trailing error next round
				return readResult{n: n, err: err}, nil
			}
			return readResult{}, err
		})

		select {
		case <-cancel:
			// Loop cancelled by a reconnect or disposal; the read is
			// abandoned, not drained
			return
		case <-fut.Done():
		}

		if err := fut.Err(); err != nil {
			s.endReadLoop(conn, err)
			return
		}

		res := fut.Value()
		if res.n == 0 {
			// Successful zero-byte read: graceful close
			s.endReadLoop(conn, io.EOF)
			return
		}

		s.recvQ.Push(buf[:res.n:res.n])
		metricBytesReceived.Add(res.n)

		if res.err != nil {
			s.endReadLoop(conn, res.err)
			return
		}
	}
}

// endReadLoop records the loop outcome and performs the non-disposing
// disconnect. An EOF counts as a clean peer close and is not recorded as an
// error.
func (s *Socket) endReadLoop(conn net.Conn, err error) {
	clean := errors.Is(err, io.EOF)

	s.mu.Lock()
	if s.conn == conn {
		if clean {
			s.readErr = nil
		} else {
			s.readErr = err
		}
	}
	s.mu.Unlock()

	if clean {
		Logger.Debugf("peer closed connection")
	} else {
		metricReadErrors.Inc()
		Logger.Warningf("read failed: %v", err)
	}

	s.disconnectFrom(conn)
}
