package sock

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/lni/dragonboat/v4/logger"

	"github.com/ValentinKolb/rsock/lib/future"
)

var clientLogger = logger.GetLogger("sock/client")

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

// StreamTransform wraps the raw transport stream of a new connection, e.g.
// to layer a secure channel on top:
//
//	sock.WithStreamTransform(func(conn net.Conn) (net.Conn, error) {
//	    return tls.Client(conn, tlsConfig), nil
//	})
//
// The transform is invoked exactly once per connection and the result is
// cached for the connection's lifetime - re-invoking it per call would break
// handshake statefulness.
type StreamTransform func(conn net.Conn) (net.Conn, error)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithStreamTransform installs a one-time transform of the raw transport
// stream for every connection the client establishes.
func WithStreamTransform(transform StreamTransform) ClientOption {
	return func(c *Client) {
		c.transform = transform
	}
}

// --------------------------------------------------------------------------
// Client
// --------------------------------------------------------------------------

// Client adds outbound connect semantics on top of Socket: it resolves and
// dials a remote endpoint and optionally transforms the raw transport
// stream.
type Client struct {
	*Socket

	endpoint  string
	transform StreamTransform

	// dialMu serializes concurrent ConnectAsync calls so two dials cannot
	// race the attach step
	dialMu sync.Mutex
}

// NewClient creates a client for the given endpoint (host:port). The client
// is not connected until ConnectAsync succeeds.
func NewClient(endpoint string, config Config, opts ...ClientOption) *Client {
	c := &Client{
		Socket:   New(config),
		endpoint: endpoint,
	}

	for _, opt := range opts {
		opt(c)
	}

	// The base socket acquires its stream through this provider, which
	// applies the transform (if any) and is memoized per connection by the
	// socket's stream cache
	c.Socket.setStreamProvider(func(conn net.Conn) (io.ReadWriter, error) {
		if c.transform == nil {
			return conn, nil
		}
		transformed, err := c.transform(conn)
		if err != nil {
			return nil, fmt.Errorf("stream transform failed: %w", err)
		}
		return transformed, nil
	})

	return c
}

// --------------------------------------------------------------------------
// Interface Methods (docu see IClient)
// --------------------------------------------------------------------------

func (c *Client) ConnectAsync(ctx context.Context) *future.Future[net.Addr] {
	if c.disposed.Load() {
		return future.Rejected[net.Addr](ErrDisposed)
	}
	if c.endpoint == "" {
		return future.Rejected[net.Addr](fmt.Errorf("%w: no endpoint configured", ErrInvalidHandle))
	}

	return future.Go(func() (net.Addr, error) {
		c.dialMu.Lock()
		defer c.dialMu.Unlock()

		// Resolve and dial; any deadline comes from the caller's context,
		// the client imposes none of its own
		var dialer net.Dialer
		conn, err := dialer.DialContext(ctx, "tcp", c.endpoint)
		if err != nil {
			clientLogger.Warningf("failed to connect to %s: %v", c.endpoint, err)
			return nil, fmt.Errorf("failed to connect to %s: %w", c.endpoint, err)
		}

		// No lifecycle state is mutated until the attach step succeeds
		if err := c.Connect(conn); err != nil {
			_ = conn.Close()
			return nil, err
		}

		clientLogger.Debugf("established connection to %s", conn.RemoteAddr())
		return conn.RemoteAddr(), nil
	})
}
