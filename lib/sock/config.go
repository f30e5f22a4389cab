package sock

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultReceiveBufferSize is the default size of a single read issued
	// by the read loop.
	DefaultReceiveBufferSize = 8192
)

// --------------------------------------------------------------------------
// Configuration structs
// --------------------------------------------------------------------------

// SocketConf holds generic OS socket buffer settings.
type SocketConf struct {
	// WriteBufferSize is the OS socket write buffer size in bytes (0 = OS default)
	WriteBufferSize int
	// ReadBufferSize is the OS socket read buffer size in bytes (0 = OS default)
	ReadBufferSize int
}

// TCPConf holds TCP-specific connection settings.
type TCPConf struct {
	// TCPNoDelay disables Nagle's algorithm when true
	TCPNoDelay bool
	// TCPKeepAliveSec is the keep-alive interval in seconds (0 = disabled)
	TCPKeepAliveSec int
	// TCPLingerSec is the linger time in seconds (negative = OS default)
	TCPLingerSec int
}

// Config holds all configuration parameters for a Socket.
type Config struct {
	// ReceiveBufferSize is the size of a single read issued by the read
	// loop. It can also be changed on a live socket via
	// Socket.SetReceiveBufferSize.
	ReceiveBufferSize int

	Socket SocketConf
	TCP    TCPConf
}

// DefaultConfig returns a config with the default receive buffer size,
// TCP_NODELAY enabled and OS defaults for everything else.
func DefaultConfig() Config {
	return Config{
		ReceiveBufferSize: DefaultReceiveBufferSize,
		TCP: TCPConf{
			TCPNoDelay:   true,
			TCPLingerSec: -1,
		},
	}
}

// String returns a formatted string representation of the configuration
func (c *Config) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Socket")
	addField("Receive Buffer", fmt.Sprintf("%d bytes", c.ReceiveBufferSize))
	addField("OS Write Buffer", strconv.Itoa(c.Socket.WriteBufferSize))
	addField("OS Read Buffer", strconv.Itoa(c.Socket.ReadBufferSize))

	addSection("TCP")
	addField("No Delay", strconv.FormatBool(c.TCP.TCPNoDelay))
	addField("Keep Alive", fmt.Sprintf("%d sec", c.TCP.TCPKeepAliveSec))
	addField("Linger", fmt.Sprintf("%d sec", c.TCP.TCPLingerSec))

	return sb.String()
}

// --------------------------------------------------------------------------
// Socket option passthrough
// --------------------------------------------------------------------------

// UpgradeConnection applies the configured low-level options to an
// established connection. Options are delegated directly to the underlying
// handle; non-TCP connections are returned unchanged.
func UpgradeConnection(conn net.Conn, config Config) error {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return nil // Not a TCP connection, nothing to upgrade
	}

	// Disable Nagle's algorithm (TCPNoDelay) if configured
	if err := tcpConn.SetNoDelay(config.TCP.TCPNoDelay); err != nil {
		return err
	}

	// Set socket write buffer size if configured
	if config.Socket.WriteBufferSize > 0 {
		if err := tcpConn.SetWriteBuffer(config.Socket.WriteBufferSize); err != nil {
			return err
		}
	}

	// Set socket read buffer size if configured
	if config.Socket.ReadBufferSize > 0 {
		if err := tcpConn.SetReadBuffer(config.Socket.ReadBufferSize); err != nil {
			return err
		}
	}

	// Enable TCP keep-alive if configured
	if config.TCP.TCPKeepAliveSec > 0 {
		if err := tcpConn.SetKeepAlive(true); err != nil {
			return err
		}

		keepAlivePeriod := time.Duration(config.TCP.TCPKeepAliveSec) * time.Second
		if err := tcpConn.SetKeepAlivePeriod(keepAlivePeriod); err != nil {
			return err
		}
	}

	// Set TCP linger option if configured
	if config.TCP.TCPLingerSec >= 0 {
		if err := tcpConn.SetLinger(config.TCP.TCPLingerSec); err != nil {
			return err
		}
	}

	return nil
}
