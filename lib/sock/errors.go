package sock

import (
	"errors"
)

// Error taxonomy of the socket lifecycle. Argument/state errors are returned
// synchronously (or as already-rejected futures) with no partial effect;
// transport failures are wrapped around these or the underlying I/O error.
var (
	// ErrDisposed is returned by any lifecycle or send/connect operation
	// invoked after Dispose. Disposal is terminal.
	ErrDisposed = errors.New("socket is disposed")

	// ErrNotConnected is returned when an operation requires a live
	// connection handle and none is attached.
	ErrNotConnected = errors.New("socket is not connected")

	// ErrInvalidHandle is returned by Connect for a nil connection handle.
	ErrInvalidHandle = errors.New("invalid connection handle")

	// ErrNotEstablished is returned by Connect for a handle that is not
	// itself an established connection.
	ErrNotEstablished = errors.New("connection handle is not established")
)
