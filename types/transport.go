// Package types defines core interfaces shared across the mcpclient library.
package types

import (
	"context"
)

// Transport defines the interface for a point-to-point connection to an MCP
// server. It abstracts the underlying endpoint (child process, or in-memory
// pipes for tests) and provides a consistent API for exchanging frames.
//
// A frame is one complete protocol message, already stripped of any
// transport-level delimiters. Framing is the transport's responsibility.
type Transport interface {
	// Start acquires the endpoint. For a subprocess transport this spawns
	// the child process and begins reading its output. Start must be called
	// exactly once before Send or Receive.
	Start(ctx context.Context) error

	// Send transmits one frame over the transport.
	// It returns an error if the frame could not be written.
	Send(ctx context.Context, frame []byte) error

	// Receive blocks until the next complete frame is available, the
	// context is done, or the stream ends. When the peer closes its output
	// the stream ends and Receive returns io.EOF; a framing violation
	// returns a framing error and no further frames can be read.
	Receive(ctx context.Context) ([]byte, error)

	// Close releases the endpoint. After Close is called the transport
	// must not be used. Close is idempotent and never blocks indefinitely.
	Close() error
}
