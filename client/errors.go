package client

import (
	"errors"
	"fmt"

	"github.com/rdocmcp/mcpclient/protocol"
)

// Standard error types that can be used with errors.Is()
var (
	// ErrNotReady is returned when an operation is attempted outside the
	// Ready state (before Connect completes or after Close begins).
	ErrNotReady = errors.New("session is not ready")

	// ErrAlreadyConnected is returned by Connect on a session that has
	// already been started.
	ErrAlreadyConnected = errors.New("session is already connected")

	// ErrSessionClosed resolves pending calls that were still outstanding
	// when the session shut down.
	ErrSessionClosed = errors.New("session closed")
)

// RemoteError carries an explicit error response reported by the server for
// one call. It is local to that call; the session stays usable.
type RemoteError struct {
	Method  string
	Payload *protocol.ErrorPayload
}

// Error implements the error interface
func (e *RemoteError) Error() string {
	return fmt.Sprintf("server error during %s: %s (code %d)",
		e.Method, e.Payload.Message, e.Payload.Code)
}

// Unwrap returns the underlying error payload
func (e *RemoteError) Unwrap() error {
	return e.Payload
}

// ToolError reports an in-band tool execution failure (a tools/call result
// with isError set). Like RemoteError it affects only the one call.
type ToolError struct {
	Tool    string
	Message string
}

// Error implements the error interface
func (e *ToolError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("tool %s reported an error", e.Tool)
	}
	return fmt.Sprintf("tool %s reported an error: %s", e.Tool, e.Message)
}

// IsRemoteError checks if an error is a server-reported error
func IsRemoteError(err error) bool {
	var remoteErr *RemoteError
	return errors.As(err, &remoteErr)
}

// IsToolError checks if an error is an in-band tool failure
func IsToolError(err error) bool {
	var toolErr *ToolError
	return errors.As(err, &toolErr)
}
