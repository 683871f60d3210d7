package stdio

import (
	"errors"
	"fmt"
)

// Standard error values that can be used with errors.Is()
var (
	ErrNotStarted     = errors.New("transport is not started")
	ErrAlreadyStarted = errors.New("transport is already started")
	ErrClosed         = errors.New("transport is closed")
	ErrFrameTooLarge  = errors.New("frame exceeds maximum size")
)

// SpawnError indicates the server process could not be launched.
// No endpoint exists when a SpawnError is returned.
type SpawnError struct {
	Command string
	Err     error
}

// Error implements the error interface
func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn %s: %v", e.Command, e.Err)
}

// Unwrap returns the underlying cause
func (e *SpawnError) Unwrap() error {
	return e.Err
}

// TransportError indicates a stream read or write failure. It is fatal to
// the session using the transport.
type TransportError struct {
	Op  string // "send" or "receive"
	Err error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause
func (e *TransportError) Unwrap() error {
	return e.Err
}

// FramingError indicates malformed bytes on the stream. Stream alignment
// cannot be trusted afterwards, so it is fatal to the session.
type FramingError struct {
	Reason string
	Err    error
}

// Error implements the error interface
func (e *FramingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("framing error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("framing error: %s", e.Reason)
}

// Unwrap returns the underlying cause
func (e *FramingError) Unwrap() error {
	return e.Err
}

// IsSpawnError checks if an error is a spawn error
func IsSpawnError(err error) bool {
	var spawnErr *SpawnError
	return errors.As(err, &spawnErr)
}

// IsTransportError checks if an error is a transport error
func IsTransportError(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// IsFramingError checks if an error is a framing error
func IsFramingError(err error) bool {
	var framingErr *FramingError
	return errors.As(err, &framingErr)
}
