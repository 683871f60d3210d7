// Package protocol defines the structures and constants for the Model Context Protocol (MCP).
package protocol

// ErrorCode identifies a JSON-RPC error class.
type ErrorCode int

// Standard JSON-RPC 2.0 error codes.
const (
	CodeParseError     ErrorCode = -32700
	CodeInvalidRequest ErrorCode = -32600
	CodeMethodNotFound ErrorCode = -32601
	CodeInvalidParams  ErrorCode = -32602
	CodeInternalError  ErrorCode = -32603
)

// NewMethodNotFoundError builds the error payload returned for a method the
// receiving side does not implement.
func NewMethodNotFoundError(method string) *ErrorPayload {
	return &ErrorPayload{
		Code:    CodeMethodNotFound,
		Message: "Method not found: " + method,
	}
}
