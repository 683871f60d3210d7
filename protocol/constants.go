// Package protocol defines the structures and constants for the Model Context Protocol (MCP).
package protocol

const (
	// JSONRPCVersion is the JSON-RPC version string carried by every message.
	JSONRPCVersion = "2.0"

	// CurrentProtocolVersion defines the MCP version this client implementation speaks.
	CurrentProtocolVersion = "2024-11-05"

	// --- Message Type (Method Name) Constants ---
	// These align with the JSON-RPC 'method' field names defined by MCP.

	// Initialization
	MethodInitialize        = "initialize"
	MethodNotifyInitialized = "notifications/initialized" // Notification

	// Tools
	MethodListTools = "tools/list"
	MethodCallTool  = "tools/call"

	// Resources
	MethodListResources = "resources/list"
	MethodReadResource  = "resources/read"

	// Prompts
	MethodListPrompts = "prompts/list"
	MethodGetPrompt   = "prompts/get"

	// Ping
	MethodPing = "ping"
)
