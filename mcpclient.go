// Package mcpclient provides a Go client for the Model Context Protocol (MCP)
// over a stdio connection to a spawned server process.
//
// # Overview
//
// The Model Context Protocol (MCP) is a standardized request/response protocol
// spoken between a controlling process and a tool-providing server. This library
// implements the client side of the protocol for servers that run as child
// processes and exchange newline-delimited JSON-RPC 2.0 messages over their
// standard input/output streams.
//
// # Core Features
//
// - Subprocess lifecycle management with bounded graceful shutdown
// - Capability handshake (initialize / notifications/initialized)
// - Tool, resource, and prompt enumeration
// - Tool invocation with concurrent in-flight requests
// - Request/response correlation with exactly-once resolution
// - Deterministic teardown that unblocks every outstanding caller
//
// # Organization
//
// The library is organized into the following main packages:
//
//   - github.com/rdocmcp/mcpclient/client: Session state machine and high-level API
//   - github.com/rdocmcp/mcpclient/protocol: JSON-RPC envelope and MCP message types
//   - github.com/rdocmcp/mcpclient/transport/stdio: Child-process transport and framing
//   - github.com/rdocmcp/mcpclient/logx: Logging facade used across the library
//
// # Basic Usage
//
//	import (
//	  "github.com/rdocmcp/mcpclient/client"
//	  "github.com/rdocmcp/mcpclient/transport/stdio"
//	)
//
//	t := stdio.NewTransport("./rust-mcp", []string{"--server-type", "stdio"})
//	c := client.NewClient(t)
//	if err := c.Connect(ctx); err != nil {
//	  // handle error
//	}
//	defer c.Close()
//
//	text, err := c.CallToolText(ctx, "fetch_document", map[string]interface{}{
//	  "crate_name": "rand",
//	  "version":    "0.9.0",
//	  "path":       "rand",
//	})
package mcpclient

// Version is the current version of the mcpclient library.
const Version = "0.1.0"
