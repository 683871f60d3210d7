package client

import (
	"github.com/rdocmcp/mcpclient/logx"
	"github.com/rdocmcp/mcpclient/protocol"
)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger for session diagnostics.
func WithLogger(logger logx.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithClientInfo sets the client identity sent during the handshake.
func WithClientInfo(name, version string) Option {
	return func(c *Client) {
		c.clientInfo = protocol.Implementation{Name: name, Version: version}
	}
}

// WithCapabilities sets the capabilities advertised during the handshake.
func WithCapabilities(caps protocol.ClientCapabilities) Option {
	return func(c *Client) {
		c.capabilities = caps
	}
}

// WithProtocolVersion overrides the protocol version requested during the
// handshake. Most callers should leave the default in place.
func WithProtocolVersion(version string) Option {
	return func(c *Client) {
		c.protocolVersion = version
	}
}
