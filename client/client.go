// Package client provides the client-side session for the MCP protocol:
// handshake, capability enumeration, tool invocation, and teardown over a
// single transport connection to a spawned server process.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rdocmcp/mcpclient"
	"github.com/rdocmcp/mcpclient/logx"
	"github.com/rdocmcp/mcpclient/protocol"
	"github.com/rdocmcp/mcpclient/types"
)

// sessionState tracks the strictly linear lifecycle of a session.
type sessionState int32

const (
	stateUnstarted sessionState = iota
	stateHandshaking
	stateReady
	stateShuttingDown
	stateClosed
)

func (s sessionState) String() string {
	switch s {
	case stateUnstarted:
		return "unstarted"
	case stateHandshaking:
		return "handshaking"
	case stateReady:
		return "ready"
	case stateShuttingDown:
		return "shutting down"
	case stateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// readerJoinTimeout bounds how long teardown waits for the reader goroutine
// after the transport is closed.
const readerJoinTimeout = 10 * time.Second

// NotificationHandler processes a server notification. Handlers run on the
// session's reader goroutine and should return quickly.
type NotificationHandler func(method string, params json.RawMessage)

// Client is a single MCP session over one transport connection. Sessions are
// explicit handles: every operation is a method of a Client value, there is
// no ambient global session.
//
// A session moves through unstarted, handshaking, ready, shutting down, and
// closed, in that order, with no cycles. Enumeration and invocation
// operations are valid only while ready and fail with ErrNotReady otherwise.
// Multiple operations may be in flight concurrently; each suspends its
// caller until its own response arrives or the session shuts down.
type Client struct {
	transport types.Transport
	logger    logx.Logger

	clientInfo      protocol.Implementation
	capabilities    protocol.ClientCapabilities
	protocolVersion string

	sessionID string

	calls   *correlator
	cleanup *releaseStack

	state atomic.Int32

	readerDone chan struct{}

	notifyMu       sync.RWMutex
	notifyHandlers map[string][]NotificationHandler

	infoMu             sync.RWMutex
	serverInfo         protocol.Implementation
	serverCapabilities protocol.ServerCapabilities
}

// NewClient creates a session over the given transport. The transport must
// not be started; Connect owns its lifecycle from start to close.
func NewClient(transport types.Transport, opts ...Option) *Client {
	c := &Client{
		transport: transport,
		logger:    logx.NewDefaultLogger(),
		clientInfo: protocol.Implementation{
			Name:    "mcpclient",
			Version: mcpclient.Version,
		},
		protocolVersion: protocol.CurrentProtocolVersion,
		calls:           newCorrelator(),
		cleanup:         &releaseStack{},
		readerDone:      make(chan struct{}),
		notifyHandlers:  make(map[string][]NotificationHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect starts the transport, performs the initialize handshake, and moves
// the session to ready. The handshake completes before any other request is
// sent. Connect on an already-started session returns ErrAlreadyConnected;
// every resource acquired before a failure is released before Connect
// returns.
func (c *Client) Connect(ctx context.Context) error {
	if !c.state.CompareAndSwap(int32(stateUnstarted), int32(stateHandshaking)) {
		if c.currentState() == stateClosed {
			return ErrSessionClosed
		}
		return ErrAlreadyConnected
	}

	c.sessionID = uuid.NewString()
	c.logger.Debug("session %s: connecting", c.sessionID)

	if err := c.transport.Start(ctx); err != nil {
		c.state.Store(int32(stateClosed))
		close(c.readerDone)
		return err
	}
	c.cleanup.push(c.transport.Close)
	c.cleanup.push(func() error {
		c.calls.cancelAll(ErrSessionClosed)
		return nil
	})

	go c.readLoop()

	if err := c.initialize(ctx); err != nil {
		c.shutdown(err)
		return fmt.Errorf("handshake failed: %w", err)
	}

	c.state.Store(int32(stateReady))
	info := c.ServerInfo()
	c.logger.Info("session %s ready: server %q version %q protocol %s",
		c.sessionID, info.Name, info.Version, c.protocolVersion)
	return nil
}

// initialize performs the capability handshake. It runs exactly once, during
// the handshaking state; no other request leaves the client until it
// resolves.
func (c *Client) initialize(ctx context.Context) error {
	params := protocol.InitializeRequestParams{
		ProtocolVersion: c.protocolVersion,
		Capabilities:    c.capabilities,
		ClientInfo:      c.clientInfo,
	}

	resp, err := c.roundTrip(ctx, protocol.MethodInitialize, params)
	if err != nil {
		return err
	}

	var result protocol.InitializeResult
	if err := protocol.UnmarshalPayload(resp.Result, &result); err != nil {
		return fmt.Errorf("invalid initialize result: %w", err)
	}
	if result.ProtocolVersion == "" {
		return errors.New("server did not report a protocol version")
	}
	if result.ProtocolVersion != c.protocolVersion {
		c.logger.Warn("session %s: server speaks protocol %s, client requested %s",
			c.sessionID, result.ProtocolVersion, c.protocolVersion)
	}
	c.protocolVersion = result.ProtocolVersion

	c.infoMu.Lock()
	c.serverInfo = result.ServerInfo
	c.serverCapabilities = result.Capabilities
	c.infoMu.Unlock()

	// The initialized notification completes the handshake.
	return c.notify(ctx, protocol.MethodNotifyInitialized, nil)
}

// Close shuts the session down: pending calls are cancelled, then the
// transport (and with it the server process) is closed, in strict reverse
// acquisition order. Close is idempotent and safe to invoke from any state
// or trigger; after it returns, ready-only operations fail with ErrNotReady.
func (c *Client) Close() error {
	if c.state.CompareAndSwap(int32(stateUnstarted), int32(stateClosed)) {
		close(c.readerDone)
		return nil
	}
	return c.shutdown(nil)
}

// shutdown releases the session's resources exactly once, regardless of the
// trigger: explicit Close, handshake failure, or a fatal transport or
// framing error observed by the reader.
func (c *Client) shutdown(cause error) error {
	for {
		s := c.currentState()
		if s == stateClosed || s == stateShuttingDown {
			break
		}
		if c.state.CompareAndSwap(int32(s), int32(stateShuttingDown)) {
			break
		}
	}

	// Pending calls observe the original failure, not the generic closed
	// error the release stack falls back to.
	if cause != nil {
		c.calls.cancelAll(cause)
	}

	ran, err := c.cleanup.release()
	if !ran {
		return nil
	}

	if cause != nil {
		c.logger.Warn("session %s: shutting down: %v", c.sessionID, cause)
	}

	// The closed transport forces the reader loop to exit.
	select {
	case <-c.readerDone:
	case <-time.After(readerJoinTimeout):
		c.logger.Error("session %s: reader did not stop within %v", c.sessionID, readerJoinTimeout)
	}

	c.state.Store(int32(stateClosed))
	c.logger.Info("session %s closed", c.sessionID)
	return err
}

// ListTools returns the tool descriptors the server exposes.
func (c *Client) ListTools(ctx context.Context) ([]protocol.Tool, error) {
	resp, err := c.call(ctx, protocol.MethodListTools, protocol.ListToolsRequestParams{})
	if err != nil {
		return nil, err
	}
	var result protocol.ListToolsResult
	if err := protocol.UnmarshalPayload(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("invalid tools/list result: %w", err)
	}
	return result.Tools, nil
}

// ListResources returns the resource descriptors the server exposes.
func (c *Client) ListResources(ctx context.Context) ([]protocol.Resource, error) {
	resp, err := c.call(ctx, protocol.MethodListResources, protocol.ListResourcesRequestParams{})
	if err != nil {
		return nil, err
	}
	var result protocol.ListResourcesResult
	if err := protocol.UnmarshalPayload(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("invalid resources/list result: %w", err)
	}
	return result.Resources, nil
}

// ListPrompts returns the prompt descriptors the server exposes.
func (c *Client) ListPrompts(ctx context.Context) ([]protocol.Prompt, error) {
	resp, err := c.call(ctx, protocol.MethodListPrompts, protocol.ListPromptsRequestParams{})
	if err != nil {
		return nil, err
	}
	var result protocol.ListPromptsResult
	if err := protocol.UnmarshalPayload(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("invalid prompts/list result: %w", err)
	}
	return result.Prompts, nil
}

// CallTool invokes a tool by name with the given arguments and returns the
// full result. Tool names are not validated against an earlier ListTools
// snapshot; descriptors can go stale, so an unknown name surfaces as the
// server's own RemoteError. A result with IsError set is returned as-is for
// callers that want the error content parts.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]interface{}) (*protocol.CallToolResult, error) {
	params := protocol.CallToolRequestParams{
		Name:      name,
		Arguments: args,
	}
	resp, err := c.call(ctx, protocol.MethodCallTool, params)
	if err != nil {
		return nil, err
	}
	var result protocol.CallToolResult
	if err := protocol.UnmarshalPayload(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("invalid tools/call result: %w", err)
	}
	return &result, nil
}

// CallToolText invokes a tool and returns the text of the first textual
// content part. A result with no textual part fails with
// protocol.ErrNoTextContent rather than guessing at a conversion; a result
// flagged IsError fails with a ToolError carrying the textual message.
func (c *Client) CallToolText(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	result, err := c.CallTool(ctx, name, args)
	if err != nil {
		return "", err
	}
	if result.IsError {
		msg, _ := result.FirstText()
		return "", &ToolError{Tool: name, Message: msg}
	}
	return result.FirstText()
}

// ReadResource reads the contents of a resource by URI.
func (c *Client) ReadResource(ctx context.Context, uri string) (*protocol.ReadResourceResult, error) {
	params := protocol.ReadResourceRequestParams{URI: uri}
	resp, err := c.call(ctx, protocol.MethodReadResource, params)
	if err != nil {
		return nil, err
	}
	var result protocol.ReadResourceResult
	if err := protocol.UnmarshalPayload(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("invalid resources/read result: %w", err)
	}
	return &result, nil
}

// GetPrompt expands a prompt template by name with the given arguments.
func (c *Client) GetPrompt(ctx context.Context, name string, args map[string]interface{}) (*protocol.GetPromptResult, error) {
	params := protocol.GetPromptRequestParams{
		Name:      name,
		Arguments: args,
	}
	resp, err := c.call(ctx, protocol.MethodGetPrompt, params)
	if err != nil {
		return nil, err
	}
	var result protocol.GetPromptResult
	if err := protocol.UnmarshalPayload(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("invalid prompts/get result: %w", err)
	}
	return &result, nil
}

// Ping checks whether the server is responsive.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.call(ctx, protocol.MethodPing, nil)
	return err
}

// OnNotification registers a handler for a server notification method.
// Registration is allowed in any state so handlers can be installed before
// Connect.
func (c *Client) OnNotification(method string, handler NotificationHandler) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	c.notifyHandlers[method] = append(c.notifyHandlers[method], handler)
}

// ServerInfo returns the server identity reported during the handshake.
func (c *Client) ServerInfo() protocol.Implementation {
	c.infoMu.RLock()
	defer c.infoMu.RUnlock()
	return c.serverInfo
}

// ServerCapabilities returns the capabilities negotiated during the handshake.
func (c *Client) ServerCapabilities() protocol.ServerCapabilities {
	c.infoMu.RLock()
	defer c.infoMu.RUnlock()
	return c.serverCapabilities
}

// SessionID returns the identifier assigned to this session at Connect.
func (c *Client) SessionID() string {
	return c.sessionID
}

// Ready reports whether the session accepts operations.
func (c *Client) Ready() bool {
	return c.currentState() == stateReady
}

// call guards an operation with the ready check, then performs the round trip.
func (c *Client) call(ctx context.Context, method string, params interface{}) (*protocol.JSONRPCResponse, error) {
	if s := c.currentState(); s != stateReady {
		return nil, fmt.Errorf("cannot call %s while session is %s: %w", method, s, ErrNotReady)
	}
	return c.roundTrip(ctx, method, params)
}

// roundTrip registers a waiter, sends the request, and suspends the caller
// until the correlator resolves the matching id, the context is done, or the
// session shuts down. A write failure means the stream is broken, which is
// fatal to the whole session.
func (c *Client) roundTrip(ctx context.Context, method string, params interface{}) (*protocol.JSONRPCResponse, error) {
	id, ch, err := c.calls.register()
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(protocol.NewRequest(id, method, params))
	if err != nil {
		c.calls.cancel(id)
		return nil, fmt.Errorf("failed to marshal %s request: %w", method, err)
	}

	if err := c.transport.Send(ctx, data); err != nil {
		c.calls.cancel(id)
		c.shutdown(err)
		return nil, err
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return nil, c.calls.shutdownCause()
		}
		if resp.Error != nil {
			return nil, &RemoteError{Method: method, Payload: resp.Error}
		}
		return resp, nil
	case <-ctx.Done():
		c.calls.cancel(id)
		return nil, ctx.Err()
	}
}

// notify sends a one-way notification; no waiter is registered.
func (c *Client) notify(ctx context.Context, method string, params interface{}) error {
	notif, err := protocol.NewNotification(method, params)
	if err != nil {
		return err
	}
	data, err := json.Marshal(notif)
	if err != nil {
		return fmt.Errorf("failed to marshal %s notification: %w", method, err)
	}
	return c.transport.Send(ctx, data)
}

// readLoop is the session's single reader: it drains the transport's frame
// stream, routes responses to their waiters, dispatches notifications, and
// rejects server-initiated requests. It never blocks callers; a fatal
// transport or framing error triggers teardown.
func (c *Client) readLoop() {
	defer close(c.readerDone)
	for {
		frame, err := c.transport.Receive(context.Background())
		if err != nil {
			if s := c.currentState(); s == stateShuttingDown || s == stateClosed {
				return
			}
			if errors.Is(err, io.EOF) {
				c.logger.Warn("session %s: server closed its output", c.sessionID)
				err = fmt.Errorf("server closed the connection: %w", err)
			} else {
				c.logger.Error("session %s: receive failed: %v", c.sessionID, err)
			}
			go c.shutdown(err)
			return
		}

		msg, err := protocol.ParseMessage(frame)
		if err != nil {
			// Stream alignment cannot be trusted after a bad frame.
			c.logger.Error("session %s: unparseable frame: %v", c.sessionID, err)
			go c.shutdown(err)
			return
		}

		switch msg.Kind {
		case protocol.KindResponse:
			if !c.calls.resolve(msg.Response.ID, msg.Response) {
				c.logger.Warn("session %s: dropping response with unknown id %d",
					c.sessionID, msg.Response.ID)
			}
		case protocol.KindNotification:
			c.dispatchNotification(msg.Notification)
		case protocol.KindRequest:
			c.rejectServerRequest(msg.Request)
		}
	}
}

// dispatchNotification fans a server notification out to its registered
// handlers on the reader goroutine.
func (c *Client) dispatchNotification(notif *protocol.JSONRPCNotification) {
	c.notifyMu.RLock()
	handlers := append([]NotificationHandler(nil), c.notifyHandlers[notif.Method]...)
	c.notifyMu.RUnlock()

	if len(handlers) == 0 {
		c.logger.Debug("session %s: unhandled notification %s", c.sessionID, notif.Method)
		return
	}
	for _, h := range handlers {
		h(notif.Method, notif.Params)
	}
}

// rejectServerRequest answers a server-initiated request with a method-not-
// found error. This client does not serve any methods.
func (c *Client) rejectServerRequest(req *protocol.JSONRPCRequest) {
	c.logger.Warn("session %s: rejecting server request %s", c.sessionID, req.Method)
	resp := protocol.JSONRPCResponse{
		JSONRPC: protocol.JSONRPCVersion,
		ID:      req.ID,
		Error:   protocol.NewMethodNotFoundError(req.Method),
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := c.transport.Send(context.Background(), data); err != nil {
		c.logger.Debug("session %s: failed to reject %s: %v", c.sessionID, req.Method, err)
	}
}

func (c *Client) currentState() sessionState {
	return sessionState(c.state.Load())
}
