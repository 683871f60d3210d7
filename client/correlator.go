package client

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rdocmcp/mcpclient/protocol"
)

// correlator pairs outgoing requests with their eventual responses. Ids are
// monotonically increasing integers, unique for the session's lifetime and
// never reused. The pending map is the only mutable state shared between the
// reader goroutine and callers, and every access holds the mutex.
type correlator struct {
	nextID atomic.Int64

	mu      sync.Mutex
	pending map[int64]chan *protocol.JSONRPCResponse
	closed  bool
	cause   error
}

func newCorrelator() *correlator {
	return &correlator{
		pending: make(map[int64]chan *protocol.JSONRPCResponse),
	}
}

// register allocates a fresh id and records its waiter before the request is
// sent, so a fast response can never arrive unrouted. The returned channel
// delivers the response, or is closed if the session shuts down first.
func (c *correlator) register() (int64, <-chan *protocol.JSONRPCResponse, error) {
	id := c.nextID.Add(1)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, nil, c.shutdownCauseLocked()
	}
	if _, dup := c.pending[id]; dup {
		// Cannot happen with monotonic id generation; guards the invariant.
		return 0, nil, fmt.Errorf("duplicate request id %d", id)
	}
	ch := make(chan *protocol.JSONRPCResponse, 1)
	c.pending[id] = ch
	return id, ch, nil
}

// resolve completes the waiter for id exactly once. It reports false for a
// stray or duplicate response id, which the caller surfaces as a protocol
// warning rather than a failure.
func (c *correlator) resolve(id int64, resp *protocol.JSONRPCResponse) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch, ok := c.pending[id]
	if !ok {
		return false
	}
	delete(c.pending, id)
	ch <- resp
	return true
}

// cancel removes the waiter for id without completing it. Used when the
// caller abandons the call (context timeout or cancellation); a response
// arriving afterwards is treated as stray.
func (c *correlator) cancel(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ch, ok := c.pending[id]; ok {
		delete(c.pending, id)
		close(ch)
	}
}

// cancelAll completes every still-pending waiter with a shutdown error and
// refuses further registrations, so no caller blocks past teardown.
func (c *correlator) cancelAll(cause error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.cause = cause
	for id, ch := range c.pending {
		delete(c.pending, id)
		close(ch)
	}
}

// shutdownCause is the error pending waiters observe once cancelAll ran.
func (c *correlator) shutdownCause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shutdownCauseLocked()
}

func (c *correlator) shutdownCauseLocked() error {
	if c.cause != nil {
		return c.cause
	}
	return ErrSessionClosed
}

// pendingCount reports the number of outstanding calls.
func (c *correlator) pendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
