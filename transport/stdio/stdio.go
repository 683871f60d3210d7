// Package stdio provides a Transport implementation that spawns an MCP server
// as a child process and exchanges newline-delimited frames over its standard
// input/output streams.
package stdio

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/rdocmcp/mcpclient/logx"
	"github.com/rdocmcp/mcpclient/types"
)

// DefaultGracePeriod is how long Close waits for the child process to exit
// after its stdin is closed before killing it.
const DefaultGracePeriod = 5 * time.Second

// Option configures a Transport.
type Option func(*Transport)

// WithLogger sets the logger for transport diagnostics.
func WithLogger(logger logx.Logger) Option {
	return func(t *Transport) {
		t.logger = logger
	}
}

// WithEnv appends environment variables (format "KEY=VALUE") to the child
// process environment.
func WithEnv(env []string) Option {
	return func(t *Transport) {
		t.env = append(t.env, env...)
	}
}

// WithWorkingDir sets the working directory of the child process.
func WithWorkingDir(dir string) Option {
	return func(t *Transport) {
		t.dir = dir
	}
}

// WithGracePeriod sets how long Close waits for a graceful exit before
// killing the child process.
func WithGracePeriod(d time.Duration) Option {
	return func(t *Transport) {
		t.gracePeriod = d
	}
}

// WithMaxFrameSize bounds the size of a single received frame.
func WithMaxFrameSize(n int) Option {
	return func(t *Transport) {
		t.maxFrameSize = n
	}
}

// Transport implements types.Transport over the stdin/stdout of a child
// process. A single background read loop feeds received frames into a
// channel; there is exactly one reader per endpoint.
type Transport struct {
	command string
	args    []string
	env     []string
	dir     string

	gracePeriod  time.Duration
	maxFrameSize int
	logger       logx.Logger

	mu      sync.Mutex
	started bool
	closed  bool
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  io.Reader

	writeMu sync.Mutex

	frames chan []byte
	done   chan struct{}

	errMu   sync.Mutex
	readErr error

	// pipe mode, used by in-memory endpoints
	pipeMode bool
}

// NewTransport creates a transport that will spawn the given command when
// started. The child is expected to speak newline-delimited JSON-RPC on its
// standard streams.
func NewTransport(command string, args []string, opts ...Option) *Transport {
	t := &Transport{
		command:      command,
		args:         args,
		gracePeriod:  DefaultGracePeriod,
		maxFrameSize: DefaultMaxFrameSize,
		logger:       logx.NewDefaultLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewWithPipes creates a transport over an existing reader/writer pair
// instead of a child process. Used for in-memory endpoints in tests.
func NewWithPipes(r io.Reader, w io.Writer, opts ...Option) *Transport {
	t := NewTransport("", nil, opts...)
	t.pipeMode = true
	t.stdout = r
	t.stdin = asWriteCloser(w)
	return t
}

// Start acquires the endpoint: in process mode it spawns the child and wires
// up its pipes, in pipe mode it only starts the read loop. It returns a
// SpawnError if the executable cannot be launched.
func (t *Transport) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}
	if t.started {
		return ErrAlreadyStarted
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if !t.pipeMode {
		cmd := exec.Command(t.command, t.args...)
		cmd.Env = append(os.Environ(), t.env...)
		cmd.Dir = t.dir

		stdin, err := cmd.StdinPipe()
		if err != nil {
			return &SpawnError{Command: t.command, Err: err}
		}
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			stdin.Close()
			return &SpawnError{Command: t.command, Err: err}
		}
		// Capture stderr for logging, it is not part of the protocol.
		stderr, err := cmd.StderrPipe()
		if err != nil {
			stdin.Close()
			stdout.Close()
			return &SpawnError{Command: t.command, Err: err}
		}

		if err := cmd.Start(); err != nil {
			stderr.Close()
			stdout.Close()
			stdin.Close()
			return &SpawnError{Command: t.command, Err: err}
		}

		t.cmd = cmd
		t.stdin = stdin
		t.stdout = stdout
		go t.drainStderr(stderr)

		t.logger.Info("server process started: %s (pid %d)", t.command, cmd.Process.Pid)
	}

	t.frames = make(chan []byte, 16)
	t.done = make(chan struct{})
	t.started = true

	go t.readLoop(newFrameDecoder(t.stdout, t.maxFrameSize))

	return nil
}

// Send writes one frame to the child's input stream, appending the newline
// delimiter. Concurrent senders are serialized so frames never interleave.
func (t *Transport) Send(ctx context.Context, frame []byte) error {
	t.mu.Lock()
	if !t.started {
		t.mu.Unlock()
		return ErrNotStarted
	}
	if t.closed {
		t.mu.Unlock()
		return ErrClosed
	}
	t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if bytes.IndexByte(frame, '\n') >= 0 {
		return &FramingError{Reason: "frame contains embedded delimiter"}
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	buf := make([]byte, 0, len(frame)+1)
	buf = append(buf, frame...)
	buf = append(buf, '\n')
	if _, err := t.stdin.Write(buf); err != nil {
		return &TransportError{Op: "send", Err: err}
	}
	return nil
}

// Receive returns the next complete frame from the child's output stream.
// It returns io.EOF when the child closes its output, a FramingError when
// the stream is malformed, and ErrClosed once the transport is closed.
func (t *Transport) Receive(ctx context.Context) ([]byte, error) {
	t.mu.Lock()
	if !t.started {
		t.mu.Unlock()
		return nil, ErrNotStarted
	}
	frames, done := t.frames, t.done
	t.mu.Unlock()

	select {
	case frame, ok := <-frames:
		if !ok {
			return nil, t.readError()
		}
		return frame, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-done:
		return nil, ErrClosed
	}
}

// Close signals end-of-input to the child, waits up to the grace period for
// it to exit, then kills it. Close is idempotent and never blocks beyond the
// grace period.
func (t *Transport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	started := t.started
	cmd := t.cmd
	stdin := t.stdin
	stdout := t.stdout
	t.mu.Unlock()

	if !started {
		return nil
	}

	close(t.done)

	// Closing stdin tells the server to exit.
	if stdin != nil {
		stdin.Close()
	}

	if t.pipeMode {
		if closer, ok := stdout.(io.Closer); ok {
			closer.Close()
		}
		return nil
	}

	waited := make(chan error, 1)
	go func() { waited <- cmd.Wait() }()

	select {
	case err := <-waited:
		if err != nil {
			t.logger.Debug("server process exited: %v", err)
		}
	case <-time.After(t.gracePeriod):
		t.logger.Warn("server process did not exit within %v, killing pid %d",
			t.gracePeriod, cmd.Process.Pid)
		_ = cmd.Process.Kill()
		<-waited
	}

	t.logger.Info("server process stopped: %s", t.command)
	return nil
}

// Running reports whether the child process is still alive.
func (t *Transport) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cmd != nil && t.cmd.ProcessState == nil
}

// Pid returns the child process id, or zero before Start.
func (t *Transport) Pid() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cmd != nil && t.cmd.Process != nil {
		return t.cmd.Process.Pid
	}
	return 0
}

// readLoop is the single reader for the endpoint. It pushes decoded frames
// into the frames channel until the stream ends or the transport closes.
func (t *Transport) readLoop(dec *frameDecoder) {
	defer close(t.frames)
	for {
		frame, err := dec.next()
		if err != nil {
			t.setReadErr(err)
			return
		}
		select {
		case t.frames <- frame:
		case <-t.done:
			return
		}
	}
}

func (t *Transport) setReadErr(err error) {
	t.errMu.Lock()
	defer t.errMu.Unlock()
	if t.readErr == nil {
		t.readErr = err
	}
}

// readError classifies the error that terminated the read loop.
func (t *Transport) readError() error {
	t.errMu.Lock()
	defer t.errMu.Unlock()
	switch {
	case t.readErr == nil:
		return ErrClosed
	case t.readErr == io.EOF:
		return io.EOF
	case IsFramingError(t.readErr):
		return t.readErr
	default:
		return &TransportError{Op: "receive", Err: t.readErr}
	}
}

// drainStderr forwards server diagnostics to the logger.
func (t *Transport) drainStderr(r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)
	for scanner.Scan() {
		t.logger.Debug("server stderr: %s", scanner.Text())
	}
}

// asWriteCloser wraps a plain writer so pipe-mode Close can always close the
// write side.
func asWriteCloser(w io.Writer) io.WriteCloser {
	if wc, ok := w.(io.WriteCloser); ok {
		return wc
	}
	return nopWriteCloser{w}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// Ensure interface compliance
var _ types.Transport = (*Transport)(nil)
