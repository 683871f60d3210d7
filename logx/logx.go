// Package logx provides the standard logger implementation for the mcpclient project.
package logx

import (
	"io"
	"log"
	"os"
	"sync"
)

// Level controls which messages a logger emits.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger defines the interface for logging.
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
	SetLevel(level Level)
}

// DefaultLogger provides a basic logger implementation using the standard log package.
// It writes to stderr so that stdout stays reserved for protocol traffic.
type DefaultLogger struct {
	logger *log.Logger
	mu     sync.Mutex
	level  Level
}

// NewDefaultLogger creates a new logger writing to stderr with standard flags.
func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{
		logger: log.New(os.Stderr, "[mcpclient] ", log.LstdFlags|log.Lmsgprefix),
		level:  LevelInfo,
	}
}

// NewLogger creates a logger writing to the given writer at the given level.
func NewLogger(w io.Writer, level Level) *DefaultLogger {
	return &DefaultLogger{
		logger: log.New(w, "[mcpclient] ", log.LstdFlags|log.Lmsgprefix),
		level:  level,
	}
}

func (l *DefaultLogger) Debug(format string, v ...interface{}) {
	l.logf(LevelDebug, "DEBUG: "+format, v...)
}

func (l *DefaultLogger) Info(format string, v ...interface{}) {
	l.logf(LevelInfo, "INFO: "+format, v...)
}

func (l *DefaultLogger) Warn(format string, v ...interface{}) {
	l.logf(LevelWarn, "WARN: "+format, v...)
}

func (l *DefaultLogger) Error(format string, v ...interface{}) {
	l.logf(LevelError, "ERROR: "+format, v...)
}

// SetLevel updates the logging level for the DefaultLogger.
func (l *DefaultLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *DefaultLogger) logf(level Level, format string, v ...interface{}) {
	l.mu.Lock()
	min := l.level
	l.mu.Unlock()
	if level < min {
		return
	}
	l.logger.Printf(format, v...)
}

// Ensure interface compliance
var _ Logger = (*DefaultLogger)(nil)

// discardLogger drops all messages.
type discardLogger struct{}

func (discardLogger) Debug(string, ...interface{}) {}
func (discardLogger) Info(string, ...interface{})  {}
func (discardLogger) Warn(string, ...interface{})  {}
func (discardLogger) Error(string, ...interface{}) {}
func (discardLogger) SetLevel(Level)               {}

// Discard returns a Logger that discards everything written to it.
func Discard() Logger {
	return discardLogger{}
}
