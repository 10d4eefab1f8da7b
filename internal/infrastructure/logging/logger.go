package logging

import (
	"sync"

	"github.com/kodflow/livewidgetd/internal/domain/logging"
)

// MultiLogger aggregates writers and dispatches every event to all of
// them, implementing logging.Logger.
type MultiLogger struct {
	mu      sync.RWMutex
	writers []logging.Writer
}

// New creates a MultiLogger dispatching to writers.
//
// Params:
//   - writers: the writers to dispatch events to.
//
// Returns:
//   - *MultiLogger: the created logger.
func New(writers ...logging.Writer) *MultiLogger {
	return &MultiLogger{writers: writers}
}

// Log dispatches event to every writer, ignoring individual write
// errors: logging is best-effort and must never block the event loop.
//
// Params:
//   - event: the log event to write.
func (l *MultiLogger) Log(event logging.LogEvent) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, w := range l.writers {
		_ = w.Write(event)
	}
}

// Debug logs a debug-level event.
//
// Params:
//   - component: the slave name or subsystem (empty for master-level).
//   - eventType: the event type.
//   - message: the event message.
//   - meta: optional metadata.
func (l *MultiLogger) Debug(component, eventType, message string, meta map[string]any) {
	l.Log(logging.NewLogEvent(logging.LevelDebug, component, eventType, message).WithMetadata(meta))
}

// Info logs an info-level event.
//
// Params:
//   - component: the slave name or subsystem (empty for master-level).
//   - eventType: the event type.
//   - message: the event message.
//   - meta: optional metadata.
func (l *MultiLogger) Info(component, eventType, message string, meta map[string]any) {
	l.Log(logging.NewLogEvent(logging.LevelInfo, component, eventType, message).WithMetadata(meta))
}

// Warn logs a warning-level event.
//
// Params:
//   - component: the slave name or subsystem (empty for master-level).
//   - eventType: the event type.
//   - message: the event message.
//   - meta: optional metadata.
func (l *MultiLogger) Warn(component, eventType, message string, meta map[string]any) {
	l.Log(logging.NewLogEvent(logging.LevelWarn, component, eventType, message).WithMetadata(meta))
}

// Error logs an error-level event.
//
// Params:
//   - component: the slave name or subsystem (empty for master-level).
//   - eventType: the event type.
//   - message: the event message.
//   - meta: optional metadata.
func (l *MultiLogger) Error(component, eventType, message string, meta map[string]any) {
	l.Log(logging.NewLogEvent(logging.LevelError, component, eventType, message).WithMetadata(meta))
}

// Close closes every writer, returning the first error encountered.
//
// Returns:
//   - error: the first error encountered, or nil if all closed cleanly.
func (l *MultiLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var firstErr error
	for _, w := range l.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ logging.Logger = (*MultiLogger)(nil)
