package logging

// Logger is the port interface for master event logging. The
// infrastructure layer implements this interface to provide logging
// capabilities; the registry, placement engine, and fault manager log
// exclusively through it.
type Logger interface {
	// Log logs an event directly.
	//
	// Params:
	//   - event: the log event to write.
	Log(event LogEvent)

	// Debug logs a debug-level event.
	//
	// Params:
	//   - component: the slave name or subsystem (empty for master-level).
	//   - eventType: the event type.
	//   - message: the event message.
	//   - meta: optional metadata.
	Debug(component, eventType, message string, meta map[string]any)

	// Info logs an info-level event.
	//
	// Params:
	//   - component: the slave name or subsystem (empty for master-level).
	//   - eventType: the event type.
	//   - message: the event message.
	//   - meta: optional metadata.
	Info(component, eventType, message string, meta map[string]any)

	// Warn logs a warning-level event.
	//
	// Params:
	//   - component: the slave name or subsystem (empty for master-level).
	//   - eventType: the event type.
	//   - message: the event message.
	//   - meta: optional metadata.
	Warn(component, eventType, message string, meta map[string]any)

	// Error logs an error-level event.
	//
	// Params:
	//   - component: the slave name or subsystem (empty for master-level).
	//   - eventType: the event type.
	//   - message: the event message.
	//   - meta: optional metadata.
	Error(component, eventType, message string, meta map[string]any)

	// Close closes the logger and all underlying writers.
	//
	// Returns:
	//   - error: nil on success, error on failure.
	Close() error
}
