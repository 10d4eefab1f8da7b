package logging

import "github.com/kodflow/livewidgetd/internal/domain/logging"

// LevelFilter wraps a Writer and silently discards events below a
// minimum level.
type LevelFilter struct {
	writer   logging.Writer
	minLevel logging.Level
}

// WithLevelFilter wraps w so only events at or above minLevel pass
// through.
//
// Params:
//   - w: the writer to wrap.
//   - minLevel: the minimum level to pass through.
//
// Returns:
//   - *LevelFilter: the level-filtered writer.
func WithLevelFilter(w logging.Writer, minLevel logging.Level) *LevelFilter {
	return &LevelFilter{writer: w, minLevel: minLevel}
}

// Write passes event to the wrapped writer if it meets the threshold.
//
// Params:
//   - event: the log event to write.
//
// Returns:
//   - error: nil on success or on filtered events, error on write failure.
func (f *LevelFilter) Write(event logging.LogEvent) error {
	if event.Level < f.minLevel {
		return nil
	}
	return f.writer.Write(event)
}

// Close closes the wrapped writer.
//
// Returns:
//   - error: nil on success, error on failure.
func (f *LevelFilter) Close() error {
	return f.writer.Close()
}

var _ logging.Writer = (*LevelFilter)(nil)
