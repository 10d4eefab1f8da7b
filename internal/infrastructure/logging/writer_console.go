package logging

import (
	"io"
	"os"
	"sync"

	"github.com/kodflow/livewidgetd/internal/domain/logging"
)

const (
	colorReset string = "\033[0m"
	colorDebug string = "\033[36m"
	colorInfo  string = "\033[32m"
	colorWarn  string = "\033[33m"
	colorError string = "\033[31m"
)

// ConsoleWriter writes log events to stdout/stderr depending on level:
// debug and info to stdout, warn and error to stderr.
type ConsoleWriter struct {
	mu     sync.Mutex
	stdout io.Writer
	stderr io.Writer
	format Formatter
	color  bool
}

// NewConsoleWriter creates a console writer with auto-detected color
// support.
//
// Returns:
//   - *ConsoleWriter: the created console writer.
func NewConsoleWriter() *ConsoleWriter {
	return NewConsoleWriterWithOptions(os.Stdout, os.Stderr, isTerminal(os.Stdout))
}

// NewConsoleWriterWithOptions creates a console writer with explicit
// streams and color setting.
//
// Params:
//   - stdout: the writer for debug/info events.
//   - stderr: the writer for warn/error events.
//   - color: whether to wrap lines in ANSI color codes.
//
// Returns:
//   - *ConsoleWriter: the created console writer.
func NewConsoleWriterWithOptions(stdout, stderr io.Writer, color bool) *ConsoleWriter {
	return &ConsoleWriter{
		stdout: stdout,
		stderr: stderr,
		format: NewTextFormatter(""),
		color:  color,
	}
}

// Write writes event to stdout or stderr depending on its level.
//
// Params:
//   - event: the log event to write.
//
// Returns:
//   - error: nil on success, error on failure.
func (w *ConsoleWriter) Write(event logging.LogEvent) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var out io.Writer
	if event.Level >= logging.LevelWarn {
		out = w.stderr
	} else {
		out = w.stdout
	}

	line := w.format.Format(event)
	if w.color {
		line = w.colorize(event.Level, line)
	}

	_, err := out.Write([]byte(line + "\n"))
	return err
}

func (w *ConsoleWriter) colorize(level logging.Level, line string) string {
	var color string
	switch level {
	case logging.LevelDebug:
		color = colorDebug
	case logging.LevelInfo:
		color = colorInfo
	case logging.LevelWarn:
		color = colorWarn
	case logging.LevelError:
		color = colorError
	default:
		return line
	}
	return color + line + colorReset
}

// Close is a no-op: ConsoleWriter does not own stdout/stderr.
//
// Returns:
//   - error: always nil.
func (w *ConsoleWriter) Close() error {
	return nil
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		fi, err := f.Stat()
		return err == nil && fi.Mode()&os.ModeCharDevice != 0
	}
	return false
}

var _ logging.Writer = (*ConsoleWriter)(nil)
