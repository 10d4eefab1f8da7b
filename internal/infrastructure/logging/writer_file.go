package logging

import (
	"fmt"
	"os"
	"sync"

	"github.com/kodflow/livewidgetd/internal/domain/logging"
)

// FileWriter appends formatted log lines to a file, opened once and kept
// open for the writer's lifetime.
type FileWriter struct {
	mu     sync.Mutex
	file   *os.File
	format Formatter
}

// NewFileWriter opens (creating if absent, appending if present) the file
// at path for writing log lines.
//
// Params:
//   - path: the log file path.
//
// Returns:
//   - *FileWriter: the created file writer.
//   - error: any error opening the file.
func NewFileWriter(path string) (*FileWriter, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) // #nosec G302,G304 - log path comes from administrator-controlled config
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	return &FileWriter{file: f, format: NewTextFormatter("")}, nil
}

// Write appends the formatted event to the file.
//
// Params:
//   - event: the log event to write.
//
// Returns:
//   - error: nil on success, error on failure.
func (w *FileWriter) Write(event logging.LogEvent) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	line := w.format.Format(event)
	_, err := w.file.WriteString(line + "\n")
	return err
}

// Close closes the underlying file.
//
// Returns:
//   - error: nil on success, error on failure.
func (w *FileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

var _ logging.Writer = (*FileWriter)(nil)
