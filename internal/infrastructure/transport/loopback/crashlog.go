package loopback

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// CrashLogReader reads and purges per-pid crash logs written by worker
// processes at $SLAVE_LOG_PATH/slave.<pid>, implementing
// transport.CrashLogReader.
type CrashLogReader struct {
	logPath string
}

// NewCrashLogReader constructs a CrashLogReader rooted at logPath.
//
// Params:
//   - logPath: the directory crash logs are written to.
//
// Returns:
//   - *CrashLogReader: a reader for that directory.
func NewCrashLogReader(logPath string) *CrashLogReader {
	return &CrashLogReader{logPath: logPath}
}

// ReadFirstLine returns the first line of the crash log for pid, or an
// empty string if no log file exists.
//
// Params:
//   - ctx: cancellation for the read.
//   - pid: the dead worker's process id.
//
// Returns:
//   - string: the first line of the log, empty if no log exists.
//   - error: non-nil on an unexpected I/O failure.
func (r *CrashLogReader) ReadFirstLine(ctx context.Context, pid int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := os.Open(r.path(pid)) // #nosec G304 - path built from configured log directory and pid
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("opening crash log: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	return "", scanner.Err()
}

// Purge removes the crash log for pid. A missing file is not an error.
//
// Params:
//   - ctx: cancellation for the removal.
//   - pid: the dead worker's process id.
//
// Returns:
//   - error: non-nil on an unexpected I/O failure.
func (r *CrashLogReader) Purge(ctx context.Context, pid int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(r.path(pid)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("purging crash log: %w", err)
	}
	return nil
}

func (r *CrashLogReader) path(pid int) string {
	return filepath.Join(r.logPath, fmt.Sprintf("slave.%d", pid))
}
