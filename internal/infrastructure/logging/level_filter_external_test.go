package logging_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainlogging "github.com/kodflow/livewidgetd/internal/domain/logging"
	infralogging "github.com/kodflow/livewidgetd/internal/infrastructure/logging"
)

// fakeWriter is a test double for domainlogging.Writer recording every
// event it receives and the closed state.
type fakeWriter struct {
	events   []domainlogging.LogEvent
	closed   bool
	closeErr error
}

func (w *fakeWriter) Write(event domainlogging.LogEvent) error {
	w.events = append(w.events, event)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return w.closeErr
}

// TestLevelFilter_DropsBelowThreshold tests that events below the
// configured minimum level never reach the wrapped writer.
//
// Params:
//   - t: the testing context.
func TestLevelFilter_DropsBelowThreshold(t *testing.T) {
	inner := &fakeWriter{}
	f := infralogging.WithLevelFilter(inner, domainlogging.LevelWarn)

	require.NoError(t, f.Write(domainlogging.NewLogEvent(domainlogging.LevelInfo, "s1", "x", "")))
	require.NoError(t, f.Write(domainlogging.NewLogEvent(domainlogging.LevelDebug, "s1", "x", "")))

	assert.Empty(t, inner.events)
}

// TestLevelFilter_PassesAtOrAboveThreshold tests that events at or above
// the minimum level reach the wrapped writer unchanged.
//
// Params:
//   - t: the testing context.
func TestLevelFilter_PassesAtOrAboveThreshold(t *testing.T) {
	inner := &fakeWriter{}
	f := infralogging.WithLevelFilter(inner, domainlogging.LevelWarn)

	warnEvent := domainlogging.NewLogEvent(domainlogging.LevelWarn, "s1", "x", "")
	errEvent := domainlogging.NewLogEvent(domainlogging.LevelError, "s1", "y", "")
	require.NoError(t, f.Write(warnEvent))
	require.NoError(t, f.Write(errEvent))

	require.Len(t, inner.events, 2)
	assert.Equal(t, warnEvent, inner.events[0])
	assert.Equal(t, errEvent, inner.events[1])
}

// TestLevelFilter_Close_DelegatesToWrappedWriter tests that Close both
// calls through to the wrapped writer and propagates its error.
//
// Params:
//   - t: the testing context.
func TestLevelFilter_Close_DelegatesToWrappedWriter(t *testing.T) {
	boom := errors.New("disk full")
	inner := &fakeWriter{closeErr: boom}
	f := infralogging.WithLevelFilter(inner, domainlogging.LevelInfo)

	err := f.Close()

	assert.True(t, inner.closed)
	assert.ErrorIs(t, err, boom)
}
