package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kodflow/livewidgetd/internal/domain/logging"
)

// TestNewLogEvent_StampsFields tests that a new event carries the given
// level, component, event type, and message, with an empty metadata map
// ready to receive entries.
//
// Params:
//   - t: the testing context.
func TestNewLogEvent_StampsFields(t *testing.T) {
	ev := logging.NewLogEvent(logging.LevelWarn, "s1", "fault", "worker crashed")

	assert.Equal(t, logging.LevelWarn, ev.Level)
	assert.Equal(t, "s1", ev.Component)
	assert.Equal(t, "fault", ev.EventType)
	assert.Equal(t, "worker crashed", ev.Message)
	assert.NotZero(t, ev.Timestamp)
	assert.Empty(t, ev.Metadata)
}

// TestLogEvent_WithMeta_AddsWithoutMutatingOriginal tests that WithMeta
// returns an independent copy, leaving the source event untouched.
//
// Params:
//   - t: the testing context.
func TestLogEvent_WithMeta_AddsWithoutMutatingOriginal(t *testing.T) {
	base := logging.NewLogEvent(logging.LevelInfo, "s1", "activated", "")

	withPID := base.WithMeta("pid", 4242)

	assert.Equal(t, 4242, withPID.Metadata["pid"])
	assert.Empty(t, base.Metadata, "original event must not be mutated")
}

// TestLogEvent_WithMetadata_MergesEntries tests that WithMetadata merges
// every entry from the supplied map into a copy of the event's metadata.
//
// Params:
//   - t: the testing context.
func TestLogEvent_WithMetadata_MergesEntries(t *testing.T) {
	base := logging.NewLogEvent(logging.LevelInfo, "s1", "activated", "").WithMeta("pid", 1)

	merged := base.WithMetadata(map[string]any{"attempt": 2, "pid": 99})

	assert.Equal(t, 99, merged.Metadata["pid"])
	assert.Equal(t, 2, merged.Metadata["attempt"])
	assert.Equal(t, 1, base.Metadata["pid"], "original event must not be mutated")
}

// TestLogEvent_WithMetadata_NilOrEmptyIsNoop tests that merging a nil or
// empty map returns the event unchanged.
//
// Params:
//   - t: the testing context.
func TestLogEvent_WithMetadata_NilOrEmptyIsNoop(t *testing.T) {
	base := logging.NewLogEvent(logging.LevelInfo, "s1", "activated", "").WithMeta("pid", 1)

	assert.Equal(t, base, base.WithMetadata(nil))
	assert.Equal(t, base, base.WithMetadata(map[string]any{}))
}
