// Package slave_test provides external tests for event and vote types.
package slave_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kodflow/livewidgetd/internal/domain/slave"
)

// TestEventType_String tests the String method of EventType.
//
// Params:
//   - t: the testing context.
func TestEventType_String(t *testing.T) {
	tests := []struct {
		name  string
		event slave.EventType
		want  string
	}{
		{"activate", slave.EventActivate, "activate"},
		{"deactivate", slave.EventDeactivate, "deactivate"},
		{"delete", slave.EventDelete, "delete"},
		{"fault", slave.EventFault, "fault"},
		{"pause", slave.EventPause, "pause"},
		{"resume", slave.EventResume, "resume"},
		{"unknown", slave.EventType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.String())
		})
	}
}
