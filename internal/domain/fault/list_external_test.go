// Package fault_test provides external tests for the outstanding-call list.
package fault_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodflow/livewidgetd/internal/domain/fault"
)

// TestList_AppendLen tests that Append grows the list and Len reports it.
//
// Params:
//   - t: the testing context.
func TestList_AppendLen(t *testing.T) {
	l := fault.NewList()
	assert.Equal(t, 0, l.Len())

	l.Append(fault.Call{SlaveName: "s1", Package: "p", Filename: "f.c", Funcname: "g", Timestamp: time.Now()})
	assert.Equal(t, 1, l.Len())

	l.Append(fault.Call{SlaveName: "s1", Package: "p", Filename: "f.c", Funcname: "h", Timestamp: time.Now()})
	assert.Equal(t, 2, l.Len())
}

// TestList_RemoveOldestMatch tests that RemoveOldestMatch removes the
// earliest matching entry and reports whether a match was found.
//
// Params:
//   - t: the testing context.
func TestList_RemoveOldestMatch(t *testing.T) {
	l := fault.NewList()
	l.Append(fault.Call{SlaveName: "s1", Package: "p", Filename: "f.c", Funcname: "g"})
	l.Append(fault.Call{SlaveName: "s1", Package: "p", Filename: "f.c", Funcname: "g"})

	require.True(t, l.RemoveOldestMatch("s1", "p", "f.c", "g"))
	assert.Equal(t, 1, l.Len(), "only the oldest matching entry should be removed")

	require.True(t, l.RemoveOldestMatch("s1", "p", "f.c", "g"))
	assert.Equal(t, 0, l.Len())

	assert.False(t, l.RemoveOldestMatch("s1", "p", "f.c", "g"), "no entry left to match")
}

// TestList_DrainSlave_LIFOOrder tests that DrainSlave returns only the
// target slave's entries, most-recently-appended first, and leaves other
// slaves' entries untouched and in relative order.
//
// Params:
//   - t: the testing context.
func TestList_DrainSlave_LIFOOrder(t *testing.T) {
	l := fault.NewList()
	l.Append(fault.Call{SlaveName: "s1", Funcname: "first"})
	l.Append(fault.Call{SlaveName: "s2", Funcname: "other"})
	l.Append(fault.Call{SlaveName: "s1", Funcname: "second"})
	l.Append(fault.Call{SlaveName: "s1", Funcname: "third"})

	drained := l.DrainSlave("s1")

	require.Len(t, drained, 3)
	assert.Equal(t, "third", drained[0].Funcname)
	assert.Equal(t, "second", drained[1].Funcname)
	assert.Equal(t, "first", drained[2].Funcname)

	assert.Equal(t, 1, l.Len(), "only s2's entry should remain")
}

// TestList_DrainSlave_NoMatchingEntries tests that draining a slave with
// no outstanding calls returns an empty, non-nil slice and leaves the
// list untouched.
//
// Params:
//   - t: the testing context.
func TestList_DrainSlave_NoMatchingEntries(t *testing.T) {
	l := fault.NewList()
	l.Append(fault.Call{SlaveName: "s2"})

	drained := l.DrainSlave("s1")

	assert.Empty(t, drained)
	assert.Equal(t, 1, l.Len())
}
