// Package placement implements the pure policy that chooses which existing
// slave should host a new package, or reports that none qualifies and a
// fresh slave must be created. It holds no state of its own; the registry
// supplies the candidate snapshot on every call.
package placement

import (
	"strings"

	"github.com/kodflow/livewidgetd/internal/domain/slave"
)

// Candidate is the read-only view of a slave the placement policy needs.
// The registry builds a slice of these from its live records before
// calling FindAvailable; placement never touches slave.Slave directly so
// it can be tested without constructing a registry.
type Candidate struct {
	// Name is the slave's stable identifier.
	Name string
	// ABI is the worker ABI this slave was launched for.
	ABI string
	// Secured marks a slave dedicated to a single package.
	Secured bool
	// Network marks a slave permitted outbound network calls.
	Network bool
	// State is the slave's current lifecycle state.
	State slave.State
	// LoadedPackages counts distinct packages currently loaded.
	LoadedPackages int
	// LoadedInstances counts live instances hosted across all packages.
	LoadedInstances int
}

// abiEquals compares two ABI strings case-insensitively, as ABI matching
// is not sensitive to case per the placement rules.
func abiEquals(a, b string) bool {
	// Normalize case before comparing.
	return strings.EqualFold(a, b)
}
