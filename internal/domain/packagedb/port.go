// Package packagedb defines the port through which the fault manager
// looks up and records per-package information. The out-of-scope
// collaborator behind this port is the master's package database; here it
// is narrowed to exactly the operations the fault-attribution tiers need.
package packagedb

import (
	"context"
	"time"
)

// FaultRecord is the most recent fault committed against a package.
type FaultRecord struct {
	// Package is the blamed package name.
	Package string
	// Filename is the source file of the blamed call site, empty when the
	// blame came from log-file evidence rather than call-stack attribution.
	Filename string
	// Funcname is the blamed function, empty under the same condition.
	Funcname string
	// Timestamp records when the fault was committed.
	Timestamp time.Time
}

// PackageDB is the persistence port for package metadata and fault
// history. It is consulted by the fault manager's tier-2 heuristic
// (secured-slave binding) and written to by the commit step of every tier.
type PackageDB interface {
	// FindBySecuredSlave returns the package pinned to a secured slave by
	// name, if any.
	//
	// Params:
	//   - ctx: cancellation and deadline
	//   - slaveName: the secured slave's stable name
	//
	// Returns:
	//   - string: the bound package name
	//   - bool: true if a binding exists
	//   - error: non-nil on a storage failure
	FindBySecuredSlave(ctx context.Context, slaveName string) (string, bool, error)

	// PinSecuredSlave records that slaveName is dedicated to pkgname. It is
	// called when a secured slave is created for a package.
	//
	// Params:
	//   - ctx: cancellation and deadline
	//   - pkgname: the package being pinned
	//   - slaveName: the secured slave's stable name
	//
	// Returns:
	//   - error: non-nil on a storage failure
	PinSecuredSlave(ctx context.Context, pkgname, slaveName string) error

	// RecordFault commits rec as the most recent fault against pkgname.
	//
	// Params:
	//   - ctx: cancellation and deadline
	//   - pkgname: the blamed package
	//   - rec: the fault record to store
	//
	// Returns:
	//   - error: non-nil on a storage failure
	RecordFault(ctx context.Context, pkgname string, rec FaultRecord) error

	// Close releases any resources held by the underlying store.
	//
	// Returns:
	//   - error: non-nil if the store could not be closed cleanly
	Close() error
}
