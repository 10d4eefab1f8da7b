// Package placement provides the application service that turns a
// placement request into either an existing slave handle or a freshly
// created and activated one.
package placement

import (
	"context"
	"errors"

	"github.com/kodflow/livewidgetd/internal/domain/slave"
)

// Registry is the subset of the slave registry the placement engine
// needs: finding an existing candidate, or creating and activating a
// fresh one when none qualifies.
type Registry interface {
	// FindAvailable returns an existing slave able to host the requested
	// profile, if one exists.
	FindAvailable(abi string, secured, network bool) (*slave.Slave, bool)
	// Create registers a new slave, deduplicating by name.
	Create(name string, secured bool, abi, pkgname string, network bool) *slave.Slave
	// Activate launches the named slave's worker process.
	Activate(ctx context.Context, name string) error
	// LoadPackage records that a package has been placed on the named slave.
	LoadPackage(name string) error
}

// Engine implements the placement policy described by domain/placement,
// translating a placement request into the registry calls needed to
// either reuse or stand up a slave.
type Engine struct {
	registry Registry
}

// New constructs a placement Engine backed by registry.
//
// Params:
//   - registry: the registry used to find, create, and activate slaves
//
// Returns:
//   - *Engine: a placement engine
func New(registry Registry) *Engine {
	return &Engine{registry: registry}
}

// Place finds an existing slave able to host a package with the given
// profile, or creates and activates a dedicated one under name if none
// qualifies.
//
// Params:
//   - ctx: cancellation and deadline for the activation attempt
//   - name: the slave name to use if a fresh slave must be created
//   - abi: the worker ABI the package requires
//   - secured: whether the package requires a dedicated slave
//   - network: whether the package requires outbound network access
//   - pkgname: the package identifier passed to the launcher
//
// Returns:
//   - *slave.Slave: the slave the package was placed on
//   - error: non-nil only if activating a freshly created slave failed
func (e *Engine) Place(ctx context.Context, name, abi string, secured, network bool, pkgname string) (*slave.Slave, error) {
	if s, ok := e.registry.FindAvailable(abi, secured, network); ok {
		if err := e.registry.LoadPackage(s.Name); err != nil {
			return nil, err
		}
		return s, nil
	}

	s := e.registry.Create(name, secured, abi, pkgname, network)
	if err := e.registry.Activate(ctx, name); err != nil && !errors.Is(err, slave.ErrAlready) {
		return nil, err
	}
	if err := e.registry.LoadPackage(name); err != nil {
		return nil, err
	}
	return s, nil
}
