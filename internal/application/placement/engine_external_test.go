package placement_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodflow/livewidgetd/internal/application/placement"
	"github.com/kodflow/livewidgetd/internal/domain/slave"
)

// fakeRegistry is a test double for placement.Registry.
type fakeRegistry struct {
	available       *slave.Slave
	createErr       error
	activateErr     error
	loadPackageErr  error
	created         []string
	activated       []string
	loadedPackages  []string
}

func (f *fakeRegistry) FindAvailable(_ string, _, _ bool) (*slave.Slave, bool) {
	if f.available == nil {
		return nil, false
	}
	return f.available, true
}

func (f *fakeRegistry) Create(name string, secured bool, abi, pkgname string, network bool) *slave.Slave {
	f.created = append(f.created, name)
	return slave.New(name, abi, secured, network)
}

func (f *fakeRegistry) Activate(_ context.Context, name string) error {
	f.activated = append(f.activated, name)
	return f.activateErr
}

func (f *fakeRegistry) LoadPackage(name string) error {
	f.loadedPackages = append(f.loadedPackages, name)
	return f.loadPackageErr
}

// TestEngine_Place_ReusesExistingSlave tests that an available existing
// slave is reused rather than creating a fresh one.
//
// Params:
//   - t: the testing context.
func TestEngine_Place_ReusesExistingSlave(t *testing.T) {
	existing := slave.New("s1", "c", false, false)
	reg := &fakeRegistry{available: existing}
	e := placement.New(reg)

	got, err := e.Place(context.Background(), "s2", "c", false, false, "live-c")

	require.NoError(t, err)
	assert.Same(t, existing, got)
	assert.Empty(t, reg.created, "no new slave should be created when one is available")
	assert.Equal(t, []string{"s1"}, reg.loadedPackages)
}

// TestEngine_Place_CreatesAndActivatesWhenNoneAvailable tests that absent
// a qualifying candidate, a fresh slave is created, activated, and loaded.
//
// Params:
//   - t: the testing context.
func TestEngine_Place_CreatesAndActivatesWhenNoneAvailable(t *testing.T) {
	reg := &fakeRegistry{}
	e := placement.New(reg)

	got, err := e.Place(context.Background(), "s1", "c", true, false, "live-c")

	require.NoError(t, err)
	assert.Equal(t, "s1", got.Name)
	assert.Equal(t, []string{"s1"}, reg.created)
	assert.Equal(t, []string{"s1"}, reg.activated)
	assert.Equal(t, []string{"s1"}, reg.loadedPackages)
}

// TestEngine_Place_TreatsAlreadyActivatedAsSuccess tests that activating
// a slave that turns out to already be running (slave.ErrAlready) is not
// treated as a placement failure.
//
// Params:
//   - t: the testing context.
func TestEngine_Place_TreatsAlreadyActivatedAsSuccess(t *testing.T) {
	reg := &fakeRegistry{activateErr: slave.ErrAlready}
	e := placement.New(reg)

	_, err := e.Place(context.Background(), "s1", "c", false, false, "live-c")

	assert.NoError(t, err)
}

// TestEngine_Place_PropagatesHardActivationFailure tests that a
// non-ErrAlready activation failure aborts placement.
//
// Params:
//   - t: the testing context.
func TestEngine_Place_PropagatesHardActivationFailure(t *testing.T) {
	boom := errors.New("launcher unavailable")
	reg := &fakeRegistry{activateErr: boom}
	e := placement.New(reg)

	_, err := e.Place(context.Background(), "s1", "c", false, false, "live-c")

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, reg.loadedPackages, "a failed activation must not still load the package")
}

// TestEngine_Place_PropagatesLoadPackageFailure tests that a failure
// recording the package load on a reused slave is surfaced to the caller.
//
// Params:
//   - t: the testing context.
func TestEngine_Place_PropagatesLoadPackageFailure(t *testing.T) {
	boom := errors.New("db unavailable")
	reg := &fakeRegistry{available: slave.New("s1", "c", false, false), loadPackageErr: boom}
	e := placement.New(reg)

	_, err := e.Place(context.Background(), "s2", "c", false, false, "live-c")

	assert.ErrorIs(t, err, boom)
}
