// Package placement_test provides external tests for the placement policy.
package placement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodflow/livewidgetd/internal/domain/placement"
	"github.com/kodflow/livewidgetd/internal/domain/slave"
)

const (
	defaultABI = "c"
	maxLoad    = 2
)

// TestFindAvailable_SecuredRequiresEmptySlave tests that a secured
// placement request only matches a secured candidate with no packages
// loaded.
//
// Params:
//   - t: the testing context.
func TestFindAvailable_SecuredRequiresEmptySlave(t *testing.T) {
	candidates := []placement.Candidate{
		{Name: "s1", ABI: "c", Secured: true, LoadedPackages: 1},
		{Name: "s2", ABI: "c", Secured: true, LoadedPackages: 0},
	}

	got, ok := placement.FindAvailable(candidates, "c", true, false, defaultABI, maxLoad)

	require.True(t, ok)
	assert.Equal(t, "s2", got.Name)
}

// TestFindAvailable_SecuredRejectsUnsecuredCandidates tests that a
// secured request never selects an unsecured candidate.
//
// Params:
//   - t: the testing context.
func TestFindAvailable_SecuredRejectsUnsecuredCandidates(t *testing.T) {
	candidates := []placement.Candidate{
		{Name: "s1", ABI: "c", Secured: false, LoadedPackages: 0},
	}

	_, ok := placement.FindAvailable(candidates, "c", true, false, defaultABI, maxLoad)

	assert.False(t, ok)
}

// TestFindAvailable_DefaultABIRespectsLoadCap tests that a default-ABI
// placement rejects a candidate already at the load cap but accepts one
// below it, matching on network flag.
//
// Params:
//   - t: the testing context.
func TestFindAvailable_DefaultABIRespectsLoadCap(t *testing.T) {
	candidates := []placement.Candidate{
		{Name: "full", ABI: "c", Network: false, LoadedPackages: maxLoad},
		{Name: "available", ABI: "c", Network: false, LoadedPackages: maxLoad - 1},
	}

	got, ok := placement.FindAvailable(candidates, "c", false, false, defaultABI, maxLoad)

	require.True(t, ok)
	assert.Equal(t, "available", got.Name)
}

// TestFindAvailable_DefaultABIRejectsNetworkMismatch tests that a
// default-ABI placement request only matches a candidate with the same
// network flag.
//
// Params:
//   - t: the testing context.
func TestFindAvailable_DefaultABIRejectsNetworkMismatch(t *testing.T) {
	candidates := []placement.Candidate{
		{Name: "s1", ABI: "c", Network: true, LoadedPackages: 0},
	}

	_, ok := placement.FindAvailable(candidates, "c", false, false, defaultABI, maxLoad)

	assert.False(t, ok)
}

// TestFindAvailable_NonDefaultABIIgnoresLoadCap tests that a non-default
// ABI placement request ignores the load cap, matching purely on network
// flag.
//
// Params:
//   - t: the testing context.
func TestFindAvailable_NonDefaultABIIgnoresLoadCap(t *testing.T) {
	candidates := []placement.Candidate{
		{Name: "s1", ABI: "html", Network: false, LoadedPackages: 1000},
	}

	got, ok := placement.FindAvailable(candidates, "html", false, false, defaultABI, maxLoad)

	require.True(t, ok)
	assert.Equal(t, "s1", got.Name)
}

// TestFindAvailable_RejectsABIMismatchCaseInsensitively tests that ABI
// comparison ignores case but still enforces a match.
//
// Params:
//   - t: the testing context.
func TestFindAvailable_RejectsABIMismatchCaseInsensitively(t *testing.T) {
	candidates := []placement.Candidate{
		{Name: "s1", ABI: "C", Network: false, LoadedPackages: 0},
	}

	got, ok := placement.FindAvailable(candidates, "c", false, false, defaultABI, maxLoad)
	require.True(t, ok)
	assert.Equal(t, "s1", got.Name)

	_, ok = placement.FindAvailable(candidates, "html", false, false, defaultABI, maxLoad)
	assert.False(t, ok)
}

// TestFindAvailable_RejectsVanishingSlave tests that a candidate in
// REQUEST_TO_TERMINATE with no loaded instances is never selected.
//
// Params:
//   - t: the testing context.
func TestFindAvailable_RejectsVanishingSlave(t *testing.T) {
	candidates := []placement.Candidate{
		{Name: "vanishing", ABI: "c", State: slave.StateRequestToTerminate, LoadedInstances: 0},
		{Name: "fine", ABI: "c", State: slave.StateResumed, LoadedInstances: 0},
	}

	got, ok := placement.FindAvailable(candidates, "c", false, false, defaultABI, maxLoad)

	require.True(t, ok)
	assert.Equal(t, "fine", got.Name)
}

// TestFindAvailable_TerminatingSlaveWithInstancesStillEligible tests that
// a candidate in REQUEST_TO_TERMINATE is only rejected for vanishing when
// it has no loaded instances; one still hosting instances is a normal
// candidate.
//
// Params:
//   - t: the testing context.
func TestFindAvailable_TerminatingSlaveWithInstancesStillEligible(t *testing.T) {
	candidates := []placement.Candidate{
		{Name: "s1", ABI: "c", State: slave.StateRequestToTerminate, LoadedInstances: 1, LoadedPackages: 0},
	}

	got, ok := placement.FindAvailable(candidates, "c", false, false, defaultABI, maxLoad)

	require.True(t, ok)
	assert.Equal(t, "s1", got.Name)
}

// TestFindAvailable_NoneQualify tests that an empty candidate set yields
// no match.
//
// Params:
//   - t: the testing context.
func TestFindAvailable_NoneQualify(t *testing.T) {
	_, ok := placement.FindAvailable(nil, "c", false, false, defaultABI, maxLoad)
	assert.False(t, ok)
}
