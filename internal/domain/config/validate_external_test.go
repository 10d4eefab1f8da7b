// Package config_test provides external tests for configuration validation.
package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kodflow/livewidgetd/internal/domain/config"
)

// TestDefaultConfig_IsValid tests that DefaultConfig produces a
// configuration that passes validation as-is.
//
// Params:
//   - t: the testing context.
func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := config.DefaultConfig()
	require.NoError(t, cfg.Validate())
}

// TestValidate_RejectsEmptyDefaultABI tests that a missing default ABI is
// rejected.
//
// Params:
//   - t: the testing context.
func TestValidate_RejectsEmptyDefaultABI(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DefaultABI = ""

	err := config.Validate(cfg)

	assert.ErrorIs(t, err, config.ErrEmptyDefaultABI)
}

// TestValidate_RejectsNonPositiveMaxLoad tests that a zero or negative
// max load is rejected.
//
// Params:
//   - t: the testing context.
func TestValidate_RejectsNonPositiveMaxLoad(t *testing.T) {
	tests := []struct {
		name string
		load int
	}{
		{"zero", 0},
		{"negative", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.SlaveMaxLoad = tt.load

			err := config.Validate(cfg)

			assert.ErrorIs(t, err, config.ErrInvalidMaxLoad)
		})
	}
}

// TestValidate_RejectsNegativeRelaunchCount tests that a negative
// relaunch count is rejected.
//
// Params:
//   - t: the testing context.
func TestValidate_RejectsNegativeRelaunchCount(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SlaveRelaunchCount = -1

	err := config.Validate(cfg)

	assert.ErrorIs(t, err, config.ErrInvalidRelaunchCount)
}

// TestValidate_PackageSpecs tests per-package-spec validation rules.
//
// Params:
//   - t: the testing context.
func TestValidate_PackageSpecs(t *testing.T) {
	tests := []struct {
		name    string
		pkg     config.PackageSpec
		wantErr error
	}{
		{"missing pkgname", config.PackageSpec{ABI: "c"}, config.ErrEmptyPackageName},
		{"missing abi", config.PackageSpec{Pkgname: "live-c"}, config.ErrEmptyPackageABI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Packages = []config.PackageSpec{tt.pkg}

			err := config.Validate(cfg)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// TestValidate_RejectsDuplicateSlaveName tests that two package specs
// requesting the same dedicated slave name are rejected.
//
// Params:
//   - t: the testing context.
func TestValidate_RejectsDuplicateSlaveName(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Packages = []config.PackageSpec{
		{Name: "dup", Pkgname: "live-a", ABI: "c"},
		{Name: "dup", Pkgname: "live-b", ABI: "c"},
	}

	err := config.Validate(cfg)

	assert.ErrorIs(t, err, config.ErrDuplicateSlaveName)
}

// TestValidate_AllowsMultipleUnnamedPackages tests that package specs
// with no dedicated slave name (Name == "") never collide, since they
// are placed by the placement engine rather than bound to a fixed name.
//
// Params:
//   - t: the testing context.
func TestValidate_AllowsMultipleUnnamedPackages(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Packages = []config.PackageSpec{
		{Pkgname: "live-a", ABI: "c"},
		{Pkgname: "live-b", ABI: "c"},
	}

	assert.NoError(t, config.Validate(cfg))
}
