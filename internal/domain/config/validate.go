package config

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	// ErrEmptyDefaultABI indicates no default ABI was configured.
	ErrEmptyDefaultABI error = errors.New("default abi is required")
	// ErrInvalidMaxLoad indicates a non-positive load cap.
	ErrInvalidMaxLoad error = errors.New("slave max load must be positive")
	// ErrInvalidRelaunchCount indicates a negative relaunch count.
	ErrInvalidRelaunchCount error = errors.New("slave relaunch count must not be negative")
	// ErrEmptyPackageName indicates a package spec has no pkgname.
	ErrEmptyPackageName error = errors.New("package pkgname is required")
	// ErrEmptyPackageABI indicates a package spec has no ABI.
	ErrEmptyPackageABI error = errors.New("package abi is required")
	// ErrDuplicateSlaveName indicates two package specs request the same
	// dedicated slave name.
	ErrDuplicateSlaveName error = errors.New("duplicate slave name")
)

// Validate validates the configuration.
//
// Params:
//   - cfg: configuration to validate
//
// Returns:
//   - error: validation error if any
func Validate(cfg *Config) error {
	// A default ABI is required for the load-cap branch of placement.
	if cfg.DefaultABI == "" {
		return ErrEmptyDefaultABI
	}
	// A non-positive load cap would make every default-ABI slave unusable.
	if cfg.SlaveMaxLoad <= 0 {
		return ErrInvalidMaxLoad
	}
	// A negative relaunch count has no sensible meaning.
	if cfg.SlaveRelaunchCount < 0 {
		return ErrInvalidRelaunchCount
	}

	seen := make(map[string]bool, len(cfg.Packages))

	// Validate each package spec to place at startup.
	for i := range cfg.Packages {
		pkg := &cfg.Packages[i]
		if err := validatePackageSpec(pkg); err != nil {
			return fmt.Errorf("package %q: %w", pkg.Pkgname, err)
		}

		// Only named (dedicated-slave) specs can collide on name.
		if pkg.Name == "" {
			continue
		}
		if seen[pkg.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateSlaveName, pkg.Name)
		}
		seen[pkg.Name] = true
	}

	return nil
}

// validatePackageSpec validates a single startup package spec.
//
// Params:
//   - pkg: package spec to validate
//
// Returns:
//   - error: validation error if any
func validatePackageSpec(pkg *PackageSpec) error {
	// A launchable package must have a pkgname.
	if pkg.Pkgname == "" {
		return ErrEmptyPackageName
	}
	// A launchable package must declare the ABI it requires.
	if pkg.ABI == "" {
		return ErrEmptyPackageABI
	}
	return nil
}
