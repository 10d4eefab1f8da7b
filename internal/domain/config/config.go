// Package config provides domain value objects for the master's
// configuration: the timing constants that drive the slave state machine
// and the set of packages to place at startup.
package config

import "github.com/kodflow/livewidgetd/internal/domain/shared"

// Default timing constants, used when a field is left unset in the loaded
// configuration.
const (
	// defaultSlaveTTL is the idle lifetime of a secured slave (30 seconds).
	defaultSlaveTTL int = 30
	// defaultActivateTime bounds how long activation may take (5 seconds).
	defaultActivateTime int = 5
	// defaultRelaunchTime is the delay before retrying a failed launch (1 second).
	defaultRelaunchTime int = 1
	// defaultRelaunchCount is the number of retries before giving up (3).
	defaultRelaunchCount int = 3
	// defaultMaxLoad is the maximum packages a default-ABI slave may host (30).
	defaultMaxLoad int = 30
	// defaultMinimumReactivationTime is the flap-suppression window (10 seconds).
	defaultMinimumReactivationTime int = 10
)

// PackageSpec describes a package to place when the master starts.
type PackageSpec struct {
	// Name is the slave name the package should be placed on, if it is to
	// be bound to a dedicated secured slave.
	Name string
	// ABI is the worker ABI the package requires.
	ABI string
	// Secured marks this package as requiring a dedicated slave.
	Secured bool
	// Network marks this package as requiring outbound network access.
	Network bool
	// Pkgname is the package identifier passed to the launcher.
	Pkgname string
}

// Config is the root configuration for the master. It carries the global
// timing constants referenced throughout the registry and fault manager,
// plus the packages to place at startup.
type Config struct {
	// SlaveTTL is the idle lifetime of a secured slave.
	SlaveTTL shared.Duration
	// SlaveActivateTime bounds how long activation may take before the
	// activate timer treats it as a launch failure.
	SlaveActivateTime shared.Duration
	// SlaveRelaunchTime is the delay before retrying a transient launch failure.
	SlaveRelaunchTime shared.Duration
	// SlaveRelaunchCount is the number of retries before giving up.
	SlaveRelaunchCount int
	// SlaveMaxLoad is the maximum packages a default-ABI slave may host.
	SlaveMaxLoad int
	// MinimumReactivationTime is the flap-suppression window.
	MinimumReactivationTime shared.Duration
	// DefaultABI is the ABI treated as the load-capped default.
	DefaultABI string
	// DebugMode enables verbose diagnostic logging.
	DebugMode bool
	// SlaveLogPath is the directory crash logs are written under.
	SlaveLogPath string
	// PackageDBPath is the filesystem path to the package database file.
	PackageDBPath string
	// Packages lists the packages to place once the registry is running.
	Packages []PackageSpec
	// ConfigPath stores the path this configuration was loaded from.
	ConfigPath string
}

// DefaultConfig returns a Config populated with the default timing
// constants and no packages to place.
//
// Returns:
//   - *Config: configuration with sensible defaults
func DefaultConfig() *Config {
	// Return config with the package defaults above and an empty fleet.
	return &Config{
		SlaveTTL:                shared.Seconds(defaultSlaveTTL),
		SlaveActivateTime:       shared.Seconds(defaultActivateTime),
		SlaveRelaunchTime:       shared.Seconds(defaultRelaunchTime),
		SlaveRelaunchCount:      defaultRelaunchCount,
		SlaveMaxLoad:            defaultMaxLoad,
		MinimumReactivationTime: shared.Seconds(defaultMinimumReactivationTime),
		DefaultABI:              "c",
		SlaveLogPath:            "/var/log/livewidgetd/slave",
		PackageDBPath:           "/var/lib/livewidgetd/packages.db",
	}
}

// Validate validates the configuration.
//
// Returns:
//   - error: validation error if any
func (c *Config) Validate() error {
	// Delegate to the package-level validation function.
	return Validate(c)
}
