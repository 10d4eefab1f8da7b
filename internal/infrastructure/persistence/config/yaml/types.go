// Package yaml provides YAML configuration loading infrastructure.
// It handles parsing and conversion of YAML configuration files to domain objects.
package yaml

import (
	"time"

	"github.com/kodflow/livewidgetd/internal/domain/config"
	"github.com/kodflow/livewidgetd/internal/domain/shared"
)

// Duration is a wrapper around time.Duration for YAML serialization. It
// enables parsing of human-readable duration strings like "30s" from
// YAML files.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
//
// Params:
//   - unmarshal: callback function to unmarshal the YAML value
//
// Returns:
//   - error: parsing error if the duration string is invalid
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler for Duration.
//
// Returns:
//   - []byte: the duration as a formatted string in bytes
//   - error: always nil for this implementation
func (d *Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(*d).String()), nil
}

// ConfigDTO is the YAML representation of the root configuration.
type ConfigDTO struct {
	SlaveTTL                Duration        `yaml:"slave_ttl,omitempty"`
	SlaveActivateTime       Duration        `yaml:"slave_activate_time,omitempty"`
	SlaveRelaunchTime       Duration        `yaml:"slave_relaunch_time,omitempty"`
	SlaveRelaunchCount      int             `yaml:"slave_relaunch_count,omitempty"`
	SlaveMaxLoad            int             `yaml:"slave_max_load,omitempty"`
	MinimumReactivationTime Duration        `yaml:"minimum_reactivation_time,omitempty"`
	DefaultABI              string          `yaml:"default_abi,omitempty"`
	DebugMode               bool            `yaml:"debug_mode,omitempty"`
	SlaveLogPath            string          `yaml:"slave_log_path,omitempty"`
	PackageDBPath           string          `yaml:"package_db_path,omitempty"`
	Packages                []PackageSpecDTO `yaml:"packages,omitempty"`
}

// PackageSpecDTO is the YAML representation of a startup package placement.
type PackageSpecDTO struct {
	Name    string `yaml:"name,omitempty"`
	ABI     string `yaml:"abi"`
	Secured bool   `yaml:"secured,omitempty"`
	Network bool   `yaml:"network,omitempty"`
	Pkgname string `yaml:"pkgname"`
}

// ToDomain converts ConfigDTO to the domain Config, stamping configPath.
//
// Params:
//   - configPath: the path this configuration was loaded from
//
// Returns:
//   - *config.Config: the converted domain configuration
func (c *ConfigDTO) ToDomain(configPath string) *config.Config {
	packages := make([]config.PackageSpec, 0, len(c.Packages))
	for i := range c.Packages {
		packages = append(packages, c.Packages[i].ToDomain())
	}

	return &config.Config{
		SlaveTTL:                shared.FromTimeDuration(time.Duration(c.SlaveTTL)),
		SlaveActivateTime:       shared.FromTimeDuration(time.Duration(c.SlaveActivateTime)),
		SlaveRelaunchTime:       shared.FromTimeDuration(time.Duration(c.SlaveRelaunchTime)),
		SlaveRelaunchCount:      c.SlaveRelaunchCount,
		SlaveMaxLoad:            c.SlaveMaxLoad,
		MinimumReactivationTime: shared.FromTimeDuration(time.Duration(c.MinimumReactivationTime)),
		DefaultABI:              c.DefaultABI,
		DebugMode:               c.DebugMode,
		SlaveLogPath:            c.SlaveLogPath,
		PackageDBPath:           c.PackageDBPath,
		Packages:                packages,
		ConfigPath:              configPath,
	}
}

// ToDomain converts PackageSpecDTO to the domain PackageSpec.
//
// Returns:
//   - config.PackageSpec: the converted domain package spec
func (p *PackageSpecDTO) ToDomain() config.PackageSpec {
	return config.PackageSpec{
		Name:    p.Name,
		ABI:     p.ABI,
		Secured: p.Secured,
		Network: p.Network,
		Pkgname: p.Pkgname,
	}
}
