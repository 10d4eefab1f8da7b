// Package yaml provides YAML configuration loading infrastructure.
package yaml

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kodflow/livewidgetd/internal/domain/config"
)

// Default configuration values, applied to unset fields after parsing.
const (
	defaultSlaveTTLSeconds                int = 30
	defaultSlaveActivateTimeSeconds       int = 5
	defaultSlaveRelaunchTimeSeconds       int = 1
	defaultSlaveRelaunchCount             int = 3
	defaultSlaveMaxLoad                   int = 30
	defaultMinimumReactivationTimeSeconds int = 10
	defaultABI                            string = "c"
	defaultSlaveLogPath                   string = "/var/log/livewidgetd/slave"
	defaultPackageDBPath                  string = "/var/lib/livewidgetd/packages.db"
)

// ErrNoConfigurationLoaded is returned when Reload is called without a prior Load.
var ErrNoConfigurationLoaded error = errors.New("no configuration loaded")

// Loader loads configuration from YAML files. It maintains state about
// the last loaded configuration path to support configuration reloading.
type Loader struct {
	lastPath string
}

// New creates a new YAML configuration loader.
//
// Returns:
//   - *Loader: a new loader instance ready to load configurations
func New() *Loader {
	return &Loader{}
}

// Load reads and parses a configuration file from the given path.
//
// Params:
//   - path: absolute or relative path to the YAML configuration file
//
// Returns:
//   - *config.Config: parsed and validated configuration
//   - error: any error during reading, parsing, or validation
func (l *Loader) Load(path string) (*config.Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 - config path is trusted input
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := l.parse(data, path)
	if err != nil {
		return nil, err
	}

	l.lastPath = path
	return cfg, nil
}

// Parse parses configuration from YAML bytes without recording a path for
// later Reload calls.
//
// Params:
//   - data: raw YAML configuration bytes
//
// Returns:
//   - *config.Config: parsed and validated configuration
//   - error: any error during parsing or validation
func (l *Loader) Parse(data []byte) (*config.Config, error) {
	return l.parse(data, "")
}

// parse is the shared implementation behind Load and Parse.
func (l *Loader) parse(data []byte, path string) (*config.Config, error) {
	var dto ConfigDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}

	applyDefaults(&dto)
	cfg := dto.ToDomain(path)

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Reload reloads configuration from the last loaded path.
//
// Returns:
//   - *config.Config: reloaded and validated configuration
//   - error: error if no configuration was previously loaded or reload fails
func (l *Loader) Reload() (*config.Config, error) {
	if l.lastPath == "" {
		return nil, fmt.Errorf("%w", ErrNoConfigurationLoaded)
	}
	return l.Load(l.lastPath)
}

// applyDefaults sets default values for unset configuration options.
//
// Params:
//   - cfg: configuration DTO to apply defaults to
func applyDefaults(cfg *ConfigDTO) {
	if cfg.SlaveTTL == 0 {
		cfg.SlaveTTL = Duration(time.Duration(defaultSlaveTTLSeconds) * time.Second)
	}
	if cfg.SlaveActivateTime == 0 {
		cfg.SlaveActivateTime = Duration(time.Duration(defaultSlaveActivateTimeSeconds) * time.Second)
	}
	if cfg.SlaveRelaunchTime == 0 {
		cfg.SlaveRelaunchTime = Duration(time.Duration(defaultSlaveRelaunchTimeSeconds) * time.Second)
	}
	if cfg.SlaveRelaunchCount == 0 {
		cfg.SlaveRelaunchCount = defaultSlaveRelaunchCount
	}
	if cfg.SlaveMaxLoad == 0 {
		cfg.SlaveMaxLoad = defaultSlaveMaxLoad
	}
	if cfg.MinimumReactivationTime == 0 {
		cfg.MinimumReactivationTime = Duration(time.Duration(defaultMinimumReactivationTimeSeconds) * time.Second)
	}
	if cfg.DefaultABI == "" {
		cfg.DefaultABI = defaultABI
	}
	if cfg.SlaveLogPath == "" {
		cfg.SlaveLogPath = defaultSlaveLogPath
	}
	if cfg.PackageDBPath == "" {
		cfg.PackageDBPath = defaultPackageDBPath
	}

	for i := range cfg.Packages {
		if cfg.Packages[i].ABI == "" {
			cfg.Packages[i].ABI = cfg.DefaultABI
		}
	}
}
