// Package bootstrap provides Wire dependency injection for the master.
// This file holds custom providers needing logic beyond a bare
// constructor call.
package bootstrap

import (
	"fmt"

	appfault "github.com/kodflow/livewidgetd/internal/application/fault"
	appplacement "github.com/kodflow/livewidgetd/internal/application/placement"
	appregistry "github.com/kodflow/livewidgetd/internal/application/registry"
	domainconfig "github.com/kodflow/livewidgetd/internal/domain/config"
	domainlauncher "github.com/kodflow/livewidgetd/internal/domain/launcher"
	domainlogging "github.com/kodflow/livewidgetd/internal/domain/logging"
	domainpackagedb "github.com/kodflow/livewidgetd/internal/domain/packagedb"
	domainshared "github.com/kodflow/livewidgetd/internal/domain/shared"
	domaintransport "github.com/kodflow/livewidgetd/internal/domain/transport"
	infralauncher "github.com/kodflow/livewidgetd/internal/infrastructure/launcher"
	infralogging "github.com/kodflow/livewidgetd/internal/infrastructure/logging"
	"github.com/kodflow/livewidgetd/internal/infrastructure/persistence/packagedb/boltdb"
	infraconfig "github.com/kodflow/livewidgetd/internal/infrastructure/persistence/config/yaml"
	grpctransport "github.com/kodflow/livewidgetd/internal/infrastructure/transport/grpc"
	"github.com/kodflow/livewidgetd/internal/infrastructure/transport/loopback"
)

// workerBinDir is the conventional directory worker binaries are
// installed to, keyed by ABI under it (e.g. workerBinDir/c,
// workerBinDir/html).
const workerBinDir string = "/usr/lib/livewidgetd/slave"

// LoadConfig loads and validates the master configuration at
// configPath.
//
// Params:
//   - loader: the YAML configuration loader.
//   - configPath: the path to the configuration file.
//
// Returns:
//   - *domainconfig.Config: the loaded, validated configuration.
//   - error: any error loading or validating the configuration.
func LoadConfig(loader *infraconfig.Loader, configPath string) (*domainconfig.Config, error) {
	return loader.Load(configPath)
}

// ProvideWorkerBinPath builds the ABI-to-binary-path table the launcher
// adapter uses to spawn workers, covering the default ABI plus every ABI
// referenced by a configured package.
//
// Params:
//   - cfg: the loaded master configuration.
//
// Returns:
//   - map[string]string: ABI tag to worker binary path.
func ProvideWorkerBinPath(cfg *domainconfig.Config) map[string]string {
	abis := map[string]struct{}{cfg.DefaultABI: {}}
	for _, pkg := range cfg.Packages {
		abis[pkg.ABI] = struct{}{}
	}

	table := make(map[string]string, len(abis))
	for abi := range abis {
		table[abi] = fmt.Sprintf("%s/%s", workerBinDir, abi)
	}
	return table
}

// ProvideLauncher constructs the subprocess launcher adapter, keyed by
// ABI-to-binary-path table built from the configured package fleet.
//
// Params:
//   - binPath: the ABI-to-binary-path table.
//
// Returns:
//   - *infralauncher.Launcher: the constructed launcher adapter.
func ProvideLauncher(binPath map[string]string) *infralauncher.Launcher {
	return infralauncher.New(binPath)
}

// ProvideWorkerRPC constructs the loopback worker RPC channel used to send
// pause/resume requests.
//
// Returns:
//   - *loopback.WorkerRPC: the constructed worker RPC channel.
func ProvideWorkerRPC() *loopback.WorkerRPC {
	return loopback.NewWorkerRPC()
}

// ProvidePackageDB opens the BoltDB-backed package database at
// cfg.PackageDBPath.
//
// Params:
//   - cfg: the loaded master configuration.
//
// Returns:
//   - *boltdb.Adapter: the opened package database.
//   - error: any error opening the database file.
func ProvidePackageDB(cfg *domainconfig.Config) (*boltdb.Adapter, error) {
	db, err := boltdb.New(cfg.PackageDBPath)
	if err != nil {
		return nil, fmt.Errorf("opening package database: %w", err)
	}
	return db, nil
}

// ProvideFaultManager constructs the fault manager wired to the package
// database, client broadcaster, and crash-log reader.
//
// Params:
//   - db: the package database, satisfying domainpackagedb.PackageDB.
//   - broadcaster: the client notification channel.
//   - logReader: the crash-log reader.
//   - logger: the master's logger.
//
// Returns:
//   - *appfault.Manager: the constructed fault manager.
func ProvideFaultManager(
	db domainpackagedb.PackageDB,
	broadcaster domaintransport.ClientBroadcaster,
	logReader domaintransport.CrashLogReader,
	logger domainlogging.Logger,
) *appfault.Manager {
	return appfault.NewManager(db, broadcaster, logReader, logger, domainshared.DefaultClock)
}

// ProvideLogger builds the master's MultiLogger: a console writer
// always, plus a file writer at cfg.SlaveLogPath/master.log when that
// path is set.
//
// Params:
//   - cfg: the loaded master configuration.
//
// Returns:
//   - domainlogging.Logger: the configured logger.
//   - error: any error opening the file writer.
func ProvideLogger(cfg *domainconfig.Config) (domainlogging.Logger, error) {
	minLevel := domainlogging.LevelInfo
	if cfg.DebugMode {
		minLevel = domainlogging.LevelDebug
	}

	writers := []domainlogging.Writer{
		infralogging.WithLevelFilter(infralogging.NewConsoleWriter(), minLevel),
	}

	if cfg.SlaveLogPath != "" {
		fw, err := infralogging.NewFileWriter(cfg.SlaveLogPath + "/master.log")
		if err != nil {
			return nil, fmt.Errorf("opening master log file: %w", err)
		}
		writers = append(writers, infralogging.WithLevelFilter(fw, minLevel))
	}

	return infralogging.New(writers...), nil
}

// ProvideRegistry constructs the slave registry wired to its
// collaborators.
//
// Params:
//   - cfg: the loaded master configuration.
//   - launch: the launcher adapter.
//   - worker: the worker RPC channel.
//   - faults: the fault manager, satisfying appregistry.FaultChecker.
//   - logger: the master's logger.
//
// Returns:
//   - *appregistry.Registry: the constructed registry.
func ProvideRegistry(
	cfg *domainconfig.Config,
	launch domainlauncher.Launcher,
	worker domaintransport.WorkerRPC,
	faults *appfault.Manager,
	logger domainlogging.Logger,
) *appregistry.Registry {
	return appregistry.New(cfg, launch, worker, faults, nil, logger, domainshared.DefaultClock)
}

// ProvidePlacementEngine constructs the placement engine fronting registry.
//
// Params:
//   - registry: the slave registry, satisfying appplacement.Registry.
//
// Returns:
//   - *appplacement.Engine: the constructed placement engine.
func ProvidePlacementEngine(registry *appregistry.Registry) *appplacement.Engine {
	return appplacement.New(registry)
}

// ProvideControlServer constructs the gRPC control-plane server fronting
// registry.
//
// Params:
//   - registry: the slave registry the control plane reports on.
//
// Returns:
//   - *grpctransport.Server: the constructed control server.
func ProvideControlServer(registry *appregistry.Registry) *grpctransport.Server {
	return grpctransport.NewServer(registrySnapshotAdapter{registry})
}

// registrySnapshotAdapter adapts *appregistry.Registry's Status type to
// the grpctransport.Status type the control plane package defines
// locally, keeping the transport package free of an application-layer
// import.
type registrySnapshotAdapter struct {
	registry *appregistry.Registry
}

// Snapshot implements grpctransport.FleetReporter.
//
// Returns:
//   - []grpctransport.Status: one entry per registered slave.
func (a registrySnapshotAdapter) Snapshot() []grpctransport.Status {
	statuses := a.registry.Snapshot()
	out := make([]grpctransport.Status, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, grpctransport.Status{
			Name:                s.Name,
			PackageName:         s.PackageName,
			ABI:                 s.ABI,
			Secured:             s.Secured,
			Network:             s.Network,
			PID:                 s.PID,
			State:               s.State,
			LoadedPackages:      s.LoadedPackages,
			LoadedInstances:     s.LoadedInstances,
			FaultCount:          s.FaultCount,
			CriticalFaultCount:  s.CriticalFaultCount,
			ReactivateSlave:     s.ReactivateSlave,
			ReactivateInstances: s.ReactivateInstances,
		})
	}
	return out
}

// Quiesced implements grpctransport.FleetReporter.
//
// Returns:
//   - bool: true if the registry is under a DeactivateAll quiesce.
func (a registrySnapshotAdapter) Quiesced() bool {
	return a.registry.Quiesced()
}

// ProvideBroadcaster constructs the loopback client broadcaster.
//
// Params:
//   - logger: the logger notices are recorded through.
//
// Returns:
//   - *loopback.Broadcaster: the constructed broadcaster.
func ProvideBroadcaster(logger domainlogging.Logger) *loopback.Broadcaster {
	return loopback.NewBroadcaster(logger)
}

// ProvideCrashLogReader constructs the crash-log reader rooted at
// cfg.SlaveLogPath.
//
// Params:
//   - cfg: the loaded master configuration.
//
// Returns:
//   - *loopback.CrashLogReader: the constructed reader.
func ProvideCrashLogReader(cfg *domainconfig.Config) *loopback.CrashLogReader {
	return loopback.NewCrashLogReader(cfg.SlaveLogPath)
}

// NewApp assembles the final App root object.
//
// Params:
//   - cfg: the loaded master configuration.
//   - registry: the wired slave registry.
//   - placement: the wired placement engine.
//   - faults: the wired fault manager.
//   - db: the wired package database.
//   - control: the wired gRPC control server.
//   - logger: the wired logger.
//
// Returns:
//   - *App: the fully wired application root.
func NewApp(
	cfg *domainconfig.Config,
	registry *appregistry.Registry,
	placement *appplacement.Engine,
	faults *appfault.Manager,
	db domainpackagedb.PackageDB,
	control *grpctransport.Server,
	logger domainlogging.Logger,
) *App {
	return &App{
		Config:    cfg,
		Registry:  registry,
		Placement: placement,
		Faults:    faults,
		PackageDB: db,
		Control:   control,
		Logger:    logger,
		Cleanup: func() {
			_ = db.Close()
			_ = logger.Close()
		},
	}
}
