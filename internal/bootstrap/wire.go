//go:build wireinject

package bootstrap

import (
	"github.com/google/wire"

	appfault "github.com/kodflow/livewidgetd/internal/application/fault"
	appregistry "github.com/kodflow/livewidgetd/internal/application/registry"
	domainlauncher "github.com/kodflow/livewidgetd/internal/domain/launcher"
	domainpackagedb "github.com/kodflow/livewidgetd/internal/domain/packagedb"
	domaintransport "github.com/kodflow/livewidgetd/internal/domain/transport"
	infralauncher "github.com/kodflow/livewidgetd/internal/infrastructure/launcher"
	infraconfig "github.com/kodflow/livewidgetd/internal/infrastructure/persistence/config/yaml"
	"github.com/kodflow/livewidgetd/internal/infrastructure/persistence/packagedb/boltdb"
	"github.com/kodflow/livewidgetd/internal/infrastructure/transport/loopback"
)

// InitializeApp creates the master application with all dependencies
// wired. This function is the injector Wire generates code for; it is
// never itself compiled into the binary. Its compiled counterpart,
// wire_gen.go, is not checked in; it is produced by
// `go run github.com/google/wire/cmd/wire`.
//
// Params:
//   - configPath: the path to the YAML configuration file.
//
// Returns:
//   - *App: the fully wired application.
//   - error: any error during dependency construction.
func InitializeApp(configPath string) (*App, error) {
	wire.Build(
		// Infrastructure: configuration loader.
		infraconfig.New,

		// Providers: custom provider functions.
		LoadConfig,
		ProvideWorkerBinPath,
		ProvideLogger,

		// Infrastructure: launcher, worker RPC, broadcaster, crash-log reader.
		ProvideLauncher,
		wire.Bind(new(domainlauncher.Launcher), new(*infralauncher.Launcher)),
		ProvideWorkerRPC,
		wire.Bind(new(domaintransport.WorkerRPC), new(*loopback.WorkerRPC)),
		ProvideBroadcaster,
		wire.Bind(new(domaintransport.ClientBroadcaster), new(*loopback.Broadcaster)),
		ProvideCrashLogReader,
		wire.Bind(new(domaintransport.CrashLogReader), new(*loopback.CrashLogReader)),

		// Infrastructure: package database.
		ProvidePackageDB,
		wire.Bind(new(domainpackagedb.PackageDB), new(*boltdb.Adapter)),

		// Application: fault manager, registry, placement engine.
		ProvideFaultManager,
		wire.Bind(new(appregistry.FaultChecker), new(*appfault.Manager)),
		ProvideRegistry,
		ProvidePlacementEngine,

		// Infrastructure: gRPC control-plane server.
		ProvideControlServer,

		// Bootstrap: final App struct.
		NewApp,
	)
	return nil, nil
}
