// Package bootstrap provides dependency injection wiring for the master
// process using Google Wire. It isolates dependency construction from
// the entry point: cmd/livewidgetd/main.go only delegates to Run, which
// handles flag parsing and signals.
package bootstrap

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	appfault "github.com/kodflow/livewidgetd/internal/application/fault"
	appplacement "github.com/kodflow/livewidgetd/internal/application/placement"
	appregistry "github.com/kodflow/livewidgetd/internal/application/registry"
	domainconfig "github.com/kodflow/livewidgetd/internal/domain/config"
	domainlogging "github.com/kodflow/livewidgetd/internal/domain/logging"
	domainpackagedb "github.com/kodflow/livewidgetd/internal/domain/packagedb"
	grpctransport "github.com/kodflow/livewidgetd/internal/infrastructure/transport/grpc"
)

// version is the master's version string, overridable at build time via
// -ldflags "-X github.com/kodflow/livewidgetd/internal/bootstrap.version=...".
var version string = "dev"

// defaultControlAddress is the address the gRPC control-plane surface
// listens on when none is supplied.
const defaultControlAddress string = ":7781"

// App holds every dependency wired for a single master process run. It is
// the root object the dependency graph produces.
type App struct {
	// Config is the loaded and validated master configuration.
	Config *domainconfig.Config
	// Registry owns every slave record and drives its lifecycle.
	Registry *appregistry.Registry
	// Placement turns a package placement request into a slave handle.
	Placement *appplacement.Engine
	// Faults attributes worker deaths to packages.
	Faults *appfault.Manager
	// PackageDB is the package database, consulted by the fault manager and
	// pinned at startup for every secured package placed below.
	PackageDB domainpackagedb.PackageDB
	// Control hosts the gRPC health and FleetStatus surface.
	Control *grpctransport.Server
	// Logger is the master's structured event sink.
	Logger domainlogging.Logger
	// Cleanup releases every resource App holds (database handles, open
	// log files). Always call it before process exit.
	Cleanup func()
}

// PlaceStartupPackages activates every package spec listed in the
// loaded configuration, using the placement engine so an existing
// compatible slave is reused when one is already available.
//
// Params:
//   - ctx: cancellation and deadline for the startup placement pass.
//
// Returns:
//   - error: the first placement error encountered, if any.
func (a *App) PlaceStartupPackages(ctx context.Context) error {
	for i := range a.Config.Packages {
		pkg := a.Config.Packages[i]
		name := pkg.Name
		if name == "" {
			name = pkg.Pkgname
		}
		if _, err := a.Placement.Place(ctx, name, pkg.ABI, pkg.Secured, pkg.Network, pkg.Pkgname); err != nil {
			return err
		}
		// A freshly created secured slave is pinned to its package so the
		// fault manager's tier-2 heuristic can attribute an unambiguous
		// death without consulting the in-flight call list.
		if pkg.Secured && a.PackageDB != nil {
			if err := a.PackageDB.PinSecuredSlave(ctx, pkg.Pkgname, name); err != nil {
				return err
			}
		}
	}
	return nil
}

// Run is the main entry point called from cmd/livewidgetd/main.go. It
// parses flags, initializes the application via Wire, places the
// configured startup package fleet, serves the gRPC control plane, and
// blocks until a termination signal arrives.
//
// Returns:
//   - int: the process exit code.
func Run() int {
	configPath := flag.String("config", "/etc/livewidgetd/config.yaml", "path to configuration file")
	controlAddress := flag.String("control-address", defaultControlAddress, "gRPC control-plane listen address")
	showVersion := flag.Bool("version", false, "show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("livewidgetd %s\n", version)
		return 0
	}

	if err := run(*configPath, *controlAddress); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// run implements Run's body, isolated for easier testing of the
// error-returning path.
func run(configPath, controlAddress string) error {
	app, err := InitializeApp(configPath)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer app.Cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.PlaceStartupPackages(ctx); err != nil {
		return fmt.Errorf("placing startup packages: %w", err)
	}

	app.Logger.Info("", "master_started", "master started", map[string]any{
		"version": version,
		"address": controlAddress,
	})

	serveErrCh := make(chan error, 1)
	go func() { serveErrCh <- app.Control.Serve(controlAddress) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		app.Logger.Info("", "master_stopping", "signal received", map[string]any{"signal": sig.String()})
	case err := <-serveErrCh:
		if err != nil {
			app.Logger.Error("", "control_server_failed", "gRPC control server exited", map[string]any{"error": err.Error()})
		}
	}

	app.Control.Stop()
	return nil
}
