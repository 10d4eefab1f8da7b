// Package grpc provides the master's control-plane surface: the standard
// gRPC health-checking protocol, reporting SERVING/NOT_SERVING based on
// whether the registry is quiesced, and a hand-registered unary
// FleetStatus RPC reporting per-slave state for external inspection.
//
// There is no compiled .proto/generated stub for FleetStatus; the
// request (emptypb.Empty) and response (structpb.Struct) are well-known
// protobuf types, and the service is registered against *grpc.Server by
// hand, the same way the health package itself registers without
// generated code specific to this repository.
package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// serviceName is the fully qualified name FleetStatus is registered
// under, and the name reported to the health service.
const serviceName string = "livewidgetd.v1.FleetService"

// ErrServerAlreadyRunning indicates Serve was called on an already
// running server.
var ErrServerAlreadyRunning error = errors.New("grpc server already running")

// FleetReporter is the subset of the registry the control plane needs to
// answer a FleetStatus request and to drive the health service.
type FleetReporter interface {
	// Snapshot returns a point-in-time view of every registered slave.
	Snapshot() []Status
	// Quiesced reports whether the registry is under a DeactivateAll
	// quiesce.
	Quiesced() bool
}

// Status mirrors application/registry.Status; kept as a local type so
// this package does not import the application layer directly, matching
// the teacher's habit of depending on narrow local interfaces at the
// transport boundary.
type Status struct {
	Name                string
	PackageName         string
	ABI                 string
	Secured             bool
	Network             bool
	PID                 int
	State               string
	LoadedPackages      int
	LoadedInstances     int
	FaultCount          int
	CriticalFaultCount  int
	ReactivateSlave     bool
	ReactivateInstances bool
}

// Server hosts the gRPC health-checking protocol and the FleetStatus
// control surface.
type Server struct {
	grpcServer   *grpc.Server
	healthServer *health.Server
	fleet        FleetReporter

	mu       sync.Mutex
	listener net.Listener
	running  bool
}

// NewServer constructs a Server reporting on behalf of fleet.
//
// Params:
//   - fleet: the registry view backing FleetStatus and health reporting.
//
// Returns:
//   - *Server: a server ready to Serve.
func NewServer(fleet FleetReporter) *Server {
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()

	s := &Server{
		grpcServer:   grpcServer,
		healthServer: healthServer,
		fleet:        fleet,
	}

	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	grpcServer.RegisterService(&fleetServiceDesc, s)

	healthServer.SetServingStatus(serviceName, grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	return s
}

// fleetServiceDesc hand-registers the FleetStatus unary RPC against
// *grpc.Server without a compiled .proto stub.
var fleetServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*fleetServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "FleetStatus",
			Handler:    fleetStatusHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "internal/infrastructure/transport/grpc/server.go",
}

// fleetServiceServer is the handler-type marker fleetServiceDesc binds
// method calls against.
type fleetServiceServer interface {
	FleetStatus(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

func fleetStatusHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := &emptypb.Empty{}
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(fleetServiceServer).FleetStatus(ctx, req)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + serviceName + "/FleetStatus",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(fleetServiceServer).FleetStatus(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, req, info, handler)
}

// FleetStatus reports per-slave state, load, and fault counters as a
// structpb.Struct, keyed by slave name.
//
// Params:
//   - ctx: request context for cancellation.
//   - req: empty request.
//
// Returns:
//   - *structpb.Struct: the fleet status document.
//   - error: a gRPC status error if conversion fails.
func (s *Server) FleetStatus(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snapshot := s.fleet.Snapshot()
	slaves := make(map[string]any, len(snapshot))
	for _, st := range snapshot {
		slaves[st.Name] = map[string]any{
			"package_name":         st.PackageName,
			"abi":                  st.ABI,
			"secured":              st.Secured,
			"network":              st.Network,
			"pid":                  float64(st.PID),
			"state":                st.State,
			"loaded_packages":      float64(st.LoadedPackages),
			"loaded_instances":     float64(st.LoadedInstances),
			"fault_count":          float64(st.FaultCount),
			"critical_fault_count": float64(st.CriticalFaultCount),
			"reactivate_slave":     st.ReactivateSlave,
			"reactivate_instances": st.ReactivateInstances,
		}
	}

	out, err := structpb.NewStruct(map[string]any{
		"quiesced": s.fleet.Quiesced(),
		"slaves":   slaves,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "converting fleet status: %v", err)
	}
	return out, nil
}

// Serve starts the gRPC server listening on address. It blocks until the
// server stops.
//
// Params:
//   - address: the TCP address to listen on (e.g. ":50051").
//
// Returns:
//   - error: any error starting or running the server.
func (s *Server) Serve(address string) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("serve: %w", ErrServerAlreadyRunning)
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("listen: %w", err)
	}
	s.listener = listener
	s.running = true
	s.mu.Unlock()

	return s.grpcServer.Serve(listener)
}

// Stop gracefully stops the server, marking health as NOT_SERVING first.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	s.grpcServer.GracefulStop()
	s.running = false
}

// Address returns the server's listening address, or empty if not
// running.
//
// Returns:
//   - string: the listener's address.
func (s *Server) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// RefreshHealth updates the health service's serving status to reflect
// whether the registry is currently quiesced. Callers invoke this after
// DeactivateAll/ActivateAll transitions since the registry has no direct
// reference to the control plane.
func (s *Server) RefreshHealth() {
	status := grpc_health_v1.HealthCheckResponse_SERVING
	if s.fleet.Quiesced() {
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	s.healthServer.SetServingStatus(serviceName, status)
	s.healthServer.SetServingStatus("", status)
}
