package grpc

import (
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"libratrack-admin-backend/internal/api/grpc/interceptor"
	"libratrack-admin-backend/internal/logger"
)

// ServiceName is the name health checkers ask about in addition to the server-wide "".
const ServiceName = "libratrack.admin.v1.Dashboard"

// HealthServer exposes the standard gRPC health service for orchestration
// health checkers. It starts out NOT_SERVING.
type HealthServer struct {
	server *grpc.Server
	health *health.Server
}

func NewHealthServer() *HealthServer {
	s := grpc.NewServer(grpc.UnaryInterceptor(interceptor.Logging()))
	h := health.NewServer()
	healthpb.RegisterHealthServer(s, h)
	reflection.Register(s)

	hs := &HealthServer{server: s, health: h}
	hs.SetServing(false)
	return hs
}

// SetServing flips both the server-wide and the named service status.
func (h *HealthServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
	logger.Info("Health status changed", "status", status.String())
}

func (h *HealthServer) Serve(lis net.Listener) error {
	logger.Info("gRPC health server listening", "address", lis.Addr().String())
	return h.server.Serve(lis)
}

// Stop reports NOT_SERVING and drains in-flight checks.
func (h *HealthServer) Stop() {
	h.health.Shutdown()
	h.server.GracefulStop()
}
