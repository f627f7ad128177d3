package grpc

import (
	"context"

	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/tair/acme-store/internal/favorites/domain"
	"github.com/tair/acme-store/pkg/logger"
)

// HealthServer answers grpc.health.v1 checks by pinging the store
type HealthServer struct {
	healthpb.UnimplementedHealthServer
	repo        domain.Repository
	serviceName string
}

// NewHealthServer creates a health server for serviceName. The empty service
// name, meaning the whole server, is always accepted.
func NewHealthServer(repo domain.Repository, serviceName string) *HealthServer {
	return &HealthServer{repo: repo, serviceName: serviceName}
}

// Check reports SERVING while the store answers pings
func (s *HealthServer) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if service := req.GetService(); service != "" && service != s.serviceName {
		return nil, status.Errorf(codes.NotFound, "unknown service %q", service)
	}

	if pinger, ok := s.repo.(domain.Pinger); ok {
		if err := pinger.Ping(ctx); err != nil {
			logger.Warn(ctx).Err(err).Msg("Health check failed")
			return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
		}
	}
	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
}
