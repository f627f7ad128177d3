// Package grpc exposes the store's health over the standard grpc.health.v1
// service.
package grpc

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/tair/acme-store/internal/favorites/domain"
)

// NewServer creates a traced gRPC server with the health and reflection
// services registered
func NewServer(repo domain.Repository, serviceName string) *grpc.Server {
	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(LoggingInterceptor),
	)

	healthpb.RegisterHealthServer(srv, NewHealthServer(repo, serviceName))
	reflection.Register(srv)

	return srv
}
