package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"

	"github.com/tair/acme-store/internal/config"
	grpcDelivery "github.com/tair/acme-store/internal/favorites/delivery/grpc"
	"github.com/tair/acme-store/pkg/logger"
)

// listenGRPC binds the health server's port
func listenGRPC(cfg *config.Config, rt *resources) (*grpc.Server, net.Listener, error) {
	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to listen on gRPC port %s: %w", cfg.GRPCPort, err)
	}
	return grpcDelivery.NewServer(rt.App.Repository, cfg.ServiceName), lis, nil
}

// serveGRPC runs srv on lis until ctx is done, then stops it gracefully. A
// stop that outlasts shutdownTimeout is forced.
func serveGRPC(ctx context.Context, srv *grpc.Server, lis net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Logger.Info().Str("addr", lis.Addr().String()).Msg("gRPC server starting")
		errCh <- srv.Serve(lis)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Logger.Info().Msg("Shutting down gRPC server")

	stopped := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(shutdownTimeout):
		srv.Stop()
	}

	if err := <-errCh; err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}
