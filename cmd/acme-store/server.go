package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/tair/acme-store/docs"
	"github.com/tair/acme-store/internal/config"
	httpDelivery "github.com/tair/acme-store/internal/favorites/delivery/http"
	"github.com/tair/acme-store/pkg/logger"
)

func newRouter(cfg *config.Config, rt *resources) http.Handler {
	router := mux.NewRouter()

	middlewares := httpDelivery.DefaultMiddlewareConfig()
	middlewares.TimeoutDuration = cfg.RequestTimeout
	middlewares.EnableTracing = cfg.TracingEnabled
	middlewares.OperationName = cfg.ServiceName + "-http-request"
	httpDelivery.RegisterMiddlewares(router, middlewares)

	rt.App.Handler.RegisterRoutes(router)
	rt.App.Handler.RegisterHealthCheck(router)
	router.Handle("/metrics", promhttp.HandlerFor(rt.Registry, promhttp.HandlerOpts{Registry: rt.Registry}))
	httpDelivery.RegisterSwaggerDocs(router, httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return httpDelivery.NewCORS(cfg.CORSAllowedOrigins).Handler(router)
}

func newServer(cfg *config.Config, rt *resources) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(cfg, rt),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// serve runs srv until ctx is done, then shuts it down gracefully
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Logger.Info().Str("addr", srv.Addr).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Logger.Info().Msg("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
