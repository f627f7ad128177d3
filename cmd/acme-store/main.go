package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/tair/acme-store/internal/config"
	"github.com/tair/acme-store/internal/favorites/bootstrap"
	"github.com/tair/acme-store/pkg/logger"
)

// Version is set at build time
var Version = "dev"

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		logger.Logger.Error().Err(err).Msg("acme-store exited with error")
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "acme-store",
		Usage:   "Users, products and favorites API",
		Version: Version,
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the HTTP server",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "bootstrap",
						Usage: "Reset the schema and load seed data before serving (destroys existing data)",
					},
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Usage:   "Listen port (overrides PORT)",
					},
				},
				Action: serveCommand,
			},
			{
				Name:   "bootstrap",
				Usage:  "Reset the schema, load seed data and exit (destroys existing data)",
				Action: bootstrapCommand,
			},
		},
		DefaultCommand: "serve",
	}
}

// loadConfig reads the environment, applies flag overrides and sets up logging
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if c.IsSet("port") {
		cfg.Port = c.String("port")
	}
	if c.Bool("bootstrap") {
		cfg.Bootstrap = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)
	return cfg, nil
}

func serveCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := setup(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	if cfg.Bootstrap {
		if _, err := bootstrap.Run(ctx, rt.App.Seeder, bootstrap.DefaultData); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	if cfg.GRPCEnabled {
		grpcSrv, lis, err := listenGRPC(cfg, rt)
		if err != nil {
			return err
		}
		g.Go(func() error { return serveGRPC(gctx, grpcSrv, lis) })
	}
	g.Go(func() error { return serve(gctx, newServer(cfg, rt)) })

	return g.Wait()
}

func bootstrapCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := setup(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	_, err = bootstrap.Run(ctx, rt.App.Seeder, bootstrap.DefaultData)
	return err
}
