package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aevon-lab/routekit/internal/boot"
	corecfg "github.com/aevon-lab/routekit/internal/core/config"
	"github.com/aevon-lab/routekit/internal/handlers"
	"github.com/aevon-lab/routekit/internal/server"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("Fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	flagSet := pflag.NewFlagSet("routekit", pflag.ContinueOnError)
	configPath := flagSet.StringP("config", "c", "routekit.yaml", "path to configuration file")
	port := flagSet.IntP("port", "p", 0, "port to listen on (overrides PORT and the config file)")
	showVersion := flagSet.Bool("version", false, "print version and exit")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if *showVersion {
		fmt.Printf("routekit %s\n", version)
		return nil
	}

	// 1. Load Configuration
	overrides := map[string]interface{}{}
	if flagSet.Changed("port") {
		overrides["server.port"] = *port
	}
	path := *configPath
	if _, err := os.Stat(path); err != nil && !flagSet.Changed("config") {
		// The default config file is optional.
		path = ""
	}
	cfg, err := corecfg.Load(path, overrides)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Initialize Logger
	opts := &slog.HandlerOptions{Level: cfg.Logging.SlogLevel()}
	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Info("Loaded config", "path", path, "config", cfg)

	// 3. Initialize Server
	srv := server.New(server.Options{
		Addr:                    cfg.Server.Addr(),
		Mode:                    cfg.Server.Mode,
		Name:                    cfg.Server.Name,
		Version:                 cfg.Server.Version,
		UpgradeInsecureRequests: cfg.Server.UpgradeInsecureRequests,
		RequestLogging:          cfg.Logging.Request,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 4. Discover schemas and routes. Discovery finishes before the server listens.
	if _, err := boot.Run(ctx, cfg, srv, handlers.Catalog()); err != nil {
		return err
	}

	// 5. Start Services
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down...")
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}

	slog.Info("Shutdown complete")
	return nil
}
