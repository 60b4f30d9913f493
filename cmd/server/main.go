package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	log "github.com/charmbracelet/log"
	_ "github.com/kokifi/lottery/docs"
	"github.com/kokifi/lottery/infra/initializer"
	"github.com/kokifi/lottery/pkg/app"
	"github.com/kokifi/lottery/pkg/config"
	"github.com/kokifi/lottery/pkg/scheduler"
	"github.com/kokifi/lottery/webapi"
)

const shutdownTimeout = 10 * time.Second

// @title KokiFI Lottery API
// @version 1.0.0
// @description KOKI point economy and weekly lottery.
// @host localhost:3000
// @BasePath /
//
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description "Enter your Bearer token in the format: `Bearer {token}`"
//
// @securityDefinitions.apikey AdminKey
// @in header
// @name X-Admin-Key
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, cleanup, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer func() {
		if err := cleanup(); err != nil {
			slog.Error("Cleanup failed", "error", err)
		}
	}()
	logger := deps.Logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := app.New(deps, cfg)
	if _, _, err := a.LotteryService.EnsureActiveLottery(ctx); err != nil {
		return fmt.Errorf("failed to open the weekly lottery: %w", err)
	}

	if cfg.Scheduler.Enabled {
		sched, err := scheduler.New(cfg.Scheduler, a.DrawRunner, logger)
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer sched.Stop()
	}

	fiberApp := webapi.SetupApp(a)
	addr := cfg.Server.Addr()
	logger.Info("Starting server",
		"env", cfg.Env,
		"address", addr,
		"scheme", cfg.Server.Scheme,
	)

	errCh := make(chan error, 1)
	go func() { errCh <- fiberApp.Listen(addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := fiberApp.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
