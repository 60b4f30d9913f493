// Package initializer wires configuration into the infrastructure the
// services run on.
package initializer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/kokifi/lottery/infra"
	infracache "github.com/kokifi/lottery/infra/cache"
	infraeventbus "github.com/kokifi/lottery/infra/eventbus"
	infrarepository "github.com/kokifi/lottery/infra/repository"
	"github.com/kokifi/lottery/pkg/app"
	"github.com/kokifi/lottery/pkg/cache"
	"github.com/kokifi/lottery/pkg/config"
	"github.com/kokifi/lottery/pkg/metrics"
)

// InitializeDependencies opens and migrates the database and builds the
// cache, event bus and metrics. The returned cleanup closes everything
// that was opened.
func InitializeDependencies(cfg *config.App) (deps *app.Deps, cleanup func() error, err error) {
	logger := newLogger(cfg.Log, os.Stdout)
	slog.SetDefault(logger)
	return initialize(cfg, logger)
}

func initialize(cfg *config.App, logger *slog.Logger) (deps *app.Deps, cleanup func() error, err error) {
	var closers []func() error
	cleanup = func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}
	defer func() {
		if err != nil {
			_ = cleanup()
		}
	}()

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, sqlDB.Close)

	if err = infrarepository.Migrate(context.Background(), db, logger); err != nil {
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	var configCache cache.ConfigCache
	if cfg.Redis.URL != "" {
		redisCache, err := infracache.NewRedisConfigCache(cfg.Redis.URL, cfg.Redis.KeyPrefix, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Redis config cache: %w", err)
		}
		closers = append(closers, redisCache.Close)
		configCache = redisCache
		logger.Info("Using Redis config cache", "prefix", cfg.Redis.KeyPrefix)
	} else {
		configCache = infracache.NewMemoryCache()
	}

	deps = &app.Deps{
		Uow:         infrarepository.NewUoW(db),
		ConfigCache: configCache,
		EventBus:    infraeventbus.NewWithMemory(logger),
		Metrics:     metrics.New(),
		Logger:      logger,
	}
	return deps, cleanup, nil
}
