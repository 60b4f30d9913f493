// Package sysconfig serves the runtime settings stored in system_config
// through a TTL cache.
package sysconfig

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kokifi/lottery/pkg/cache"
	domain "github.com/kokifi/lottery/pkg/domain/sysconfig"
	"github.com/kokifi/lottery/pkg/repository"
	"golang.org/x/sync/singleflight"
)

// Service reads and updates system settings.
type Service struct {
	uow    repository.UnitOfWork
	cache  cache.ConfigCache
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
}

// New creates a Service. A nil cache reads the table on every call.
func New(
	uow repository.UnitOfWork,
	c cache.ConfigCache,
	ttl time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, cache: c, ttl: ttl, logger: logger}
}

// Values returns every stored key with defaults filled in for missing rows.
func (s *Service) Values(ctx context.Context) (map[string]string, error) {
	if s.cache != nil {
		values, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("Config cache read failed", "error", err)
		} else if ok {
			return values, nil
		}
	}
	v, err, _ := s.group.Do("system_config", func() (any, error) {
		return s.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]string), nil
}

func (s *Service) load(ctx context.Context) (map[string]string, error) {
	repo, err := s.uow.SystemConfigRepository()
	if err != nil {
		return nil, err
	}
	stored, err := repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load system config: %w", err)
	}
	values := domain.Defaults()
	for k, v := range stored {
		values[k] = v
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, values, s.ttl); err != nil {
			s.logger.Warn("Config cache write failed", "error", err)
		}
	}
	return values, nil
}

// Settings returns the parsed settings.
func (s *Service) Settings(ctx context.Context) (domain.Settings, error) {
	values, err := s.Values(ctx)
	if err != nil {
		return domain.Settings{}, err
	}
	return domain.Parse(values)
}

// Set validates and stores one key, then drops the cached rows.
func (s *Service) Set(ctx context.Context, key, value string) error {
	log := s.logger.With("context", "Set", "key", key)
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	current, err := s.Values(ctx)
	if err != nil {
		return err
	}
	if err := domain.ValidateChange(current, key, value); err != nil {
		log.Warn("Rejected config change", "value", value, "error", err)
		return err
	}
	repo, err := s.uow.SystemConfigRepository()
	if err != nil {
		return err
	}
	if err := repo.Set(ctx, key, value); err != nil {
		log.Error("Failed to store config", "error", err)
		return err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			log.Warn("Config cache invalidation failed", "error", err)
		}
	}
	log.Info("Config updated", "value", value)
	return nil
}
