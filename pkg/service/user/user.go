// Package user registers players and manages their profile.
package user

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/kokifi/lottery/pkg/domain/user"
	"github.com/kokifi/lottery/pkg/repository"
	"github.com/kokifi/lottery/pkg/service/sysconfig"
)

type Service struct {
	uow      repository.UnitOfWork
	settings sysconfig.Provider
	logger   *slog.Logger
}

func New(uow repository.UnitOfWork, settings sysconfig.Provider, logger *slog.Logger) *Service {
	return &Service{uow: uow, settings: settings, logger: logger}
}

// Register creates a player holding the configured welcome balance.
// A taken username or email yields domain.ErrAlreadyExists.
func (s *Service) Register(ctx context.Context, username, email, password string) (*user.User, error) {
	log := s.logger.With("context", "Register", "username", username)
	cfg, err := s.settings.Settings(ctx)
	if err != nil {
		return nil, err
	}
	u, err := user.NewUser(username, email, password, cfg.WelcomeBonusBalance)
	if err != nil {
		return nil, err
	}
	repo, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}
	if err := repo.Create(ctx, u); err != nil {
		log.Info("Registration rejected", "error", err)
		return nil, err
	}
	log.Info("User registered", "userID", u.ID)
	return u, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	repo, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, id)
}

// GetByIdentity looks a user up by email or username.
func (s *Service) GetByIdentity(ctx context.Context, identity string) (*user.User, error) {
	repo, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}
	if strings.Contains(identity, "@") {
		return repo.GetByEmail(ctx, strings.ToLower(identity))
	}
	return repo.GetByUsername(ctx, identity)
}

// ChangeAvatar sets a new avatar and charges avatar_change_cost from the
// game balance. Setting the current avatar again is free.
func (s *Service) ChangeAvatar(ctx context.Context, id uuid.UUID, avatar string) (u *user.User, err error) {
	log := s.logger.With("context", "ChangeAvatar", "userID", id)
	avatar = strings.TrimSpace(avatar)
	if err := user.ValidateAvatar(avatar); err != nil {
		return nil, err
	}
	cfg, err := s.settings.Settings(ctx)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		current, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if current.Avatar == avatar {
			u = current
			return nil
		}
		if cfg.AvatarChangeCost > 0 {
			if err := repo.DebitBalance(ctx, id, cfg.AvatarChangeCost, false); err != nil {
				return err
			}
		}
		if err := repo.UpdateAvatar(ctx, id, avatar); err != nil {
			return err
		}
		u, err = repo.Get(ctx, id)
		return err
	})
	if err != nil {
		log.Info("Avatar change rejected", "error", err)
		return nil, err
	}
	log.Info("Avatar changed", "avatar", avatar, "balance", u.Balance)
	return u, nil
}
