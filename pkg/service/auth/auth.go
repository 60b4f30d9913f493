package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kokifi/lottery/pkg/config"
	"github.com/kokifi/lottery/pkg/domain/user"
	"github.com/kokifi/lottery/pkg/repository"
	"github.com/kokifi/lottery/pkg/utils"
)

type contextKey string

const userContextKey contextKey = "user"

// Compared against when the identity does not exist so that unknown users
// and wrong passwords take the same time.
const dummyHash = "$2a$10$7zFqzDbD3RrlkMTczbXG9OWZ0FLOXjIxXzSZ.QZxkVXjXcx7QZQiC"

type Strategy interface {
	Login(ctx context.Context, identity, password string) (*user.User, error)
	GetCurrentUserID(ctx context.Context) (uuid.UUID, error)
	GenerateToken(ctx context.Context, u *user.User) (string, error)
}

type Service struct {
	uow      repository.UnitOfWork
	strategy Strategy
	logger   *slog.Logger
}

func New(uow repository.UnitOfWork, strategy Strategy, logger *slog.Logger) *Service {
	return &Service{uow: uow, strategy: strategy, logger: logger}
}

// NewWithBasic checks passwords only. Used by the admin CLI.
func NewWithBasic(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return New(uow, &BasicAuthStrategy{uow: uow, logger: logger}, logger)
}

func NewWithJWT(uow repository.UnitOfWork, cfg *config.Jwt, logger *slog.Logger) *Service {
	return New(uow, &JWTStrategy{uow: uow, cfg: cfg, logger: logger}, logger)
}

func (s *Service) GetCurrentUserId(token *jwt.Token) (uuid.UUID, error) {
	userID, err := s.strategy.GetCurrentUserID(context.WithValue(context.Background(), userContextKey, token))
	if err != nil {
		s.logger.Warn("GetCurrentUserId failed", "error", err)
	}
	return userID, err
}

func (s *Service) Login(ctx context.Context, identity, password string) (*user.User, error) {
	log := s.logger.With("context", "Login")
	u, err := s.strategy.Login(ctx, identity, password)
	if err != nil {
		log.Info("Login failed", "identity", identity, "error", err)
		return nil, err
	}
	log.Info("Login successful", "userID", u.ID)
	return u, nil
}

func (s *Service) GenerateToken(ctx context.Context, u *user.User) (string, error) {
	token, err := s.strategy.GenerateToken(ctx, u)
	if err != nil {
		s.logger.Error("GenerateToken failed", "userID", u.ID, "error", err)
		return "", err
	}
	return token, nil
}

// findByIdentity resolves an email or username and verifies the password.
func findByIdentity(ctx context.Context, uow repository.UnitOfWork, identity, password string) (*user.User, error) {
	repo, err := uow.UserRepository()
	if err != nil {
		return nil, err
	}
	var u *user.User
	if utils.IsEmail(identity) {
		u, err = repo.GetByEmail(ctx, identity)
	} else {
		u, err = repo.GetByUsername(ctx, identity)
	}
	if errors.Is(err, user.ErrUserNotFound) {
		_ = utils.CheckPasswordHash(password, dummyHash)
		return nil, user.ErrUserUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPasswordHash(password, u.Password) {
		return nil, user.ErrUserUnauthorized
	}
	return u, nil
}

// JWTStrategy issues HS256 tokens carrying user_id, username and email.
type JWTStrategy struct {
	uow    repository.UnitOfWork
	cfg    *config.Jwt
	logger *slog.Logger
}

func NewJWTStrategy(uow repository.UnitOfWork, cfg *config.Jwt, logger *slog.Logger) *JWTStrategy {
	return &JWTStrategy{uow: uow, cfg: cfg, logger: logger}
}

func (s *JWTStrategy) GenerateToken(_ context.Context, u *user.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  u.ID.String(),
		"username": u.Username,
		"email":    u.Email,
		"exp":      time.Now().Add(s.cfg.Expiry).Unix(),
	})
	return token.SignedString([]byte(s.cfg.Secret))
}

func (s *JWTStrategy) Login(ctx context.Context, identity, password string) (*user.User, error) {
	return findByIdentity(ctx, s.uow, identity, password)
}

func (s *JWTStrategy) GetCurrentUserID(ctx context.Context) (uuid.UUID, error) {
	token, ok := ctx.Value(userContextKey).(*jwt.Token)
	if !ok || token == nil {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, user.ErrUserUnauthorized
	}
	return id, nil
}

// BasicAuthStrategy checks the password and issues no token.
type BasicAuthStrategy struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

func NewBasicAuthStrategy(uow repository.UnitOfWork, logger *slog.Logger) *BasicAuthStrategy {
	return &BasicAuthStrategy{uow: uow, logger: logger}
}

func (s *BasicAuthStrategy) Login(ctx context.Context, identity, password string) (*user.User, error) {
	return findByIdentity(ctx, s.uow, identity, password)
}

func (s *BasicAuthStrategy) GetCurrentUserID(context.Context) (uuid.UUID, error) {
	return uuid.Nil, user.ErrUserUnauthorized
}

func (s *BasicAuthStrategy) GenerateToken(context.Context, *user.User) (string, error) {
	return "", nil
}
