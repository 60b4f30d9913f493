package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kokifi/lottery/pkg/domain"
	"github.com/kokifi/lottery/pkg/domain/user"
	"github.com/kokifi/lottery/pkg/repository"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a UserRepository bound to db.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(fromUser(u)).Error
	})
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *userRepository) first(ctx context.Context, query string, arg any) (*user.User, error) {
	var m User
	err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return toUser(&m), nil
}

func (r *userRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) Lock(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", id).
		UpdateColumn("koki_version", gorm.Expr("koki_version + 1"))
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) DebitBalance(
	ctx context.Context,
	id uuid.UUID,
	amount int64,
	countTicket bool,
) error {
	if amount <= 0 {
		return domain.ErrValidation
	}
	updates := map[string]any{
		"balance": gorm.Expr("balance - ?", amount),
	}
	if countTicket {
		updates["tickets_count"] = gorm.Expr("tickets_count + 1")
		updates["total_spent"] = gorm.Expr("total_spent + ?", amount)
	}
	res := r.db.WithContext(ctx).Model(&User{}).
		Where("id = ? AND balance >= ?", id, amount).
		UpdateColumns(updates)
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		ok, err := r.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return user.ErrUserNotFound
		}
		return user.ErrInsufficientBalance
	}
	return nil
}

func (r *userRepository) CreditBalance(ctx context.Context, id uuid.UUID, amount int64) error {
	if amount <= 0 {
		return domain.ErrValidation
	}
	res := r.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", id).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) UpdateAvatar(ctx context.Context, id uuid.UUID, avatar string) error {
	return r.updateColumn(ctx, id, "avatar", avatar)
}

func (r *userRepository) SetLastKoTicketAt(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.updateColumn(ctx, id, "last_koticket_at", at.UTC())
}

func (r *userRepository) updateColumn(ctx context.Context, id uuid.UUID, column string, value any) error {
	res := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).UpdateColumn(column, value)
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func fromUser(u *user.User) *User {
	var last *time.Time
	if u.LastKoTicketAt != nil {
		t := u.LastKoTicketAt.UTC()
		last = &t
	}
	return &User{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Password:       u.Password,
		Avatar:         u.Avatar,
		Balance:        u.Balance,
		TicketsCount:   u.TicketsCount,
		TotalSpent:     u.TotalSpent,
		IsVerified:     u.IsVerified,
		LastKoTicketAt: last,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func toUser(m *User) *user.User {
	return &user.User{
		ID:             m.ID,
		Username:       m.Username,
		Email:          m.Email,
		Password:       m.Password,
		Avatar:         m.Avatar,
		Balance:        m.Balance,
		TicketsCount:   m.TicketsCount,
		TotalSpent:     m.TotalSpent,
		IsVerified:     m.IsVerified,
		LastKoTicketAt: m.LastKoTicketAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
