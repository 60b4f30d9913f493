package user_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/kokifi/lottery/pkg/domain"
	domainconfig "github.com/kokifi/lottery/pkg/domain/sysconfig"
	"github.com/kokifi/lottery/pkg/domain/user"
	"github.com/kokifi/lottery/pkg/service/sysconfig"
	usersvc "github.com/kokifi/lottery/pkg/service/user"
	"github.com/kokifi/lottery/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *usersvc.Service {
	t.Helper()
	uow, _ := testutils.NewTestUoW(t)
	return usersvc.New(uow, sysconfig.Static(domainconfig.DefaultSettings()), testutils.Logger())
}

func TestRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newService(t)

	u, err := svc.Register(ctx, "alice", "Alice@Example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), u.Balance)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, user.DefaultAvatar, u.Avatar)
	assert.NotNil(t, u.LastKoTicketAt)

	got, err := svc.GetByIdentity(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Register(ctx, "alice", "other@example.com", "password123")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	_, err = svc.Register(ctx, "alice2", "alice@example.com", "password123")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestGet_NotFound(t *testing.T) {
	t.Parallel()
	_, err := newService(t).Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestChangeAvatar(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newService(t)
	u, err := svc.Register(ctx, "bob", "bob@example.com", "password123")
	require.NoError(t, err)

	got, err := svc.ChangeAvatar(ctx, u.ID, "🦊")
	require.NoError(t, err)
	assert.Equal(t, "🦊", got.Avatar)
	assert.Equal(t, int64(900), got.Balance)

	same, err := svc.ChangeAvatar(ctx, u.ID, "🦊")
	require.NoError(t, err)
	assert.Equal(t, int64(900), same.Balance, "unchanged avatar is free")

	_, err = svc.ChangeAvatar(ctx, u.ID, "  ")
	assert.ErrorIs(t, err, user.ErrInvalidAvatar)
}

func TestChangeAvatar_InsufficientBalance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uow, _ := testutils.NewTestUoW(t)
	svc := usersvc.New(uow, sysconfig.Static(domainconfig.DefaultSettings()), testutils.Logger())
	u := testutils.CreateUser(t, uow, "broke", 99)

	_, err := svc.ChangeAvatar(ctx, u.ID, "🐸")
	assert.ErrorIs(t, err, user.ErrInsufficientBalance)
	assert.Equal(t, user.DefaultAvatar, testutils.GetUser(t, uow, u.ID).Avatar)
}
