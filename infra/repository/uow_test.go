package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/kokifi/lottery/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUoW_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	uow := NewUoW(db)
	u := createUser(t, db, "atomic", 100)

	boom := errors.New("boom")
	err := uow.Do(ctx, func(tx repository.UnitOfWork) error {
		users, err := tx.UserRepository()
		require.NoError(t, err)
		require.NoError(t, users.DebitBalance(ctx, u.ID, 50, false))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := NewUserRepository(db).Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), got.Balance)
}

func TestUoW_GetRepository(t *testing.T) {
	uow := NewUoW(newTestDB(t))

	_, err := uow.KokiRepository()
	assert.NoError(t, err)
	_, err = uow.LotteryRepository()
	assert.NoError(t, err)
	_, err = uow.GetRepository(typeOf[error]())
	assert.Error(t, err)
}

func TestUoW_NestedDoReusesTransaction(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	uow := NewUoW(db)
	u := createUser(t, db, "nested", 100)

	boom := errors.New("outer failure")
	err := uow.Do(ctx, func(outer repository.UnitOfWork) error {
		inner := outer.Do(ctx, func(tx repository.UnitOfWork) error {
			users, err := tx.UserRepository()
			if err != nil {
				return err
			}
			return users.CreditBalance(ctx, u.ID, 25)
		})
		require.NoError(t, inner)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := NewUserRepository(db).Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), got.Balance, "inner work is rolled back with the outer transaction")
}

func TestGet_TypedAccess(t *testing.T) {
	uow := NewUoW(newTestDB(t))
	configs, err := repository.Get[repository.SystemConfigRepository](uow)
	require.NoError(t, err)
	all, err := configs.All(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, all)
}
