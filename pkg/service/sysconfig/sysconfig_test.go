package sysconfig_test

import (
	"context"
	"testing"
	"time"

	infracache "github.com/kokifi/lottery/infra/cache"
	domain "github.com/kokifi/lottery/pkg/domain/sysconfig"
	"github.com/kokifi/lottery/pkg/service/sysconfig"
	"github.com/kokifi/lottery/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_SettingsFromDatabase(t *testing.T) {
	ctx := context.Background()
	uow, _ := testutils.NewTestUoW(t)
	svc := sysconfig.New(uow, infracache.NewMemoryCache(), time.Minute, testutils.Logger())

	s, err := svc.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), s)
}

func TestService_SetInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	uow, _ := testutils.NewTestUoW(t)
	svc := sysconfig.New(uow, infracache.NewMemoryCache(), time.Hour, testutils.Logger())

	_, err := svc.Settings(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Set(ctx, domain.KeyTicketPrice, " 75 "))
	s, err := svc.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(75), s.TicketPrice)

	values, err := svc.Values(ctx)
	require.NoError(t, err)
	assert.Equal(t, "75", values[domain.KeyTicketPrice])
}

func TestService_SetRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	uow, _ := testutils.NewTestUoW(t)
	svc := sysconfig.New(uow, nil, 0, testutils.Logger())

	assert.ErrorIs(t, svc.Set(ctx, "unknown_key", "1"), domain.ErrUnknownKey)
	assert.ErrorIs(t, svc.Set(ctx, domain.KeyTicketPrice, "abc"), domain.ErrInvalidValue)
	assert.ErrorIs(t, svc.Set(ctx, domain.KeyPrizeFundPercentage, "50"), domain.ErrInvalidValue,
		"percentages must keep summing to 100")

	s, err := svc.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(50), s.TicketPrice)
}

func TestStatic(t *testing.T) {
	want := domain.DefaultSettings()
	want.TicketPrice = 10
	got, err := sysconfig.Static(want).Settings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
