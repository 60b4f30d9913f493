package koticket

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kokifi/lottery/pkg/domain/game"
	"github.com/kokifi/lottery/pkg/domain/koki"
	domainconfig "github.com/kokifi/lottery/pkg/domain/sysconfig"
	"github.com/kokifi/lottery/pkg/domain/user"
	"github.com/kokifi/lottery/pkg/service/sysconfig"
	"github.com/kokifi/lottery/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource always wins a prize of ScratchMinPrize+n.
type fixedSource struct {
	f float64
	n int
}

func (s fixedSource) Float64() float64 { return s.f }
func (s fixedSource) IntN(int) int     { return s.n }

func TestAccumulate(t *testing.T) {
	ctx := context.Background()
	uow, _ := testutils.NewTestUoW(t)
	svc := New(uow, sysconfig.Static(domainconfig.DefaultSettings()), nil, nil, testutils.Logger())
	u := testutils.CreateUser(t, uow, "collector", 0)
	start := *u.LastKoTicketAt

	svc.now = func() time.Time { return start.Add(73 * time.Hour) }
	acc, err := svc.Accumulate(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, acc.Granted)
	assert.Equal(t, int64(3), acc.Unscratched)
	require.NotNil(t, acc.NextAt)
	assert.True(t, start.Add(96*time.Hour).Equal(*acc.NextAt))

	acc, err = svc.Accumulate(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, acc.Granted, "the partial interval is kept for later")

	svc.now = func() time.Time { return start.Add(30 * 24 * time.Hour) }
	acc, err = svc.Accumulate(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, acc.Granted, "capped at koticket_max_unscratched")
	assert.Equal(t, int64(5), acc.Unscratched)

	cards, err := svc.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, cards, 5)

	_, err = svc.Accumulate(ctx, uuid.New())
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestGrant(t *testing.T) {
	ctx := context.Background()
	uow, _ := testutils.NewTestUoW(t)
	svc := New(uow, sysconfig.Static(domainconfig.DefaultSettings()), nil, nil, testutils.Logger())
	u := testutils.CreateUser(t, uow, "granted", 0)

	require.NoError(t, svc.Grant(ctx, u.ID, 7))
	cards, err := svc.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, cards, 7)

	assert.ErrorIs(t, svc.Grant(ctx, u.ID, 0), koki.ErrInvalidAmount)
	assert.ErrorIs(t, svc.Grant(ctx, uuid.New(), 1), user.ErrUserNotFound)
}

func TestScratch_OnlyOnce(t *testing.T) {
	ctx := context.Background()
	uow, _ := testutils.NewTestUoW(t)
	gen := game.NewGenerator(fixedSource{f: 0.1, n: 4})
	svc := New(uow, sysconfig.Static(domainconfig.DefaultSettings()), gen, nil, testutils.Logger())
	u := testutils.CreateUser(t, uow, "scratcher", 0)
	require.NoError(t, svc.Grant(ctx, u.ID, 1))
	cards, err := svc.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	id := cards[0].ID

	res, err := svc.Scratch(ctx, u.ID, id)
	require.NoError(t, err)
	assert.True(t, res.Prize.Won)
	assert.Equal(t, int64(5), res.Prize.Amount)
	assert.True(t, res.KoTicket.IsScratched)
	assert.Equal(t, int64(5), testutils.KokiBalance(t, uow, u.ID))

	_, err = svc.Scratch(ctx, u.ID, id)
	assert.ErrorIs(t, err, game.ErrAlreadyScratched)
	assert.Equal(t, int64(5), testutils.KokiBalance(t, uow, u.ID), "no second credit")
}

func TestScratch_ConcurrentSingleCredit(t *testing.T) {
	ctx := context.Background()
	uow, _ := testutils.NewTestUoW(t)
	gen := game.NewGenerator(fixedSource{f: 0.1, n: 9})
	svc := New(uow, sysconfig.Static(domainconfig.DefaultSettings()), gen, nil, testutils.Logger())
	u := testutils.CreateUser(t, uow, "racer", 0)
	require.NoError(t, svc.Grant(ctx, u.ID, 1))
	cards, err := svc.List(ctx, u.ID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Scratch(ctx, u.ID, cards[0].ID)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(10), testutils.KokiBalance(t, uow, u.ID))
}

func TestScratch_LossAndOwnership(t *testing.T) {
	ctx := context.Background()
	uow, _ := testutils.NewTestUoW(t)
	gen := game.NewGenerator(fixedSource{f: 0.9})
	svc := New(uow, sysconfig.Static(domainconfig.DefaultSettings()), gen, nil, testutils.Logger())
	owner := testutils.CreateUser(t, uow, "owner", 0)
	other := testutils.CreateUser(t, uow, "other", 0)
	require.NoError(t, svc.Grant(ctx, owner.ID, 1))
	cards, err := svc.List(ctx, owner.ID)
	require.NoError(t, err)

	_, err = svc.Scratch(ctx, other.ID, cards[0].ID)
	assert.ErrorIs(t, err, game.ErrKoTicketNotFound)

	res, err := svc.Scratch(ctx, owner.ID, cards[0].ID)
	require.NoError(t, err)
	assert.False(t, res.Prize.Won)
	assert.Zero(t, testutils.KokiBalance(t, uow, owner.ID))

	_, err = svc.Scratch(ctx, owner.ID, uuid.New())
	assert.ErrorIs(t, err, game.ErrKoTicketNotFound)
}
