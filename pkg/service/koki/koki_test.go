package koki_test

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	infrarepo "github.com/kokifi/lottery/infra/repository"
	"github.com/kokifi/lottery/pkg/domain"
	"github.com/kokifi/lottery/pkg/domain/koki"
	"github.com/kokifi/lottery/pkg/domain/lottery"
	domainconfig "github.com/kokifi/lottery/pkg/domain/sysconfig"
	"github.com/kokifi/lottery/pkg/domain/user"
	"github.com/kokifi/lottery/pkg/metrics"
	kokisvc "github.com/kokifi/lottery/pkg/service/koki"
	"github.com/kokifi/lottery/pkg/service/sysconfig"
	"github.com/kokifi/lottery/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*kokisvc.Service, *infrarepo.UoW) {
	t.Helper()
	uow, _ := testutils.NewTestUoW(t)
	settings := sysconfig.Static(domainconfig.DefaultSettings())
	return kokisvc.New(uow, settings, metrics.New(), testutils.Logger()), uow
}

func TestGetBalance_UnknownUserIsZero(t *testing.T) {
	svc, _ := newService(t)
	balance, err := svc.GetBalance(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestAddPoints(t *testing.T) {
	ctx := context.Background()
	svc, uow := newService(t)
	u := testutils.CreateUser(t, uow, "alice", 0)

	tx, err := svc.AddPoints(ctx, u.ID, 15, koki.TypeEarned, koki.SourceAdmin, nil, "")
	require.NoError(t, err)
	assert.Equal(t, int64(15), tx.Amount)

	balance, err := svc.GetBalance(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(15), balance)

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.AddPoints(ctx, uuid.New(), 5, koki.TypeEarned, koki.SourceAdmin, nil, "")
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})
	t.Run("non positive amount", func(t *testing.T) {
		_, err := svc.AddPoints(ctx, u.ID, 0, koki.TypeEarned, koki.SourceAdmin, nil, "")
		assert.ErrorIs(t, err, koki.ErrInvalidAmount)
	})
	t.Run("debit type", func(t *testing.T) {
		_, err := svc.AddPoints(ctx, u.ID, 5, koki.TypeSpent, koki.SourceAdmin, nil, "")
		assert.ErrorIs(t, err, koki.ErrInvalidTransactionType)
	})
}

func TestSpendPoints(t *testing.T) {
	ctx := context.Background()
	svc, uow := newService(t)
	u := testutils.CreateUser(t, uow, "bob", 0)
	testutils.GiveKoki(t, uow, u.ID, 20)

	_, err := svc.SpendPoints(ctx, u.ID, 25, koki.SourceShop, nil, "")
	assert.ErrorIs(t, err, koki.ErrInsufficientKoki)
	assert.Equal(t, int64(20), testutils.KokiBalance(t, uow, u.ID), "failed spend writes nothing")

	tx, err := svc.SpendPoints(ctx, u.ID, 20, koki.SourceShop, nil, "")
	require.NoError(t, err)
	assert.Equal(t, koki.TypeSpent, tx.Type)
	assert.Zero(t, testutils.KokiBalance(t, uow, u.ID))

	history, err := svc.History(ctx, u.ID, 0)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestSpendPoints_ConcurrentNeverOverdraws(t *testing.T) {
	ctx := context.Background()
	svc, uow := newService(t)
	u := testutils.CreateUser(t, uow, "racer", 0)
	testutils.GiveKoki(t, uow, u.ID, 50)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.SpendPoints(ctx, u.ID, 10, koki.SourceShop, nil, ""); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Zero(t, testutils.KokiBalance(t, uow, u.ID))
}

func TestBalanceEqualsCreditsMinusDebits(t *testing.T) {
	ctx := context.Background()
	svc, uow := newService(t)
	u := testutils.CreateUser(t, uow, "ledger", 0)

	credits := []int64{3, 7, 11, 2}
	spends := []int64{5, 100, 4}
	var want int64
	for _, c := range credits {
		_, err := svc.AddPoints(ctx, u.ID, c, koki.TypeBonus, koki.SourceAdmin, nil, "")
		require.NoError(t, err)
		want += c
	}
	for _, s := range spends {
		if _, err := svc.SpendPoints(ctx, u.ID, s, koki.SourceShop, nil, ""); err == nil {
			want -= s
		}
	}
	balance, err := svc.GetBalance(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, want, balance)
	assert.Equal(t, int64(14), balance)
}

func TestClaimDailyBonus(t *testing.T) {
	ctx := context.Background()
	svc, uow := newService(t)
	u := testutils.CreateUser(t, uow, "daily", 0)

	tx, err := svc.ClaimDailyBonus(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), tx.Amount)

	_, err = svc.ClaimDailyBonus(ctx, u.ID)
	assert.ErrorIs(t, err, koki.ErrDailyBonusClaimed)
	assert.Equal(t, int64(2), testutils.KokiBalance(t, uow, u.ID))

	_, err = svc.ClaimDailyBonus(ctx, uuid.New())
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestBuyKoki(t *testing.T) {
	ctx := context.Background()
	svc, uow := newService(t)
	u := testutils.CreateUser(t, uow, "shopper", 100)

	out, err := svc.BuyKoki(ctx, u.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(70), out.Balance)
	assert.Equal(t, int64(7), testutils.KokiBalance(t, uow, u.ID))
	assert.Equal(t, int64(30), testutils.GetUser(t, uow, u.ID).Balance)

	_, err = svc.BuyKoki(ctx, u.ID, 4)
	assert.ErrorIs(t, err, user.ErrInsufficientBalance)
	assert.Equal(t, int64(7), testutils.KokiBalance(t, uow, u.ID))

	_, err = svc.BuyKoki(ctx, u.ID, 0)
	assert.ErrorIs(t, err, koki.ErrInvalidAmount)
}

func TestConvertToBalance(t *testing.T) {
	ctx := context.Background()
	svc, uow := newService(t)
	u := testutils.CreateUser(t, uow, "converter", 0)
	testutils.GiveKoki(t, uow, u.ID, 10)

	out, err := svc.ConvertToBalance(ctx, u.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(20), out.Balance)
	assert.Equal(t, int64(6), testutils.KokiBalance(t, uow, u.ID))
	assert.Equal(t, int64(20), testutils.GetUser(t, uow, u.ID).Balance)

	_, err = svc.ConvertToBalance(ctx, u.ID, 7)
	assert.ErrorIs(t, err, koki.ErrInsufficientKoki)
	assert.Equal(t, int64(20), testutils.GetUser(t, uow, u.ID).Balance)
}

func TestExchange_RejectsOverflowingAmounts(t *testing.T) {
	ctx := context.Background()
	svc, uow := newService(t)
	u := testutils.CreateUser(t, uow, "whale", 1000)
	testutils.GiveKoki(t, uow, u.ID, 10)

	// 1844674407370955162 * 10 wraps to 4 in int64
	_, err := svc.BuyKoki(ctx, u.ID, 1844674407370955162)
	assert.ErrorIs(t, err, koki.ErrInvalidAmount)
	_, err = svc.BuyKoki(ctx, u.ID, math.MaxInt64)
	assert.ErrorIs(t, err, koki.ErrInvalidAmount)
	_, err = svc.ConvertToBalance(ctx, u.ID, math.MaxInt64/5+1)
	assert.ErrorIs(t, err, koki.ErrInvalidAmount)

	assert.Equal(t, int64(1000), testutils.GetUser(t, uow, u.ID).Balance)
	assert.Equal(t, int64(10), testutils.KokiBalance(t, uow, u.ID))
}

func TestCanPlayRoulette(t *testing.T) {
	ctx := context.Background()
	svc, uow := newService(t)
	u := testutils.CreateUser(t, uow, "gambler", 0)

	tests := []struct {
		give      int64
		canPlay   bool
		canAfford bool
	}{
		{0, false, false},
		{10, false, true},
		{15, true, true}, // 25 in total
	}
	for _, tt := range tests {
		if tt.give > 0 {
			testutils.GiveKoki(t, uow, u.ID, tt.give)
		}
		e, err := svc.CanPlayRoulette(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, tt.canPlay, e.CanPlay)
		assert.Equal(t, tt.canAfford, e.CanAffordPlay)
		assert.Equal(t, int64(25), e.RequiredKoki)
		assert.Equal(t, int64(10), e.PlayCost)
	}
}

func TestProcessTicketPurchaseReward(t *testing.T) {
	ctx := context.Background()
	svc, uow := newService(t)
	owner := testutils.CreateUser(t, uow, "owner", 0)
	other := testutils.CreateUser(t, uow, "other", 0)

	lotteries, err := uow.LotteryRepository()
	require.NoError(t, err)
	l := lottery.New(time.Now(), time.Hour, 50, 0)
	require.NoError(t, lotteries.Create(ctx, l))
	ticket := &lottery.Ticket{ID: uuid.New(), LotteryID: l.ID, UserID: owner.ID, Number: 3, Price: 50, PurchasedAt: time.Now()}
	require.NoError(t, lotteries.CreateTicket(ctx, ticket))

	// the reward does not scale with the price
	tx, err := svc.ProcessTicketPurchaseReward(ctx, owner.ID, 500, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), tx.Amount)
	assert.Equal(t, koki.TypePurchaseReward, tx.Type)

	_, err = svc.ProcessTicketPurchaseReward(ctx, owner.ID, 50, ticket.ID)
	assert.ErrorIs(t, err, koki.ErrAlreadyRewarded)
	assert.Equal(t, int64(5), testutils.KokiBalance(t, uow, owner.ID))

	_, err = svc.ProcessTicketPurchaseReward(ctx, other.ID, 50, ticket.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.ProcessTicketPurchaseReward(ctx, owner.ID, 50, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPurchaseInfo(t *testing.T) {
	ctx := context.Background()
	svc, uow := newService(t)
	u := testutils.CreateUser(t, uow, "info", 1000)
	testutils.GiveKoki(t, uow, u.ID, 3)

	info, err := svc.PurchaseInfo(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), info.TicketPrice)
	assert.Equal(t, int64(5), info.KokiPerTicket)
	assert.Equal(t, int64(3), info.CurrentKoki)
	assert.Equal(t, int64(1000), info.Balance)

	_, err = svc.PurchaseInfo(ctx, uuid.New())
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
