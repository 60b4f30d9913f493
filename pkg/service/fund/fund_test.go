package fund_test

import (
	"context"
	"testing"
	"time"

	"github.com/kokifi/lottery/pkg/domain"
	domainfund "github.com/kokifi/lottery/pkg/domain/fund"
	"github.com/kokifi/lottery/pkg/domain/lottery"
	domainconfig "github.com/kokifi/lottery/pkg/domain/sysconfig"
	"github.com/kokifi/lottery/pkg/service/fund"
	"github.com/kokifi/lottery/pkg/service/sysconfig"
	"github.com/kokifi/lottery/pkg/testutils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWeeklyFund(t *testing.T) {
	ctx := context.Background()
	uow, _ := testutils.NewTestUoW(t)
	svc := fund.New(uow, sysconfig.Static(domainconfig.DefaultSettings()), testutils.Logger())

	week := time.Date(2025, 3, 3, 15, 30, 0, 0, time.UTC)
	f, err := svc.CreateWeeklyFund(ctx, week, decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), f.WeekStart)
	assert.True(t, decimal.NewFromInt(400).Equal(f.CapitalBase))
	assert.True(t, decimal.NewFromInt(400).Equal(f.PrizeFund))
	assert.True(t, decimal.NewFromInt(200).Equal(f.NetProfit))
	assert.Nil(t, f.LotteryID)

	_, err = svc.CreateWeeklyFund(ctx, week, decimal.NewFromInt(10))
	assert.ErrorIs(t, err, domainfund.ErrWeekExists)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	_, err = svc.CreateWeeklyFund(ctx, week.AddDate(0, 0, 7), decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domainfund.ErrNegativeIncome)

	all, err := svc.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateWeeklyFund_LinksRunningLottery(t *testing.T) {
	ctx := context.Background()
	uow, _ := testutils.NewTestUoW(t)
	svc := fund.New(uow, sysconfig.Static(domainconfig.DefaultSettings()), testutils.Logger())

	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	lotteries, err := uow.LotteryRepository()
	require.NoError(t, err)
	l := lottery.New(start, 7*24*time.Hour, 50, 0)
	require.NoError(t, lotteries.Create(ctx, l))

	f, err := svc.CreateWeeklyFund(ctx, start, decimal.RequireFromString("333.33"))
	require.NoError(t, err)
	require.NotNil(t, f.LotteryID)
	assert.Equal(t, l.ID, *f.LotteryID)
	assert.Equal(t, "133.33", f.PrizeFund.StringFixed(2))
	assert.Equal(t, "66.67", f.NetProfit.StringFixed(2))
}

func TestCreateWeeklyFund_UsesConfiguredPercentages(t *testing.T) {
	ctx := context.Background()
	uow, _ := testutils.NewTestUoW(t)
	settings := domainconfig.DefaultSettings()
	settings.FundPercentages = domainfund.Percentages{
		CapitalBase: decimal.NewFromInt(50),
		PrizeFund:   decimal.NewFromInt(30),
		NetProfit:   decimal.NewFromInt(20),
	}
	svc := fund.New(uow, sysconfig.Static(settings), testutils.Logger())

	f, err := svc.CreateWeeklyFund(ctx, time.Now(), decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(500).Equal(f.CapitalBase))
	assert.True(t, decimal.NewFromInt(300).Equal(f.PrizeFund))
}

func TestCreateWeeklyFund_SkipsDrawnLottery(t *testing.T) {
	ctx := context.Background()
	uow, _ := testutils.NewTestUoW(t)
	svc := fund.New(uow, sysconfig.Static(domainconfig.DefaultSettings()), testutils.Logger())
	lotteries, err := uow.LotteryRepository()
	require.NoError(t, err)

	// the cron tick opens each lottery a few seconds after Monday 00:00
	previous := lottery.New(time.Date(2025, 3, 3, 0, 0, 5, 0, time.UTC), 7*24*time.Hour, 50, 0)
	require.NoError(t, lotteries.Create(ctx, previous))
	drawnAt := previous.EndDate
	previous.WinningNumbers = []int{4, 8, 15}
	previous.DrawnAt = &drawnAt
	require.NoError(t, lotteries.Complete(ctx, previous))
	active := lottery.New(previous.EndDate, 7*24*time.Hour, 50, 0)
	require.NoError(t, lotteries.Create(ctx, active))

	f, err := svc.CreateWeeklyFund(ctx, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(1000))
	require.NoError(t, err)
	require.NotNil(t, f.LotteryID)
	assert.Equal(t, active.ID, *f.LotteryID)

	funds, err := uow.WeeklyFundRepository()
	require.NoError(t, err)
	linked, err := funds.ListByLottery(ctx, active.ID)
	require.NoError(t, err)
	assert.Len(t, linked, 1)
}
