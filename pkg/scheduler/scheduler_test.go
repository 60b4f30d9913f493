package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	infraeventbus "github.com/kokifi/lottery/infra/eventbus"
	"github.com/kokifi/lottery/pkg/config"
	"github.com/kokifi/lottery/pkg/domain/lottery"
	"github.com/kokifi/lottery/pkg/eventbus"
	lotterysvc "github.com/kokifi/lottery/pkg/service/lottery"
	"github.com/kokifi/lottery/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDraws struct {
	mock.Mock
}

func (m *mockDraws) GetActive(ctx context.Context) (*lottery.Lottery, error) {
	args := m.Called(ctx)
	l, _ := args.Get(0).(*lottery.Lottery)
	return l, args.Error(1)
}

func (m *mockDraws) EnsureActiveLottery(ctx context.Context) (*lottery.Lottery, bool, error) {
	args := m.Called(ctx)
	l, _ := args.Get(0).(*lottery.Lottery)
	return l, args.Bool(1), args.Error(2)
}

func (m *mockDraws) ExecuteDraw(ctx context.Context, id uuid.UUID) (*lotterysvc.DrawResult, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*lotterysvc.DrawResult)
	return r, args.Error(1)
}

func TestRunDraw_StillOpen(t *testing.T) {
	draws := &mockDraws{}
	l := lottery.New(time.Now(), time.Hour, 50, 0)
	draws.On("GetActive", mock.Anything).Return(l, nil)

	r := NewRunner(draws, nil, testutils.Logger())
	res, err := r.RunDraw(context.Background())
	require.NoError(t, err)
	assert.Nil(t, res)
	draws.AssertNotCalled(t, "ExecuteDraw", mock.Anything, mock.Anything)
}

func TestRunDraw_NoActiveLottery(t *testing.T) {
	draws := &mockDraws{}
	draws.On("GetActive", mock.Anything).Return(nil, lottery.ErrNoActiveLottery)

	res, err := NewRunner(draws, nil, testutils.Logger()).RunDraw(context.Background())
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestRunDraw_PublishesResults(t *testing.T) {
	ctx := context.Background()
	draws := &mockDraws{}
	l := lottery.New(time.Now().Add(-8*24*time.Hour), 7*24*time.Hour, 50, 0)
	drawn := *l
	drawn.Status = lottery.StatusCompleted
	drawn.WinningNumbers = []int{4, 8, 15}
	drawn.RolloverOut = 100
	next := lottery.New(time.Now(), 7*24*time.Hour, 50, 100)
	draws.On("GetActive", mock.Anything).Return(l, nil)
	draws.On("ExecuteDraw", mock.Anything, l.ID).
		Return(&lotterysvc.DrawResult{Lottery: &drawn, Pool: 100, Next: next}, nil)

	bus := infraeventbus.NewWithMemory(testutils.Logger())
	var got eventbus.DrawCompleted
	bus.Register(eventbus.EventTypeDrawCompleted, func(_ context.Context, e eventbus.Event) error {
		got = e.(eventbus.DrawCompleted)
		return nil
	})
	RegisterNotifier(bus, testutils.Logger())

	res, err := NewRunner(draws, bus, testutils.Logger()).RunDraw(ctx)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, l.ID, got.LotteryID)
	assert.Equal(t, next.ID, got.NextLotteryID)
	assert.Equal(t, []int{4, 8, 15}, got.WinningNumbers)
	assert.Equal(t, int64(100), got.Rollover)
	assert.Contains(t, got.Summary, "Sin ganadores")
	draws.AssertExpectations(t)
}

func TestCheckStatus(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("db down")

	t.Run("ensures a lottery after the draw check", func(t *testing.T) {
		draws := &mockDraws{}
		draws.On("GetActive", mock.Anything).Return(nil, lottery.ErrNoActiveLottery)
		draws.On("EnsureActiveLottery", mock.Anything).Return(lottery.New(time.Now(), time.Hour, 50, 0), true, nil)
		require.NoError(t, NewRunner(draws, nil, testutils.Logger()).CheckStatus(ctx))
		draws.AssertExpectations(t)
	})
	t.Run("draw errors stop the check", func(t *testing.T) {
		draws := &mockDraws{}
		draws.On("GetActive", mock.Anything).Return(nil, boom)
		assert.ErrorIs(t, NewRunner(draws, nil, testutils.Logger()).CheckStatus(ctx), boom)
		draws.AssertNotCalled(t, "EnsureActiveLottery", mock.Anything)
	})
}

func TestScheduler(t *testing.T) {
	cfg := &config.Scheduler{
		Enabled:         true,
		Timezone:        "UTC",
		WeeklyDrawSpec:  "0 0 * * 1",
		StatusCheckSpec: "0 * * * *",
	}
	s, err := New(cfg, NewRunner(&mockDraws{}, nil, testutils.Logger()), testutils.Logger())
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	next := s.Next()
	require.Len(t, next, 2)
	for _, n := range next {
		assert.True(t, n.After(time.Now()))
	}

	_, err = New(&config.Scheduler{Timezone: "Nowhere/City"}, nil, testutils.Logger())
	assert.Error(t, err)

	bad, err := New(&config.Scheduler{Timezone: "UTC", WeeklyDrawSpec: "not a spec"}, nil, testutils.Logger())
	require.NoError(t, err)
	assert.Error(t, bad.Start(context.Background()))
}
