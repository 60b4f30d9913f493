package game

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSource struct {
	f float64
	n int
}

func (s fixedSource) Float64() float64 { return s.f }
func (s fixedSource) IntN(n int) int {
	if s.n >= n {
		return n - 1
	}
	return s.n
}

func TestScratchPrize_Distribution(t *testing.T) {
	g := NewGenerator(NewSeededSource(42))
	const runs = 100_000
	wins := 0
	for i := 0; i < runs; i++ {
		p := g.ScratchPrize()
		if !p.Won {
			assert.Zero(t, p.Amount)
			continue
		}
		wins++
		require.GreaterOrEqual(t, p.Amount, int64(ScratchMinPrize))
		require.LessOrEqual(t, p.Amount, int64(ScratchMaxPrize))
	}
	ratio := float64(wins) / runs
	assert.InDelta(t, ScratchWinProbability, ratio, 0.01)
}

func TestScratchPrize_Deterministic(t *testing.T) {
	a := NewGenerator(NewSeededSource(7))
	b := NewGenerator(NewSeededSource(7))
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.ScratchPrize(), b.ScratchPrize())
	}
}

func TestScratchPrize_Boundaries(t *testing.T) {
	win := NewGenerator(fixedSource{f: 0.69, n: 9})
	assert.Equal(t, ScratchPrize{Won: true, Amount: 10}, win.ScratchPrize())

	low := NewGenerator(fixedSource{f: 0, n: 0})
	assert.Equal(t, ScratchPrize{Won: true, Amount: 1}, low.ScratchPrize())

	lose := NewGenerator(fixedSource{f: 0.7})
	assert.Equal(t, ScratchPrize{}, lose.ScratchPrize())
}

func TestGenerator_ConcurrentUse(t *testing.T) {
	g := NewGenerator(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				g.ScratchPrize()
				g.Spin()
			}
		}()
	}
	wg.Wait()
}

func TestSpin(t *testing.T) {
	g := NewGenerator(fixedSource{n: 3})
	idx, slot := g.Spin()
	assert.Equal(t, 3, idx)
	assert.Equal(t, PrizeKoTicket, slot.Kind)

	seen := map[int]bool{}
	g = NewGenerator(NewSeededSource(1))
	for i := 0; i < 1000; i++ {
		idx, _ := g.Spin()
		require.True(t, idx >= 0 && idx < len(Wheel()))
		seen[idx] = true
	}
	assert.Len(t, seen, len(Wheel()))
}

func TestWheelReturnsCopy(t *testing.T) {
	w := Wheel()
	w[0].Amount = 999
	assert.Equal(t, int64(5), Wheel()[0].Amount)
}

func TestAccrueKoTickets(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	n, next := AccrueKoTickets(base, base.Add(23*time.Hour), day, 0, 5)
	assert.Equal(t, 0, n)
	assert.Equal(t, base, next)

	n, next = AccrueKoTickets(base, base.Add(50*time.Hour), day, 0, 5)
	assert.Equal(t, 2, n)
	assert.Equal(t, base.Add(48*time.Hour), next)

	now := base.Add(10 * day)
	n, next = AccrueKoTickets(base, now, day, 2, 5)
	assert.Equal(t, 3, n)
	assert.Equal(t, now, next)

	n, next = AccrueKoTickets(base, now, day, 5, 5)
	assert.Equal(t, 0, n)
	assert.Equal(t, now, next)

	n, _ = AccrueKoTickets(base, base.Add(-time.Hour), day, 0, 5)
	assert.Equal(t, 0, n)
}

func TestNewKoTicket(t *testing.T) {
	userID := uuid.New()
	kt := NewKoTicket(userID, time.Now())
	assert.Equal(t, userID, kt.UserID)
	assert.False(t, kt.IsScratched)
	assert.Nil(t, kt.ScratchDate)
}
