package eventbus

import (
	"context"
	"errors"
	"testing"

	"github.com/kokifi/lottery/pkg/eventbus"
	"github.com/kokifi/lottery/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryEventBus_Emit(t *testing.T) {
	bus := NewWithMemory(testutils.Logger())
	var got []int
	bus.Register(eventbus.EventTypeTicketPurchased, func(_ context.Context, e eventbus.Event) error {
		got = append(got, e.(eventbus.TicketPurchased).Number)
		return nil
	})
	bus.Register(eventbus.EventTypeDrawCompleted, func(context.Context, eventbus.Event) error {
		t.Fatal("wrong handler")
		return nil
	})

	require.NoError(t, bus.Emit(context.Background(), eventbus.TicketPurchased{Number: 42}))
	assert.Equal(t, []int{42}, got)
	assert.Len(t, bus.Published(), 1)
}

func TestMemoryEventBus_HandlerFailures(t *testing.T) {
	bus := NewWithMemory(testutils.Logger())
	boom := errors.New("boom")
	calls := 0
	bus.Register(eventbus.EventTypeDrawCompleted, func(context.Context, eventbus.Event) error {
		panic("handler bug")
	})
	bus.Register(eventbus.EventTypeDrawCompleted, func(context.Context, eventbus.Event) error {
		return boom
	})
	bus.Register(eventbus.EventTypeDrawCompleted, func(context.Context, eventbus.Event) error {
		calls++
		return nil
	})

	err := bus.Emit(context.Background(), eventbus.DrawCompleted{})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls, "later handlers still run")
}
