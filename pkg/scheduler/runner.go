package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kokifi/lottery/pkg/domain/lottery"
	"github.com/kokifi/lottery/pkg/eventbus"
	lotterysvc "github.com/kokifi/lottery/pkg/service/lottery"
	"golang.org/x/sync/singleflight"
)

// DrawExecutor settles lotteries. *lottery.Service implements it.
type DrawExecutor interface {
	GetActive(ctx context.Context) (*lottery.Lottery, error)
	EnsureActiveLottery(ctx context.Context) (*lottery.Lottery, bool, error)
	ExecuteDraw(ctx context.Context, lotteryID uuid.UUID) (*lotterysvc.DrawResult, error)
}

// Runner draws the active lottery once it is due. Overlapping calls share
// a single execution.
type Runner struct {
	draws  DrawExecutor
	bus    eventbus.Bus
	logger *slog.Logger
	group  singleflight.Group
	now    func() time.Time
}

// NewRunner returns a Runner that executes draws through draws and publishes results on bus.
func NewRunner(draws DrawExecutor, bus eventbus.Bus, logger *slog.Logger) *Runner {
	return &Runner{draws: draws, bus: bus, logger: logger, now: time.Now}
}

// RunDraw settles the active lottery if its end date has passed. It returns
// a nil result when there was nothing to draw.
func (r *Runner) RunDraw(ctx context.Context) (*lotterysvc.DrawResult, error) {
	v, err, _ := r.group.Do("draw", func() (any, error) {
		return r.runDraw(ctx)
	})
	res, _ := v.(*lotterysvc.DrawResult)
	return res, err
}

func (r *Runner) runDraw(ctx context.Context) (*lotterysvc.DrawResult, error) {
	log := r.logger.With("context", "RunDraw")
	active, err := r.draws.GetActive(ctx)
	if errors.Is(err, lottery.ErrNoActiveLottery) {
		log.Info("No active lottery to draw")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if active.IsOpen(r.now()) {
		log.Debug("Lottery still open", "lotteryID", active.ID, "endDate", active.EndDate)
		return nil, nil
	}

	res, err := r.draws.ExecuteDraw(ctx, active.ID)
	if err != nil {
		return nil, err
	}
	if r.bus != nil {
		event := eventbus.DrawCompleted{
			LotteryID:      res.Lottery.ID,
			WinningNumbers: res.Lottery.WinningNumbers,
			Pool:           res.Pool,
			Paid:           res.Paid,
			Rollover:       res.Lottery.RolloverOut,
			Winners:        len(res.Winners),
			Summary:        res.Summary(),
		}
		if res.Next != nil {
			event.NextLotteryID = res.Next.ID
		}
		if err := r.bus.Emit(ctx, event); err != nil {
			log.Warn("DrawCompleted handlers failed", "error", err)
		}
	}
	return res, nil
}

// CheckStatus catches up on a missed draw and makes sure a lottery is
// selling tickets afterwards.
func (r *Runner) CheckStatus(ctx context.Context) error {
	if _, err := r.RunDraw(ctx); err != nil {
		return err
	}
	_, _, err := r.draws.EnsureActiveLottery(ctx)
	return err
}

// RegisterNotifier subscribes the results notification to the bus. There
// is no outbound channel; the summary is logged.
func RegisterNotifier(bus eventbus.Bus, logger *slog.Logger) {
	bus.Register(eventbus.EventTypeDrawCompleted, func(_ context.Context, e eventbus.Event) error {
		d, ok := e.(eventbus.DrawCompleted)
		if !ok {
			return nil
		}
		logger.Info("Draw results", "lotteryID", d.LotteryID, "winners", d.Winners, "summary", d.Summary)
		return nil
	})
	bus.Register(eventbus.EventTypeTicketPurchased, func(_ context.Context, e eventbus.Event) error {
		if t, ok := e.(eventbus.TicketPurchased); ok {
			logger.Debug("Ticket purchased", "lotteryID", t.LotteryID, "userID", t.UserID, "number", t.Number)
		}
		return nil
	})
}
