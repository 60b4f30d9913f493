// Package lottery sells numbered tickets for the active weekly lottery and
// settles its draw.
package lottery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kokifi/lottery/pkg/domain"
	"github.com/kokifi/lottery/pkg/domain/game"
	"github.com/kokifi/lottery/pkg/domain/koki"
	"github.com/kokifi/lottery/pkg/domain/lottery"
	"github.com/kokifi/lottery/pkg/eventbus"
	"github.com/kokifi/lottery/pkg/metrics"
	"github.com/kokifi/lottery/pkg/repository"
	kokisvc "github.com/kokifi/lottery/pkg/service/koki"
	"github.com/kokifi/lottery/pkg/service/sysconfig"
)

// Purchase is a committed ticket sale.
type Purchase struct {
	Ticket  *lottery.Ticket   `json:"ticket"`
	Reward  *koki.Transaction `json:"koki_reward,omitempty"`
	Balance int64             `json:"balance"`
}

// DrawResult is a settled lottery.
type DrawResult struct {
	Lottery   *lottery.Lottery  `json:"lottery"`
	Winners   []*lottery.Winner `json:"winners"`
	Pool      int64             `json:"pool"`
	FundPrize int64             `json:"fund_prize"`
	Paid      int64             `json:"paid"`
	Next      *lottery.Lottery  `json:"next_lottery,omitempty"`
}

// Summary renders the result as a short text notification.
func (r *DrawResult) Summary() string {
	numbers := make([]string, len(r.Lottery.WinningNumbers))
	for i, n := range r.Lottery.WinningNumbers {
		numbers[i] = strconv.Itoa(n)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Sorteo %s: números ganadores %s. ", r.Lottery.ID, strings.Join(numbers, ", "))
	fmt.Fprintf(&b, "Bote %d KOKI, %d boletos. ", r.Pool, r.Lottery.TotalTickets)
	if len(r.Winners) == 0 {
		b.WriteString("Sin ganadores. ")
	}
	for _, w := range r.Winners {
		fmt.Fprintf(&b, "Lugar %d (número %d): %d. ", w.Place, w.Number, w.PrizeAmount)
	}
	fmt.Fprintf(&b, "Acumulado para el próximo sorteo: %d.", r.Lottery.RolloverOut)
	return b.String()
}

// Service manages weekly lotteries, their ticket sales and draws.
type Service struct {
	uow      repository.UnitOfWork
	settings sysconfig.Provider
	picker   lottery.Picker
	bus      eventbus.Bus
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a Service. picker, bus and m may be nil.
func New(
	uow repository.UnitOfWork,
	settings sysconfig.Provider,
	picker lottery.Picker,
	bus eventbus.Bus,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	if picker == nil {
		picker = game.NewSource()
	}
	return &Service{
		uow:      uow,
		settings: settings,
		picker:   picker,
		bus:      bus,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// GetActive returns the lottery currently selling tickets.
func (s *Service) GetActive(ctx context.Context) (*lottery.Lottery, error) {
	repo, err := s.uow.LotteryRepository()
	if err != nil {
		return nil, err
	}
	return repo.GetActive(ctx)
}

// List returns the newest lotteries first.
func (s *Service) List(ctx context.Context, limit int) ([]*lottery.Lottery, error) {
	repo, err := s.uow.LotteryRepository()
	if err != nil {
		return nil, err
	}
	return repo.List(ctx, limit)
}

// EnsureActiveLottery opens a lottery when none is active. The new lottery
// starts now and inherits the rollover of the last completed one.
func (s *Service) EnsureActiveLottery(ctx context.Context) (l *lottery.Lottery, created bool, err error) {
	log := s.logger.With("context", "EnsureActiveLottery")
	cfg, err := s.settings.Settings(ctx)
	if err != nil {
		return nil, false, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.LotteryRepository()
		if err != nil {
			return err
		}
		l, err = repo.GetActive(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, lottery.ErrNoActiveLottery) {
			return err
		}
		var rollover int64
		last, err := repo.List(ctx, 1)
		if err != nil {
			return err
		}
		if len(last) == 1 && last[0].Status == lottery.StatusCompleted {
			rollover = last[0].RolloverOut
		}
		l = lottery.New(s.now(), cfg.LotteryDuration, cfg.TicketPrice, rollover)
		created = true
		return repo.Create(ctx, l)
	})
	if errors.Is(err, domain.ErrConflict) {
		// another caller opened it first
		l, err = s.GetActive(ctx)
		return l, false, err
	}
	if err != nil {
		log.Error("Failed to ensure active lottery", "error", err)
		return nil, false, err
	}
	if created {
		log.Info("Lottery opened", "lotteryID", l.ID, "endDate", l.EndDate, "rolloverIn", l.RolloverIn)
	}
	return l, created, nil
}

// BuyTicket sells one number of the active lottery. A nil number picks a
// free one at random. The price is debited from the game balance, the sale
// is added to the pool and the KOKI reward is credited, all atomically.
func (s *Service) BuyTicket(ctx context.Context, userID uuid.UUID, number *int) (*Purchase, error) {
	log := s.logger.With("context", "BuyTicket", "userID", userID)
	cfg, err := s.settings.Settings(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	out := &Purchase{}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		lotteries, err := uow.LotteryRepository()
		if err != nil {
			return err
		}
		l, err := lotteries.GetActive(ctx)
		if err != nil {
			return err
		}
		if !l.IsOpen(now) {
			return lottery.ErrLotteryClosed
		}
		var n int
		if number == nil {
			taken, err := lotteries.TakenNumbers(ctx, l.ID)
			if err != nil {
				return err
			}
			if n, err = lottery.QuickPick(s.picker, cfg.Numbers, taken); err != nil {
				return err
			}
		} else {
			n = *number
			if err := cfg.Numbers.Validate(n); err != nil {
				return err
			}
		}

		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		if err := users.DebitBalance(ctx, userID, l.TicketPrice, true); err != nil {
			return err
		}
		ticket := &lottery.Ticket{
			ID:          uuid.New(),
			LotteryID:   l.ID,
			UserID:      userID,
			Number:      n,
			Price:       l.TicketPrice,
			PurchasedAt: now,
		}
		if err := lotteries.CreateTicket(ctx, ticket); err != nil {
			return err
		}
		if err := lotteries.AddSale(ctx, l.ID, l.TicketPrice); err != nil {
			return err
		}
		out.Ticket = ticket
		if cfg.KokiPerTicket > 0 {
			out.Reward, err = kokisvc.RewardTicketPurchase(ctx, uow, userID, ticket.ID, ticket.Price, cfg.KokiPerTicket)
			if err != nil {
				return err
			}
		}
		u, err := users.Get(ctx, userID)
		if err != nil {
			return err
		}
		out.Balance = u.Balance
		return nil
	})
	if err != nil {
		log.Info("Ticket purchase rejected", "error", err)
		return nil, err
	}

	var reward int64
	if out.Reward != nil {
		reward = out.Reward.Amount
	}
	s.metrics.TicketSold()
	s.metrics.KokiCredited(reward)
	log.Info("Ticket purchased", "lotteryID", out.Ticket.LotteryID, "number", out.Ticket.Number)
	if s.bus != nil {
		_ = s.bus.Emit(ctx, eventbus.TicketPurchased{
			TicketID:  out.Ticket.ID,
			LotteryID: out.Ticket.LotteryID,
			UserID:    userID,
			Number:    out.Ticket.Number,
			Price:     out.Ticket.Price,
			Reward:    reward,
		})
	}
	return out, nil
}

// ExecuteDraw draws the winning numbers of a finished lottery, pays every
// held winning number to its owner's game balance, closes the lottery and
// opens the next one carrying the unwon shares.
func (s *Service) ExecuteDraw(ctx context.Context, lotteryID uuid.UUID) (*DrawResult, error) {
	log := s.logger.With("context", "ExecuteDraw", "lotteryID", lotteryID)
	cfg, err := s.settings.Settings(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	var res *DrawResult
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		lotteries, err := uow.LotteryRepository()
		if err != nil {
			return err
		}
		l, err := lotteries.Get(ctx, lotteryID)
		if err != nil {
			return err
		}
		if l.Status == lottery.StatusCompleted {
			return lottery.ErrAlreadyDrawn
		}
		if !l.IsDue(now) {
			return lottery.ErrDrawNotDue
		}
		numbers, err := lottery.DrawNumbers(s.picker, cfg.Numbers, cfg.WinningNumbers)
		if err != nil {
			return err
		}

		funds, err := uow.WeeklyFundRepository()
		if err != nil {
			return err
		}
		linked, err := funds.ListByLottery(ctx, l.ID)
		if err != nil {
			return err
		}
		var fundPrize int64
		for _, f := range linked {
			fundPrize += f.PrizePoints()
		}
		pool := l.TotalPool + l.RolloverIn + fundPrize

		tickets, err := lotteries.ListTickets(ctx, l.ID)
		if err != nil {
			return err
		}
		byNumber := make(map[int]*lottery.Ticket, len(tickets))
		held := make(map[int]bool, len(tickets))
		for _, t := range tickets {
			byNumber[t.Number] = t
			held[t.Number] = true
		}
		settlement := lottery.SplitPool(pool, cfg.PrizeShares, numbers, held)

		l.WinningNumbers = numbers
		l.RolloverOut = settlement.Rollover
		l.DrawnAt = &now
		for _, p := range settlement.Payouts {
			if p.Place == 1 {
				id := byNumber[p.Number].UserID
				l.WinnerID = &id
			}
		}
		if err := lotteries.Complete(ctx, l); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return lottery.ErrAlreadyDrawn
			}
			return err
		}
		l.Status = lottery.StatusCompleted

		res = &DrawResult{Lottery: l, Pool: pool, FundPrize: fundPrize}
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		for _, p := range settlement.Payouts {
			ticket := byNumber[p.Number]
			if p.Amount > 0 {
				if err := users.CreditBalance(ctx, ticket.UserID, p.Amount); err != nil {
					return err
				}
			}
			w := &lottery.Winner{
				ID:          uuid.New(),
				LotteryID:   l.ID,
				TicketID:    ticket.ID,
				UserID:      ticket.UserID,
				Place:       p.Place,
				Number:      p.Number,
				PrizeAmount: p.Amount,
				CreatedAt:   now,
			}
			if err := lotteries.CreateWinner(ctx, w); err != nil {
				return err
			}
			res.Winners = append(res.Winners, w)
			res.Paid += p.Amount
		}

		next := lottery.New(now, cfg.LotteryDuration, cfg.TicketPrice, settlement.Rollover)
		if err := lotteries.Create(ctx, next); err != nil {
			return fmt.Errorf("open next lottery: %w", err)
		}
		res.Next = next
		return nil
	})
	if err != nil {
		if errors.Is(err, lottery.ErrDrawNotDue) || errors.Is(err, lottery.ErrAlreadyDrawn) {
			log.Info("Draw skipped", "reason", err)
		} else {
			log.Error("Draw failed", "error", err)
		}
		return nil, err
	}
	result := "rollover"
	if len(res.Winners) > 0 {
		result = "won"
	}
	s.metrics.DrawCompleted(result)
	log.Info("Draw completed",
		"winningNumbers", res.Lottery.WinningNumbers,
		"pool", res.Pool,
		"paid", res.Paid,
		"rollover", res.Lottery.RolloverOut,
		"nextLotteryID", res.Next.ID,
	)
	return res, nil
}

// Results returns a lottery and its winners.
func (s *Service) Results(ctx context.Context, lotteryID uuid.UUID) (*DrawResult, error) {
	repo, err := s.uow.LotteryRepository()
	if err != nil {
		return nil, err
	}
	l, err := repo.Get(ctx, lotteryID)
	if err != nil {
		return nil, err
	}
	winners, err := repo.ListWinners(ctx, lotteryID)
	if err != nil {
		return nil, err
	}
	res := &DrawResult{Lottery: l, Winners: winners, Pool: l.TotalPool + l.RolloverIn}
	for _, w := range winners {
		res.Paid += w.PrizeAmount
	}
	return res, nil
}

// ListUserTickets returns the user's tickets, optionally of one lottery.
func (s *Service) ListUserTickets(
	ctx context.Context,
	userID uuid.UUID,
	lotteryID *uuid.UUID,
) ([]*lottery.Ticket, error) {
	repo, err := s.uow.LotteryRepository()
	if err != nil {
		return nil, err
	}
	return repo.ListUserTickets(ctx, userID, lotteryID)
}
