// Package koticket manages free scratch cards: accrual over time, grants
// and the single scratch of each card.
package koticket

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kokifi/lottery/pkg/domain/game"
	"github.com/kokifi/lottery/pkg/domain/koki"
	"github.com/kokifi/lottery/pkg/domain/user"
	"github.com/kokifi/lottery/pkg/metrics"
	"github.com/kokifi/lottery/pkg/repository"
	kokisvc "github.com/kokifi/lottery/pkg/service/koki"
	"github.com/kokifi/lottery/pkg/service/sysconfig"
)

// MaxGrant bounds a single Grant call.
const MaxGrant = 100

// ScratchResult is a revealed card and its prize.
type ScratchResult struct {
	KoTicket *game.KoTicket    `json:"koticket"`
	Prize    game.ScratchPrize `json:"prize"`
}

// Accrual reports the outcome of Accumulate.
type Accrual struct {
	Granted     int        `json:"granted"`
	Unscratched int64      `json:"unscratched"`
	NextAt      *time.Time `json:"next_at,omitempty"`
}

// Service accumulates, grants and scratches KoTickets.
type Service struct {
	uow      repository.UnitOfWork
	settings sysconfig.Provider
	gen      *game.Generator
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a Service. gen and m may be nil.
func New(
	uow repository.UnitOfWork,
	settings sysconfig.Provider,
	gen *game.Generator,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	if gen == nil {
		gen = game.NewGenerator(nil)
	}
	return &Service{
		uow:      uow,
		settings: settings,
		gen:      gen,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// List returns the user's cards, unscratched first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*game.KoTicket, error) {
	repo, err := s.uow.KoTicketRepository()
	if err != nil {
		return nil, err
	}
	return repo.ListByUser(ctx, userID)
}

// Accumulate grants the cards earned since last_koticket_at, one per
// koticket_interval_hours, without exceeding koticket_max_unscratched.
func (s *Service) Accumulate(ctx context.Context, userID uuid.UUID) (*Accrual, error) {
	log := s.logger.With("context", "Accumulate", "userID", userID)
	cfg, err := s.settings.Settings(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	out := &Accrual{}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		if err := users.Lock(ctx, userID); err != nil {
			return err
		}
		u, err := users.Get(ctx, userID)
		if err != nil {
			return err
		}
		repo, err := uow.KoTicketRepository()
		if err != nil {
			return err
		}
		unscratched, err := repo.CountUnscratched(ctx, userID)
		if err != nil {
			return err
		}
		out.Unscratched = unscratched
		if u.LastKoTicketAt == nil {
			next := now.Add(cfg.KoTicketInterval)
			out.NextAt = &next
			return users.SetLastKoTicketAt(ctx, userID, now)
		}
		granted, clock := game.AccrueKoTickets(
			*u.LastKoTicketAt, now, cfg.KoTicketInterval,
			int(unscratched), cfg.KoTicketMaxUnscratched,
		)
		if err := GrantTx(ctx, uow, userID, granted, now); err != nil {
			return err
		}
		if !clock.Equal(*u.LastKoTicketAt) {
			if err := users.SetLastKoTicketAt(ctx, userID, clock); err != nil {
				return err
			}
		}
		next := clock.Add(cfg.KoTicketInterval)
		out.Granted = granted
		out.Unscratched += int64(granted)
		out.NextAt = &next
		return nil
	})
	if err != nil {
		log.Warn("Accumulate failed", "error", err)
		return nil, err
	}
	if out.Granted > 0 {
		log.Info("KoTickets accrued", "granted", out.Granted, "unscratched", out.Unscratched)
	}
	return out, nil
}

// Grant creates n cards for the user regardless of the accrual cap.
func (s *Service) Grant(ctx context.Context, userID uuid.UUID, n int) error {
	if n <= 0 || n > MaxGrant {
		return fmt.Errorf("%w: grant of %d koTickets", koki.ErrInvalidAmount, n)
	}
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		ok, err := users.Exists(ctx, userID)
		if err != nil {
			return err
		}
		if !ok {
			return user.ErrUserNotFound
		}
		return GrantTx(ctx, uow, userID, n, s.now())
	})
	if err != nil {
		return err
	}
	s.logger.Info("KoTickets granted", "userID", userID, "count", n)
	return nil
}

// Scratch reveals a card once and credits a won prize in the same
// transaction. A second attempt fails with game.ErrAlreadyScratched.
func (s *Service) Scratch(ctx context.Context, userID, koticketID uuid.UUID) (*ScratchResult, error) {
	log := s.logger.With("context", "Scratch", "userID", userID, "koticketID", koticketID)
	prize := s.gen.ScratchPrize()
	now := s.now().UTC()
	var out *ScratchResult
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.KoTicketRepository()
		if err != nil {
			return err
		}
		kt, err := repo.Get(ctx, koticketID)
		if err != nil {
			return err
		}
		if kt.UserID != userID {
			return game.ErrKoTicketNotFound
		}
		if kt.IsScratched {
			return game.ErrAlreadyScratched
		}
		ok, err := repo.MarkScratched(ctx, koticketID, userID, prize.Amount, now)
		if err != nil {
			return err
		}
		if !ok {
			return game.ErrAlreadyScratched
		}
		if prize.Won {
			_, err = kokisvc.Credit(ctx, uow, userID, koki.TypeScratchPrize, prize.Amount,
				koki.SourceKoTicket, &koticketID, "Premio de KoTicket")
			if err != nil {
				return err
			}
		}
		kt.IsScratched = true
		kt.PrizeAmount = prize.Amount
		kt.ScratchDate = &now
		out = &ScratchResult{KoTicket: kt, Prize: prize}
		return nil
	})
	if err != nil {
		log.Info("Scratch rejected", "error", err)
		return nil, err
	}
	s.metrics.Scratched(prize.Won)
	s.metrics.KokiCredited(prize.Amount)
	log.Info("KoTicket scratched", "won", prize.Won, "amount", prize.Amount)
	return out, nil
}

// GrantTx creates n unscratched cards inside the caller's transaction.
func GrantTx(ctx context.Context, uow repository.UnitOfWork, userID uuid.UUID, n int, at time.Time) error {
	if n <= 0 {
		return nil
	}
	repo, err := uow.KoTicketRepository()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := repo.Create(ctx, game.NewKoTicket(userID, at)); err != nil {
			return err
		}
	}
	return nil
}
