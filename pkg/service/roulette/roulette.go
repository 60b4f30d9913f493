// Package roulette runs the KOKI roulette. The server picks the slot; a
// client never supplies the prize.
package roulette

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kokifi/lottery/pkg/domain/game"
	"github.com/kokifi/lottery/pkg/domain/koki"
	"github.com/kokifi/lottery/pkg/metrics"
	"github.com/kokifi/lottery/pkg/repository"
	kokisvc "github.com/kokifi/lottery/pkg/service/koki"
	"github.com/kokifi/lottery/pkg/service/koticket"
	"github.com/kokifi/lottery/pkg/service/sysconfig"
)

// Result is one spin.
type Result struct {
	SlotIndex   int       `json:"slot_index"`
	Slot        game.Slot `json:"prize"`
	Cost        int64     `json:"cost"`
	KokiBalance int64     `json:"koki_balance"`
}

// Service spins the KOKI roulette.
type Service struct {
	uow      repository.UnitOfWork
	settings sysconfig.Provider
	gen      *game.Generator
	metrics  *metrics.Metrics
	logger   *slog.Logger
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
	return &Service{uow: uow, settings: settings, gen: gen, metrics: m, logger: logger}
}

// Wheel lists the slots in display order.
func (s *Service) Wheel() []game.Slot {
	return game.Wheel()
}

// Play charges roulette_cost_koki and pays the spun slot, all in one
// transaction. The user must hold roulette_unlock_koki before paying.
func (s *Service) Play(ctx context.Context, userID uuid.UUID) (*Result, error) {
	log := s.logger.With("context", "Play", "userID", userID)
	cfg, err := s.settings.Settings(ctx)
	if err != nil {
		return nil, err
	}
	index, slot := s.gen.Spin()
	out := &Result{SlotIndex: index, Slot: slot, Cost: cfg.RouletteCostKoki}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		if err := users.Lock(ctx, userID); err != nil {
			return err
		}
		ledger, err := uow.KokiRepository()
		if err != nil {
			return err
		}
		balance, err := ledger.Balance(ctx, userID)
		if err != nil {
			return err
		}
		if balance < cfg.RouletteUnlockKoki {
			return koki.ErrRouletteLocked
		}
		spinID := uuid.New()
		if _, err := kokisvc.Debit(ctx, uow, userID, koki.TypeRouletteCost, cfg.RouletteCostKoki,
			koki.SourceRoulette, &spinID, "Giro de ruleta"); err != nil {
			return err
		}
		switch slot.Kind {
		case game.PrizeKoki:
			if _, err := kokisvc.Credit(ctx, uow, userID, koki.TypeRoulettePrize, slot.Amount,
				koki.SourceRoulette, &spinID, "Premio de ruleta: "+slot.Label); err != nil {
				return err
			}
		case game.PrizeKoTicket:
			if err := koticket.GrantTx(ctx, uow, userID, int(slot.Amount), time.Now().UTC()); err != nil {
				return err
			}
		}
		out.KokiBalance, err = ledger.Balance(ctx, userID)
		return err
	})
	if err != nil {
		log.Info("Roulette play rejected", "error", err)
		return nil, err
	}
	s.metrics.RouletteSpin(string(slot.Kind))
	s.metrics.KokiDebited(cfg.RouletteCostKoki)
	if slot.Kind == game.PrizeKoki {
		s.metrics.KokiCredited(slot.Amount)
	}
	log.Info("Roulette played", "slot", index, "prize", slot.Label)
	return out, nil
}
