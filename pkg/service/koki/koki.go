// Package koki implements the KOKI point economy: balance, credits, spends,
// daily bonus, the shop exchange with the game balance and the ticket
// purchase reward.
package koki

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/kokifi/lottery/pkg/domain"
	"github.com/kokifi/lottery/pkg/domain/koki"
	"github.com/kokifi/lottery/pkg/domain/user"
	"github.com/kokifi/lottery/pkg/metrics"
	"github.com/kokifi/lottery/pkg/repository"
	"github.com/kokifi/lottery/pkg/service/sysconfig"
	"github.com/kokifi/lottery/pkg/utils"
)

// DefaultHistoryLimit caps History when no limit is given.
const DefaultHistoryLimit = 50

// Eligibility is the roulette gate for one user. Unlocking and affording a
// play are separate checks.
type Eligibility struct {
	CanPlay       bool  `json:"can_play"`
	RequiredKoki  int64 `json:"required_koki"`
	CurrentKoki   int64 `json:"current_koki"`
	PlayCost      int64 `json:"play_cost"`
	CanAffordPlay bool  `json:"can_afford_play"`
}

// PurchaseInfo describes what buying a ticket earns.
type PurchaseInfo struct {
	TicketPrice       int64 `json:"ticket_price"`
	KokiPerTicket     int64 `json:"koki_per_ticket"`
	KokiPriceBalance  int64 `json:"koki_price_balance"`
	KokiToBalanceRate int64 `json:"koki_to_balance_rate"`
	CurrentKoki       int64 `json:"current_koki"`
	Balance           int64 `json:"balance"`
}

// Exchange is the result of moving value between KOKI and the game balance.
type Exchange struct {
	Koki        int64             `json:"koki"`
	Balance     int64             `json:"balance_amount"`
	Transaction *koki.Transaction `json:"transaction"`
}

// Service provides the KOKI ledger operations.
type Service struct {
	uow      repository.UnitOfWork
	settings sysconfig.Provider
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a Service. m may be nil.
func New(
	uow repository.UnitOfWork,
	settings sysconfig.Provider,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		uow:      uow,
		settings: settings,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// GetBalance derives the balance from the ledger. Unknown users have 0.
func (s *Service) GetBalance(ctx context.Context, userID uuid.UUID) (int64, error) {
	repo, err := s.uow.KokiRepository()
	if err != nil {
		return 0, err
	}
	return repo.Balance(ctx, userID)
}

// AddPoints credits amount to an existing user.
func (s *Service) AddPoints(
	ctx context.Context,
	userID uuid.UUID,
	amount int64,
	typ koki.TransactionType,
	source string,
	sourceID *uuid.UUID,
	description string,
) (tx *koki.Transaction, err error) {
	log := s.logger.With("context", "AddPoints", "userID", userID, "type", typ)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
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
		tx, err = Credit(ctx, uow, userID, typ, amount, source, sourceID, description)
		return err
	})
	if err != nil {
		log.Warn("AddPoints failed", "amount", amount, "error", err)
		return nil, err
	}
	s.metrics.KokiCredited(amount)
	log.Info("KOKI credited", "amount", amount)
	return tx, nil
}

// SpendPoints debits amount as a "spent" row. It fails with
// koki.ErrInsufficientKoki and writes nothing when the balance is short.
func (s *Service) SpendPoints(
	ctx context.Context,
	userID uuid.UUID,
	amount int64,
	source string,
	sourceID *uuid.UUID,
	description string,
) (tx *koki.Transaction, err error) {
	log := s.logger.With("context", "SpendPoints", "userID", userID)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		tx, err = Debit(ctx, uow, userID, koki.TypeSpent, amount, source, sourceID, description)
		return err
	})
	if err != nil {
		log.Warn("SpendPoints failed", "amount", amount, "error", err)
		return nil, err
	}
	s.metrics.KokiDebited(amount)
	log.Info("KOKI spent", "amount", amount, "source", source)
	return tx, nil
}

// History returns the newest ledger rows first.
func (s *Service) History(ctx context.Context, userID uuid.UUID, limit int) ([]*koki.Transaction, error) {
	if limit <= 0 || limit > DefaultHistoryLimit {
		limit = DefaultHistoryLimit
	}
	repo, err := s.uow.KokiRepository()
	if err != nil {
		return nil, err
	}
	return repo.List(ctx, userID, limit)
}

// ClaimDailyBonus credits daily_koki_bonus once per UTC day.
func (s *Service) ClaimDailyBonus(ctx context.Context, userID uuid.UUID) (tx *koki.Transaction, err error) {
	log := s.logger.With("context", "ClaimDailyBonus", "userID", userID)
	cfg, err := s.settings.Settings(ctx)
	if err != nil {
		return nil, err
	}
	today := utils.StartOfDay(s.now())
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		if err := users.Lock(ctx, userID); err != nil {
			return err
		}
		repo, err := uow.KokiRepository()
		if err != nil {
			return err
		}
		claimed, err := repo.CountSince(ctx, userID, koki.TypeDailyBonus, today)
		if err != nil {
			return err
		}
		if claimed > 0 {
			return koki.ErrDailyBonusClaimed
		}
		tx, err = Credit(ctx, uow, userID, koki.TypeDailyBonus, cfg.DailyKokiBonus,
			koki.SourceDailyBonus, nil, "Bono diario")
		return err
	})
	if err != nil {
		log.Info("Daily bonus not credited", "error", err)
		return nil, err
	}
	s.metrics.KokiCredited(tx.Amount)
	log.Info("Daily bonus credited", "amount", tx.Amount)
	return tx, nil
}

// BuyKoki pays kokiAmount * koki_price_balance from the game balance and
// credits the points.
func (s *Service) BuyKoki(ctx context.Context, userID uuid.UUID, kokiAmount int64) (*Exchange, error) {
	log := s.logger.With("context", "BuyKoki", "userID", userID)
	if kokiAmount <= 0 {
		return nil, koki.ErrInvalidAmount
	}
	cfg, err := s.settings.Settings(ctx)
	if err != nil {
		return nil, err
	}
	cost, err := mulAmount(kokiAmount, cfg.KokiPriceBalance)
	if err != nil {
		return nil, err
	}
	out := &Exchange{Koki: kokiAmount, Balance: cost}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		if err := users.DebitBalance(ctx, userID, cost, false); err != nil {
			return err
		}
		out.Transaction, err = Credit(ctx, uow, userID, koki.TypePurchase, kokiAmount,
			koki.SourceShop, nil, "Compra de KOKI")
		return err
	})
	if err != nil {
		log.Warn("BuyKoki failed", "koki", kokiAmount, "cost", cost, "error", err)
		return nil, err
	}
	s.metrics.KokiCredited(kokiAmount)
	log.Info("KOKI bought", "koki", kokiAmount, "cost", cost)
	return out, nil
}

// ConvertToBalance debits kokiAmount points and credits
// kokiAmount * koki_to_balance_rate to the game balance.
func (s *Service) ConvertToBalance(ctx context.Context, userID uuid.UUID, kokiAmount int64) (*Exchange, error) {
	log := s.logger.With("context", "ConvertToBalance", "userID", userID)
	if kokiAmount <= 0 {
		return nil, koki.ErrInvalidAmount
	}
	cfg, err := s.settings.Settings(ctx)
	if err != nil {
		return nil, err
	}
	credit, err := mulAmount(kokiAmount, cfg.KokiToBalanceRate)
	if err != nil {
		return nil, err
	}
	out := &Exchange{Koki: kokiAmount, Balance: credit}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		out.Transaction, err = Debit(ctx, uow, userID, koki.TypeConversion, kokiAmount,
			koki.SourceConversion, nil, "Conversión de KOKI a saldo")
		if err != nil {
			return err
		}
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		return users.CreditBalance(ctx, userID, credit)
	})
	if err != nil {
		log.Warn("ConvertToBalance failed", "koki", kokiAmount, "error", err)
		return nil, err
	}
	s.metrics.KokiDebited(kokiAmount)
	log.Info("KOKI converted", "koki", kokiAmount, "balance", credit)
	return out, nil
}

// CanPlayRoulette reports the unlock threshold and the per-play cost
// against the current balance.
func (s *Service) CanPlayRoulette(ctx context.Context, userID uuid.UUID) (Eligibility, error) {
	cfg, err := s.settings.Settings(ctx)
	if err != nil {
		return Eligibility{}, err
	}
	balance, err := s.GetBalance(ctx, userID)
	if err != nil {
		return Eligibility{}, err
	}
	return Eligibility{
		CanPlay:       balance >= cfg.RouletteUnlockKoki,
		RequiredKoki:  cfg.RouletteUnlockKoki,
		CurrentKoki:   balance,
		PlayCost:      cfg.RouletteCostKoki,
		CanAffordPlay: balance >= cfg.RouletteCostKoki,
	}, nil
}

// ProcessTicketPurchaseReward credits koki_per_ticket for a ticket the user
// owns. The price is only recorded in the description.
func (s *Service) ProcessTicketPurchaseReward(
	ctx context.Context,
	userID uuid.UUID,
	ticketPrice int64,
	ticketID uuid.UUID,
) (tx *koki.Transaction, err error) {
	log := s.logger.With("context", "ProcessTicketPurchaseReward", "userID", userID, "ticketID", ticketID)
	cfg, err := s.settings.Settings(ctx)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		lotteries, err := uow.LotteryRepository()
		if err != nil {
			return err
		}
		ticket, err := lotteries.GetTicket(ctx, ticketID)
		if err != nil {
			return err
		}
		if ticket.UserID != userID {
			return domain.ErrForbidden
		}
		tx, err = RewardTicketPurchase(ctx, uow, userID, ticketID, ticketPrice, cfg.KokiPerTicket)
		return err
	})
	if err != nil {
		if !errors.Is(err, koki.ErrAlreadyRewarded) {
			log.Warn("Ticket reward failed", "error", err)
		}
		return nil, err
	}
	s.metrics.KokiCredited(tx.Amount)
	log.Info("Ticket purchase rewarded", "amount", tx.Amount)
	return tx, nil
}

// PurchaseInfo returns the ticket economy numbers for the user.
func (s *Service) PurchaseInfo(ctx context.Context, userID uuid.UUID) (*PurchaseInfo, error) {
	cfg, err := s.settings.Settings(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}
	u, err := users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	balance, err := s.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &PurchaseInfo{
		TicketPrice:       cfg.TicketPrice,
		KokiPerTicket:     cfg.KokiPerTicket,
		KokiPriceBalance:  cfg.KokiPriceBalance,
		KokiToBalanceRate: cfg.KokiToBalanceRate,
		CurrentKoki:       balance,
		Balance:           u.Balance,
	}, nil
}

// mulAmount returns amount*rate, rejecting products that do not fit in an
// int64.
func mulAmount(amount, rate int64) (int64, error) {
	if rate > 0 && amount > math.MaxInt64/rate {
		return 0, fmt.Errorf("%w: %d exceeds the exchange limit", koki.ErrInvalidAmount, amount)
	}
	return amount * rate, nil
}
