// Package fund records the weekly split of ticket income.
package fund

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/kokifi/lottery/pkg/domain"
	"github.com/kokifi/lottery/pkg/domain/fund"
	"github.com/kokifi/lottery/pkg/domain/lottery"
	"github.com/kokifi/lottery/pkg/repository"
	"github.com/kokifi/lottery/pkg/service/sysconfig"
	"github.com/shopspring/decimal"
)

// Service records weekly income funds and their split.
type Service struct {
	uow      repository.UnitOfWork
	settings sysconfig.Provider
	logger   *slog.Logger
}

// New returns a fund service backed by uow.
func New(uow repository.UnitOfWork, settings sysconfig.Provider, logger *slog.Logger) *Service {
	return &Service{uow: uow, settings: settings, logger: logger}
}

// CreateWeeklyFund splits totalIncome with the configured percentages and
// stores it for the week starting at weekStart (normalised to 00:00 UTC).
// The fund is linked to the active lottery running at weekStart, or else
// to the current active lottery, so its prize fund joins the next draw.
func (s *Service) CreateWeeklyFund(
	ctx context.Context,
	weekStart time.Time,
	totalIncome decimal.Decimal,
) (f *fund.WeeklyFund, err error) {
	log := s.logger.With("context", "CreateWeeklyFund", "weekStart", weekStart.Format(time.DateOnly))
	cfg, err := s.settings.Settings(ctx)
	if err != nil {
		return nil, err
	}
	f, err = fund.New(weekStart, totalIncome, cfg.FundPercentages)
	if err != nil {
		log.Warn("Invalid weekly fund", "income", totalIncome, "error", err)
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		lotteries, err := uow.LotteryRepository()
		if err != nil {
			return err
		}
		l, err := lotteries.FindContaining(ctx, f.WeekStart)
		if errors.Is(err, lottery.ErrLotteryNotFound) {
			l, err = lotteries.GetActive(ctx)
		}
		switch {
		case err == nil:
			f.LotteryID = &l.ID
		case !errors.Is(err, lottery.ErrNoActiveLottery):
			return err
		}
		funds, err := uow.WeeklyFundRepository()
		if err != nil {
			return err
		}
		err = funds.Create(ctx, f)
		if errors.Is(err, domain.ErrAlreadyExists) {
			return fund.ErrWeekExists
		}
		return err
	})
	if err != nil {
		log.Warn("Failed to store weekly fund", "error", err)
		return nil, err
	}
	log.Info("Weekly fund created",
		"income", f.TotalIncome,
		"capitalBase", f.CapitalBase,
		"prizeFund", f.PrizeFund,
		"netProfit", f.NetProfit,
	)
	return f, nil
}

// List returns the newest funds first.
func (s *Service) List(ctx context.Context, limit int) ([]*fund.WeeklyFund, error) {
	repo, err := s.uow.WeeklyFundRepository()
	if err != nil {
		return nil, err
	}
	return repo.List(ctx, limit)
}
