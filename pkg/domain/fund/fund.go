// Package fund splits a week's ticket income into capital base, prize fund
// and net profit.
package fund

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kokifi/lottery/pkg/domain"
	"github.com/kokifi/lottery/pkg/utils"
	"github.com/shopspring/decimal"
)

var (
	// ErrNegativeIncome is returned when total income is below zero.
	ErrNegativeIncome = errors.New("total income cannot be negative")
	// ErrInvalidPercentages is returned when the split does not add up to 100.
	ErrInvalidPercentages = errors.New("fund percentages must be non-negative and sum to 100")
	// ErrWeekExists is returned when the week already has a fund. It
	// matches domain.ErrAlreadyExists.
	ErrWeekExists = fmt.Errorf("weekly fund: %w", domain.ErrAlreadyExists)
)

var hundred = decimal.NewFromInt(100)

// Percentages of income assigned to each part of the fund.
type Percentages struct {
	CapitalBase decimal.Decimal
	PrizeFund   decimal.Decimal
	NetProfit   decimal.Decimal
}

// Validate requires non-negative parts summing to exactly 100.
func (p Percentages) Validate() error {
	for _, v := range []decimal.Decimal{p.CapitalBase, p.PrizeFund, p.NetProfit} {
		if v.IsNegative() {
			return ErrInvalidPercentages
		}
	}
	if !p.CapitalBase.Add(p.PrizeFund).Add(p.NetProfit).Equal(hundred) {
		return fmt.Errorf("%w: got %s/%s/%s", ErrInvalidPercentages,
			p.CapitalBase, p.PrizeFund, p.NetProfit)
	}
	return nil
}

// WeeklyFund is the split of one week's income.
type WeeklyFund struct {
	ID          uuid.UUID       `json:"id"`
	WeekStart   time.Time       `json:"week_start"`
	TotalIncome decimal.Decimal `json:"total_income"`
	CapitalBase decimal.Decimal `json:"capital_base"`
	PrizeFund   decimal.Decimal `json:"prize_fund"`
	NetProfit   decimal.Decimal `json:"net_profit"`
	LotteryID   *uuid.UUID      `json:"lottery_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Split divides income. Capital base and prize fund are truncated to two
// decimals and net profit takes the remainder, so the parts always sum to
// the income.
func Split(income decimal.Decimal, p Percentages) (capital, prize, net decimal.Decimal, err error) {
	if income.IsNegative() {
		return decimal.Zero, decimal.Zero, decimal.Zero, ErrNegativeIncome
	}
	if err = p.Validate(); err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	capital = income.Mul(p.CapitalBase).Div(hundred).Truncate(2)
	prize = income.Mul(p.PrizeFund).Div(hundred).Truncate(2)
	net = income.Sub(capital).Sub(prize)
	return capital, prize, net, nil
}

// New builds the fund for the week containing weekStart.
func New(weekStart time.Time, income decimal.Decimal, p Percentages) (*WeeklyFund, error) {
	capital, prize, net, err := Split(income, p)
	if err != nil {
		return nil, err
	}
	return &WeeklyFund{
		ID:          uuid.New(),
		WeekStart:   utils.StartOfDay(weekStart),
		TotalIncome: income,
		CapitalBase: capital,
		PrizeFund:   prize,
		NetProfit:   net,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// PrizePoints is the prize fund as whole points added to a draw pool.
func (f *WeeklyFund) PrizePoints() int64 {
	return f.PrizeFund.IntPart()
}
