// Package sysconfig defines the runtime-tunable economy settings stored in
// the system_config table and their defaults.
package sysconfig

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kokifi/lottery/pkg/domain/fund"
	"github.com/kokifi/lottery/pkg/domain/lottery"
	"github.com/shopspring/decimal"
)

// ErrUnknownKey is returned for keys that are not part of the settings.
var ErrUnknownKey = errors.New("unknown config key")

// ErrInvalidValue is returned when a value does not parse or breaks a rule.
var ErrInvalidValue = errors.New("invalid config value")

// Keys of the system_config table.
const (
	KeyWelcomeBonusBalance    = "welcome_bonus_balance"
	KeyTicketPrice            = "ticket_price"
	KeyKokiPerTicket          = "koki_per_ticket"
	KeyRouletteUnlockKoki     = "roulette_unlock_koki"
	KeyRouletteCostKoki       = "roulette_cost_koki"
	KeyDailyKokiBonus         = "daily_koki_bonus"
	KeyKokiPriceBalance       = "koki_price_balance"
	KeyKokiToBalanceRate      = "koki_to_balance_rate"
	KeyKoTicketIntervalHours  = "koticket_interval_hours"
	KeyKoTicketMaxUnscratched = "koticket_max_unscratched"
	KeyAvatarChangeCost       = "avatar_change_cost"
	KeyLotteryNumberMin       = "lottery_number_min"
	KeyLotteryNumberMax       = "lottery_number_max"
	KeyLotteryWinningNumbers  = "lottery_winning_numbers"
	KeyLotteryPrizeShares     = "lottery_prize_shares"
	KeyLotteryDurationDays    = "lottery_duration_days"
	KeyCapitalBasePercentage  = "capital_base_percentage"
	KeyPrizeFundPercentage    = "prize_fund_percentage"
	KeyNetProfitPercentage    = "net_profit_percentage"
)

var defaults = map[string]string{
	KeyWelcomeBonusBalance:    "1000",
	KeyTicketPrice:            "50",
	KeyKokiPerTicket:          "5",
	KeyRouletteUnlockKoki:     "25",
	KeyRouletteCostKoki:       "10",
	KeyDailyKokiBonus:         "2",
	KeyKokiPriceBalance:       "10",
	KeyKokiToBalanceRate:      "5",
	KeyKoTicketIntervalHours:  "24",
	KeyKoTicketMaxUnscratched: "5",
	KeyAvatarChangeCost:       "100",
	KeyLotteryNumberMin:       "1",
	KeyLotteryNumberMax:       "100",
	KeyLotteryWinningNumbers:  "3",
	KeyLotteryPrizeShares:     "50,30,20",
	KeyLotteryDurationDays:    "7",
	KeyCapitalBasePercentage:  "40",
	KeyPrizeFundPercentage:    "40",
	KeyNetProfitPercentage:    "20",
}

// Defaults returns a copy of the default values keyed by config key.
func Defaults() map[string]string {
	out := make(map[string]string, len(defaults))
	for k, v := range defaults {
		out[k] = v
	}
	return out
}

// Keys returns all known keys sorted.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsKnown reports whether key is a setting.
func IsKnown(key string) bool {
	_, ok := defaults[key]
	return ok
}

// Settings is the parsed view of all config rows.
type Settings struct {
	WelcomeBonusBalance    int64
	TicketPrice            int64
	KokiPerTicket          int64
	RouletteUnlockKoki     int64
	RouletteCostKoki       int64
	DailyKokiBonus         int64
	KokiPriceBalance       int64
	KokiToBalanceRate      int64
	KoTicketInterval       time.Duration
	KoTicketMaxUnscratched int
	AvatarChangeCost       int64
	Numbers                lottery.NumberRange
	WinningNumbers         int
	PrizeShares            []int
	LotteryDuration        time.Duration
	FundPercentages        fund.Percentages
}

// DefaultSettings parses the built-in defaults.
func DefaultSettings() Settings {
	s, err := Parse(nil)
	if err != nil {
		panic(fmt.Sprintf("sysconfig: invalid defaults: %v", err))
	}
	return s
}

// Parse builds Settings from stored values, falling back to defaults for
// missing keys, and validates cross-field rules.
func Parse(values map[string]string) (Settings, error) {
	p := parser{values: values}
	s := Settings{
		WelcomeBonusBalance:    p.num(KeyWelcomeBonusBalance, 0),
		TicketPrice:            p.num(KeyTicketPrice, 1),
		KokiPerTicket:          p.num(KeyKokiPerTicket, 0),
		RouletteUnlockKoki:     p.num(KeyRouletteUnlockKoki, 0),
		RouletteCostKoki:       p.num(KeyRouletteCostKoki, 1),
		DailyKokiBonus:         p.num(KeyDailyKokiBonus, 0),
		KokiPriceBalance:       p.num(KeyKokiPriceBalance, 1),
		KokiToBalanceRate:      p.num(KeyKokiToBalanceRate, 1),
		KoTicketInterval:       time.Duration(p.num(KeyKoTicketIntervalHours, 1)) * time.Hour,
		KoTicketMaxUnscratched: int(p.num(KeyKoTicketMaxUnscratched, 0)),
		AvatarChangeCost:       p.num(KeyAvatarChangeCost, 0),
		Numbers: lottery.NumberRange{
			Min: int(p.num(KeyLotteryNumberMin, 0)),
			Max: int(p.num(KeyLotteryNumberMax, 0)),
		},
		WinningNumbers:  int(p.num(KeyLotteryWinningNumbers, 1)),
		PrizeShares:     p.list(KeyLotteryPrizeShares),
		LotteryDuration: time.Duration(p.num(KeyLotteryDurationDays, 1)) * 24 * time.Hour,
		FundPercentages: fund.Percentages{
			CapitalBase: p.dec(KeyCapitalBasePercentage),
			PrizeFund:   p.dec(KeyPrizeFundPercentage),
			NetProfit:   p.dec(KeyNetProfitPercentage),
		},
	}
	if p.err != nil {
		return Settings{}, p.err
	}
	if s.Numbers.Max < s.Numbers.Min {
		return Settings{}, fmt.Errorf("%w: lottery number range %d-%d", ErrInvalidValue, s.Numbers.Min, s.Numbers.Max)
	}
	if s.WinningNumbers > s.Numbers.Size() {
		return Settings{}, fmt.Errorf("%w: %d winning numbers exceed range", ErrInvalidValue, s.WinningNumbers)
	}
	if err := lottery.ValidateShares(s.PrizeShares); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	if len(s.PrizeShares) != s.WinningNumbers {
		return Settings{}, fmt.Errorf("%w: %d prize shares for %d winning numbers",
			ErrInvalidValue, len(s.PrizeShares), s.WinningNumbers)
	}
	if err := s.FundPercentages.Validate(); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return s, nil
}

// ValidateChange checks that setting key to value keeps the whole
// configuration valid.
func ValidateChange(current map[string]string, key, value string) error {
	if !IsKnown(key) {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	next := make(map[string]string, len(current)+1)
	for k, v := range current {
		next[k] = v
	}
	next[key] = strings.TrimSpace(value)
	_, err := Parse(next)
	return err
}

type parser struct {
	values map[string]string
	err    error
}

func (p *parser) raw(key string) string {
	if v, ok := p.values[key]; ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return defaults[key]
}

func (p *parser) fail(key, value string) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, value)
	}
}

func (p *parser) num(key string, floor int64) int64 {
	v := p.raw(key)
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < floor {
		p.fail(key, v)
		return 0
	}
	return n
}

func (p *parser) list(key string) []int {
	v := p.raw(key)
	parts := strings.Split(v, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			p.fail(key, v)
			return nil
		}
		out = append(out, n)
	}
	return out
}

func (p *parser) dec(key string) decimal.Decimal {
	v := p.raw(key)
	d, err := decimal.NewFromString(v)
	if err != nil {
		p.fail(key, v)
		return decimal.Zero
	}
	return d
}
