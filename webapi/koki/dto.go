package koki

import (
	"github.com/kokifi/lottery/pkg/domain/koki"
	kokisvc "github.com/kokifi/lottery/pkg/service/koki"
)

// Actions accepted by the POST routes.
const (
	ActionClaimDailyBonus      = "claim_daily_bonus"
	ActionCheckEligibility     = "check_eligibility"
	ActionPlayRoulette         = "play_roulette"
	ActionRewardTicketPurchase = "reward_ticket_purchase"
	ActionGetPurchaseInfo      = "get_purchase_info"
	ActionCreateWeeklyFund     = "create_weekly_fund"
)

type StatusAction struct {
	Action string `json:"action" validate:"required,oneof=claim_daily_bonus"`
}

type RouletteAction struct {
	Action string `json:"action" validate:"required,oneof=check_eligibility play_roulette"`
}

// TicketAction is the body of /api/ticket-koki. The fields used depend on
// the action.
type TicketAction struct {
	Action      string `json:"action" validate:"required,oneof=reward_ticket_purchase get_purchase_info create_weekly_fund"`
	TicketID    string `json:"ticket_id" validate:"omitempty,uuid"`
	TicketPrice int64  `json:"ticket_price" validate:"gte=0"`
	WeekStart   string `json:"week_start" validate:"omitempty,datetime=2006-01-02"`
	TotalIncome string `json:"total_income" validate:"omitempty,numeric"`
}

// AmountInput is the body of /api/buy-koki and /api/convert-koki.
type AmountInput struct {
	Amount int64 `json:"amount" validate:"required,gt=0,lte=1000000"`
}

// Status is the KOKI dashboard of a user.
type Status struct {
	Balance     int64               `json:"balance"`
	History     []*koki.Transaction `json:"history"`
	Eligibility kokisvc.Eligibility `json:"roulette"`
}

type BonusResult struct {
	Transaction *koki.Transaction `json:"transaction"`
	Balance     int64             `json:"balance"`
}
