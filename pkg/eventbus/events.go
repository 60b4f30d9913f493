package eventbus

import (
	"github.com/google/uuid"
)

const (
	EventTypeDrawCompleted   = "DrawCompleted"
	EventTypeTicketPurchased = "TicketPurchased"
)

// DrawCompleted is published after a lottery was drawn and settled.
type DrawCompleted struct {
	LotteryID      uuid.UUID
	NextLotteryID  uuid.UUID
	WinningNumbers []int
	Pool           int64
	Paid           int64
	Rollover       int64
	Winners        int
	Summary        string
}

func (DrawCompleted) Type() string { return EventTypeDrawCompleted }

// TicketPurchased is published after a ticket sale committed.
type TicketPurchased struct {
	TicketID  uuid.UUID
	LotteryID uuid.UUID
	UserID    uuid.UUID
	Number    int
	Price     int64
	Reward    int64
}

func (TicketPurchased) Type() string { return EventTypeTicketPurchased }
