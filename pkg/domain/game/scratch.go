package game

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrAlreadyScratched is returned when a KoTicket was already revealed.
	ErrAlreadyScratched = errors.New("koticket already scratched")
	// ErrKoTicketNotFound is returned when the KoTicket does not exist or belongs to someone else.
	ErrKoTicketNotFound = errors.New("koticket not found")
)

// Scratch odds: ScratchWinProbability of a prize uniform in [ScratchMinPrize, ScratchMaxPrize].
const (
	ScratchWinProbability = 0.7
	ScratchMinPrize       = 1
	ScratchMaxPrize       = 10
)

// ScratchPrize is the outcome of revealing a KoTicket.
type ScratchPrize struct {
	Won    bool  `json:"won"`
	Amount int64 `json:"amount"`
}

// KoTicket is a free scratch card.
type KoTicket struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	PurchaseTime time.Time  `json:"purchase_time"`
	IsScratched  bool       `json:"is_scratched"`
	PrizeAmount  int64      `json:"prize_amount"`
	ScratchDate  *time.Time `json:"scratch_date,omitempty"`
}

// NewKoTicket creates an unscratched card for the user.
func NewKoTicket(userID uuid.UUID, at time.Time) *KoTicket {
	return &KoTicket{
		ID:           uuid.New(),
		UserID:       userID,
		PurchaseTime: at.UTC(),
	}
}

// Generator produces game outcomes from a Source.
type Generator struct {
	src Source
}

// NewGenerator wraps src. A nil src uses a crypto-seeded source.
func NewGenerator(src Source) *Generator {
	if src == nil {
		src = NewSource()
	}
	return &Generator{src: src}
}

// ScratchPrize draws one scratch outcome.
func (g *Generator) ScratchPrize() ScratchPrize {
	if g.src.Float64() >= ScratchWinProbability {
		return ScratchPrize{}
	}
	amount := int64(ScratchMinPrize + g.src.IntN(ScratchMaxPrize-ScratchMinPrize+1))
	return ScratchPrize{Won: true, Amount: amount}
}

// AccrueKoTickets computes how many free KoTickets are due since last and
// where the accrual clock moves to. The clock advances by whole intervals
// only; granted tickets never push unscratched above limit. When the user is
// at the cap the clock is reset to now so the wait restarts after scratching.
func AccrueKoTickets(
	last, now time.Time,
	interval time.Duration,
	unscratched, limit int,
) (int, time.Time) {
	if interval <= 0 || now.Before(last) {
		return 0, last
	}
	due := int(now.Sub(last) / interval)
	if due == 0 {
		return 0, last
	}
	room := limit - unscratched
	if room <= 0 {
		return 0, now
	}
	if due > room {
		return room, now
	}
	return due, last.Add(time.Duration(due) * interval)
}
