// Package lottery holds the weekly draw model: lotteries, number tickets,
// winning numbers and the prize split between places.
package lottery

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNoActiveLottery  = errors.New("no active lottery")
	ErrLotteryNotFound  = errors.New("lottery not found")
	ErrLotteryClosed    = errors.New("lottery is closed for sales")
	ErrDrawNotDue       = errors.New("lottery draw is not due yet")
	ErrAlreadyDrawn     = errors.New("lottery already drawn")
	ErrNumberOutOfRange = errors.New("number out of range")
	ErrNumberTaken      = errors.New("number already taken")
	ErrSoldOut          = errors.New("all numbers are sold")
	ErrInvalidShares    = errors.New("prize shares must be positive and sum to 100")
)

// Status of a lottery.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Lottery is one weekly draw period.
type Lottery struct {
	ID             uuid.UUID  `json:"id"`
	Status         Status     `json:"status"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        time.Time  `json:"end_date"`
	WinningNumbers []int      `json:"winning_numbers"`
	TotalPool      int64      `json:"total_pool"`
	TotalTickets   int64      `json:"total_tickets"`
	TicketPrice    int64      `json:"ticket_price"`
	RolloverIn     int64      `json:"rollover_in"`
	RolloverOut    int64      `json:"rollover_out"`
	WinnerID       *uuid.UUID `json:"winner_id,omitempty"`
	DrawnAt        *time.Time `json:"drawn_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// New opens a lottery running from start for duration.
func New(start time.Time, duration time.Duration, ticketPrice, rollover int64) *Lottery {
	start = start.UTC()
	return &Lottery{
		ID:          uuid.New(),
		Status:      StatusActive,
		StartDate:   start,
		EndDate:     start.Add(duration),
		TicketPrice: ticketPrice,
		RolloverIn:  rollover,
		CreatedAt:   start,
	}
}

// IsOpen reports whether tickets can still be bought at now.
func (l *Lottery) IsOpen(now time.Time) bool {
	return l.Status == StatusActive && now.Before(l.EndDate)
}

// IsDue reports whether the draw should run at now.
func (l *Lottery) IsDue(now time.Time) bool {
	return l.Status == StatusActive && !now.Before(l.EndDate)
}

// Contains reports whether t falls in [StartDate, EndDate).
func (l *Lottery) Contains(t time.Time) bool {
	return !t.Before(l.StartDate) && t.Before(l.EndDate)
}

// Ticket is a purchased lottery number.
type Ticket struct {
	ID          uuid.UUID `json:"id"`
	LotteryID   uuid.UUID `json:"lottery_id"`
	UserID      uuid.UUID `json:"user_id"`
	Number      int       `json:"number"`
	Price       int64     `json:"price"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// Winner records a paid place in a draw.
type Winner struct {
	ID          uuid.UUID `json:"id"`
	LotteryID   uuid.UUID `json:"lottery_id"`
	TicketID    uuid.UUID `json:"ticket_id"`
	UserID      uuid.UUID `json:"user_id"`
	Place       int       `json:"place"`
	Number      int       `json:"number"`
	PrizeAmount int64     `json:"prize_amount"`
	CreatedAt   time.Time `json:"created_at"`
}

// NumberRange is the inclusive range tickets are sold from.
type NumberRange struct {
	Min int
	Max int
}

// Size is the amount of distinct numbers in the range.
func (r NumberRange) Size() int {
	return r.Max - r.Min + 1
}

// Validate checks that n is inside the range.
func (r NumberRange) Validate(n int) error {
	if n < r.Min || n > r.Max {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrNumberOutOfRange, n, r.Min, r.Max)
	}
	return nil
}

// Picker is the randomness DrawNumbers and QuickPick use.
type Picker interface {
	IntN(n int) int
}

// DrawNumbers picks k distinct numbers from r in draw order. The first
// number pays first place.
func DrawNumbers(p Picker, r NumberRange, k int) ([]int, error) {
	if k <= 0 || k > r.Size() {
		return nil, fmt.Errorf("cannot draw %d numbers from a range of %d", k, r.Size())
	}
	pool := make([]int, r.Size())
	for i := range pool {
		pool[i] = r.Min + i
	}
	out := make([]int, 0, k)
	for i := 0; i < k; i++ {
		j := i + p.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
		out = append(out, pool[i])
	}
	return out, nil
}

// QuickPick returns a random number of r not present in taken.
func QuickPick(p Picker, r NumberRange, taken map[int]bool) (int, error) {
	free := make([]int, 0, r.Size())
	for n := r.Min; n <= r.Max; n++ {
		if !taken[n] {
			free = append(free, n)
		}
	}
	if len(free) == 0 {
		return 0, ErrSoldOut
	}
	return free[p.IntN(len(free))], nil
}

// ValidateShares checks place percentages.
func ValidateShares(shares []int) error {
	if len(shares) == 0 {
		return ErrInvalidShares
	}
	sum := 0
	for _, s := range shares {
		if s <= 0 {
			return ErrInvalidShares
		}
		sum += s
	}
	if sum != 100 {
		return ErrInvalidShares
	}
	return nil
}

// Payout is the prize one place pays.
type Payout struct {
	Place  int
	Number int
	Amount int64
}

// Settlement is the result of splitting a pool among places.
type Settlement struct {
	Payouts  []Payout
	Rollover int64
}

// SplitPool pays place i the share shares[i] percent of pool (integer
// division) when winningNumbers[i] is in held. Unwon shares and the
// rounding remainder roll over to the next lottery.
func SplitPool(pool int64, shares []int, winningNumbers []int, held map[int]bool) Settlement {
	var st Settlement
	var paid int64
	for i, share := range shares {
		if i >= len(winningNumbers) {
			break
		}
		n := winningNumbers[i]
		if !held[n] {
			continue
		}
		amount := pool * int64(share) / 100
		st.Payouts = append(st.Payouts, Payout{Place: i + 1, Number: n, Amount: amount})
		paid += amount
	}
	st.Rollover = pool - paid
	return st
}
