package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kokifi/lottery/pkg/domain/fund"
	"github.com/kokifi/lottery/pkg/domain/game"
	"github.com/kokifi/lottery/pkg/domain/koki"
	"github.com/kokifi/lottery/pkg/domain/lottery"
	"github.com/kokifi/lottery/pkg/domain/user"
)

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	Get(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// Lock takes the per-user write lock for the rest of the transaction.
	Lock(ctx context.Context, id uuid.UUID) error
	// DebitBalance subtracts amount only if the balance covers it.
	// countTicket also bumps tickets_count and total_spent.
	DebitBalance(ctx context.Context, id uuid.UUID, amount int64, countTicket bool) error
	CreditBalance(ctx context.Context, id uuid.UUID, amount int64) error
	UpdateAvatar(ctx context.Context, id uuid.UUID, avatar string) error
	SetLastKoTicketAt(ctx context.Context, id uuid.UUID, at time.Time) error
}

// KokiRepository is the append-only KOKI ledger.
type KokiRepository interface {
	Create(ctx context.Context, tx *koki.Transaction) error
	// Balance is credits minus debits over the user's rows; 0 for no rows.
	Balance(ctx context.Context, userID uuid.UUID) (int64, error)
	List(ctx context.Context, userID uuid.UUID, limit int) ([]*koki.Transaction, error)
	CountSince(ctx context.Context, userID uuid.UUID, typ koki.TransactionType, since time.Time) (int64, error)
	FindBySource(ctx context.Context, typ koki.TransactionType, source string, sourceID uuid.UUID) (*koki.Transaction, error)
}

// KoTicketRepository stores scratch cards.
type KoTicketRepository interface {
	Create(ctx context.Context, kt *game.KoTicket) error
	Get(ctx context.Context, id uuid.UUID) (*game.KoTicket, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*game.KoTicket, error)
	CountUnscratched(ctx context.Context, userID uuid.UUID) (int64, error)
	// MarkScratched flips is_scratched from false to true. It reports false
	// when no unscratched row of that user matched.
	MarkScratched(ctx context.Context, id, userID uuid.UUID, prize int64, at time.Time) (bool, error)
}

// LotteryRepository stores lotteries, their tickets and winners.
type LotteryRepository interface {
	Create(ctx context.Context, l *lottery.Lottery) error
	Get(ctx context.Context, id uuid.UUID) (*lottery.Lottery, error)
	GetActive(ctx context.Context) (*lottery.Lottery, error)
	// FindContaining returns the active lottery whose window contains t.
	FindContaining(ctx context.Context, t time.Time) (*lottery.Lottery, error)
	List(ctx context.Context, limit int) ([]*lottery.Lottery, error)
	AddSale(ctx context.Context, id uuid.UUID, price int64) error
	// Complete closes an active lottery; it fails with domain.ErrConflict
	// when the lottery was not active anymore.
	Complete(ctx context.Context, l *lottery.Lottery) error

	CreateTicket(ctx context.Context, t *lottery.Ticket) error
	GetTicket(ctx context.Context, id uuid.UUID) (*lottery.Ticket, error)
	ListTickets(ctx context.Context, lotteryID uuid.UUID) ([]*lottery.Ticket, error)
	ListUserTickets(ctx context.Context, userID uuid.UUID, lotteryID *uuid.UUID) ([]*lottery.Ticket, error)
	TakenNumbers(ctx context.Context, lotteryID uuid.UUID) (map[int]bool, error)

	CreateWinner(ctx context.Context, w *lottery.Winner) error
	ListWinners(ctx context.Context, lotteryID uuid.UUID) ([]*lottery.Winner, error)
}

// WeeklyFundRepository stores weekly income splits.
type WeeklyFundRepository interface {
	Create(ctx context.Context, f *fund.WeeklyFund) error
	GetByWeekStart(ctx context.Context, weekStart time.Time) (*fund.WeeklyFund, error)
	ListByLottery(ctx context.Context, lotteryID uuid.UUID) ([]*fund.WeeklyFund, error)
	List(ctx context.Context, limit int) ([]*fund.WeeklyFund, error)
}

// SystemConfigRepository stores key/value settings.
type SystemConfigRepository interface {
	All(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
	// SeedDefaults inserts the given keys that are missing.
	SeedDefaults(ctx context.Context, defaults map[string]string) error
}
