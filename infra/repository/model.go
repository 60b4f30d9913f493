package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a user record in the database.
type User struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Username       string     `gorm:"uniqueIndex;not null;size:50"`
	Email          string     `gorm:"uniqueIndex;not null;size:255"`
	Password       string     `gorm:"not null"`
	Avatar         string     `gorm:"size:64"`
	Balance        int64      `gorm:"not null;default:0"`
	TicketsCount   int64      `gorm:"not null;default:0"`
	TotalSpent     int64      `gorm:"not null;default:0"`
	IsVerified     bool       `gorm:"not null;default:false"`
	LastKoTicketAt *time.Time `gorm:"column:last_koticket_at"`
	// KokiVersion is bumped to serialise KOKI spends of one user.
	KokiVersion int64 `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// KokiTransaction is one append-only ledger row.
type KokiTransaction struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index:idx_koki_user_created,priority:1"`
	TransactionType string     `gorm:"size:32;not null;index"`
	Amount          int64      `gorm:"not null;check:chk_koki_amount_positive,amount > 0"`
	Source          string     `gorm:"size:64"`
	SourceID        *uuid.UUID `gorm:"type:uuid"`
	Description     string     `gorm:"size:255"`
	CreatedAt       time.Time  `gorm:"index:idx_koki_user_created,priority:2"`
}

// KoTicket is a free scratch card.
type KoTicket struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	PurchaseTime time.Time  `gorm:"not null"`
	IsScratched  bool       `gorm:"not null;default:false"`
	PrizeAmount  int64      `gorm:"not null;default:0"`
	ScratchDate  *time.Time
}

func (KoTicket) TableName() string { return "kotickets" }

// Lottery is one weekly draw period.
type Lottery struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Status         string     `gorm:"size:16;not null;index"`
	StartDate      time.Time  `gorm:"not null"`
	EndDate        time.Time  `gorm:"not null;index"`
	WinningNumbers []int      `gorm:"serializer:json;type:text"`
	TotalPool      int64      `gorm:"not null;default:0"`
	TotalTickets   int64      `gorm:"not null;default:0"`
	TicketPrice    int64      `gorm:"not null"`
	RolloverIn     int64      `gorm:"not null;default:0"`
	RolloverOut    int64      `gorm:"not null;default:0"`
	WinnerID       *uuid.UUID `gorm:"type:uuid"`
	DrawnAt        *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Ticket is a sold lottery number. (lottery_id, number) is unique.
type Ticket struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	LotteryID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ticket_lottery_number,priority:1"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Number      int       `gorm:"not null;uniqueIndex:idx_ticket_lottery_number,priority:2"`
	Price       int64     `gorm:"not null"`
	PurchasedAt time.Time `gorm:"not null"`
}

// LotteryWinner is a paid place of a draw.
type LotteryWinner struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	LotteryID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_winner_lottery_place,priority:1"`
	TicketID    uuid.UUID `gorm:"type:uuid;not null"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Place       int       `gorm:"not null;uniqueIndex:idx_winner_lottery_place,priority:2"`
	Number      int       `gorm:"not null"`
	PrizeAmount int64     `gorm:"not null"`
	CreatedAt   time.Time
}

// SystemConfig is one key/value setting.
type SystemConfig struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (SystemConfig) TableName() string { return "system_config" }

// WeeklyFund is the split of one week's income.
type WeeklyFund struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	WeekStart   time.Time       `gorm:"not null;uniqueIndex"`
	TotalIncome decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	CapitalBase decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	PrizeFund   decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	NetProfit   decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	LotteryID   *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt   time.Time
}

// Models lists every table for migrations.
func Models() []any {
	return []any{
		&User{},
		&KokiTransaction{},
		&KoTicket{},
		&Lottery{},
		&Ticket{},
		&LotteryWinner{},
		&SystemConfig{},
		&WeeklyFund{},
	}
}
