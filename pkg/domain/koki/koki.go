// Package koki models the KOKI point ledger. A user's KOKI balance is never
// stored; it is derived from the append-only list of transactions.
package koki

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInsufficientKoki is returned when a spend exceeds the derived balance.
	ErrInsufficientKoki = errors.New("insufficient koki balance")
	// ErrInvalidAmount is returned for zero or negative point amounts.
	ErrInvalidAmount = errors.New("koki amount must be positive")
	// ErrInvalidTransactionType is returned for types outside the credit/debit classes
	// or a type used on the wrong side of the ledger.
	ErrInvalidTransactionType = errors.New("invalid koki transaction type")
	// ErrAlreadyRewarded is returned when a ticket purchase was already rewarded.
	ErrAlreadyRewarded = errors.New("ticket purchase already rewarded")
	// ErrDailyBonusClaimed is returned when today's bonus was already credited.
	ErrDailyBonusClaimed = errors.New("daily bonus already claimed")
	// ErrRouletteLocked is returned when the user has not reached the unlock threshold.
	ErrRouletteLocked = errors.New("roulette locked")
)

// TransactionType classifies a ledger row.
type TransactionType string

const (
	TypeEarned         TransactionType = "earned"
	TypeBonus          TransactionType = "bonus"
	TypePurchaseReward TransactionType = "purchase_reward"
	TypeDailyBonus     TransactionType = "daily_bonus"
	TypeScratchPrize   TransactionType = "scratch_prize"
	TypeRoulettePrize  TransactionType = "roulette_prize"
	TypePurchase       TransactionType = "purchase"

	TypeSpent        TransactionType = "spent"
	TypeRouletteCost TransactionType = "roulette_cost"
	TypeConversion   TransactionType = "conversion"
)

// Sources recorded on ledger rows.
const (
	SourceTicketPurchase = "ticket_purchase"
	SourceDailyBonus     = "daily_bonus"
	SourceKoTicket       = "koticket"
	SourceRoulette       = "roulette"
	SourceShop           = "koki_shop"
	SourceConversion     = "balance_conversion"
	SourceAdmin          = "admin"
)

var creditTypes = []TransactionType{
	TypeEarned, TypeBonus, TypePurchaseReward, TypeDailyBonus,
	TypeScratchPrize, TypeRoulettePrize, TypePurchase,
}

var debitTypes = []TransactionType{
	TypeSpent, TypeRouletteCost, TypeConversion,
}

// CreditTypes returns the types that add to the balance.
func CreditTypes() []TransactionType {
	return append([]TransactionType(nil), creditTypes...)
}

// DebitTypes returns the types that subtract from the balance.
func DebitTypes() []TransactionType {
	return append([]TransactionType(nil), debitTypes...)
}

// IsCredit reports whether t adds to the balance.
func (t TransactionType) IsCredit() bool {
	for _, c := range creditTypes {
		if c == t {
			return true
		}
	}
	return false
}

// IsDebit reports whether t subtracts from the balance.
func (t TransactionType) IsDebit() bool {
	for _, d := range debitTypes {
		if d == t {
			return true
		}
	}
	return false
}

// Transaction is one immutable ledger row.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Type        TransactionType `json:"transaction_type"`
	Amount      int64           `json:"amount"`
	Source      string          `json:"source"`
	SourceID    *uuid.UUID      `json:"source_id,omitempty"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Signed returns the amount with the sign the row contributes to the balance.
func (t Transaction) Signed() int64 {
	if t.Type.IsDebit() {
		return -t.Amount
	}
	if t.Type.IsCredit() {
		return t.Amount
	}
	return 0
}

// NewTransaction validates and builds a ledger row.
func NewTransaction(
	userID uuid.UUID,
	typ TransactionType,
	amount int64,
	source string,
	sourceID *uuid.UUID,
	description string,
) (*Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !typ.IsCredit() && !typ.IsDebit() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTransactionType, typ)
	}
	return &Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        typ,
		Amount:      amount,
		Source:      source,
		SourceID:    sourceID,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Balance folds a set of rows into the derived balance.
func Balance(txs []Transaction) int64 {
	var total int64
	for _, tx := range txs {
		total += tx.Signed()
	}
	return total
}
