package koki

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionTypeClasses(t *testing.T) {
	for _, typ := range CreditTypes() {
		assert.True(t, typ.IsCredit(), typ)
		assert.False(t, typ.IsDebit(), typ)
	}
	for _, typ := range DebitTypes() {
		assert.True(t, typ.IsDebit(), typ)
		assert.False(t, typ.IsCredit(), typ)
	}
	assert.False(t, TransactionType("refund").IsCredit())
	assert.False(t, TransactionType("refund").IsDebit())
}

func TestNewTransaction(t *testing.T) {
	userID := uuid.New()

	tx, err := NewTransaction(userID, TypeEarned, 15, SourceAdmin, nil, "")
	require.NoError(t, err)
	assert.Equal(t, userID, tx.UserID)
	assert.Equal(t, int64(15), tx.Amount)
	assert.NotEqual(t, uuid.Nil, tx.ID)

	_, err = NewTransaction(userID, TypeEarned, 0, SourceAdmin, nil, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = NewTransaction(userID, TypeSpent, -3, SourceAdmin, nil, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = NewTransaction(userID, "gift", 3, SourceAdmin, nil, "")
	assert.ErrorIs(t, err, ErrInvalidTransactionType)
}

func TestBalance(t *testing.T) {
	rows := []Transaction{
		{Type: TypeEarned, Amount: 10},
		{Type: TypeBonus, Amount: 5},
		{Type: TypeSpent, Amount: 3},
	}
	assert.Equal(t, int64(12), Balance(rows))

	rows = []Transaction{
		{Type: TypePurchaseReward, Amount: 5},
		{Type: TypeScratchPrize, Amount: 7},
		{Type: TypeRouletteCost, Amount: 10},
		{Type: TypeConversion, Amount: 2},
	}
	assert.Equal(t, int64(0), Balance(rows))
	assert.Equal(t, int64(0), Balance(nil))
}

func TestCreditTypesReturnsCopy(t *testing.T) {
	types := CreditTypes()
	types[0] = "mutated"
	assert.True(t, TypeEarned.IsCredit())
}
