package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kokifi/lottery/pkg/domain"
	"github.com/kokifi/lottery/pkg/domain/koki"
	"github.com/kokifi/lottery/pkg/repository"
	"gorm.io/gorm"
)

const balanceQuery = `SELECT CAST(COALESCE(SUM(CASE ` +
	`WHEN transaction_type IN ? THEN amount ` +
	`WHEN transaction_type IN ? THEN -amount ` +
	`ELSE 0 END), 0) AS BIGINT) FROM koki_transactions WHERE user_id = ?`

type kokiRepository struct {
	db *gorm.DB
}

// NewKokiRepository creates a KokiRepository bound to db.
func NewKokiRepository(db *gorm.DB) repository.KokiRepository {
	return &kokiRepository{db: db}
}

func (r *kokiRepository) Create(ctx context.Context, tx *koki.Transaction) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(fromKokiTransaction(tx)).Error
	})
}

func (r *kokiRepository) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	var balance int64
	row := r.db.WithContext(ctx).
		Raw(balanceQuery, typeNames(koki.CreditTypes()), typeNames(koki.DebitTypes()), userID).
		Row()
	if err := row.Scan(&balance); err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *kokiRepository) List(ctx context.Context, userID uuid.UUID, limit int) ([]*koki.Transaction, error) {
	var rows []KokiTransaction
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*koki.Transaction, 0, len(rows))
	for i := range rows {
		out = append(out, toKokiTransaction(&rows[i]))
	}
	return out, nil
}

func (r *kokiRepository) CountSince(
	ctx context.Context,
	userID uuid.UUID,
	typ koki.TransactionType,
	since time.Time,
) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&KokiTransaction{}).
		Where("user_id = ? AND transaction_type = ? AND created_at >= ?", userID, string(typ), since.UTC()).
		Count(&count).Error
	return count, err
}

func (r *kokiRepository) FindBySource(
	ctx context.Context,
	typ koki.TransactionType,
	source string,
	sourceID uuid.UUID,
) (*koki.Transaction, error) {
	var m KokiTransaction
	err := r.db.WithContext(ctx).
		Where("transaction_type = ? AND source = ? AND source_id = ?", string(typ), source, sourceID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return toKokiTransaction(&m), nil
}

func typeNames(types []koki.TransactionType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

func fromKokiTransaction(tx *koki.Transaction) *KokiTransaction {
	return &KokiTransaction{
		ID:              tx.ID,
		UserID:          tx.UserID,
		TransactionType: string(tx.Type),
		Amount:          tx.Amount,
		Source:          tx.Source,
		SourceID:        tx.SourceID,
		Description:     tx.Description,
		CreatedAt:       tx.CreatedAt.UTC(),
	}
}

func toKokiTransaction(m *KokiTransaction) *koki.Transaction {
	return &koki.Transaction{
		ID:          m.ID,
		UserID:      m.UserID,
		Type:        koki.TransactionType(m.TransactionType),
		Amount:      m.Amount,
		Source:      m.Source,
		SourceID:    m.SourceID,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}
