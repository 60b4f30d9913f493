package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kokifi/lottery/pkg/domain/fund"
	"github.com/kokifi/lottery/pkg/repository"
	"gorm.io/gorm"
)

type weeklyFundRepository struct {
	db *gorm.DB
}

// NewWeeklyFundRepository creates a WeeklyFundRepository bound to db.
func NewWeeklyFundRepository(db *gorm.DB) repository.WeeklyFundRepository {
	return &weeklyFundRepository{db: db}
}

func (r *weeklyFundRepository) Create(ctx context.Context, f *fund.WeeklyFund) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(&WeeklyFund{
			ID:          f.ID,
			WeekStart:   f.WeekStart.UTC(),
			TotalIncome: f.TotalIncome,
			CapitalBase: f.CapitalBase,
			PrizeFund:   f.PrizeFund,
			NetProfit:   f.NetProfit,
			LotteryID:   f.LotteryID,
			CreatedAt:   f.CreatedAt.UTC(),
		}).Error
	})
}

func (r *weeklyFundRepository) GetByWeekStart(ctx context.Context, weekStart time.Time) (*fund.WeeklyFund, error) {
	var m WeeklyFund
	err := r.db.WithContext(ctx).Where("week_start = ?", weekStart.UTC()).First(&m).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return toWeeklyFund(&m), nil
}

func (r *weeklyFundRepository) ListByLottery(ctx context.Context, lotteryID uuid.UUID) ([]*fund.WeeklyFund, error) {
	return r.find(r.db.WithContext(ctx).Where("lottery_id = ?", lotteryID).Order("week_start ASC"))
}

func (r *weeklyFundRepository) List(ctx context.Context, limit int) ([]*fund.WeeklyFund, error) {
	q := r.db.WithContext(ctx).Order("week_start DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return r.find(q)
}

func (r *weeklyFundRepository) find(q *gorm.DB) ([]*fund.WeeklyFund, error) {
	var rows []WeeklyFund
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*fund.WeeklyFund, 0, len(rows))
	for i := range rows {
		out = append(out, toWeeklyFund(&rows[i]))
	}
	return out, nil
}

func toWeeklyFund(m *WeeklyFund) *fund.WeeklyFund {
	return &fund.WeeklyFund{
		ID:          m.ID,
		WeekStart:   m.WeekStart,
		TotalIncome: m.TotalIncome,
		CapitalBase: m.CapitalBase,
		PrizeFund:   m.PrizeFund,
		NetProfit:   m.NetProfit,
		LotteryID:   m.LotteryID,
		CreatedAt:   m.CreatedAt,
	}
}
