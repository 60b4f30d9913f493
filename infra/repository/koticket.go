package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kokifi/lottery/pkg/domain/game"
	"github.com/kokifi/lottery/pkg/repository"
	"gorm.io/gorm"
)

type koTicketRepository struct {
	db *gorm.DB
}

// NewKoTicketRepository creates a KoTicketRepository bound to db.
func NewKoTicketRepository(db *gorm.DB) repository.KoTicketRepository {
	return &koTicketRepository{db: db}
}

func (r *koTicketRepository) Create(ctx context.Context, kt *game.KoTicket) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(&KoTicket{
			ID:           kt.ID,
			UserID:       kt.UserID,
			PurchaseTime: kt.PurchaseTime.UTC(),
			IsScratched:  kt.IsScratched,
			PrizeAmount:  kt.PrizeAmount,
			ScratchDate:  kt.ScratchDate,
		}).Error
	})
}

func (r *koTicketRepository) Get(ctx context.Context, id uuid.UUID) (*game.KoTicket, error) {
	var m KoTicket
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, game.ErrKoTicketNotFound
	}
	if err != nil {
		return nil, err
	}
	return toKoTicket(&m), nil
}

func (r *koTicketRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*game.KoTicket, error) {
	var rows []KoTicket
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_scratched ASC, purchase_time DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*game.KoTicket, 0, len(rows))
	for i := range rows {
		out = append(out, toKoTicket(&rows[i]))
	}
	return out, nil
}

func (r *koTicketRepository) CountUnscratched(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&KoTicket{}).
		Where("user_id = ? AND is_scratched = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *koTicketRepository) MarkScratched(
	ctx context.Context,
	id, userID uuid.UUID,
	prize int64,
	at time.Time,
) (bool, error) {
	res := r.db.WithContext(ctx).Model(&KoTicket{}).
		Where("id = ? AND user_id = ? AND is_scratched = ?", id, userID, false).
		UpdateColumns(map[string]any{
			"is_scratched": true,
			"prize_amount": prize,
			"scratch_date": at.UTC(),
		})
	if res.Error != nil {
		return false, MapGormErrorToDomain(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func toKoTicket(m *KoTicket) *game.KoTicket {
	return &game.KoTicket{
		ID:           m.ID,
		UserID:       m.UserID,
		PurchaseTime: m.PurchaseTime,
		IsScratched:  m.IsScratched,
		PrizeAmount:  m.PrizeAmount,
		ScratchDate:  m.ScratchDate,
	}
}
