package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kokifi/lottery/pkg/domain"
	"github.com/kokifi/lottery/pkg/domain/lottery"
	"github.com/kokifi/lottery/pkg/repository"
	"gorm.io/gorm"
)

type lotteryRepository struct {
	db *gorm.DB
}

// NewLotteryRepository creates a LotteryRepository bound to db.
func NewLotteryRepository(db *gorm.DB) repository.LotteryRepository {
	return &lotteryRepository{db: db}
}

func (r *lotteryRepository) Create(ctx context.Context, l *lottery.Lottery) error {
	err := WrapError(func() error {
		return r.db.WithContext(ctx).Create(fromLottery(l)).Error
	})
	// The partial unique index on status allows a single active lottery.
	if errors.Is(err, domain.ErrAlreadyExists) && l.Status == lottery.StatusActive {
		return domain.ErrConflict
	}
	return err
}

func (r *lotteryRepository) Get(ctx context.Context, id uuid.UUID) (*lottery.Lottery, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *lotteryRepository) GetActive(ctx context.Context) (*lottery.Lottery, error) {
	l, err := r.first(r.db.WithContext(ctx).Where("status = ?", string(lottery.StatusActive)))
	if errors.Is(err, lottery.ErrLotteryNotFound) {
		return nil, lottery.ErrNoActiveLottery
	}
	return l, err
}

func (r *lotteryRepository) FindContaining(ctx context.Context, t time.Time) (*lottery.Lottery, error) {
	t = t.UTC()
	return r.first(r.db.WithContext(ctx).
		Where("status = ? AND start_date <= ? AND end_date > ?", string(lottery.StatusActive), t, t).
		Order("start_date DESC"))
}

func (r *lotteryRepository) first(q *gorm.DB) (*lottery.Lottery, error) {
	var m Lottery
	err := q.First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, lottery.ErrLotteryNotFound
	}
	if err != nil {
		return nil, err
	}
	return toLottery(&m), nil
}

func (r *lotteryRepository) List(ctx context.Context, limit int) ([]*lottery.Lottery, error) {
	var rows []Lottery
	q := r.db.WithContext(ctx).Order("start_date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*lottery.Lottery, 0, len(rows))
	for i := range rows {
		out = append(out, toLottery(&rows[i]))
	}
	return out, nil
}

func (r *lotteryRepository) AddSale(ctx context.Context, id uuid.UUID, price int64) error {
	res := r.db.WithContext(ctx).Model(&Lottery{}).
		Where("id = ? AND status = ?", id, string(lottery.StatusActive)).
		UpdateColumns(map[string]any{
			"total_pool":    gorm.Expr("total_pool + ?", price),
			"total_tickets": gorm.Expr("total_tickets + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return lottery.ErrLotteryClosed
	}
	return nil
}

func (r *lotteryRepository) Complete(ctx context.Context, l *lottery.Lottery) error {
	numbers, err := json.Marshal(l.WinningNumbers)
	if err != nil {
		return err
	}
	var drawnAt *time.Time
	if l.DrawnAt != nil {
		t := l.DrawnAt.UTC()
		drawnAt = &t
	}
	res := r.db.WithContext(ctx).Model(&Lottery{}).
		Where("id = ? AND status = ?", l.ID, string(lottery.StatusActive)).
		UpdateColumns(map[string]any{
			"status":          string(lottery.StatusCompleted),
			"winning_numbers": string(numbers),
			"winner_id":       l.WinnerID,
			"drawn_at":        drawnAt,
			"rollover_out":    l.RolloverOut,
			"updated_at":      time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *lotteryRepository) CreateTicket(ctx context.Context, t *lottery.Ticket) error {
	err := WrapError(func() error {
		return r.db.WithContext(ctx).Create(&Ticket{
			ID:          t.ID,
			LotteryID:   t.LotteryID,
			UserID:      t.UserID,
			Number:      t.Number,
			Price:       t.Price,
			PurchasedAt: t.PurchasedAt.UTC(),
		}).Error
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		return lottery.ErrNumberTaken
	}
	return err
}

func (r *lotteryRepository) GetTicket(ctx context.Context, id uuid.UUID) (*lottery.Ticket, error) {
	var m Ticket
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return toTicket(&m), nil
}

func (r *lotteryRepository) ListTickets(ctx context.Context, lotteryID uuid.UUID) ([]*lottery.Ticket, error) {
	return r.findTickets(r.db.WithContext(ctx).Where("lottery_id = ?", lotteryID).Order("number ASC"))
}

func (r *lotteryRepository) ListUserTickets(
	ctx context.Context,
	userID uuid.UUID,
	lotteryID *uuid.UUID,
) ([]*lottery.Ticket, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if lotteryID != nil {
		q = q.Where("lottery_id = ?", *lotteryID)
	}
	return r.findTickets(q.Order("purchased_at DESC"))
}

func (r *lotteryRepository) findTickets(q *gorm.DB) ([]*lottery.Ticket, error) {
	var rows []Ticket
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*lottery.Ticket, 0, len(rows))
	for i := range rows {
		out = append(out, toTicket(&rows[i]))
	}
	return out, nil
}

func (r *lotteryRepository) TakenNumbers(ctx context.Context, lotteryID uuid.UUID) (map[int]bool, error) {
	var numbers []int
	err := r.db.WithContext(ctx).Model(&Ticket{}).
		Where("lottery_id = ?", lotteryID).
		Pluck("number", &numbers).Error
	if err != nil {
		return nil, err
	}
	taken := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		taken[n] = true
	}
	return taken, nil
}

func (r *lotteryRepository) CreateWinner(ctx context.Context, w *lottery.Winner) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(&LotteryWinner{
			ID:          w.ID,
			LotteryID:   w.LotteryID,
			TicketID:    w.TicketID,
			UserID:      w.UserID,
			Place:       w.Place,
			Number:      w.Number,
			PrizeAmount: w.PrizeAmount,
			CreatedAt:   w.CreatedAt.UTC(),
		}).Error
	})
}

func (r *lotteryRepository) ListWinners(ctx context.Context, lotteryID uuid.UUID) ([]*lottery.Winner, error) {
	var rows []LotteryWinner
	err := r.db.WithContext(ctx).Where("lottery_id = ?", lotteryID).Order("place ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*lottery.Winner, 0, len(rows))
	for _, m := range rows {
		out = append(out, &lottery.Winner{
			ID:          m.ID,
			LotteryID:   m.LotteryID,
			TicketID:    m.TicketID,
			UserID:      m.UserID,
			Place:       m.Place,
			Number:      m.Number,
			PrizeAmount: m.PrizeAmount,
			CreatedAt:   m.CreatedAt,
		})
	}
	return out, nil
}

func fromLottery(l *lottery.Lottery) *Lottery {
	return &Lottery{
		ID:             l.ID,
		Status:         string(l.Status),
		StartDate:      l.StartDate.UTC(),
		EndDate:        l.EndDate.UTC(),
		WinningNumbers: l.WinningNumbers,
		TotalPool:      l.TotalPool,
		TotalTickets:   l.TotalTickets,
		TicketPrice:    l.TicketPrice,
		RolloverIn:     l.RolloverIn,
		RolloverOut:    l.RolloverOut,
		WinnerID:       l.WinnerID,
		DrawnAt:        l.DrawnAt,
		CreatedAt:      l.CreatedAt.UTC(),
	}
}

func toLottery(m *Lottery) *lottery.Lottery {
	return &lottery.Lottery{
		ID:             m.ID,
		Status:         lottery.Status(m.Status),
		StartDate:      m.StartDate,
		EndDate:        m.EndDate,
		WinningNumbers: m.WinningNumbers,
		TotalPool:      m.TotalPool,
		TotalTickets:   m.TotalTickets,
		TicketPrice:    m.TicketPrice,
		RolloverIn:     m.RolloverIn,
		RolloverOut:    m.RolloverOut,
		WinnerID:       m.WinnerID,
		DrawnAt:        m.DrawnAt,
		CreatedAt:      m.CreatedAt,
	}
}

func toTicket(m *Ticket) *lottery.Ticket {
	return &lottery.Ticket{
		ID:          m.ID,
		LotteryID:   m.LotteryID,
		UserID:      m.UserID,
		Number:      m.Number,
		Price:       m.Price,
		PurchasedAt: m.PurchasedAt,
	}
}
