package repository

import (
	"context"
	"fmt"
	"reflect"

	"github.com/kokifi/lottery/pkg/repository"
	"gorm.io/gorm"
)

// UoW provides the transaction boundary and repository access in one
// abstraction. Repositories handed out inside Do share the transaction.
type UoW struct {
	db           *gorm.DB
	tx           *gorm.DB
	repoRegistry map[reflect.Type]func(*gorm.DB) any
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{
		db: db,
		repoRegistry: map[reflect.Type]func(*gorm.DB) any{
			typeOf[repository.UserRepository]():         func(db *gorm.DB) any { return NewUserRepository(db) },
			typeOf[repository.KokiRepository]():         func(db *gorm.DB) any { return NewKokiRepository(db) },
			typeOf[repository.KoTicketRepository]():     func(db *gorm.DB) any { return NewKoTicketRepository(db) },
			typeOf[repository.LotteryRepository]():      func(db *gorm.DB) any { return NewLotteryRepository(db) },
			typeOf[repository.WeeklyFundRepository]():   func(db *gorm.DB) any { return NewWeeklyFundRepository(db) },
			typeOf[repository.SystemConfigRepository](): func(db *gorm.DB) any { return NewSystemConfigRepository(db) },
		},
	}
}

// Do runs fn in a transaction. Nested calls reuse the open transaction.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if u.tx != nil {
		return fn(u)
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry})
	})
}

// GetRepository returns the repository registered for repoType. Outside
// Do the repository runs on the plain connection pool.
func (u *UoW) GetRepository(repoType reflect.Type) (any, error) {
	constructor, ok := u.repoRegistry[repoType]
	if !ok {
		return nil, fmt.Errorf("unsupported repository type: %v", repoType)
	}
	session := u.tx
	if session == nil {
		session = u.db
	}
	return constructor(session), nil
}

func (u *UoW) UserRepository() (repository.UserRepository, error) {
	return repository.Get[repository.UserRepository](u)
}

func (u *UoW) KokiRepository() (repository.KokiRepository, error) {
	return repository.Get[repository.KokiRepository](u)
}

func (u *UoW) KoTicketRepository() (repository.KoTicketRepository, error) {
	return repository.Get[repository.KoTicketRepository](u)
}

func (u *UoW) LotteryRepository() (repository.LotteryRepository, error) {
	return repository.Get[repository.LotteryRepository](u)
}

func (u *UoW) WeeklyFundRepository() (repository.WeeklyFundRepository, error) {
	return repository.Get[repository.WeeklyFundRepository](u)
}

func (u *UoW) SystemConfigRepository() (repository.SystemConfigRepository, error) {
	return repository.Get[repository.SystemConfigRepository](u)
}

var _ repository.UnitOfWork = (*UoW)(nil)
