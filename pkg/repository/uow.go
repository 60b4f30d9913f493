package repository

import (
	"context"
	"fmt"
	"reflect"
)

// UnitOfWork defines the contract for transactional work and type-safe
// repository access. Every repository obtained inside Do shares the same
// transaction.
//
// Example usage:
//
//	repoAny, err := uow.GetRepository(reflect.TypeOf((*UserRepository)(nil)).Elem())
//	repo := repoAny.(UserRepository)
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. If fn returns an error
	// the transaction is rolled back.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository returns a repository of the requested type bound to the
	// current transaction/session.
	GetRepository(repoType reflect.Type) (any, error)

	UserRepository() (UserRepository, error)
	KokiRepository() (KokiRepository, error)
	KoTicketRepository() (KoTicketRepository, error)
	LotteryRepository() (LotteryRepository, error)
	WeeklyFundRepository() (WeeklyFundRepository, error)
	SystemConfigRepository() (SystemConfigRepository, error)
}

// Get is a typed shortcut over GetRepository.
func Get[T any](uow UnitOfWork) (T, error) {
	var zero T
	repoAny, err := uow.GetRepository(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return zero, err
	}
	repo, ok := repoAny.(T)
	if !ok {
		return zero, fmt.Errorf("repository has type %T, want %v", repoAny, reflect.TypeOf((*T)(nil)).Elem())
	}
	return repo, nil
}
