package koki

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kokifi/lottery/pkg/domain"
	"github.com/kokifi/lottery/pkg/domain/koki"
	"github.com/kokifi/lottery/pkg/repository"
)

// Credit appends a credit-class row using the repositories of uow. Call it
// inside UnitOfWork.Do so it commits with the rest of the flow.
func Credit(
	ctx context.Context,
	uow repository.UnitOfWork,
	userID uuid.UUID,
	typ koki.TransactionType,
	amount int64,
	source string,
	sourceID *uuid.UUID,
	description string,
) (*koki.Transaction, error) {
	if !typ.IsCredit() {
		return nil, fmt.Errorf("%w: %q is not a credit", koki.ErrInvalidTransactionType, typ)
	}
	tx, err := koki.NewTransaction(userID, typ, amount, source, sourceID, description)
	if err != nil {
		return nil, err
	}
	repo, err := uow.KokiRepository()
	if err != nil {
		return nil, err
	}
	if err := repo.Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Debit locks the user, checks the derived balance and appends a debit-class
// row. Nothing is written when the balance does not cover amount.
func Debit(
	ctx context.Context,
	uow repository.UnitOfWork,
	userID uuid.UUID,
	typ koki.TransactionType,
	amount int64,
	source string,
	sourceID *uuid.UUID,
	description string,
) (*koki.Transaction, error) {
	if !typ.IsDebit() {
		return nil, fmt.Errorf("%w: %q is not a debit", koki.ErrInvalidTransactionType, typ)
	}
	tx, err := koki.NewTransaction(userID, typ, amount, source, sourceID, description)
	if err != nil {
		return nil, err
	}
	users, err := uow.UserRepository()
	if err != nil {
		return nil, err
	}
	if err := users.Lock(ctx, userID); err != nil {
		return nil, err
	}
	repo, err := uow.KokiRepository()
	if err != nil {
		return nil, err
	}
	balance, err := repo.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if balance < amount {
		return nil, koki.ErrInsufficientKoki
	}
	if err := repo.Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// RewardTicketPurchase credits the fixed per-ticket reward once per ticket.
func RewardTicketPurchase(
	ctx context.Context,
	uow repository.UnitOfWork,
	userID uuid.UUID,
	ticketID uuid.UUID,
	ticketPrice int64,
	reward int64,
) (*koki.Transaction, error) {
	repo, err := uow.KokiRepository()
	if err != nil {
		return nil, err
	}
	_, err = repo.FindBySource(ctx, koki.TypePurchaseReward, koki.SourceTicketPurchase, ticketID)
	if err == nil {
		return nil, koki.ErrAlreadyRewarded
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	tx, err := Credit(ctx, uow, userID, koki.TypePurchaseReward, reward,
		koki.SourceTicketPurchase, &ticketID,
		fmt.Sprintf("Recompensa por compra de boleto (%d)", ticketPrice))
	if errors.Is(err, domain.ErrAlreadyExists) {
		return nil, koki.ErrAlreadyRewarded
	}
	return tx, err
}
