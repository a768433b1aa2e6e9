package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"dicepot/events"
	"dicepot/models"
)

// RecordBalanceChange records a balance history entry and emits appropriate events.
// This is the single entry point for all balance changes in the system.
func RecordBalanceChange(ctx context.Context, uow UnitOfWork, history *models.BalanceHistory) error {
	if err := uow.BalanceHistoryRepository().Record(ctx, history); err != nil {
		return fmt.Errorf("failed to record balance history: %w", err)
	}

	// Flushed only after the transaction commits
	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          history.UserID,
		OldBalance:      history.BalanceBefore,
		NewBalance:      history.BalanceAfter,
		TransactionType: history.TransactionType,
		ChangeAmount:    history.ChangeAmount,
	})

	if history.TransactionType == models.TransactionTypeInitial {
		name, _ := history.TransactionMetadata["name"].(string)
		uow.EventBus().Publish(events.UserCreatedEvent{
			UserID:         history.UserID,
			Name:           name,
			InitialBalance: history.BalanceAfter,
		})
	}

	return nil
}

// roundRelation returns the related id/type pair pointing a ledger entry at a round
func roundRelation(round *models.Round) (*models.RelatedType, *uuid.UUID) {
	relatedType := models.RelatedTypeRound
	id := round.ID
	return &relatedType, &id
}
