package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of balance change
type TransactionType string

const (
	TransactionTypeInitial    TransactionType = "initial"
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeStake      TransactionType = "stake"
	TransactionTypeCashOut    TransactionType = "cash_out"
)

// RelatedType represents what type of entity the related_id refers to
type RelatedType string

const (
	RelatedTypeRound RelatedType = "round"
)

// BalanceHistory represents a historical balance change
type BalanceHistory struct {
	ID                  int64           `db:"id" json:"id"`
	UserID              uuid.UUID       `db:"user_id" json:"userId"`
	BalanceBefore       decimal.Decimal `db:"balance_before" json:"balanceBefore"`
	BalanceAfter        decimal.Decimal `db:"balance_after" json:"balanceAfter"`
	ChangeAmount        decimal.Decimal `db:"change_amount" json:"changeAmount"`
	TransactionType     TransactionType `db:"transaction_type" json:"transactionType"`
	TransactionMetadata map[string]any  `db:"transaction_metadata" json:"metadata,omitempty"`
	RelatedID           *uuid.UUID      `db:"related_id" json:"relatedId,omitempty"`
	RelatedType         *RelatedType    `db:"related_type" json:"relatedType,omitempty"`
	CreatedAt           time.Time       `db:"created_at" json:"createdAt"`
}
