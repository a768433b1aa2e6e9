package service

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"dicepot/models"
)

const (
	// DefaultHistoryLimit is used when a caller asks for a non-positive page size
	DefaultHistoryLimit = 50
	// MaxHistoryLimit caps list queries
	MaxHistoryLimit = 200

	WithdrawalStatusPending = "pending"
)

var walletAddressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// walletService implements the WalletService interface
type walletService struct {
	uowFactory UnitOfWorkFactory
}

// NewWalletService creates a new wallet service
func NewWalletService(uowFactory UnitOfWorkFactory) WalletService {
	return &walletService{uowFactory: uowFactory}
}

// ValidateAmount checks an amount is positive with at most two decimal places
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("%w: at most two decimal places", ErrInvalidAmount)
	}
	return nil
}

// IsValidWalletAddress reports whether an address looks like an ERC20 address
func IsValidWalletAddress(address string) bool {
	return walletAddressPattern.MatchString(address)
}

// Deposit credits a simulated top-up and returns the new balance
func (s *walletService) Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	newBalance, err := uow.UserRepository().AddBalance(ctx, userID, amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to credit deposit: %w", err)
	}

	history := &models.BalanceHistory{
		UserID:          userID,
		BalanceBefore:   newBalance.Sub(amount),
		BalanceAfter:    newBalance,
		ChangeAmount:    amount,
		TransactionType: models.TransactionTypeDeposit,
		TransactionMetadata: map[string]any{
			"note": "simulated top-up",
		},
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return decimal.Zero, fmt.Errorf("failed to record balance change: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return decimal.Zero, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userID": userID,
		"amount": amount.StringFixed(2),
	}).Info("Deposit credited")

	return newBalance, nil
}

// Withdraw debits a simulated withdrawal request to an address and returns the new balance
func (s *walletService) Withdraw(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, address string) (decimal.Decimal, error) {
	if err := ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}
	if !IsValidWalletAddress(address) {
		return decimal.Zero, ErrInvalidAddress
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	newBalance, err := uow.UserRepository().DeductBalance(ctx, userID, amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to debit withdrawal: %w", err)
	}

	history := &models.BalanceHistory{
		UserID:          userID,
		BalanceBefore:   newBalance.Add(amount),
		BalanceAfter:    newBalance,
		ChangeAmount:    amount.Neg(),
		TransactionType: models.TransactionTypeWithdrawal,
		TransactionMetadata: map[string]any{
			"address": address,
			"status":  WithdrawalStatusPending,
		},
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return decimal.Zero, fmt.Errorf("failed to record balance change: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return decimal.Zero, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":  userID,
		"amount":  amount.StringFixed(2),
		"address": address,
	}).Info("Withdrawal requested")

	return newBalance, nil
}

// History returns a user's ledger entries, newest first
func (s *walletService) History(ctx context.Context, userID uuid.UUID, limit int) ([]*models.BalanceHistory, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	history, err := uow.BalanceHistoryRepository().GetByUser(ctx, userID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to get balance history: %w", err)
	}
	return history, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		return MaxHistoryLimit
	}
	return limit
}
