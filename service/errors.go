package service

import "errors"

var (
	ErrRoundNotFound       = errors.New("round not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrForbidden           = errors.New("round belongs to another user")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInvalidAddress      = errors.New("invalid wallet address")
	ErrStakeNotAllowed     = errors.New("stake is not one of the allowed amounts")
	ErrDailyLimitReached   = errors.New("daily stake limit reached")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidInput        = errors.New("invalid input")

	// ErrAlreadyExists is returned by repositories on a unique constraint violation
	ErrAlreadyExists = errors.New("already exists")
)
