package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dicepot/events"
	"dicepot/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByEmail retrieves a user by email (case-insensitive)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByDiscordID retrieves a user linked to a Discord account
	GetByDiscordID(ctx context.Context, discordID int64) (*models.User, error)

	// Create creates a new user. Returns ErrAlreadyExists on a unique violation.
	Create(ctx context.Context, user *models.NewUser) (*models.User, error)

	// UpdateProfile applies the non-nil fields of the update
	UpdateProfile(ctx context.Context, id uuid.UUID, update models.ProfileUpdate) (*models.User, error)

	// AddBalance adds to a user's balance atomically and returns the new balance
	AddBalance(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)

	// DeductBalance deducts from a user's balance atomically, failing with
	// ErrInsufficientBalance rather than going negative. Returns the new balance.
	DeductBalance(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
}

// RoundRepository defines the interface for round data access
type RoundRepository interface {
	// Create inserts a new round
	Create(ctx context.Context, round *models.Round) error

	// GetByID retrieves a round by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.Round, error)

	// GetByIDForUpdate retrieves a round and locks its row until the transaction ends
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Round, error)

	// Update persists pot, score, rolls, status and timestamps of a round
	Update(ctx context.Context, round *models.Round) error

	// ListByUser returns a user's most recent rounds
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Round, error)

	// GetActiveByUser returns the user's most recent ACTIVE round, if any
	GetActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Round, error)

	// SumStakesSince returns the total staked by a user since a given time
	SumStakesSince(ctx context.Context, userID uuid.UUID, since time.Time) (decimal.Decimal, error)

	// GetStats returns aggregated round statistics for a user
	GetStats(ctx context.Context, userID uuid.UUID) (*models.RoundStats, error)
}

// BalanceHistoryRepository defines the interface for balance history tracking
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *models.BalanceHistory) error

	// GetByUser returns balance history for a specific user, newest first
	GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.BalanceHistory, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes queued events
	Commit() error

	// Rollback rolls back the transaction and discards queued events
	Rollback() error

	UserRepository() UserRepository
	RoundRepository() RoundRepository
	BalanceHistoryRepository() BalanceHistoryRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UserService defines the interface for account operations
type UserService interface {
	// Register creates an email/password account with the starting balance
	Register(ctx context.Context, email, password, name string, phone *string) (*models.User, error)

	// Login verifies credentials and returns the user
	Login(ctx context.Context, email, password string) (*models.User, error)

	// GetUser retrieves a user by ID
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)

	// UpdateProfile changes a user's name and/or phone
	UpdateProfile(ctx context.Context, userID uuid.UUID, name, phone *string) (*models.User, error)

	// GetOrCreateDiscordUser returns the account linked to a Discord user, creating it on first use
	GetOrCreateDiscordUser(ctx context.Context, discordID int64, username string) (*models.User, error)
}

// WalletService defines the interface for simulated deposits and withdrawals
type WalletService interface {
	// Deposit credits a simulated top-up and returns the new balance
	Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)

	// Withdraw debits a simulated withdrawal request to an address and returns the new balance
	Withdraw(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, address string) (decimal.Decimal, error)

	// History returns a user's ledger entries, newest first
	History(ctx context.Context, userID uuid.UUID, limit int) ([]*models.BalanceHistory, error)
}

// GameService defines the interface for dice round operations
type GameService interface {
	// StartRound debits the stake and opens a new ACTIVE round
	StartRound(ctx context.Context, userID uuid.UUID, stake decimal.Decimal, clientSeed string) (*models.Round, error)

	// Roll throws the dice for a round owned by the requester
	Roll(ctx context.Context, roundID, requesterID uuid.UUID) (*models.RollResult, error)

	// CashOut ends a round owned by the requester and credits the pot
	CashOut(ctx context.Context, roundID, requesterID uuid.UUID) (*models.CashOutResult, error)

	// GetRound returns a round owned by the requester
	GetRound(ctx context.Context, roundID, requesterID uuid.UUID) (*models.Round, error)

	// ListRounds returns a user's most recent rounds
	ListRounds(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Round, error)

	// GetActiveRound returns the user's most recent ACTIVE round or nil
	GetActiveRound(ctx context.Context, userID uuid.UUID) (*models.Round, error)

	// GetDailyStakeAmount returns the total staked by a user since a given time
	GetDailyStakeAmount(ctx context.Context, userID uuid.UUID, since time.Time) (decimal.Decimal, error)
}

// StatsService defines the interface for statistics operations
type StatsService interface {
	// GetUserStats returns detailed statistics for a specific user
	GetUserStats(ctx context.Context, userID uuid.UUID) (*models.UserStats, error)
}
