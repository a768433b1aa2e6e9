package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"dicepot/auth"
	"dicepot/config"
	"dicepot/models"
)

// userService implements the UserService interface
type userService struct {
	uowFactory UnitOfWorkFactory
	hasher     *auth.Hasher
}

// NewUserService creates a new user service
func NewUserService(uowFactory UnitOfWorkFactory, hasher *auth.Hasher) UserService {
	return &userService{
		uowFactory: uowFactory,
		hasher:     hasher,
	}
}

// Register creates an email/password account with the starting balance
func (s *userService) Register(ctx context.Context, email, password, name string, phone *string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrInvalidInput)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultNameFromEmail(email)
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	wallet, err := placeholderWalletAddress()
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	existing, err := uow.UserRepository().GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	user, err := s.createUser(ctx, uow, &models.NewUser{
		Email:          &email,
		PasswordHash:   passwordHash,
		Name:           name,
		Phone:          phone,
		WalletAddress:  wallet,
		InitialBalance: config.Get().StartingBalance,
	})
	if errors.Is(err, ErrAlreadyExists) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userID": user.ID,
		"name":   user.Name,
	}).Info("Registered new user")

	return user, nil
}

// Login verifies credentials and returns the user
func (s *userService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return user, nil
}

// GetUser retrieves a user by ID
func (s *userService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile changes a user's name and/or phone
func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, name, phone *string) (*models.User, error) {
	update := models.ProfileUpdate{Phone: phone}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		update.Name = &trimmed
	}
	if phone != nil {
		trimmed := strings.TrimSpace(*phone)
		update.Phone = &trimmed
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().UpdateProfile(ctx, userID, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return user, nil
}

// GetOrCreateDiscordUser returns the account linked to a Discord user, creating it on first use
func (s *userService) GetOrCreateDiscordUser(ctx context.Context, discordID int64, username string) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	wallet, err := placeholderWalletAddress()
	if err != nil {
		return nil, err
	}

	// Unique constraint on discord_id prevents duplicate users
	user, err = s.createUser(ctx, uow, &models.NewUser{
		DiscordID:      &discordID,
		Name:           username,
		WalletAddress:  wallet,
		InitialBalance: config.Get().StartingBalance,
	})
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":    user.ID,
		"discordID": discordID,
	}).Info("Created user for Discord account")

	return user, nil
}

// createUser inserts the user and records the starting balance in the ledger
func (s *userService) createUser(ctx context.Context, uow UnitOfWork, newUser *models.NewUser) (*models.User, error) {
	user, err := uow.UserRepository().Create(ctx, newUser)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	history := &models.BalanceHistory{
		UserID:          user.ID,
		BalanceBefore:   decimal.Zero,
		BalanceAfter:    user.Balance,
		ChangeAmount:    user.Balance,
		TransactionType: models.TransactionTypeInitial,
		TransactionMetadata: map[string]any{
			"name": user.Name,
		},
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, fmt.Errorf("failed to record initial balance: %w", err)
	}

	return user, nil
}

func defaultNameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return email
	}
	return local
}

// placeholderWalletAddress returns a random address in the 0x + 40 hex format
func placeholderWalletAddress() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate wallet address: %w", err)
	}
	return "0x" + hex.EncodeToString(buf), nil
}
