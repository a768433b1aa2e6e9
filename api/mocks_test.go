package api

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"dicepot/models"
)

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Register(ctx context.Context, email, password, name string, phone *string) (*models.User, error) {
	args := m.Called(ctx, email, password, name, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, userID uuid.UUID, name, phone *string) (*models.User, error) {
	args := m.Called(ctx, userID, name, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserService) GetOrCreateDiscordUser(ctx context.Context, discordID int64, username string) (*models.User, error) {
	args := m.Called(ctx, discordID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type mockWalletService struct {
	mock.Mock
}

func (m *mockWalletService) Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, amount)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockWalletService) Withdraw(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, address string) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, amount, address)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockWalletService) History(ctx context.Context, userID uuid.UUID, limit int) ([]*models.BalanceHistory, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceHistory), args.Error(1)
}

type mockGameService struct {
	mock.Mock
}

func (m *mockGameService) StartRound(ctx context.Context, userID uuid.UUID, stake decimal.Decimal, clientSeed string) (*models.Round, error) {
	args := m.Called(ctx, userID, stake, clientSeed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Round), args.Error(1)
}

func (m *mockGameService) Roll(ctx context.Context, roundID, requesterID uuid.UUID) (*models.RollResult, error) {
	args := m.Called(ctx, roundID, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RollResult), args.Error(1)
}

func (m *mockGameService) CashOut(ctx context.Context, roundID, requesterID uuid.UUID) (*models.CashOutResult, error) {
	args := m.Called(ctx, roundID, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CashOutResult), args.Error(1)
}

func (m *mockGameService) GetRound(ctx context.Context, roundID, requesterID uuid.UUID) (*models.Round, error) {
	args := m.Called(ctx, roundID, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Round), args.Error(1)
}

func (m *mockGameService) ListRounds(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Round, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Round), args.Error(1)
}

func (m *mockGameService) GetActiveRound(ctx context.Context, userID uuid.UUID) (*models.Round, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Round), args.Error(1)
}

func (m *mockGameService) GetDailyStakeAmount(ctx context.Context, userID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type mockStatsService struct {
	mock.Mock
}

func (m *mockStatsService) GetUserStats(ctx context.Context, userID uuid.UUID) (*models.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserStats), args.Error(1)
}

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(context.Context) error {
	return f.err
}
