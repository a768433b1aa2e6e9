package service

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dicepot/config"
	"dicepot/events"
	"dicepot/game"
	"dicepot/models"
)

func TestMain(m *testing.M) {
	config.SetTestConfig(config.NewTestConfig())
	os.Exit(m.Run())
}

// dec matches a decimal argument by value rather than representation
func dec(s string) any {
	want := decimal.RequireFromString(s)
	return mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(want)
	})
}

type gameMocks struct {
	factory *MockUnitOfWorkFactory
	uow     *MockUnitOfWork
	users   *MockUserRepository
	rounds  *MockRoundRepository
	history *MockBalanceHistoryRepository
}

func newGameMocks() *gameMocks {
	m := &gameMocks{
		factory: new(MockUnitOfWorkFactory),
		uow:     new(MockUnitOfWork),
		users:   new(MockUserRepository),
		rounds:  new(MockRoundRepository),
		history: new(MockBalanceHistoryRepository),
	}
	m.uow.SetRepositories(m.users, m.rounds, m.history)
	return m
}

func (m *gameMocks) expectTransaction(ctx context.Context, commit bool) {
	m.factory.On("Create").Return(m.uow)
	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	if commit {
		m.uow.On("Commit").Return(nil)
	}
}

func (m *gameMocks) assertExpectations(t *testing.T) {
	m.factory.AssertExpectations(t)
	m.uow.AssertExpectations(t)
	m.users.AssertExpectations(t)
	m.rounds.AssertExpectations(t)
	m.history.AssertExpectations(t)
}

func newTestGameService(m *gameMocks, throws ...models.DiceTriple) GameService {
	if len(throws) == 0 {
		throws = []models.DiceTriple{{1, 1, 1}}
	}
	resolver := game.NewResolver(game.NewFixedDice(throws...), nil)
	return NewGameService(m.factory, game.NewEngine(resolver, game.DefaultPolicy()))
}

func activeRound(t *testing.T, userID uuid.UUID, stake, pot string) *models.Round {
	t.Helper()
	round, err := game.NewRound(userID, decimal.RequireFromString(stake), "")
	require.NoError(t, err)
	round.Pot = decimal.RequireFromString(pot)
	return round
}

func TestGameService_StartRound_Success(t *testing.T) {
	ctx := context.Background()
	m := newGameMocks()
	svc := newTestGameService(m)
	userID := uuid.New()

	m.expectTransaction(ctx, true)
	m.rounds.On("SumStakesSince", ctx, userID, mock.AnythingOfType("time.Time")).Return(decimal.NewFromInt(40), nil)
	m.users.On("DeductBalance", ctx, userID, dec("10")).Return(decimal.RequireFromString("90.00"), nil)
	m.rounds.On("Create", ctx, mock.MatchedBy(func(r *models.Round) bool {
		return r.UserID == userID &&
			r.Stake.Equal(decimal.NewFromInt(10)) &&
			r.Pot.Equal(r.Stake) &&
			r.Status == models.RoundStatusActive &&
			len(r.Rolls) == 0
	})).Return(nil)
	m.history.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.UserID == userID &&
			h.TransactionType == models.TransactionTypeStake &&
			h.BalanceBefore.Equal(decimal.NewFromInt(100)) &&
			h.BalanceAfter.Equal(decimal.NewFromInt(90)) &&
			h.ChangeAmount.Equal(decimal.NewFromInt(-10)) &&
			h.RelatedType != nil && *h.RelatedType == models.RelatedTypeRound &&
			h.RelatedID != nil
	})).Return(nil)

	round, err := svc.StartRound(ctx, userID, decimal.NewFromInt(10), "seed")

	require.NoError(t, err)
	assert.Equal(t, models.RoundStatusActive, round.Status)
	assert.Equal(t, "seed", round.ClientSeed)
	assert.True(t, round.Pot.Equal(decimal.NewFromInt(10)))

	published := m.uow.Published()
	require.Len(t, published, 2)
	assert.Equal(t, events.EventTypeBalanceChange, published[0].Type())
	started, ok := published[1].(events.RoundStartedEvent)
	require.True(t, ok)
	assert.Equal(t, round.ID, started.RoundID)

	m.assertExpectations(t)
}

func TestGameService_StartRound_Validation(t *testing.T) {
	tests := []struct {
		name      string
		stake     decimal.Decimal
		anyStakes bool
		err       error
	}{
		{name: "zero stake", stake: decimal.Zero, err: game.ErrInvalidStake},
		{name: "negative stake", stake: decimal.NewFromInt(-5), err: game.ErrInvalidStake},
		{name: "stake not on the list", stake: decimal.NewFromInt(7), err: ErrStakeNotAllowed},
		{name: "sub-cent stake", stake: decimal.RequireFromString("5.005"), anyStakes: true, err: game.ErrInvalidStake},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.anyStakes {
				cfg := config.NewTestConfig()
				cfg.AllowedStakes = nil
				config.SetTestConfig(cfg)
				defer config.SetTestConfig(config.NewTestConfig())
			}

			m := newGameMocks()
			svc := newTestGameService(m)

			_, err := svc.StartRound(context.Background(), uuid.New(), tt.stake, "")

			assert.ErrorIs(t, err, tt.err)
			m.factory.AssertNotCalled(t, "Create")
		})
	}
}

func TestGameService_StartRound_DailyLimitReached(t *testing.T) {
	ctx := context.Background()
	m := newGameMocks()
	svc := newTestGameService(m)
	userID := uuid.New()

	m.expectTransaction(ctx, false)
	m.rounds.On("SumStakesSince", ctx, userID, mock.AnythingOfType("time.Time")).Return(decimal.NewFromInt(495), nil)

	_, err := svc.StartRound(ctx, userID, decimal.NewFromInt(10), "")

	assert.ErrorIs(t, err, ErrDailyLimitReached)
	assert.Contains(t, err.Error(), "5.00 remaining")
	m.users.AssertNotCalled(t, "DeductBalance", mock.Anything, mock.Anything, mock.Anything)
	m.uow.AssertNotCalled(t, "Commit")
	m.assertExpectations(t)
}

func TestGameService_StartRound_InsufficientBalance(t *testing.T) {
	ctx := context.Background()
	m := newGameMocks()
	svc := newTestGameService(m)
	userID := uuid.New()

	m.expectTransaction(ctx, false)
	m.rounds.On("SumStakesSince", ctx, userID, mock.AnythingOfType("time.Time")).Return(decimal.Zero, nil)
	m.users.On("DeductBalance", ctx, userID, dec("50")).Return(decimal.Zero, ErrInsufficientBalance)

	_, err := svc.StartRound(ctx, userID, decimal.NewFromInt(50), "")

	assert.ErrorIs(t, err, ErrInsufficientBalance)
	m.rounds.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, m.uow.Published())
	m.assertExpectations(t)
}

func TestGameService_StartRound_DailyLimitDisabled(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.DailyStakeLimit = decimal.Zero
	config.SetTestConfig(cfg)
	t.Cleanup(func() { config.SetTestConfig(config.NewTestConfig()) })

	ctx := context.Background()
	m := newGameMocks()
	svc := newTestGameService(m)
	userID := uuid.New()

	m.expectTransaction(ctx, true)
	m.users.On("DeductBalance", ctx, userID, dec("5")).Return(decimal.NewFromInt(95), nil)
	m.rounds.On("Create", ctx, mock.Anything).Return(nil)
	m.history.On("Record", ctx, mock.Anything).Return(nil)

	_, err := svc.StartRound(ctx, userID, decimal.NewFromInt(5), "")

	require.NoError(t, err)
	m.rounds.AssertNotCalled(t, "SumStakesSince", mock.Anything, mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestGameService_Roll_Scores(t *testing.T) {
	ctx := context.Background()
	m := newGameMocks()
	svc := newTestGameService(m, models.DiceTriple{1, 3, 5})
	userID := uuid.New()
	round := activeRound(t, userID, "5", "5")

	m.expectTransaction(ctx, true)
	m.rounds.On("GetByIDForUpdate", ctx, round.ID).Return(round, nil)
	m.rounds.On("Update", ctx, round).Return(nil)

	result, err := svc.Roll(ctx, round.ID, userID)

	require.NoError(t, err)
	assert.False(t, result.Outcome.Bust)
	assert.Equal(t, game.LabelStraight135, result.Outcome.Combination)
	assert.Equal(t, "6.00", result.Round.Pot.StringFixed(2))
	assert.Equal(t, 100, result.Round.TotalScore)
	assert.Len(t, result.Round.Rolls, 1)
	assert.Equal(t, models.RoundStatusActive, result.Round.Status)

	published := m.uow.Published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTypeRollResolved, published[0].Type())
	m.assertExpectations(t)
}

func TestGameService_Roll_Bust(t *testing.T) {
	ctx := context.Background()
	m := newGameMocks()
	svc := newTestGameService(m, models.DiceTriple{2, 3, 4})
	userID := uuid.New()
	round := activeRound(t, userID, "10", "13.20")

	m.expectTransaction(ctx, true)
	m.rounds.On("GetByIDForUpdate", ctx, round.ID).Return(round, nil)
	m.rounds.On("Update", ctx, round).Return(nil)

	result, err := svc.Roll(ctx, round.ID, userID)

	require.NoError(t, err)
	assert.True(t, result.Outcome.Bust)
	assert.Equal(t, models.RoundStatusLost, result.Round.Status)
	assert.NotNil(t, result.Round.EndedAt)
	require.NotNil(t, result.Round.BustRoll)
	assert.Equal(t, models.DiceTriple{2, 3, 4}, result.Round.BustRoll.Dice)

	published := m.uow.Published()
	require.Len(t, published, 2)
	ended, ok := published[1].(events.RoundEndedEvent)
	require.True(t, ok)
	assert.Equal(t, models.RoundStatusLost, ended.Status)
	assert.True(t, ended.Payout.IsZero())

	// A lost round never touches the balance
	m.users.AssertNotCalled(t, "AddBalance", mock.Anything, mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestGameService_Roll_Rejections(t *testing.T) {
	owner := uuid.New()

	tests := []struct {
		name      string
		round     func(t *testing.T) *models.Round
		requester uuid.UUID
		err       error
	}{
		{
			name:      "round not found",
			round:     func(t *testing.T) *models.Round { return nil },
			requester: owner,
			err:       ErrRoundNotFound,
		},
		{
			name:      "another user's round",
			round:     func(t *testing.T) *models.Round { return activeRound(t, owner, "5", "5") },
			requester: uuid.New(),
			err:       ErrForbidden,
		},
		{
			name: "round already lost",
			round: func(t *testing.T) *models.Round {
				r := activeRound(t, owner, "5", "5")
				r.Status = models.RoundStatusLost
				return r
			},
			requester: owner,
			err:       game.ErrInvalidState,
		},
		{
			name: "round already cashed out",
			round: func(t *testing.T) *models.Round {
				r := activeRound(t, owner, "5", "6")
				r.Status = models.RoundStatusCashedOut
				return r
			},
			requester: owner,
			err:       game.ErrInvalidState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			m := newGameMocks()
			svc := newTestGameService(m)
			roundID := uuid.New()

			round := tt.round(t)
			m.expectTransaction(ctx, false)
			if round == nil {
				m.rounds.On("GetByIDForUpdate", ctx, roundID).Return(nil, nil)
			} else {
				m.rounds.On("GetByIDForUpdate", ctx, roundID).Return(round, nil)
			}

			_, err := svc.Roll(ctx, roundID, tt.requester)

			assert.ErrorIs(t, err, tt.err)
			m.rounds.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			m.uow.AssertNotCalled(t, "Commit")
			assert.Empty(t, m.uow.Published())
		})
	}
}

func TestGameService_CashOut_Success(t *testing.T) {
	ctx := context.Background()
	m := newGameMocks()
	svc := newTestGameService(m)
	userID := uuid.New()
	round := activeRound(t, userID, "5", "13.20")
	round.TotalScore = 700

	m.expectTransaction(ctx, true)
	m.rounds.On("GetByIDForUpdate", ctx, round.ID).Return(round, nil)
	m.rounds.On("Update", ctx, mock.MatchedBy(func(r *models.Round) bool {
		return r.Status == models.RoundStatusCashedOut && r.EndedAt != nil
	})).Return(nil)
	m.users.On("AddBalance", ctx, userID, dec("13.20")).Return(decimal.RequireFromString("108.20"), nil)
	m.history.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionType == models.TransactionTypeCashOut &&
			h.ChangeAmount.Equal(decimal.RequireFromString("13.20")) &&
			h.BalanceBefore.Equal(decimal.NewFromInt(95)) &&
			h.BalanceAfter.Equal(decimal.RequireFromString("108.20"))
	})).Return(nil)

	result, err := svc.CashOut(ctx, round.ID, userID)

	require.NoError(t, err)
	assert.Equal(t, "13.20", result.Payout.StringFixed(2))
	assert.Equal(t, "108.20", result.NewBalance.StringFixed(2))
	assert.Equal(t, models.RoundStatusCashedOut, result.Round.Status)

	published := m.uow.Published()
	require.Len(t, published, 2)
	ended, ok := published[1].(events.RoundEndedEvent)
	require.True(t, ok)
	assert.Equal(t, models.RoundStatusCashedOut, ended.Status)
	assert.Equal(t, 700, ended.TotalScore)
	assert.True(t, ended.Payout.Equal(decimal.RequireFromString("13.20")))
	m.assertExpectations(t)
}

func TestGameService_CashOut_NothingToCashOut(t *testing.T) {
	ctx := context.Background()
	m := newGameMocks()
	svc := newTestGameService(m)
	userID := uuid.New()
	round := activeRound(t, userID, "5", "5")

	m.expectTransaction(ctx, false)
	m.rounds.On("GetByIDForUpdate", ctx, round.ID).Return(round, nil)

	_, err := svc.CashOut(ctx, round.ID, userID)

	assert.ErrorIs(t, err, game.ErrNothingToCashOut)
	assert.Equal(t, models.RoundStatusActive, round.Status)
	m.users.AssertNotCalled(t, "AddBalance", mock.Anything, mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestGameService_CashOut_Forbidden(t *testing.T) {
	ctx := context.Background()
	m := newGameMocks()
	svc := newTestGameService(m)
	round := activeRound(t, uuid.New(), "5", "10")

	m.expectTransaction(ctx, false)
	m.rounds.On("GetByIDForUpdate", ctx, round.ID).Return(round, nil)

	_, err := svc.CashOut(ctx, round.ID, uuid.New())

	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, models.RoundStatusActive, round.Status)
	m.assertExpectations(t)
}

func TestGameService_CashOut_RepositoryFailure(t *testing.T) {
	ctx := context.Background()
	m := newGameMocks()
	svc := newTestGameService(m)
	userID := uuid.New()
	round := activeRound(t, userID, "5", "6")

	m.expectTransaction(ctx, false)
	m.rounds.On("GetByIDForUpdate", ctx, round.ID).Return(nil, errors.New("connection reset"))

	_, err := svc.CashOut(ctx, round.ID, userID)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get round")
	m.assertExpectations(t)
}

func TestGameService_GetRound(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("owner", func(t *testing.T) {
		m := newGameMocks()
		svc := newTestGameService(m)
		round := activeRound(t, owner, "5", "5")
		m.expectTransaction(ctx, false)
		m.rounds.On("GetByID", ctx, round.ID).Return(round, nil)

		got, err := svc.GetRound(ctx, round.ID, owner)

		require.NoError(t, err)
		assert.Equal(t, round, got)
	})

	t.Run("other user", func(t *testing.T) {
		m := newGameMocks()
		svc := newTestGameService(m)
		round := activeRound(t, owner, "5", "5")
		m.expectTransaction(ctx, false)
		m.rounds.On("GetByID", ctx, round.ID).Return(round, nil)

		_, err := svc.GetRound(ctx, round.ID, uuid.New())

		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("missing", func(t *testing.T) {
		m := newGameMocks()
		svc := newTestGameService(m)
		id := uuid.New()
		m.expectTransaction(ctx, false)
		m.rounds.On("GetByID", ctx, id).Return(nil, nil)

		_, err := svc.GetRound(ctx, id, owner)

		assert.ErrorIs(t, err, ErrRoundNotFound)
	})
}

func TestGameService_ListRounds_ClampsLimit(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	for requested, expected := range map[int]int{0: DefaultHistoryLimit, -3: DefaultHistoryLimit, 10: 10, 1000: MaxHistoryLimit} {
		m := newGameMocks()
		svc := newTestGameService(m)
		m.expectTransaction(ctx, false)
		m.rounds.On("ListByUser", ctx, userID, expected).Return([]*models.Round{}, nil)

		_, err := svc.ListRounds(ctx, userID, requested)

		require.NoError(t, err)
		m.rounds.AssertExpectations(t)
	}
}

func TestGameService_GetActiveRound(t *testing.T) {
	ctx := context.Background()
	m := newGameMocks()
	svc := newTestGameService(m)
	userID := uuid.New()

	m.expectTransaction(ctx, false)
	m.rounds.On("GetActiveByUser", ctx, userID).Return(nil, nil)

	round, err := svc.GetActiveRound(ctx, userID)

	require.NoError(t, err)
	assert.Nil(t, round)
	m.assertExpectations(t)
}
