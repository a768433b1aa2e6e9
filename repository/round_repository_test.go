package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"dicepot/events"
	"dicepot/models"
	"dicepot/repository/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRepository_RoundTrip(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	user, err := NewUserRepository(testDB.DB).Create(ctx, testutil.CreateTestNewUser("rounds@example.com"))
	require.NoError(t, err)

	repo := NewRoundRepository(testDB.DB)

	round := testutil.CreateTestRound(user.ID, decimal.NewFromInt(10))
	require.NoError(t, repo.Create(ctx, round))

	t.Run("fresh round", func(t *testing.T) {
		got, err := repo.GetByID(ctx, round.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, models.RoundStatusActive, got.Status)
		assert.True(t, got.Pot.Equal(got.Stake))
		assert.NotNil(t, got.Rolls)
		assert.Empty(t, got.Rolls)
		assert.Nil(t, got.BustRoll)
		assert.Nil(t, got.EndedAt)
		assert.Equal(t, "test-seed", got.ClientSeed)
	})

	t.Run("update preserves rolls and pot", func(t *testing.T) {
		round.Rolls = append(round.Rolls,
			testutil.CreateTestRoll(models.DiceTriple{1, 3, 5}, 100, "1.20", "straight-135"),
			testutil.CreateTestRoll(models.DiceTriple{6, 6, 6}, 600, "2.20", "triple-6"),
		)
		round.TotalScore = 700
		round.Pot = decimal.RequireFromString("26.40")
		round.UpdatedAt = time.Now().UTC()
		require.NoError(t, repo.Update(ctx, round))

		got, err := repo.GetByID(ctx, round.ID)
		require.NoError(t, err)
		assert.Equal(t, "26.40", got.Pot.StringFixed(2))
		assert.Equal(t, 700, got.TotalScore)
		require.Len(t, got.Rolls, 2)
		assert.Equal(t, models.DiceTriple{6, 6, 6}, got.Rolls[1].Dice)
		assert.Equal(t, "2.20", got.Rolls[1].Multiplier.StringFixed(2))
	})

	t.Run("bust roll persisted separately", func(t *testing.T) {
		bust := testutil.CreateTestRoll(models.DiceTriple{2, 3, 4}, 0, "0", "bust: no 1/5 and not 135 or 246 (2-3-4)")
		ended := time.Now().UTC()
		round.Status = models.RoundStatusLost
		round.BustRoll = &bust
		round.EndedAt = &ended
		require.NoError(t, repo.Update(ctx, round))

		got, err := repo.GetByID(ctx, round.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RoundStatusLost, got.Status)
		assert.Len(t, got.Rolls, 2)
		require.NotNil(t, got.BustRoll)
		assert.Equal(t, models.DiceTriple{2, 3, 4}, got.BustRoll.Dice)
		require.NotNil(t, got.EndedAt)
		assert.WithinDuration(t, ended, *got.EndedAt, time.Millisecond)
	})

	t.Run("missing round returns nil", func(t *testing.T) {
		got, err := repo.GetByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestRoundRepository_QueriesAndStats(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	user, err := NewUserRepository(testDB.DB).Create(ctx, testutil.CreateTestNewUser("stats@example.com"))
	require.NoError(t, err)
	repo := NewRoundRepository(testDB.DB)

	lost := testutil.CreateTestRound(user.ID, decimal.NewFromInt(5))
	lost.Status = models.RoundStatusLost
	lost.CreatedAt = lost.CreatedAt.Add(-2 * time.Minute)
	require.NoError(t, repo.Create(ctx, lost))

	cashed := testutil.CreateTestRound(user.ID, decimal.NewFromInt(10))
	cashed.Status = models.RoundStatusCashedOut
	cashed.Pot = decimal.RequireFromString("22.00")
	cashed.TotalScore = 600
	cashed.Rolls = []models.Roll{testutil.CreateTestRoll(models.DiceTriple{6, 6, 6}, 600, "2.20", "triple-6")}
	cashed.CreatedAt = cashed.CreatedAt.Add(-time.Minute)
	require.NoError(t, repo.Create(ctx, cashed))

	active := testutil.CreateTestRound(user.ID, decimal.NewFromInt(20))
	require.NoError(t, repo.Create(ctx, active))

	t.Run("list newest first", func(t *testing.T) {
		rounds, err := repo.ListByUser(ctx, user.ID, 10)
		require.NoError(t, err)
		require.Len(t, rounds, 3)
		assert.Equal(t, active.ID, rounds[0].ID)
		assert.Equal(t, lost.ID, rounds[2].ID)

		limited, err := repo.ListByUser(ctx, user.ID, 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})

	t.Run("active round", func(t *testing.T) {
		got, err := repo.GetActiveByUser(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, active.ID, got.ID)

		none, err := repo.GetActiveByUser(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, none)
	})

	t.Run("sum stakes since", func(t *testing.T) {
		total, err := repo.SumStakesSince(ctx, user.ID, time.Now().UTC().Add(-time.Hour))
		require.NoError(t, err)
		assert.Equal(t, "35.00", total.StringFixed(2))

		total, err = repo.SumStakesSince(ctx, user.ID, time.Now().UTC().Add(time.Hour))
		require.NoError(t, err)
		assert.True(t, total.IsZero())
	})

	t.Run("stats", func(t *testing.T) {
		stats, err := repo.GetStats(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, stats.TotalRounds)
		assert.Equal(t, 1, stats.ActiveRounds)
		assert.Equal(t, 1, stats.CashedOut)
		assert.Equal(t, 1, stats.Lost)
		assert.Equal(t, "35.00", stats.TotalStaked.StringFixed(2))
		assert.Equal(t, "22.00", stats.TotalPaidOut.StringFixed(2))
		assert.Equal(t, "22.00", stats.BiggestPayout.StringFixed(2))
		assert.Equal(t, 1, stats.LongestStreak)
		assert.Equal(t, 600, stats.HighestScore)
	})
}

func TestUnitOfWork_LockSerializesRoundUpdates(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	user, err := NewUserRepository(testDB.DB).Create(ctx, testutil.CreateTestNewUser("lock@example.com"))
	require.NoError(t, err)
	round := testutil.CreateTestRound(user.ID, decimal.NewFromInt(10))
	require.NoError(t, NewRoundRepository(testDB.DB).Create(ctx, round))

	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uow := factory.Create()
			if err := uow.Begin(ctx); err != nil {
				t.Error(err)
				return
			}
			defer uow.Rollback()

			locked, err := uow.RoundRepository().GetByIDForUpdate(ctx, round.ID)
			if err != nil || locked == nil {
				t.Errorf("lock failed: %v", err)
				return
			}
			locked.TotalScore += 100
			locked.Rolls = append(locked.Rolls, testutil.CreateTestRoll(models.DiceTriple{1, 2, 2}, 100, "1.20", "singles"))
			if err := uow.RoundRepository().Update(ctx, locked); err != nil {
				t.Error(err)
				return
			}
			if err := uow.Commit(); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	got, err := NewRoundRepository(testDB.DB).GetByID(ctx, round.ID)
	require.NoError(t, err)
	assert.Equal(t, workers*100, got.TotalScore)
	assert.Len(t, got.Rolls, workers)
}

func TestUnitOfWork_RollbackDiscardsWritesAndEvents(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	user, err := NewUserRepository(testDB.DB).Create(ctx, testutil.CreateTestNewUser("rollback@example.com"))
	require.NoError(t, err)

	bus := events.NewBus()
	delivered := make(chan struct{}, 1)
	bus.Subscribe(events.EventTypeRoundStarted, func(ctx context.Context, e events.Event) {
		delivered <- struct{}{}
	})

	factory := NewUnitOfWorkFactory(testDB.DB, bus)
	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	round := testutil.CreateTestRound(user.ID, decimal.NewFromInt(10))
	require.NoError(t, uow.RoundRepository().Create(ctx, round))
	uow.EventBus().Publish(events.RoundStartedEvent{RoundID: round.ID, UserID: user.ID, Stake: round.Stake})
	require.NoError(t, uow.Rollback())

	got, err := NewRoundRepository(testDB.DB).GetByID(ctx, round.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	select {
	case <-delivered:
		t.Fatal("event from rolled back unit of work was delivered")
	case <-time.After(200 * time.Millisecond):
	}
}
