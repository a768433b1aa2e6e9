package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"dicepot/config"
	"dicepot/events"
	"dicepot/game"
	"dicepot/models"
)

type gameService struct {
	uowFactory UnitOfWorkFactory
	engine     *game.Engine
}

// NewGameService creates a new game service
func NewGameService(uowFactory UnitOfWorkFactory, engine *game.Engine) GameService {
	return &gameService{
		uowFactory: uowFactory,
		engine:     engine,
	}
}

// StartRound debits the stake and opens a new ACTIVE round
func (s *gameService) StartRound(ctx context.Context, userID uuid.UUID, stake decimal.Decimal, clientSeed string) (*models.Round, error) {
	if err := game.ValidateStake(stake); err != nil {
		return nil, err
	}

	cfg := config.Get()
	if !cfg.IsStakeAllowed(stake) {
		return nil, ErrStakeNotAllowed
	}

	round, err := game.NewRound(userID, stake, clientSeed)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	if cfg.DailyLimitEnabled() {
		periodStart := GetCurrentPeriodStart(cfg.DailyLimitResetHour)
		staked, err := uow.RoundRepository().SumStakesSince(ctx, userID, periodStart)
		if err != nil {
			return nil, fmt.Errorf("failed to check daily stake amount: %w", err)
		}
		if staked.Add(stake).GreaterThan(cfg.DailyStakeLimit) {
			remaining := decimal.Max(cfg.DailyStakeLimit.Sub(staked), decimal.Zero)
			return nil, fmt.Errorf("%w: %s remaining until %s", ErrDailyLimitReached,
				remaining.StringFixed(2), GetNextResetTime(cfg.DailyLimitResetHour).Format(time.RFC3339))
		}
	}

	newBalance, err := uow.UserRepository().DeductBalance(ctx, userID, stake)
	if err != nil {
		return nil, fmt.Errorf("failed to debit stake: %w", err)
	}

	if err := uow.RoundRepository().Create(ctx, round); err != nil {
		return nil, fmt.Errorf("failed to create round: %w", err)
	}

	relatedType, relatedID := roundRelation(round)
	history := &models.BalanceHistory{
		UserID:          userID,
		BalanceBefore:   newBalance.Add(stake),
		BalanceAfter:    newBalance,
		ChangeAmount:    stake.Neg(),
		TransactionType: models.TransactionTypeStake,
		TransactionMetadata: map[string]any{
			"client_seed": clientSeed,
		},
		RelatedID:   relatedID,
		RelatedType: relatedType,
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, fmt.Errorf("failed to record balance change: %w", err)
	}

	uow.EventBus().Publish(events.RoundStartedEvent{
		RoundID: round.ID,
		UserID:  userID,
		Stake:   stake,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"roundID": round.ID,
		"userID":  userID,
		"stake":   stake.StringFixed(2),
	}).Info("Round started")

	return round, nil
}

// Roll throws the dice for a round owned by the requester
func (s *gameService) Roll(ctx context.Context, roundID, requesterID uuid.UUID) (*models.RollResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	round, err := s.lockOwnedRound(ctx, uow, roundID, requesterID)
	if err != nil {
		return nil, err
	}

	outcome, err := s.engine.Roll(round)
	if err != nil {
		return nil, err
	}

	if err := uow.RoundRepository().Update(ctx, round); err != nil {
		return nil, fmt.Errorf("failed to save round: %w", err)
	}

	uow.EventBus().Publish(events.RollResolvedEvent{
		RoundID: round.ID,
		UserID:  round.UserID,
		Outcome: outcome,
	})
	if outcome.Bust {
		uow.EventBus().Publish(roundEndedEvent(round, decimal.Zero))
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"roundID":     round.ID,
		"dice":        outcome.Dice,
		"combination": outcome.Combination,
		"bust":        outcome.Bust,
		"pot":         round.Pot.StringFixed(2),
	}).Debug("Roll resolved")

	return &models.RollResult{Round: round, Outcome: outcome}, nil
}

// CashOut ends a round owned by the requester and credits the pot
func (s *gameService) CashOut(ctx context.Context, roundID, requesterID uuid.UUID) (*models.CashOutResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	round, err := s.lockOwnedRound(ctx, uow, roundID, requesterID)
	if err != nil {
		return nil, err
	}

	if err := s.engine.CashOut(round); err != nil {
		return nil, err
	}

	if err := uow.RoundRepository().Update(ctx, round); err != nil {
		return nil, fmt.Errorf("failed to save round: %w", err)
	}

	payout := round.Pot
	newBalance, err := uow.UserRepository().AddBalance(ctx, round.UserID, payout)
	if err != nil {
		return nil, fmt.Errorf("failed to credit payout: %w", err)
	}

	relatedType, relatedID := roundRelation(round)
	history := &models.BalanceHistory{
		UserID:          round.UserID,
		BalanceBefore:   newBalance.Sub(payout),
		BalanceAfter:    newBalance,
		ChangeAmount:    payout,
		TransactionType: models.TransactionTypeCashOut,
		TransactionMetadata: map[string]any{
			"stake":       round.Stake.StringFixed(2),
			"total_score": round.TotalScore,
			"rolls":       len(round.Rolls),
		},
		RelatedID:   relatedID,
		RelatedType: relatedType,
	}
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, fmt.Errorf("failed to record balance change: %w", err)
	}

	uow.EventBus().Publish(roundEndedEvent(round, payout))

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"roundID": round.ID,
		"userID":  round.UserID,
		"payout":  payout.StringFixed(2),
	}).Info("Round cashed out")

	return &models.CashOutResult{
		Round:      round,
		Payout:     payout,
		NewBalance: newBalance,
	}, nil
}

// GetRound returns a round owned by the requester
func (s *gameService) GetRound(ctx context.Context, roundID, requesterID uuid.UUID) (*models.Round, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	round, err := uow.RoundRepository().GetByID(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get round: %w", err)
	}
	if round == nil {
		return nil, ErrRoundNotFound
	}
	if !round.IsOwnedBy(requesterID) {
		return nil, ErrForbidden
	}
	return round, nil
}

// ListRounds returns a user's most recent rounds
func (s *gameService) ListRounds(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Round, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	rounds, err := uow.RoundRepository().ListByUser(ctx, userID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	return rounds, nil
}

// GetActiveRound returns the user's most recent ACTIVE round or nil
func (s *gameService) GetActiveRound(ctx context.Context, userID uuid.UUID) (*models.Round, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	round, err := uow.RoundRepository().GetActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active round: %w", err)
	}
	return round, nil
}

// GetDailyStakeAmount returns the total staked by a user since a given time
func (s *gameService) GetDailyStakeAmount(ctx context.Context, userID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return decimal.Zero, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	total, err := uow.RoundRepository().SumStakesSince(ctx, userID, since)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get stakes since %v: %w", since, err)
	}
	return total, nil
}

// lockOwnedRound loads a round with a row lock and checks the requester owns it
func (s *gameService) lockOwnedRound(ctx context.Context, uow UnitOfWork, roundID, requesterID uuid.UUID) (*models.Round, error) {
	round, err := uow.RoundRepository().GetByIDForUpdate(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get round: %w", err)
	}
	if round == nil {
		return nil, ErrRoundNotFound
	}
	if !round.IsOwnedBy(requesterID) {
		return nil, ErrForbidden
	}
	return round, nil
}

func roundEndedEvent(round *models.Round, payout decimal.Decimal) events.RoundEndedEvent {
	return events.RoundEndedEvent{
		RoundID:    round.ID,
		UserID:     round.UserID,
		Status:     round.Status,
		Stake:      round.Stake,
		Payout:     payout,
		TotalScore: round.TotalScore,
		RollCount:  len(round.Rolls),
	}
}
