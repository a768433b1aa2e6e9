package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"dicepot/models"
)

// statsService implements the StatsService interface
type statsService struct {
	uowFactory UnitOfWorkFactory
}

// NewStatsService creates a new stats service
func NewStatsService(uowFactory UnitOfWorkFactory) StatsService {
	return &statsService{uowFactory: uowFactory}
}

// GetUserStats returns detailed statistics for a specific user
func (s *statsService) GetUserStats(ctx context.Context, userID uuid.UUID) (*models.UserStats, error) {
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

	roundStats, err := uow.RoundRepository().GetStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get round stats: %w", err)
	}

	var cashOutRate float64
	if finished := roundStats.CashedOut + roundStats.Lost; finished > 0 {
		cashOutRate = float64(roundStats.CashedOut) / float64(finished) * 100
	}

	return &models.UserStats{
		User:        user,
		RoundStats:  roundStats,
		NetProfit:   roundStats.TotalPaidOut.Sub(roundStats.TotalStaked),
		CashOutRate: cashOutRate,
	}, nil
}
