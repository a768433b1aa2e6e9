package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"dicepot/database"
	"dicepot/models"
)

const roundColumns = `id, user_id, stake, pot, total_score, rolls, status, client_seed,
	bust_roll, created_at, updated_at, ended_at`

// RoundRepository implements the RoundRepository interface
type RoundRepository struct {
	q queryable
}

// NewRoundRepository creates a new round repository
func NewRoundRepository(db *database.DB) *RoundRepository {
	return &RoundRepository{q: db.Pool}
}

// newRoundRepositoryWithTx creates a new round repository with a transaction
func newRoundRepositoryWithTx(tx queryable) *RoundRepository {
	return &RoundRepository{q: tx}
}

func scanRound(row rowScanner) (*models.Round, error) {
	var round models.Round
	var rollsJSON, bustJSON []byte

	err := row.Scan(
		&round.ID,
		&round.UserID,
		&round.Stake,
		&round.Pot,
		&round.TotalScore,
		&rollsJSON,
		&round.Status,
		&round.ClientSeed,
		&bustJSON,
		&round.CreatedAt,
		&round.UpdatedAt,
		&round.EndedAt,
	)
	if err != nil {
		return nil, err
	}

	round.Rolls = []models.Roll{}
	if len(rollsJSON) > 0 {
		if err := json.Unmarshal(rollsJSON, &round.Rolls); err != nil {
			return nil, fmt.Errorf("failed to unmarshal rolls: %w", err)
		}
	}
	if len(bustJSON) > 0 {
		var bust models.Roll
		if err := json.Unmarshal(bustJSON, &bust); err != nil {
			return nil, fmt.Errorf("failed to unmarshal bust roll: %w", err)
		}
		round.BustRoll = &bust
	}

	return &round, nil
}

func encodeRolls(round *models.Round) (rolls []byte, bust []byte, err error) {
	history := round.Rolls
	if history == nil {
		history = []models.Roll{}
	}
	rolls, err = json.Marshal(history)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal rolls: %w", err)
	}
	if round.BustRoll != nil {
		bust, err = json.Marshal(round.BustRoll)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal bust roll: %w", err)
		}
	}
	return rolls, bust, nil
}

// Create inserts a new round
func (r *RoundRepository) Create(ctx context.Context, round *models.Round) error {
	rollsJSON, bustJSON, err := encodeRolls(round)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO rounds (` + roundColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = r.q.Exec(ctx, query,
		round.ID,
		round.UserID,
		round.Stake,
		round.Pot,
		round.TotalScore,
		rollsJSON,
		round.Status,
		round.ClientSeed,
		bustJSON,
		round.CreatedAt,
		round.UpdatedAt,
		round.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create round for user %s: %w", round.UserID, err)
	}
	return nil
}

// GetByID retrieves a round by ID
func (r *RoundRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Round, error) {
	return r.get(ctx, `SELECT `+roundColumns+` FROM rounds WHERE id = $1`, id)
}

// GetByIDForUpdate retrieves a round and locks it for the rest of the transaction
func (r *RoundRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Round, error) {
	return r.get(ctx, `SELECT `+roundColumns+` FROM rounds WHERE id = $1 FOR UPDATE`, id)
}

func (r *RoundRepository) get(ctx context.Context, query string, id uuid.UUID) (*models.Round, error) {
	round, err := scanRound(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get round %s: %w", id, err)
	}
	return round, nil
}

// Update persists the mutable fields of a round
func (r *RoundRepository) Update(ctx context.Context, round *models.Round) error {
	rollsJSON, bustJSON, err := encodeRolls(round)
	if err != nil {
		return err
	}

	query := `
		UPDATE rounds
		SET pot = $2,
		    total_score = $3,
		    rolls = $4,
		    status = $5,
		    bust_roll = $6,
		    updated_at = $7,
		    ended_at = $8
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query,
		round.ID,
		round.Pot,
		round.TotalScore,
		rollsJSON,
		round.Status,
		bustJSON,
		round.UpdatedAt,
		round.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update round %s: %w", round.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("round %s not found", round.ID)
	}
	return nil
}

// ListByUser returns a user's most recent rounds
func (r *RoundRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Round, error) {
	query := `
		SELECT ` + roundColumns + `
		FROM rounds
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds for user %s: %w", userID, err)
	}
	defer rows.Close()

	rounds := make([]*models.Round, 0)
	for rows.Next() {
		round, err := scanRound(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}
		rounds = append(rounds, round)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rounds: %w", err)
	}

	return rounds, nil
}

// GetActiveByUser returns the user's most recent ACTIVE round
func (r *RoundRepository) GetActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Round, error) {
	query := `
		SELECT ` + roundColumns + `
		FROM rounds
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	round, err := scanRound(r.q.QueryRow(ctx, query, userID, models.RoundStatusActive))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active round for user %s: %w", userID, err)
	}
	return round, nil
}

// SumStakesSince returns the total staked by a user since a given time
func (r *RoundRepository) SumStakesSince(ctx context.Context, userID uuid.UUID, since time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(stake), 0)
		FROM rounds
		WHERE user_id = $1 AND created_at >= $2
	`

	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, userID, since).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum stakes for user %s: %w", userID, err)
	}
	return total, nil
}

// GetStats returns aggregated round statistics for a user
func (r *RoundRepository) GetStats(ctx context.Context, userID uuid.UUID) (*models.RoundStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'ACTIVE'),
			COUNT(*) FILTER (WHERE status = 'CASHED_OUT'),
			COUNT(*) FILTER (WHERE status = 'LOST'),
			COALESCE(SUM(stake), 0),
			COALESCE(SUM(pot) FILTER (WHERE status = 'CASHED_OUT'), 0),
			COALESCE(MAX(pot) FILTER (WHERE status = 'CASHED_OUT'), 0),
			COALESCE(MAX(jsonb_array_length(rolls)), 0),
			COALESCE(MAX(total_score), 0)
		FROM rounds
		WHERE user_id = $1
	`

	var stats models.RoundStats
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&stats.TotalRounds,
		&stats.ActiveRounds,
		&stats.CashedOut,
		&stats.Lost,
		&stats.TotalStaked,
		&stats.TotalPaidOut,
		&stats.BiggestPayout,
		&stats.LongestStreak,
		&stats.HighestScore,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get round stats for user %s: %w", userID, err)
	}
	return &stats, nil
}
