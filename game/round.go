package game

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dicepot/models"
)

// Policy holds the configurable rules of the round state machine
type Policy struct {
	// RequireGainToCashOut rejects a cash out while the pot is not above the stake
	RequireGainToCashOut bool
}

// DefaultPolicy returns the standard round rules
func DefaultPolicy() Policy {
	return Policy{RequireGainToCashOut: true}
}

// Engine applies roll and cash out transitions to rounds
type Engine struct {
	resolver *Resolver
	policy   Policy
	now      func() time.Time
}

// NewEngine creates a round engine
func NewEngine(resolver *Resolver, policy Policy) *Engine {
	return &Engine{
		resolver: resolver,
		policy:   policy,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the clock used to stamp round timestamps
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Policy returns the engine's rules
func (e *Engine) Policy() Policy {
	return e.policy
}

// ValidateStake checks a stake is positive and representable in whole cents
func ValidateStake(stake decimal.Decimal) error {
	if !stake.IsPositive() || !stake.Equal(stake.Round(potPlaces)) {
		return ErrInvalidStake
	}
	return nil
}

// NewRound creates an ACTIVE round whose pot equals the stake
func NewRound(userID uuid.UUID, stake decimal.Decimal, clientSeed string) (*models.Round, error) {
	if err := ValidateStake(stake); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &models.Round{
		ID:         uuid.New(),
		UserID:     userID,
		Stake:      stake,
		Pot:        stake,
		TotalScore: 0,
		Rolls:      []models.Roll{},
		Status:     models.RoundStatusActive,
		ClientSeed: clientSeed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Roll throws the dice for an ACTIVE round and applies the outcome.
// On a bust the round becomes LOST, its pot record is left untouched and the
// throw is kept in BustRoll rather than Rolls.
func (e *Engine) Roll(round *models.Round) (models.RollOutcome, error) {
	if !round.IsActive() {
		return models.RollOutcome{}, ErrInvalidState
	}

	outcome := e.resolver.ResolveRoll(round.Pot)
	e.apply(round, outcome)
	return outcome, nil
}

// ApplyDice resolves a known throw against an ACTIVE round
func (e *Engine) ApplyDice(round *models.Round, dice models.DiceTriple) (models.RollOutcome, error) {
	if !round.IsActive() {
		return models.RollOutcome{}, ErrInvalidState
	}

	outcome := e.resolver.Resolve(dice, round.Pot)
	e.apply(round, outcome)
	return outcome, nil
}

func (e *Engine) apply(round *models.Round, outcome models.RollOutcome) {
	now := e.now()
	round.UpdatedAt = now

	if outcome.Bust {
		bust := outcome.ToRoll()
		round.Status = models.RoundStatusLost
		round.BustRoll = &bust
		round.EndedAt = &now
		return
	}

	round.Pot = outcome.Pot
	round.TotalScore += outcome.Points
	round.Rolls = append(round.Rolls, outcome.ToRoll())
}

// CashOut ends an ACTIVE round, leaving the pot as the payout
func (e *Engine) CashOut(round *models.Round) error {
	if !round.IsActive() {
		return ErrInvalidState
	}
	if e.policy.RequireGainToCashOut && !round.Pot.GreaterThan(round.Stake) {
		return ErrNothingToCashOut
	}

	now := e.now()
	round.Status = models.RoundStatusCashedOut
	round.UpdatedAt = now
	round.EndedAt = &now
	return nil
}
