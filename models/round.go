package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RoundStatus represents the lifecycle state of a round
type RoundStatus string

const (
	RoundStatusActive    RoundStatus = "ACTIVE"
	RoundStatusLost      RoundStatus = "LOST"
	RoundStatusCashedOut RoundStatus = "CASHED_OUT"
)

// DiceTriple is the ordered result of throwing three dice
type DiceTriple [3]int

// Roll is one resolved, non-busting throw within a round
type Roll struct {
	Dice        DiceTriple      `json:"dice"`
	Score       int             `json:"score"`
	Multiplier  decimal.Decimal `json:"multiplier"`
	Combination string          `json:"combination"`
}

// Round represents a single push-your-luck play session
type Round struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	UserID     uuid.UUID       `db:"user_id" json:"userId"`
	Stake      decimal.Decimal `db:"stake" json:"stake"`
	Pot        decimal.Decimal `db:"pot" json:"pot"`
	TotalScore int             `db:"total_score" json:"totalScore"`
	Rolls      []Roll          `db:"rolls" json:"rolls"`
	Status     RoundStatus     `db:"status" json:"status"`
	ClientSeed string          `db:"client_seed" json:"clientSeed,omitempty"`
	BustRoll   *Roll           `db:"bust_roll" json:"bustRoll,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updatedAt"`
	EndedAt    *time.Time      `db:"ended_at" json:"endedAt,omitempty"`
}

// RollOutcome is the result of resolving one throw against a pot.
// A bust outcome carries zero points, zero multiplier and a zero pot.
type RollOutcome struct {
	Bust        bool            `json:"bust"`
	Dice        DiceTriple      `json:"dice"`
	Points      int             `json:"points"`
	Multiplier  decimal.Decimal `json:"multiplier"`
	Combination string          `json:"combination"`
	Pot         decimal.Decimal `json:"pot"`
}

// RollResult represents the outcome of a roll request (returned to the user)
type RollResult struct {
	Round   *Round
	Outcome RollOutcome
}

// CashOutResult represents the outcome of a cash out (returned to the user)
type CashOutResult struct {
	Round      *Round
	Payout     decimal.Decimal
	NewBalance decimal.Decimal
}

// IsActive checks if the round still accepts rolls and cash outs
func (r *Round) IsActive() bool {
	return r.Status == RoundStatusActive
}

// IsTerminal checks if the round has ended
func (r *Round) IsTerminal() bool {
	return r.Status == RoundStatusLost || r.Status == RoundStatusCashedOut
}

// IsOwnedBy checks if the round belongs to the given user
func (r *Round) IsOwnedBy(userID uuid.UUID) bool {
	return r.UserID == userID
}

// Gain returns how much the pot has grown over the stake
func (r *Round) Gain() decimal.Decimal {
	return r.Pot.Sub(r.Stake)
}

// ToRoll converts a non-bust outcome into the record appended to a round's history
func (o RollOutcome) ToRoll() Roll {
	return Roll{
		Dice:        o.Dice,
		Score:       o.Points,
		Multiplier:  o.Multiplier,
		Combination: o.Combination,
	}
}
