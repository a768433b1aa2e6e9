package game

import (
	"github.com/shopspring/decimal"

	"dicepot/models"
)

// potPlaces is the number of decimal places a pot is rounded to after each roll
const potPlaces = 2

// Resolver turns a throw into a RollOutcome against the current pot
type Resolver struct {
	dice  DiceSource
	table *MultiplierTable
}

// NewResolver creates a resolver. A nil table uses DefaultMultiplierTable.
func NewResolver(dice DiceSource, table *MultiplierTable) *Resolver {
	if table == nil {
		table = DefaultMultiplierTable()
	}
	return &Resolver{dice: dice, table: table}
}

// ResolveRoll draws a fresh throw from the dice source and resolves it
func (r *Resolver) ResolveRoll(currentPot decimal.Decimal) models.RollOutcome {
	return r.Resolve(r.dice.Roll(), currentPot)
}

// Resolve scores the given dice against the current pot.
// A bust yields zero points, a zero multiplier and a zero pot.
func (r *Resolver) Resolve(dice models.DiceTriple, currentPot decimal.Decimal) models.RollOutcome {
	combo := Classify(dice)

	multiplier := decimal.Zero
	if !combo.Bust {
		multiplier = r.table.Lookup(combo.Points)
	}

	if combo.Points <= 0 || !multiplier.IsPositive() {
		return models.RollOutcome{
			Bust:        true,
			Dice:        dice,
			Points:      0,
			Multiplier:  decimal.Zero,
			Combination: combo.Label,
			Pot:         decimal.Zero,
		}
	}

	return models.RollOutcome{
		Dice:        dice,
		Points:      combo.Points,
		Multiplier:  multiplier,
		Combination: combo.Label,
		Pot:         currentPot.Mul(multiplier).Round(potPlaces),
	}
}

// Table returns the multiplier table used by the resolver
func (r *Resolver) Table() *MultiplierTable {
	return r.table
}
