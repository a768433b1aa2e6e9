package game

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Unbounded marks a tier with no upper limit. Only the last tier may use it.
const Unbounded = -1

// MultiplierTier maps an inclusive points range to a pot multiplier
type MultiplierTier struct {
	MinPoints  int
	MaxPoints  int
	Multiplier decimal.Decimal
}

// Contains reports whether points fall inside the tier
func (t MultiplierTier) Contains(points int) bool {
	if points < t.MinPoints {
		return false
	}
	return t.MaxPoints == Unbounded || points <= t.MaxPoints
}

// MultiplierTable is an ordered, validated list of tiers
type MultiplierTable struct {
	tiers []MultiplierTier
}

// NewMultiplierTable validates the tiers and builds a table from them.
// Tiers must be non-empty, ascending and non-overlapping, with positive multipliers.
func NewMultiplierTable(tiers []MultiplierTier) (*MultiplierTable, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("%w: no tiers", ErrInvalidTiers)
	}

	for i, tier := range tiers {
		last := i == len(tiers)-1
		if tier.MaxPoints == Unbounded && !last {
			return nil, fmt.Errorf("%w: tier %d is unbounded but not last", ErrInvalidTiers, i)
		}
		if tier.MaxPoints != Unbounded && tier.MinPoints > tier.MaxPoints {
			return nil, fmt.Errorf("%w: tier %d has min %d above max %d", ErrInvalidTiers, i, tier.MinPoints, tier.MaxPoints)
		}
		if !tier.Multiplier.IsPositive() {
			return nil, fmt.Errorf("%w: tier %d multiplier %s must be positive", ErrInvalidTiers, i, tier.Multiplier)
		}
		if i > 0 && tier.MinPoints <= tiers[i-1].MaxPoints {
			return nil, fmt.Errorf("%w: tier %d overlaps or precedes tier %d", ErrInvalidTiers, i, i-1)
		}
	}

	copied := make([]MultiplierTier, len(tiers))
	copy(copied, tiers)
	return &MultiplierTable{tiers: copied}, nil
}

// DefaultTiers returns the standard payout schedule
func DefaultTiers() []MultiplierTier {
	return []MultiplierTier{
		{MinPoints: 50, MaxPoints: 99, Multiplier: decimal.RequireFromString("1.10")},
		{MinPoints: 100, MaxPoints: 149, Multiplier: decimal.RequireFromString("1.20")},
		{MinPoints: 150, MaxPoints: 199, Multiplier: decimal.RequireFromString("1.30")},
		{MinPoints: 200, MaxPoints: 249, Multiplier: decimal.RequireFromString("1.40")},
		{MinPoints: 250, MaxPoints: 299, Multiplier: decimal.RequireFromString("1.60")},
		{MinPoints: 300, MaxPoints: 399, Multiplier: decimal.RequireFromString("1.80")},
		{MinPoints: 400, MaxPoints: 499, Multiplier: decimal.RequireFromString("2.00")},
		{MinPoints: 500, MaxPoints: 599, Multiplier: decimal.RequireFromString("2.10")},
		{MinPoints: 600, MaxPoints: Unbounded, Multiplier: decimal.RequireFromString("2.20")},
	}
}

// DefaultMultiplierTable returns a table built from DefaultTiers
func DefaultMultiplierTable() *MultiplierTable {
	table, err := NewMultiplierTable(DefaultTiers())
	if err != nil {
		panic(err)
	}
	return table
}

// Lookup returns the multiplier for a points value, or zero when no tier applies
func (m *MultiplierTable) Lookup(points int) decimal.Decimal {
	if points <= 0 {
		return decimal.Zero
	}
	for _, tier := range m.tiers {
		if tier.Contains(points) {
			return tier.Multiplier
		}
	}
	return decimal.Zero
}

// Tiers returns a copy of the table's tiers
func (m *MultiplierTable) Tiers() []MultiplierTier {
	out := make([]MultiplierTier, len(m.tiers))
	copy(out, m.tiers)
	return out
}
