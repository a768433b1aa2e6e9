package main

import (
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dicepot/game"
	"dicepot/models"
)

// ThrowOdds summarizes the exact distribution of a single throw
type ThrowOdds struct {
	Outcomes           int
	BustCount          int
	BustProbability    float64
	ExpectedMultiplier float64 // over all throws, a bust counts as zero
	ByLabel            map[string]int
}

// EnumerateThrows resolves all 216 ordered throws against the table
func EnumerateThrows(table *game.MultiplierTable) ThrowOdds {
	resolver := game.NewResolver(nil, table)
	odds := ThrowOdds{ByLabel: map[string]int{}}
	sum := 0.0

	for a := 1; a <= game.DieFaces; a++ {
		for b := 1; b <= game.DieFaces; b++ {
			for c := 1; c <= game.DieFaces; c++ {
				outcome := resolver.Resolve(models.DiceTriple{a, b, c}, decimal.NewFromInt(1))
				odds.Outcomes++
				if outcome.Bust {
					odds.BustCount++
					odds.ByLabel["bust"]++
					continue
				}
				odds.ByLabel[outcome.Combination]++
				m, _ := outcome.Multiplier.Float64()
				sum += m
			}
		}
	}

	odds.BustProbability = float64(odds.BustCount) / float64(odds.Outcomes)
	odds.ExpectedMultiplier = sum / float64(odds.Outcomes)
	return odds
}

// Labels returns the combination labels sorted by frequency, most common first
func (o ThrowOdds) Labels() []string {
	labels := make([]string, 0, len(o.ByLabel))
	for l := range o.ByLabel {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		if o.ByLabel[labels[i]] == o.ByLabel[labels[j]] {
			return labels[i] < labels[j]
		}
		return o.ByLabel[labels[i]] > o.ByLabel[labels[j]]
	})
	return labels
}

// ExpectedReturn is the exact return to player for cashing out after n scoring rolls
func (o ThrowOdds) ExpectedReturn(n int) float64 {
	return math.Pow(o.ExpectedMultiplier, float64(n))
}

// StrategyResult is the simulated outcome of a fixed cash-out strategy
type StrategyResult struct {
	TargetRolls int
	Rounds      int
	CashedOut   int
	Staked      decimal.Decimal
	PaidOut     decimal.Decimal
}

// ReturnToPlayer is paid out divided by staked
func (r StrategyResult) ReturnToPlayer() float64 {
	if r.Staked.IsZero() {
		return 0
	}
	rtp, _ := r.PaidOut.Div(r.Staked).Float64()
	return rtp
}

// SimulateStrategy plays rounds that cash out after targetRolls scoring rolls
func SimulateStrategy(engine *game.Engine, targetRolls, rounds int, stake decimal.Decimal) (StrategyResult, error) {
	result := StrategyResult{TargetRolls: targetRolls, Rounds: rounds, Staked: decimal.Zero, PaidOut: decimal.Zero}
	player := uuid.New()

	for i := 0; i < rounds; i++ {
		round, err := game.NewRound(player, stake, "")
		if err != nil {
			return result, err
		}
		result.Staked = result.Staked.Add(stake)

		for round.IsActive() && len(round.Rolls) < targetRolls {
			if _, err := engine.Roll(round); err != nil {
				return result, err
			}
		}
		if !round.IsActive() {
			continue
		}
		if err := engine.CashOut(round); err != nil {
			return result, err
		}
		result.CashedOut++
		result.PaidOut = result.PaidOut.Add(round.Pot)
	}
	return result, nil
}

// FaceChiSquared draws throws from a dice source and returns the chi-squared
// statistic of the face counts against a uniform distribution (5 degrees of freedom)
func FaceChiSquared(dice game.DiceSource, throws int) (float64, [game.DieFaces]int) {
	var counts [game.DieFaces]int
	for i := 0; i < throws; i++ {
		for _, v := range dice.Roll() {
			counts[v-1]++
		}
	}

	expected := float64(throws*game.DiceCount) / game.DieFaces
	chi := 0.0
	for _, c := range counts {
		chi += math.Pow(float64(c)-expected, 2) / expected
	}
	return chi, counts
}
