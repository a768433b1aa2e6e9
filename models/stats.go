package models

import "github.com/shopspring/decimal"

// RoundStats represents aggregated round statistics for a user
type RoundStats struct {
	TotalRounds   int
	ActiveRounds  int
	CashedOut     int
	Lost          int
	TotalStaked   decimal.Decimal
	TotalPaidOut  decimal.Decimal
	BiggestPayout decimal.Decimal
	LongestStreak int // most non-bust rolls in a single round
	HighestScore  int
}

// UserStats represents combined statistics for a user
type UserStats struct {
	User        *User
	RoundStats  *RoundStats
	NetProfit   decimal.Decimal
	CashOutRate float64 // Percentage as 0-100 of finished rounds
}
