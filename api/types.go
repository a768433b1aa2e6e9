package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dicepot/models"
)

// UserResponse is the public view of an account
type UserResponse struct {
	ID            uuid.UUID       `json:"id"`
	Email         *string         `json:"email,omitempty"`
	Name          string          `json:"name"`
	Phone         *string         `json:"phone,omitempty"`
	WalletAddress string          `json:"walletAddress"`
	Balance       decimal.Decimal `json:"balance"`
	IsAdmin       bool            `json:"isAdmin"`
}

func newUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Phone:         u.Phone,
		WalletAddress: u.WalletAddress,
		Balance:       u.Balance,
		IsAdmin:       u.IsAdmin,
	}
}

type RegisterRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
	Phone    *string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

type UserEnvelope struct {
	User UserResponse `json:"user"`
}

type ProfileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type WithdrawRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	Address string          `json:"address"`
}

type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
	Message string          `json:"message,omitempty"`
}

type HistoryResponse struct {
	History []*models.BalanceHistory `json:"history"`
}

type StartRoundRequest struct {
	Stake      decimal.Decimal `json:"stake"`
	ClientSeed string          `json:"clientSeed"`
}

// RoundActionRequest identifies the round a roll or cash out applies to
type RoundActionRequest struct {
	RoundID uuid.UUID `json:"roundId"`
}

type RoundEnvelope struct {
	Round *models.Round `json:"round"`
}

type RoundsResponse struct {
	Rounds []*models.Round `json:"rounds"`
}

type RollResponse struct {
	Round  *models.Round      `json:"round"`
	Result models.RollOutcome `json:"result"`
}

type CashOutResponse struct {
	Round   *models.Round   `json:"round"`
	Payout  decimal.Decimal `json:"payout"`
	Balance decimal.Decimal `json:"balance"`
}

// StatsResponse flattens round statistics for the client
type StatsResponse struct {
	TotalRounds   int             `json:"totalRounds"`
	ActiveRounds  int             `json:"activeRounds"`
	CashedOut     int             `json:"cashedOut"`
	Lost          int             `json:"lost"`
	TotalStaked   decimal.Decimal `json:"totalStaked"`
	TotalPaidOut  decimal.Decimal `json:"totalPaidOut"`
	BiggestPayout decimal.Decimal `json:"biggestPayout"`
	LongestStreak int             `json:"longestStreak"`
	HighestScore  int             `json:"highestScore"`
	NetProfit     decimal.Decimal `json:"netProfit"`
	CashOutRate   float64         `json:"cashOutRate"`
	Balance       decimal.Decimal `json:"balance"`
}

func newStatsResponse(s *models.UserStats) StatsResponse {
	resp := StatsResponse{
		NetProfit:   s.NetProfit,
		CashOutRate: s.CashOutRate,
	}
	if s.User != nil {
		resp.Balance = s.User.Balance
	}
	if rs := s.RoundStats; rs != nil {
		resp.TotalRounds = rs.TotalRounds
		resp.ActiveRounds = rs.ActiveRounds
		resp.CashedOut = rs.CashedOut
		resp.Lost = rs.Lost
		resp.TotalStaked = rs.TotalStaked
		resp.TotalPaidOut = rs.TotalPaidOut
		resp.BiggestPayout = rs.BiggestPayout
		resp.LongestStreak = rs.LongestStreak
		resp.HighestScore = rs.HighestScore
	}
	return resp
}

type HealthResponse struct {
	OK       bool   `json:"ok"`
	Database string `json:"database,omitempty"`
	Uptime   string `json:"uptime"`
}
