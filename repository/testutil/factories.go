package testutil

import (
	"fmt"
	"time"

	"dicepot/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultBalance is the balance given to users created by the factories
var DefaultBalance = decimal.RequireFromString("100.00")

// CreateTestNewUser returns the fields for an email account with the default balance
func CreateTestNewUser(email string) *models.NewUser {
	return &models.NewUser{
		Email:          &email,
		PasswordHash:   "$2a$10$testhashtesthashtesthashtesthashtesthashtesthashtest",
		Name:           "Test User",
		WalletAddress:  "0x" + fmt.Sprintf("%040x", time.Now().UnixNano()),
		InitialBalance: DefaultBalance,
	}
}

// CreateTestDiscordUser returns the fields for a Discord-linked account
func CreateTestDiscordUser(discordID int64, name string) *models.NewUser {
	return &models.NewUser{
		DiscordID:      &discordID,
		Name:           name,
		WalletAddress:  "0x" + fmt.Sprintf("%040x", discordID),
		InitialBalance: DefaultBalance,
	}
}

// CreateTestRound creates an ACTIVE round with pot equal to stake
func CreateTestRound(userID uuid.UUID, stake decimal.Decimal) *models.Round {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.Round{
		ID:         uuid.New(),
		UserID:     userID,
		Stake:      stake,
		Pot:        stake,
		Rolls:      []models.Roll{},
		Status:     models.RoundStatusActive,
		ClientSeed: "test-seed",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// CreateTestRoll creates a scoring roll record
func CreateTestRoll(dice models.DiceTriple, score int, multiplier string, combination string) models.Roll {
	return models.Roll{
		Dice:        dice,
		Score:       score,
		Multiplier:  decimal.RequireFromString(multiplier),
		Combination: combination,
	}
}

// CreateTestBalanceHistory creates a test balance history entry
func CreateTestBalanceHistory(userID uuid.UUID, transactionType models.TransactionType) *models.BalanceHistory {
	return &models.BalanceHistory{
		UserID:          userID,
		BalanceBefore:   decimal.RequireFromString("100.00"),
		BalanceAfter:    decimal.RequireFromString("90.00"),
		ChangeAmount:    decimal.RequireFromString("-10.00"),
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
	}
}
