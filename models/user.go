package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a player account with a simulated balance.
// Web users authenticate with email and password; Discord users are keyed by DiscordID.
type User struct {
	ID            uuid.UUID       `db:"id"`
	Email         *string         `db:"email"`
	PasswordHash  string          `db:"password_hash"`
	Name          string          `db:"name"`
	Phone         *string         `db:"phone"`
	DiscordID     *int64          `db:"discord_id"`
	WalletAddress string          `db:"wallet_address"`
	Balance       decimal.Decimal `db:"balance"`
	IsAdmin       bool            `db:"is_admin"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

// NewUser holds the fields required to create a user
type NewUser struct {
	Email          *string
	PasswordHash   string
	Name           string
	Phone          *string
	DiscordID      *int64
	WalletAddress  string
	InitialBalance decimal.Decimal
}

// ProfileUpdate holds the optional profile fields a user may change
type ProfileUpdate struct {
	Name  *string
	Phone *string
}

// DisplayEmail returns the email or an empty string for Discord-only users
func (u *User) DisplayEmail() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}
