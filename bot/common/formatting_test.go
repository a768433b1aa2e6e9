package common

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"dicepot/models"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"5", "5.00"},
		{"13.2", "13.20"},
		{"999.999", "1,000.00"},
		{"1234567.5", "1,234,567.50"},
		{"-1500", "-1,500.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatSignedAmount(t *testing.T) {
	assert.Equal(t, "+8.20", FormatSignedAmount(decimal.RequireFromString("8.2")))
	assert.Equal(t, "-5.00", FormatSignedAmount(decimal.NewFromInt(-5)))
	assert.Equal(t, "0.00", FormatSignedAmount(decimal.Zero))
}

func TestFormatMultiplier(t *testing.T) {
	assert.Equal(t, "x1.20", FormatMultiplier(decimal.RequireFromString("1.2")))
}

func TestFormatDice(t *testing.T) {
	assert.Equal(t, "⚀ ⚂ ⚄ (1-3-5)", FormatDice(models.DiceTriple{1, 3, 5}))
	assert.Equal(t, "? ⚅ ⚅ (0-6-6)", FormatDice(models.DiceTriple{0, 6, 6}))
}

func TestFormatDiscordTimestamp(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	assert.Equal(t, "<t:1700000000:R>", FormatDiscordTimestamp(ts, "R"))
}
