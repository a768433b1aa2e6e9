package dice

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dicepot/bot/common"
	"dicepot/models"
)

func testRound(status models.RoundStatus, rolls int) *models.Round {
	round := &models.Round{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Stake:  decimal.NewFromInt(10),
		Pot:    decimal.NewFromInt(10),
		Status: status,
	}
	for i := 0; i < rolls; i++ {
		round.Rolls = append(round.Rolls, models.Roll{
			Dice:        models.DiceTriple{1, 2, 3},
			Score:       100,
			Multiplier:  decimal.RequireFromString("1.1"),
			Combination: "singles",
		})
		round.TotalScore += 100
	}
	return round
}

func TestBuildRoundEmbed_Active(t *testing.T) {
	round := testRound(models.RoundStatusActive, 0)

	embed := BuildRoundEmbed(round, nil, "alice", nil)

	assert.Equal(t, common.ColorPrimary, embed.Color)
	assert.Contains(t, embed.Title, "alice")
	assert.Contains(t, embed.Description, "Roll three dice")
	require.NotNil(t, embed.Image)
	assert.Equal(t, "attachment://"+ImageFileName, embed.Image.URL)
	assert.Contains(t, embed.Footer.Text, round.ID.String())
}

func TestBuildRoundEmbed_AfterRoll(t *testing.T) {
	round := testRound(models.RoundStatusActive, 1)
	round.Pot = decimal.RequireFromString("11.00")
	last := models.RollOutcome{
		Dice:        models.DiceTriple{1, 3, 5},
		Points:      100,
		Multiplier:  decimal.RequireFromString("1.2"),
		Combination: "straight-135",
		Pot:         decimal.RequireFromString("11.00"),
	}

	embed := BuildRoundEmbed(round, &last, "alice", nil)

	assert.Contains(t, embed.Description, "straight-135")
	assert.Contains(t, embed.Description, "x1.20")
	assert.Contains(t, embed.Description, "11.00")
}

func TestBuildRoundEmbed_Lost(t *testing.T) {
	round := testRound(models.RoundStatusLost, 2)
	round.BustRoll = &models.Roll{
		Dice:        models.DiceTriple{2, 3, 4},
		Multiplier:  decimal.Zero,
		Combination: "bust: not scoring (2-3-4)",
	}

	embed := BuildRoundEmbed(round, nil, "alice", nil)

	assert.Equal(t, common.ColorDanger, embed.Color)
	assert.Contains(t, embed.Description, "Bust")
	assert.Contains(t, embed.Description, "2-3-4")
}

func TestBuildRoundEmbed_CashedOut(t *testing.T) {
	round := testRound(models.RoundStatusCashedOut, 2)
	round.Pot = decimal.RequireFromString("13.20")
	balance := decimal.RequireFromString("103.20")

	embed := BuildRoundEmbed(round, nil, "alice", &balance)

	assert.Equal(t, common.ColorSuccess, embed.Color)
	assert.Contains(t, embed.Description, "13.20")
	assert.Contains(t, embed.Description, "+3.20")

	var found bool
	for _, f := range embed.Fields {
		if f.Name == "Balance" {
			found = true
			assert.Equal(t, "103.20", f.Value)
		}
	}
	assert.True(t, found, "balance field missing")
}

func TestFormatHistory_Truncates(t *testing.T) {
	round := testRound(models.RoundStatusActive, maxHistoryLines+3)

	history := formatHistory(round.Rolls)
	lines := strings.Split(history, "\n")

	require.Len(t, lines, maxHistoryLines+1)
	assert.Equal(t, "… 3 earlier", lines[0])
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], fmt.Sprintf("%d. ", maxHistoryLines+3)))
	assert.Empty(t, formatHistory(nil))
}

func TestBuildStatsEmbed(t *testing.T) {
	t.Run("no rounds", func(t *testing.T) {
		stats := &models.UserStats{
			User:       &models.User{Balance: decimal.NewFromInt(100)},
			RoundStats: &models.RoundStats{},
		}
		embed := BuildStatsEmbed(stats, "bob")
		assert.Contains(t, embed.Description, "No rounds played yet")
		require.Len(t, embed.Fields, 1)
		assert.Equal(t, "100.00", embed.Fields[0].Value)
	})

	t.Run("losing player", func(t *testing.T) {
		stats := &models.UserStats{
			User: &models.User{Balance: decimal.NewFromInt(80)},
			RoundStats: &models.RoundStats{
				TotalRounds:   4,
				CashedOut:     1,
				Lost:          3,
				TotalStaked:   decimal.NewFromInt(40),
				TotalPaidOut:  decimal.NewFromInt(20),
				BiggestPayout: decimal.NewFromInt(20),
			},
			NetProfit:   decimal.NewFromInt(-20),
			CashOutRate: 25,
		}
		embed := BuildStatsEmbed(stats, "bob")
		assert.Equal(t, common.ColorDanger, embed.Color)
		assert.Len(t, embed.Fields, 9)
	})
}
