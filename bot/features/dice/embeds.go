package dice

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"

	"dicepot/bot/common"
	"dicepot/models"
)

// ImageFileName is the attachment name the round embed points at
const ImageFileName = "dice.png"

// maxHistoryLines caps the rolls listed in an embed
const maxHistoryLines = 8

func formatPot(round *models.Round) string {
	return common.FormatAmount(round.Pot)
}

// BuildRoundEmbed renders a round. last is the most recent outcome, nil before the first roll.
// payout and balance are shown once the round is cashed out.
func BuildRoundEmbed(round *models.Round, last *models.RollOutcome, playerName string, balance *decimal.Decimal) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("🎲 %s's round", playerName),
		Color:     common.ColorPrimary,
		Timestamp: time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Stake", Value: common.FormatAmount(round.Stake), Inline: true},
			{Name: "Pot", Value: formatPot(round), Inline: true},
			{Name: "Score", Value: fmt.Sprintf("%d", round.TotalScore), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Round " + round.ID.String(),
		},
	}

	switch round.Status {
	case models.RoundStatusActive:
		if last == nil {
			embed.Description = "Roll three dice. 1s, 5s, triples and straights grow the pot. Anything else busts."
		} else {
			embed.Description = fmt.Sprintf("%s: **%s** for %d points, pot %s → **%s**",
				common.FormatDice(last.Dice), last.Combination, last.Points,
				common.FormatMultiplier(last.Multiplier), common.FormatAmount(last.Pot))
		}
	case models.RoundStatusLost:
		embed.Color = common.ColorDanger
		embed.Description = "💥 **Bust!** The stake is lost."
		if round.BustRoll != nil {
			embed.Description = fmt.Sprintf("💥 **Bust!** %s (%s). The stake is lost.",
				common.FormatDice(round.BustRoll.Dice), round.BustRoll.Combination)
		}
	case models.RoundStatusCashedOut:
		embed.Color = common.ColorSuccess
		embed.Description = fmt.Sprintf("💰 Cashed out **%s** (%s)",
			formatPot(round), common.FormatSignedAmount(round.Gain()))
		if balance != nil {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name: "Balance", Value: common.FormatAmount(*balance), Inline: true,
			})
		}
	}

	if history := formatHistory(round.Rolls); history != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("Rolls (%d)", len(round.Rolls)),
			Value: history,
		})
	}

	embed.Image = &discordgo.MessageEmbedImage{URL: "attachment://" + ImageFileName}
	return embed
}

// formatHistory lists the most recent scoring rolls, newest last
func formatHistory(rolls []models.Roll) string {
	if len(rolls) == 0 {
		return ""
	}
	startIdx := 0
	if len(rolls) > maxHistoryLines {
		startIdx = len(rolls) - maxHistoryLines
	}

	var lines []string
	if startIdx > 0 {
		lines = append(lines, fmt.Sprintf("… %d earlier", startIdx))
	}
	for i, roll := range rolls[startIdx:] {
		lines = append(lines, fmt.Sprintf("%d. %s %s +%d %s",
			startIdx+i+1, common.FormatDice(roll.Dice), roll.Combination, roll.Score, common.FormatMultiplier(roll.Multiplier)))
	}
	return strings.Join(lines, "\n")
}

// BuildStatsEmbed renders a player's round statistics
func BuildStatsEmbed(stats *models.UserStats, playerName string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("📊 Dice stats for %s", playerName),
		Color:     common.ColorPrimary,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if stats.User != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Balance", Value: common.FormatAmount(stats.User.Balance), Inline: true,
		})
	}

	rs := stats.RoundStats
	if rs == nil || rs.TotalRounds == 0 {
		embed.Description = "No rounds played yet. Try `/dice play`."
		return embed
	}

	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: "Rounds", Value: fmt.Sprintf("%d (%d active)", rs.TotalRounds, rs.ActiveRounds), Inline: true},
		&discordgo.MessageEmbedField{Name: "Cashed out / Lost", Value: fmt.Sprintf("%d / %d (%.1f%%)", rs.CashedOut, rs.Lost, stats.CashOutRate), Inline: true},
		&discordgo.MessageEmbedField{Name: "Staked", Value: common.FormatAmount(rs.TotalStaked), Inline: true},
		&discordgo.MessageEmbedField{Name: "Paid out", Value: common.FormatAmount(rs.TotalPaidOut), Inline: true},
		&discordgo.MessageEmbedField{Name: "Net", Value: common.FormatSignedAmount(stats.NetProfit), Inline: true},
		&discordgo.MessageEmbedField{Name: "Biggest payout", Value: common.FormatAmount(rs.BiggestPayout), Inline: true},
		&discordgo.MessageEmbedField{Name: "Longest streak", Value: fmt.Sprintf("%d rolls", rs.LongestStreak), Inline: true},
		&discordgo.MessageEmbedField{Name: "Highest score", Value: fmt.Sprintf("%d", rs.HighestScore), Inline: true},
	)
	if stats.NetProfit.IsNegative() {
		embed.Color = common.ColorDanger
	} else if stats.NetProfit.IsPositive() {
		embed.Color = common.ColorSuccess
	}
	return embed
}
