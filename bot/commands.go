package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"

	"dicepot/config"
)

// maxDiscordChoices is the number of choices Discord accepts per option
const maxDiscordChoices = 25

// commandDefinitions builds the slash commands the bot registers
func commandDefinitions(stakes []decimal.Decimal) []*discordgo.ApplicationCommand {
	minAmount := 0.01

	stake := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionNumber,
		Name:        "stake",
		Description: "Amount to stake on the round",
		Required:    true,
		MinValue:    &minAmount,
	}
	if len(stakes) > 0 && len(stakes) <= maxDiscordChoices {
		for _, s := range stakes {
			value, _ := s.Float64()
			stake.Choices = append(stake.Choices, &discordgo.ApplicationCommandOptionChoice{
				Name:  s.StringFixed(2),
				Value: value,
			})
		}
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "balance",
			Description: "Check your current balance",
		},
		{
			Name:        "deposit",
			Description: "Add simulated funds to your balance",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionNumber,
					Name:        "amount",
					Description: "Amount to deposit",
					Required:    true,
					MinValue:    &minAmount,
				},
			},
		},
		{
			Name:        "dice",
			Description: "Push-your-luck dice",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "play",
					Description: "Stake and start a new round",
					Options:     []*discordgo.ApplicationCommandOption{stake},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "stats",
					Description: "Display your dice statistics",
				},
			},
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	for _, cmd := range commandDefinitions(config.Get().AllowedStakes) {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}
	return nil
}
