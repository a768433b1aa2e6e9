package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCommand(t *testing.T, cmds []*discordgo.ApplicationCommand, name string) *discordgo.ApplicationCommand {
	t.Helper()
	for _, c := range cmds {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("command %q not registered", name)
	return nil
}

func TestCommandDefinitions(t *testing.T) {
	stakes := []decimal.Decimal{decimal.NewFromInt(5), decimal.RequireFromString("12.5")}
	cmds := commandDefinitions(stakes)

	require.Len(t, cmds, 3)
	findCommand(t, cmds, "balance")
	assert.Len(t, findCommand(t, cmds, "deposit").Options, 1)

	dice := findCommand(t, cmds, "dice")
	require.Len(t, dice.Options, 2)
	play := dice.Options[0]
	assert.Equal(t, "play", play.Name)
	require.Len(t, play.Options, 1)

	choices := play.Options[0].Choices
	require.Len(t, choices, 2)
	assert.Equal(t, "5.00", choices[0].Name)
	assert.Equal(t, 12.5, choices[1].Value)
}

func TestCommandDefinitions_FreeStake(t *testing.T) {
	cmds := commandDefinitions(nil)
	play := findCommand(t, cmds, "dice").Options[0]
	assert.Empty(t, play.Options[0].Choices)
}
