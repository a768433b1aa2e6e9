package dice

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"dicepot/config"
	"dicepot/models"
)

// Button actions
const (
	ActionRoll    = "roll"
	ActionCashOut = "cashout"

	customIDPrefix = "dice_"
)

// IsDiceCustomID reports whether a component belongs to this feature
func IsDiceCustomID(customID string) bool {
	return strings.HasPrefix(customID, customIDPrefix)
}

// BuildCustomID encodes an action and round into a component custom ID
func BuildCustomID(action string, roundID uuid.UUID) string {
	return fmt.Sprintf("%s%s:%s", customIDPrefix, action, roundID)
}

// ParseCustomID decodes a component custom ID built by BuildCustomID
func ParseCustomID(customID string) (string, uuid.UUID, error) {
	rest, ok := strings.CutPrefix(customID, customIDPrefix)
	if !ok {
		return "", uuid.Nil, fmt.Errorf("not a dice component: %q", customID)
	}
	action, rawID, ok := strings.Cut(rest, ":")
	if !ok {
		return "", uuid.Nil, fmt.Errorf("malformed dice component: %q", customID)
	}
	if action != ActionRoll && action != ActionCashOut {
		return "", uuid.Nil, fmt.Errorf("unknown dice action: %q", action)
	}
	roundID, err := uuid.Parse(rawID)
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("bad round id in %q: %w", customID, err)
	}
	return action, roundID, nil
}

// BuildRoundButtons creates the Roll / Cash out row. Ended rounds get no buttons.
func BuildRoundButtons(round *models.Round) []discordgo.MessageComponent {
	if !round.IsActive() {
		return []discordgo.MessageComponent{}
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "🎲 Roll",
					Style:    discordgo.PrimaryButton,
					CustomID: BuildCustomID(ActionRoll, round.ID),
				},
				discordgo.Button{
					Label:    "💰 Cash out " + formatPot(round),
					Style:    discordgo.SuccessButton,
					CustomID: BuildCustomID(ActionCashOut, round.ID),
					Disabled: config.Get().CashOutRequireGain && !round.Pot.GreaterThan(round.Stake),
				},
			},
		},
	}
}
