package dice

import (
	"github.com/bwmarrin/discordgo"

	"dicepot/bot/common"
	"dicepot/service"
)

// Feature implements /dice and the Roll / Cash out buttons
type Feature struct {
	userService  service.UserService
	gameService  service.GameService
	statsService service.StatsService
	style        ImageStyle
}

// New creates a new dice feature instance
func New(userService service.UserService, gameService service.GameService, statsService service.StatsService) *Feature {
	return &Feature{
		userService:  userService,
		gameService:  gameService,
		statsService: statsService,
		style:        DefaultImageStyle,
	}
}

// HandleCommand handles the /dice command and its subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify a subcommand: play or stats")
		return
	}

	switch options[0].Name {
	case "play":
		f.handlePlay(s, i, options[0].Options)
	case "stats":
		f.handleStats(s, i)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}

// HandleInteraction handles dice button clicks
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	if !IsDiceCustomID(i.MessageComponentData().CustomID) {
		return
	}
	f.handleButton(s, i)
}
