package balance

import (
	"github.com/bwmarrin/discordgo"

	"dicepot/service"
)

type Feature struct {
	userService   service.UserService
	walletService service.WalletService
}

func New(userService service.UserService, walletService service.WalletService) *Feature {
	return &Feature{
		userService:   userService,
		walletService: walletService,
	}
}

// HandleBalance handles /balance
func (f *Feature) HandleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleBalance(s, i)
}

// HandleDeposit handles /deposit
func (f *Feature) HandleDeposit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleDeposit(s, i)
}
