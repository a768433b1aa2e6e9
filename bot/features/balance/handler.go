package balance

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"dicepot/bot/common"
	"dicepot/models"
	"dicepot/service"
)

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	user, discordUser, ok := f.resolveUser(ctx, s, i)
	if !ok {
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, discordUser)
	message := fmt.Sprintf("%s, your current balance: **%s**", displayName, common.FormatAmount(user.Balance))
	if err := common.RespondWithSuccess(s, i, message, false); err != nil {
		log.Errorf("Error responding to balance command: %v", err)
	}
}

func (f *Feature) handleDeposit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	var amount decimal.Decimal
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "amount" {
			amount = decimal.NewFromFloat(opt.FloatValue()).Round(2)
		}
	}

	user, discordUser, ok := f.resolveUser(ctx, s, i)
	if !ok {
		return
	}

	newBalance, err := f.walletService.Deposit(ctx, user.ID, amount)
	if err != nil {
		log.WithFields(log.Fields{
			"userID": user.ID,
			"amount": amount.StringFixed(2),
			"error":  err,
		}).Warn("Deposit failed")
		common.RespondWithError(s, i, DepositErrorMessage(err))
		return
	}

	displayName := common.GetDisplayName(s, i.GuildID, discordUser)
	message := fmt.Sprintf("%s deposited **%s**. New balance: **%s**",
		displayName, common.FormatAmount(amount), common.FormatAmount(newBalance))
	if err := common.RespondWithSuccess(s, i, message, true); err != nil {
		log.Errorf("Error responding to deposit command: %v", err)
	}
}

func (f *Feature) resolveUser(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) (*models.User, *discordgo.User, bool) {
	discordID, discordUser, err := common.InteractionDiscordID(i)
	if err != nil {
		log.Errorf("Error reading Discord user from interaction: %v", err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return nil, nil, false
	}

	user, err := f.userService.GetOrCreateDiscordUser(ctx, discordID, discordUser.Username)
	if err != nil {
		log.Errorf("Error getting user %d: %v", discordID, err)
		common.RespondWithError(s, i, "Unable to retrieve balance. Please try again.")
		return nil, nil, false
	}
	return user, discordUser, true
}

// DepositErrorMessage turns a wallet error into a message for the player
func DepositErrorMessage(err error) string {
	if errors.Is(err, service.ErrInvalidAmount) {
		return "Amount must be greater than zero."
	}
	return "Unable to process deposit. Please try again."
}
