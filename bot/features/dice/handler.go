package dice

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"dicepot/bot/common"
	"dicepot/config"
	"dicepot/game"
	"dicepot/models"
	"dicepot/service"
)

func (f *Feature) handlePlay(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	ctx := context.Background()

	var stake decimal.Decimal
	for _, opt := range options {
		if opt.Name == "stake" {
			stake = decimal.NewFromFloat(opt.FloatValue()).Round(2)
		}
	}

	user, discordUser, ok := f.resolveUser(ctx, s, i)
	if !ok {
		return
	}

	clientSeed := "discord:" + i.ID
	round, err := f.gameService.StartRound(ctx, user.ID, stake, clientSeed)
	if err != nil {
		log.WithFields(log.Fields{
			"userID": user.ID,
			"stake":  stake.StringFixed(2),
			"error":  err,
		}).Warn("Failed to start dice round")
		common.RespondWithError(s, i, UserMessage(err))
		return
	}

	name := common.GetDisplayName(s, i.GuildID, discordUser)
	embed := BuildRoundEmbed(round, nil, name, nil)
	files, err := f.renderFiles(models.DiceTriple{1, 5, 6}, "Ready to roll", false)
	if err != nil {
		log.WithError(err).Warn("Failed to render dice image")
		embed.Image = nil
	}

	if err := common.RespondWithEmbed(s, i, embed, BuildRoundButtons(round), files, false); err != nil {
		log.Errorf("Error responding to dice play command: %v", err)
	}
}

func (f *Feature) handleButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	action, roundID, err := ParseCustomID(i.MessageComponentData().CustomID)
	if err != nil {
		log.WithError(err).Warn("Ignoring dice component")
		common.RespondWithError(s, i, "Unknown action.")
		return
	}

	user, discordUser, ok := f.resolveUser(ctx, s, i)
	if !ok {
		return
	}
	name := common.GetDisplayName(s, i.GuildID, discordUser)

	switch action {
	case ActionRoll:
		result, err := f.gameService.Roll(ctx, roundID, user.ID)
		if err != nil {
			common.RespondWithError(s, i, UserMessage(err))
			return
		}
		outcome := result.Outcome
		embed := BuildRoundEmbed(result.Round, &outcome, name, nil)
		files := f.filesOrDropImage(embed, outcome.Dice, outcome.Combination, outcome.Bust)
		if err := common.UpdateComponentMessage(s, i, embed, BuildRoundButtons(result.Round), files); err != nil {
			log.Errorf("Error updating dice message: %v", err)
		}

	case ActionCashOut:
		result, err := f.gameService.CashOut(ctx, roundID, user.ID)
		if err != nil {
			common.RespondWithError(s, i, UserMessage(err))
			return
		}
		balance := result.NewBalance
		embed := BuildRoundEmbed(result.Round, nil, name, &balance)
		var last models.DiceTriple
		if n := len(result.Round.Rolls); n > 0 {
			last = result.Round.Rolls[n-1].Dice
		}
		files := f.filesOrDropImage(embed, last, "Cashed out "+common.FormatAmount(result.Payout), false)
		if err := common.UpdateComponentMessage(s, i, embed, BuildRoundButtons(result.Round), files); err != nil {
			log.Errorf("Error updating dice message: %v", err)
		}
	}
}

func (f *Feature) handleStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	user, discordUser, ok := f.resolveUser(ctx, s, i)
	if !ok {
		return
	}

	stats, err := f.statsService.GetUserStats(ctx, user.ID)
	if err != nil {
		log.Errorf("Error getting stats for user %s: %v", user.ID, err)
		common.RespondWithError(s, i, "Unable to retrieve stats. Please try again.")
		return
	}

	embed := BuildStatsEmbed(stats, common.GetDisplayName(s, i.GuildID, discordUser))
	if err := common.RespondWithEmbed(s, i, embed, nil, nil, false); err != nil {
		log.Errorf("Error responding to dice stats command: %v", err)
	}
}

// resolveUser maps the interacting Discord user to an account, creating it on first use
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
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return nil, nil, false
	}
	return user, discordUser, true
}

func (f *Feature) renderFiles(dice models.DiceTriple, label string, bust bool) ([]*discordgo.File, error) {
	png, err := RenderDice(dice, label, bust, f.style)
	if err != nil {
		return nil, err
	}
	return []*discordgo.File{{
		Name:        ImageFileName,
		ContentType: "image/png",
		Reader:      bytes.NewReader(png),
	}}, nil
}

func (f *Feature) filesOrDropImage(embed *discordgo.MessageEmbed, dice models.DiceTriple, label string, bust bool) []*discordgo.File {
	files, err := f.renderFiles(dice, label, bust)
	if err != nil {
		log.WithError(err).Warn("Failed to render dice image")
		embed.Image = nil
		return nil
	}
	return files
}

// UserMessage turns a service error into a short message for the player
func UserMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrInsufficientBalance):
		return "Insufficient balance for this stake. Use `/deposit` to top up."
	case errors.Is(err, service.ErrStakeNotAllowed), errors.Is(err, game.ErrInvalidStake):
		return "Stake must be one of: " + allowedStakes()
	case errors.Is(err, service.ErrDailyLimitReached):
		return "Daily stake limit reached (" + strings.TrimPrefix(err.Error(), service.ErrDailyLimitReached.Error()+": ") + ")."
	case errors.Is(err, game.ErrNothingToCashOut):
		return "Roll at least once before cashing out."
	case errors.Is(err, game.ErrInvalidState):
		return "This round has already ended."
	case errors.Is(err, service.ErrForbidden):
		return "This isn't your round. Start your own with `/dice play`."
	case errors.Is(err, service.ErrRoundNotFound):
		return "Round not found."
	default:
		return "Unable to process request. Please try again."
	}
}

func allowedStakes() string {
	stakes := config.Get().AllowedStakes
	if len(stakes) == 0 {
		return "any positive amount"
	}
	parts := make([]string, len(stakes))
	for i, s := range stakes {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}
