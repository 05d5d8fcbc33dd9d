package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/HavenSelph/NamelessBot/db"
	"github.com/HavenSelph/NamelessBot/types"
)

const (
	listPageSize     = 20
	listCustomIDBase = "whitelist-list"
)

func (svc *Service) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		svc.logger.WithFields(logrus.Fields{
			"command": data.Name,
			"user":    interactionUserID(i),
		}).Info("Running command")
		switch data.Name {
		case "whitelist":
			svc.handleWhitelist(s, i, data)
		case "map":
			svc.handleMap(s, i, data)
		case "ping":
			svc.respondText(s, i, "Pong!")
		case "whoami":
			svc.respondText(s, i, fmt.Sprintf("<@%s>", interactionUserID(i)))
		}
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		if strings.HasPrefix(customID, listCustomIDBase+":") {
			svc.handleListPage(s, i, customID)
		}
	}
}

func (svc *Service) handleWhitelist(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	if err := svc.deferEphemeral(s, i); err != nil {
		svc.logger.WithFields(logrus.Fields{
			"err": err.Error(),
		}).Error("Unable to defer interaction response")
		return
	}
	path, opts := subcommandPath(data)
	switch path {
	case "add":
		svc.whitelistAdd(s, i, opts)
	case "remove/account":
		svc.whitelistRemoveAccount(s, i, opts)
	case "remove/user":
		svc.whitelistRemoveUser(s, i, opts)
	case "query/account":
		svc.whitelistQueryAccount(s, i, opts)
	case "query/user":
		svc.whitelistQueryUser(s, i, opts)
	case "list":
		svc.whitelistList(s, i)
	case "clear":
		svc.whitelistClear(s, i, opts)
	}
}

func (svc *Service) whitelistAdd(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	user := optionValue(opts, "discord_user").UserValue(s)
	accountType := types.AccountType(optionValue(opts, "account_type").StringValue())
	account := optionValue(opts, "minecraft_account").StringValue()

	entry, err := svc.whitelist.Add(context.Background(), user.ID, account, accountType)
	if err != nil {
		// Resolver and store errors carry the user-facing message
		svc.editText(s, i, err.Error())
		return
	}
	svc.editEmbed(s, i, makeEntryEmbed(entry, "Whitelist Entry"))
}

func (svc *Service) whitelistRemoveAccount(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	accountType := types.AccountType(optionValue(opts, "account_type").StringValue())
	account := optionValue(opts, "minecraft_account").StringValue()

	stored := types.StoredUsername(account, accountType)
	res, err := svc.whitelist.RemoveOne(context.Background(), db.ByUsername(stored))
	if err != nil || !res.Acknowledged {
		svc.editText(s, i, "Something went wrong, please try again.")
		return
	}
	if res.DeletedCount > 0 {
		svc.editText(s, i, fmt.Sprintf("Successfully removed %d entries from the whitelist.", res.DeletedCount))
		return
	}
	svc.editText(s, i, "No entries found with those filters.")
}

func (svc *Service) whitelistRemoveUser(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	user := optionValue(opts, "discord_user").UserValue(s)
	res, err := svc.whitelist.RemoveForUser(context.Background(), user.ID)
	if err != nil || !res.Acknowledged {
		svc.editText(s, i, "Something went wrong, please try again.")
		return
	}
	if res.DeletedCount > 0 {
		svc.editText(s, i, fmt.Sprintf("Successfully removed %d entries from the whitelist.", res.DeletedCount))
		return
	}
	svc.editText(s, i, "No entries found with those filters.")
}

func (svc *Service) whitelistQueryAccount(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	accountType := types.AccountType(optionValue(opts, "account_type").StringValue())
	account := optionValue(opts, "minecraft_account").StringValue()

	stored := types.StoredUsername(account, accountType)
	entry, err := svc.whitelist.QueryOne(context.Background(), db.ByUsername(stored))
	if err != nil {
		svc.editText(s, i, "Something went wrong, please try again.")
		return
	}
	if entry == nil {
		svc.editText(s, i, "This account is not in the whitelist.")
		return
	}
	svc.editEmbed(s, i, makeEntryEmbed(*entry, "Whitelist Entry"))
}

func (svc *Service) whitelistQueryUser(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	user := optionValue(opts, "discord_user").UserValue(s)
	entries, err := svc.whitelist.QueryMany(context.Background(), db.ByDiscordID(user.ID))
	if err != nil {
		svc.editText(s, i, "Something went wrong, please try again.")
		return
	}
	if len(entries) == 0 {
		svc.editText(s, i, "This user has no whitelist entries.")
		return
	}
	svc.editEmbed(s, i, makeEntryListEmbed(entries, "Whitelist Entries"))
}

func (svc *Service) whitelistList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	total, err := svc.whitelist.Count(ctx, db.All())
	if err != nil {
		svc.editText(s, i, "Something went wrong, please try again.")
		return
	}
	if total == 0 {
		svc.editText(s, i, "No entries found.")
		return
	}
	embed, err := svc.listPageEmbed(ctx, 0, total)
	if err != nil {
		svc.editText(s, i, "Something went wrong, please try again.")
		return
	}
	// Why make a book if you only have one page
	if total <= listPageSize {
		svc.editEmbed(s, i, embed)
		return
	}
	components := listPageButtons(0, total)
	_, err = s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &components,
	})
	if err != nil {
		svc.logger.WithFields(logrus.Fields{
			"err": err.Error(),
		}).Error("Unable to edit interaction response")
	}
}

// handleListPage flips one page of the whitelist list. The target offset is
// carried in the button's custom id, so no collector state is held
func (svc *Service) handleListPage(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	skip, err := strconv.ParseInt(strings.TrimPrefix(customID, listCustomIDBase+":"), 10, 64)
	if err != nil {
		return
	}
	ctx := context.Background()
	total, err := svc.whitelist.Count(ctx, db.All())
	if err != nil {
		return
	}
	if skip < 0 || skip >= total {
		svc.logger.WithFields(logrus.Fields{
			"skip": skip,
		}).Debug("Page flip out of bounds")
		skip = 0
	}
	embed, err := svc.listPageEmbed(ctx, skip, total)
	if err != nil {
		return
	}
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: listPageButtons(skip, total),
		},
	})
	if err != nil {
		svc.logger.WithFields(logrus.Fields{
			"err": err.Error(),
		}).Error("Unable to update list page")
	}
}

func (svc *Service) listPageEmbed(ctx context.Context, skip, total int64) (*discordgo.MessageEmbed, error) {
	entries, err := svc.whitelist.QueryManyPaginated(ctx, db.All(), skip, listPageSize)
	if err != nil {
		return nil, err
	}
	embed := makeEntryListEmbed(entries, "Whitelist Entries")
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: listFooter(skip, int64(len(entries)), total),
	}
	return embed, nil
}

func listFooter(skip, shown, total int64) string {
	page := skip/listPageSize + 1
	pages := (total + listPageSize - 1) / listPageSize
	noun := "entries"
	if shown == 1 {
		noun = "entry"
	}
	return fmt.Sprintf("Page %d of %d - %d %s of %d total.", page, pages, shown, noun, total)
}

func listPageButtons(skip, total int64) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Previous",
					Emoji:    &discordgo.ComponentEmoji{Name: "⬅️"},
					Style:    discordgo.SecondaryButton,
					CustomID: fmt.Sprintf("%s:%d", listCustomIDBase, skip-listPageSize),
					Disabled: skip-listPageSize < 0,
				},
				discordgo.Button{
					Label:    "Next",
					Emoji:    &discordgo.ComponentEmoji{Name: "➡"},
					Style:    discordgo.PrimaryButton,
					CustomID: fmt.Sprintf("%s:%d", listCustomIDBase, skip+listPageSize),
					Disabled: skip+listPageSize >= total,
				},
			},
		},
	}
}

func (svc *Service) whitelistClear(s *discordgo.Session, i *discordgo.InteractionCreate, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	confirm := false
	if opt := optionValue(opts, "confirm"); opt != nil {
		confirm = opt.BoolValue()
	}
	if !confirm {
		svc.editText(s, i, "Are you sure you want to clear the whitelist? If so please rerun the command with the confirm option set to true.")
		return
	}
	res, err := svc.whitelist.RemoveMany(context.Background(), db.All())
	if err != nil || !res.Acknowledged {
		svc.editText(s, i, "Something went wrong, please try again.")
		return
	}
	if res.DeletedCount > 0 {
		svc.editText(s, i, fmt.Sprintf("Successfully removed %d entries from the whitelist.", res.DeletedCount))
		return
	}
	svc.editText(s, i, "The whitelist is already empty.")
}
