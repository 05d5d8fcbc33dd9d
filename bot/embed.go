package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/HavenSelph/NamelessBot/types"
)

const entryDateLayout = "Jan 2, 2006"

// Usernames may contain underscores, which discord would render as italics
func escapeMarkdown(text string) string {
	return strings.ReplaceAll(text, "_", "\\_")
}

func makeEntryEmbed(entry types.WhitelistEntry, title string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: title,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("<@%s>", entry.DiscordID), Inline: true},
			{Name: "Type", Value: string(entry.Type), Inline: true},
			{Name: "​", Value: "​"},
			{Name: "Username", Value: escapeMarkdown(entry.MinecraftUsername), Inline: true},
			{Name: "UUID", Value: entry.MinecraftUUID, Inline: true},
			{Name: "Date", Value: entry.AddedOn.Format(entryDateLayout), Inline: true},
		},
	}
	if entry.MinecraftAvatar != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: entry.MinecraftAvatar}
	}
	return embed
}

func makeEntryListEmbed(entries []types.WhitelistEntry, title string) *discordgo.MessageEmbed {
	var users, accounts, dates strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&users, "<@%s>\n", entry.DiscordID)
		fmt.Fprintf(&accounts, "%s\n", entry.MinecraftUsername)
		fmt.Fprintf(&dates, "%s\n", entry.AddedOn.Format(entryDateLayout))
	}
	return &discordgo.MessageEmbed{
		Title: title,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: users.String(), Inline: true},
			{Name: "Account", Value: escapeMarkdown(accounts.String()), Inline: true},
			{Name: "Date", Value: dates.String(), Inline: true},
		},
	}
}
