package bot

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HavenSelph/NamelessBot/types"
)

func TestSubcommandPath(t *testing.T) {
	tests := []struct {
		name    string
		options []*discordgo.ApplicationCommandInteractionDataOption
		want    string
	}{
		{
			name: "bare subcommand",
			options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "add", Type: discordgo.ApplicationCommandOptionSubCommand},
			},
			want: "add",
		},
		{
			name: "grouped subcommand",
			options: []*discordgo.ApplicationCommandInteractionDataOption{
				{
					Name: "remove",
					Type: discordgo.ApplicationCommandOptionSubCommandGroup,
					Options: []*discordgo.ApplicationCommandInteractionDataOption{
						{Name: "account", Type: discordgo.ApplicationCommandOptionSubCommand},
					},
				},
			},
			want: "remove/account",
		},
		{
			name: "no options",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := subcommandPath(discordgo.ApplicationCommandInteractionData{Options: tt.options})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubcommandPathLeafOptions(t *testing.T) {
	leaf := []*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "minecraft_account", Type: discordgo.ApplicationCommandOptionString, Value: "Steve"},
	}
	path, opts := subcommandPath(discordgo.ApplicationCommandInteractionData{
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{
				Name: "query",
				Type: discordgo.ApplicationCommandOptionSubCommandGroup,
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{
						Name:    "account",
						Type:    discordgo.ApplicationCommandOptionSubCommand,
						Options: leaf,
					},
				},
			},
		},
	})
	assert.Equal(t, "query/account", path)
	require.NotNil(t, optionValue(opts, "minecraft_account"))
	assert.Equal(t, "Steve", optionValue(opts, "minecraft_account").StringValue())
	assert.Nil(t, optionValue(opts, "missing"))
}

func TestMakeEntryEmbed(t *testing.T) {
	entry := types.WhitelistEntry{
		AddedOn:           time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
		DiscordID:         "123",
		Type:              types.AccountTypeJava,
		MinecraftUsername: "Some_Player",
		MinecraftUUID:     "c06f8906-4c8a-4911-9c29-ea1dbd1aab82",
		MinecraftAvatar:   "https://crafthead.net/avatar/x",
	}
	embed := makeEntryEmbed(entry, "Whitelist Entry")

	require.Len(t, embed.Fields, 6)
	assert.Equal(t, "<@123>", embed.Fields[0].Value)
	assert.Equal(t, `Some\_Player`, embed.Fields[3].Value)
	assert.Equal(t, "Mar 5, 2024", embed.Fields[5].Value)
	require.NotNil(t, embed.Image)
	assert.Equal(t, entry.MinecraftAvatar, embed.Image.URL)
}

func TestMakeEntryEmbedWithoutAvatar(t *testing.T) {
	embed := makeEntryEmbed(types.WhitelistEntry{Type: types.AccountTypeBedrock}, "Whitelist Entry")
	assert.Nil(t, embed.Image)
}

func TestListFooter(t *testing.T) {
	assert.Equal(t, "Page 1 of 3 - 20 entries of 45 total.", listFooter(0, 20, 45))
	assert.Equal(t, "Page 3 of 3 - 5 entries of 45 total.", listFooter(40, 5, 45))
	assert.Equal(t, "Page 1 of 1 - 1 entry of 1 total.", listFooter(0, 1, 1))
}

func TestListPageButtons(t *testing.T) {
	row, ok := listPageButtons(20, 45)[0].(discordgo.ActionsRow)
	require.True(t, ok)
	require.Len(t, row.Components, 2)

	prev := row.Components[0].(discordgo.Button)
	next := row.Components[1].(discordgo.Button)
	assert.Equal(t, "whitelist-list:0", prev.CustomID)
	assert.False(t, prev.Disabled)
	assert.Equal(t, "whitelist-list:40", next.CustomID)
	assert.False(t, next.Disabled)

	// Last page disables next
	row = listPageButtons(40, 45)[0].(discordgo.ActionsRow)
	assert.True(t, row.Components[1].(discordgo.Button).Disabled)

	// First page disables previous
	row = listPageButtons(0, 45)[0].(discordgo.ActionsRow)
	assert.True(t, row.Components[0].(discordgo.Button).Disabled)
}
