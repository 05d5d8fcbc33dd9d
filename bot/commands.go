package bot

import "github.com/bwmarrin/discordgo"

// commands declares the guild slash commands. The map command is only
// offered when a map generator is configured
func commands(withMap bool) []*discordgo.ApplicationCommand {
	all := []*discordgo.ApplicationCommand{
		whitelistCommand(),
		{
			Name:        "ping",
			Description: "Sends the response time for this command.",
		},
		{
			Name:        "whoami",
			Description: "Replies with the user who invoked it.",
		},
	}
	if withMap {
		all = append(all, mapCommand())
	}
	return all
}

func accountTypeOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "account_type",
		Description: "Java Edition or Bedrock Edition.",
		Required:    true,
		Choices: []*discordgo.ApplicationCommandOptionChoice{
			{Name: "Java Edition", Value: "java"},
			{Name: "Bedrock Edition", Value: "bedrock"},
		},
	}
}

func minecraftAccountOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "minecraft_account",
		Description: description,
		Required:    true,
	}
}

func discordUserOption(description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "discord_user",
		Description: description,
		Required:    required,
	}
}

func whitelistCommand() *discordgo.ApplicationCommand {
	moderatorOnly := int64(discordgo.PermissionBanMembers | discordgo.PermissionKickMembers)
	return &discordgo.ApplicationCommand{
		Name:                     "whitelist",
		Description:              "Interact with the server whitelist.",
		DefaultMemberPermissions: &moderatorOnly,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Add a user to the whitelist.",
				Options: []*discordgo.ApplicationCommandOption{
					discordUserOption("Discord user to bind the whitelist entry with.", true),
					accountTypeOption(),
					minecraftAccountOption("The Minecraft account that will be added to the whitelist."),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
				Name:        "remove",
				Description: "Remove entries from the whitelist based on filters.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        "account",
						Description: "Remove a Minecraft account from the whitelist.",
						Options: []*discordgo.ApplicationCommandOption{
							accountTypeOption(),
							minecraftAccountOption("The Minecraft account that will be removed from the whitelist."),
						},
					},
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        "user",
						Description: "Remove all of a Discord user's bound accounts.",
						Options: []*discordgo.ApplicationCommandOption{
							discordUserOption("Discord user to remove all entries for.", true),
						},
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
				Name:        "query",
				Description: "Query entries from the whitelist based on filters.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        "account",
						Description: "Query a Minecraft account's whitelist status.",
						Options: []*discordgo.ApplicationCommandOption{
							accountTypeOption(),
							minecraftAccountOption("The Minecraft account to filter by."),
						},
					},
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        "user",
						Description: "Query a Discord user's whitelist entries.",
						Options: []*discordgo.ApplicationCommandOption{
							discordUserOption("The Discord user to filter by.", true),
						},
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "Show a list of all whitelist entries.",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "clear",
				Description: "WARNING: Clears the entire whitelist.",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionBoolean,
						Name:        "confirm",
						Description: "Enable this flag to allow the command to run. WARNING: No going back!",
					},
				},
			},
		},
	}
}

func mapCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "map",
		Description: "Generate a Minecraft map like png.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "world",
				Description: "The dimension to use when generating the map.",
				Required:    true,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "overworld", Value: "world"},
					{Name: "nether", Value: "world_nether"},
					{Name: "end", Value: "world_the_end"},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "x",
				Description: "X coordinate",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "z",
				Description: "Z coordinate",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "radius",
				Description: "Number of tiles surrounding the coordinates.",
				MinValue:    float64Ptr(0),
				MaxValue:    1,
			},
		},
	}
}

func float64Ptr(v float64) *float64 {
	return &v
}
