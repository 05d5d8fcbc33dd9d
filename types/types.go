package types

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccountType is the Minecraft platform variant a whitelist entry belongs to
type AccountType string

const (
	AccountTypeJava    AccountType = "java"
	AccountTypeBedrock AccountType = "bedrock"
)

// BedrockPrefix marks stored Bedrock usernames so that username lookups can
// not collide with a Java account of the same name
const BedrockPrefix = "."

// WhitelistEntry represents one binding of a discord user to a Minecraft account.
// Entries are immutable once created; changing an account means delete and re-add
type WhitelistEntry struct {
	ID                primitive.ObjectID `bson:"_id" json:"_id"`
	AddedOn           time.Time          `bson:"added_on" json:"added_on"`
	DiscordID         string             `bson:"discord_id" json:"discord_id"`
	Type              AccountType        `bson:"type" json:"type"`
	MinecraftUsername string             `bson:"minecraft_username" json:"minecraft_username"`
	MinecraftUUID     string             `bson:"minecraft_uuid" json:"minecraft_uuid"`
	MinecraftAvatar   string             `bson:"minecraft_avatar,omitempty" json:"minecraft_avatar,omitempty"`
}

// SyncEntry is the reduced view of an entry written to the whitelist file
// consumed by the game server
type SyncEntry struct {
	Name string `json:"name"`
	UUID string `json:"uuid"`
}

// Projection reduces the entry to the {name, uuid} pair the game server needs
func (e WhitelistEntry) Projection() SyncEntry {
	return SyncEntry{
		Name: e.MinecraftUsername,
		UUID: e.MinecraftUUID,
	}
}

// DisplayName returns the username without the Bedrock sentinel prefix
func (e WhitelistEntry) DisplayName() string {
	if e.Type == AccountTypeBedrock {
		return strings.TrimPrefix(e.MinecraftUsername, BedrockPrefix)
	}
	return e.MinecraftUsername
}

// StoredUsername returns the form a handle is stored under for the given
// account type, attaching the Bedrock sentinel prefix when needed
func StoredUsername(handle string, accountType AccountType) string {
	if accountType == AccountTypeBedrock {
		return BedrockPrefix + handle
	}
	return handle
}
