package db

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/HavenSelph/NamelessBot/types"
)

// Op is the comparison applied by a single filter condition
type Op int

const (
	// Eq matches the field exactly
	Eq Op = iota
	// IEq matches the whole field case-insensitively
	IEq
	// IContains matches a case-insensitive substring of the field
	IContains
)

// Condition is one structural predicate over an entry field
type Condition struct {
	Field string
	Op    Op
	Value string
}

// Filter is a conjunction of conditions over entry fields. It keeps the
// store's query DSL out of the whitelist engine's public contract
type Filter []Condition

// All matches every entry
func All() Filter {
	return Filter{}
}

// ByDiscordID matches entries owned by the given discord user
func ByDiscordID(id string) Filter {
	return Filter{{Field: "discord_id", Op: Eq, Value: id}}
}

// ByUsername matches entries whose stored username equals name, ignoring case.
// Bedrock usernames are matched via their sentinel-prefixed stored form
func ByUsername(name string) Filter {
	return Filter{{Field: "minecraft_username", Op: IEq, Value: name}}
}

// ByUsernameContains matches entries whose stored username contains name,
// ignoring case
func ByUsernameContains(name string) Filter {
	return Filter{{Field: "minecraft_username", Op: IContains, Value: name}}
}

// ByType matches entries of one platform variant
func ByType(accountType types.AccountType) Filter {
	return Filter{{Field: "type", Op: Eq, Value: string(accountType)}}
}

func (f Filter) bson() bson.M {
	query := bson.M{}
	for _, c := range f {
		switch c.Op {
		case IEq:
			query[c.Field] = bson.M{"$regex": "^" + regexp.QuoteMeta(c.Value) + "$", "$options": "i"}
		case IContains:
			query[c.Field] = bson.M{"$regex": regexp.QuoteMeta(c.Value), "$options": "i"}
		default:
			query[c.Field] = c.Value
		}
	}
	return query
}
