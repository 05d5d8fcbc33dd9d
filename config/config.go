package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds the resolved application settings
type Config struct {
	BotToken        string
	GuildID         string
	MongodbConnStr  string
	MongodbDatabase string
	WhitelistPath   string
	SyncInterval    time.Duration
	AuditInterval   time.Duration
	PlayerDBBaseURL string
	APIPort         string
	RedisConnStr    string
	CacheTTL        time.Duration
	RconEnabled     bool
	RconAddress     string
	RconPassword    string
	MapBaseURL      string
	MapFrameAsset   string
}

// Load reads config.yaml from the working directory and resolves all
// settings against their defaults
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.SetConfigType("yml")

	viper.SetDefault("mongodbDatabase", "namelessbot")
	viper.SetDefault("syncInterval", "10s")
	viper.SetDefault("auditInterval", "1h")
	viper.SetDefault("playerdbBaseURL", "https://playerdb.co")
	viper.SetDefault("port", ":8080")
	viper.SetDefault("cacheTTL", "24h")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}
	if err := Validate(); err != nil {
		return nil, err
	}
	return &Config{
		BotToken:        viper.GetString("botToken"),
		GuildID:         viper.GetString("guildId"),
		MongodbConnStr:  viper.GetString("mongodbConn"),
		MongodbDatabase: viper.GetString("mongodbDatabase"),
		WhitelistPath:   viper.GetString("whitelistPath"),
		SyncInterval:    viper.GetDuration("syncInterval"),
		AuditInterval:   viper.GetDuration("auditInterval"),
		PlayerDBBaseURL: viper.GetString("playerdbBaseURL"),
		APIPort:         viper.GetString("port"),
		RedisConnStr:    viper.GetString("redisConn"),
		CacheTTL:        viper.GetDuration("cacheTTL"),
		RconEnabled:     viper.GetBool("rconEnabled"),
		RconAddress:     viper.GetString("rconAddress"),
		RconPassword:    viper.GetString("rconPassword"),
		MapBaseURL:      viper.GetString("mapBaseURL"),
		MapFrameAsset:   viper.GetString("mapFrameAsset"),
	}, nil
}

// Validate checks the config values at initial start and on each subsequent
// config change event
func Validate() error {
	for _, key := range []string{"botToken", "guildId", "mongodbConn", "whitelistPath"} {
		if viper.GetString(key) == "" {
			return errors.New("Invalid configuration. Missing required value for " + key)
		}
	}
	if viper.GetDuration("syncInterval") <= 0 {
		return errors.New("Invalid configuration. syncInterval must be a positive duration")
	}
	if viper.GetDuration("auditInterval") <= 0 {
		return errors.New("Invalid configuration. auditInterval must be a positive duration")
	}
	if viper.GetBool("rconEnabled") && (viper.GetString("rconAddress") == "" || viper.GetString("rconPassword") == "") {
		return errors.New("Invalid configuration. rconAddress and rconPassword are required when rconEnabled is set")
	}
	return nil
}
