package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func setValid() {
	viper.Reset()
	viper.Set("botToken", "token")
	viper.Set("guildId", "1234")
	viper.Set("mongodbConn", "mongodb://localhost:27017")
	viper.Set("whitelistPath", "/srv/minecraft/whitelist.json")
	viper.Set("syncInterval", 10*time.Second)
	viper.Set("auditInterval", time.Hour)
}

func TestValidate(t *testing.T) {
	setValid()
	assert.NoError(t, Validate())
}

func TestValidateMissingRequired(t *testing.T) {
	for _, key := range []string{"botToken", "guildId", "mongodbConn", "whitelistPath"} {
		setValid()
		viper.Set(key, "")
		assert.Error(t, Validate(), key)
	}
}

func TestValidateIntervals(t *testing.T) {
	setValid()
	viper.Set("syncInterval", time.Duration(0))
	assert.Error(t, Validate())

	setValid()
	viper.Set("auditInterval", -time.Minute)
	assert.Error(t, Validate())
}

func TestValidateRconPairing(t *testing.T) {
	setValid()
	viper.Set("rconEnabled", true)
	assert.Error(t, Validate())

	viper.Set("rconAddress", "localhost:25575")
	viper.Set("rconPassword", "hunter2")
	assert.NoError(t, Validate())
}
