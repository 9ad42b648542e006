package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoadConfig loads configuration from a .env file and an optional config.yaml
// in the working directory. Environment variables override file settings
// (dots in config keys map to underscores in variable names).
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, skipping.")
	}

	setDefaults()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("No config.yaml found, using environment variables and defaults.")
		} else {
			panic(fmt.Errorf("fatal error reading config file: %w", err))
		}
	}
}

// setDefaults registers the default value for every configuration key the
// bot reads, so a bare BOT_TOKEN is enough to run.
func setDefaults() {
	viper.SetDefault("bot.prefix", "!")
	viper.SetDefault("bot.inviteLink", "https://discord.com/oauth2/authorize?client_id=1419230856626704437&permissions=1275259905&integration_type=0&scope=bot")
	viper.SetDefault("bot.owners", []string{})
	viper.SetDefault("bot.adminChannelId", "")

	viper.SetDefault("database.path", "data/bot.db")

	// Primary list mirrors the long-standing main removal set; the strict
	// list is the stricter second pass applied to survivors.
	viper.SetDefault("denylist.primary", []string{"debounce", "decomp", "humanoid"})
	viper.SetDefault("denylist.strict", []string{"humanoid", "timestep", "runningcontroller2", "debounce", "replicator", "decomp"})

	// maxLineBytes bounds a single line during flag parsing; maxAttachmentBytes
	// bounds attachment downloads. They share a default but are separate knobs.
	viper.SetDefault("limits.maxLineBytes", 1_000_000)
	viper.SetDefault("limits.maxAttachmentBytes", 1_000_000)
	viper.SetDefault("limits.maxSerializedChars", 500_000)

	viper.SetDefault("broadcast.delaySeconds", 1.5)
}
