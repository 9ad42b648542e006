package handlers

import (
	"log"

	"flagbot/bot"
	"flagbot/utils"

	"github.com/bwmarrin/discordgo"
)

// ReadyHandler logs the login and seeds a record for every joined guild, so
// the store invariant holds before the first command arrives.
func ReadyHandler(b *bot.Bot) func(s *discordgo.Session, r *discordgo.Ready) {
	return func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
		b.ReconcileGuilds()
	}
}

// GuildCreateHandler upserts a record when the bot joins a guild. The same
// event also arrives for each known guild after Ready; the upsert is
// idempotent so that is harmless.
func GuildCreateHandler(b *bot.Bot) func(s *discordgo.Session, g *discordgo.GuildCreate) {
	return func(s *discordgo.Session, g *discordgo.GuildCreate) {
		gid, err := utils.ParseSnowflake(g.ID)
		if err != nil {
			log.Printf("Ignoring guild with malformed ID %q", g.ID)
			return
		}
		if err := b.Store.UpsertGuild(gid); err != nil {
			log.Printf("Failed to upsert guild %s on join: %v", g.ID, err)
		}
	}
}
