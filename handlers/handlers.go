package handlers

import (
	"flagbot/bot"
)

// Register wires all event handlers to the bot's session.
func Register(b *bot.Bot) {
	b.Session.AddHandler(ReadyHandler(b))
	b.Session.AddHandler(GuildCreateHandler(b))
	b.Session.AddHandler(MessageCreate(b))
	b.Session.AddHandler(InteractionCreate(b))
}
