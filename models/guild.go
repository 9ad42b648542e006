package models

// GuildRecord is the persisted per-guild configuration row. A guild gets a
// row the first time the bot sees it and keeps it for the life of the bot.
type GuildRecord struct {
	GuildID            int64
	Banned             bool
	BroadcastChannelID int64 // 0 means not opted in
}
