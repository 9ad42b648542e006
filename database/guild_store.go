package database

import (
	"database/sql"
	"fmt"

	"flagbot/models"
)

// GuildStore persists per-guild configuration. Every write is its own
// committed statement; write volume is low and surviving a crash matters
// more than throughput.
type GuildStore struct {
	db *sql.DB
}

// NewGuildStore wraps an initialized database handle.
func NewGuildStore(db *sql.DB) *GuildStore {
	return &GuildStore{db: db}
}

// UpsertGuild inserts a default record for the guild if none exists.
// Calling it for a known guild is a no-op, so it is safe to run on every
// join event and on startup enumeration.
func (g *GuildStore) UpsertGuild(guildID int64) error {
	_, err := g.db.Exec(
		"INSERT OR IGNORE INTO guilds (guild_id, banned, broadcast_channel_id) VALUES (?, 0, NULL)",
		guildID,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert guild %d: %w", guildID, err)
	}
	return nil
}

// IsBanned reports whether the guild is banned. An unknown guild is not banned.
func (g *GuildStore) IsBanned(guildID int64) (bool, error) {
	var banned bool
	err := g.db.QueryRow("SELECT banned FROM guilds WHERE guild_id = ?", guildID).Scan(&banned)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query ban status for guild %d: %w", guildID, err)
	}
	return banned, nil
}

// SetBanned sets or clears the banned flag for the guild.
func (g *GuildStore) SetBanned(guildID int64, banned bool) error {
	if err := g.UpsertGuild(guildID); err != nil {
		return err
	}
	_, err := g.db.Exec("UPDATE guilds SET banned = ? WHERE guild_id = ?", banned, guildID)
	if err != nil {
		return fmt.Errorf("failed to update ban status for guild %d: %w", guildID, err)
	}
	return nil
}

// SetBroadcastChannel records the guild's broadcast opt-in channel. A zero
// channel ID clears the opt-in.
func (g *GuildStore) SetBroadcastChannel(guildID, channelID int64) error {
	var channel any
	if channelID != 0 {
		channel = channelID
	}
	_, err := g.db.Exec("UPDATE guilds SET broadcast_channel_id = ? WHERE guild_id = ?", channel, guildID)
	if err != nil {
		return fmt.Errorf("failed to update broadcast channel for guild %d: %w", guildID, err)
	}
	return nil
}

// ListBroadcastChannels returns every guild with a recorded broadcast channel.
func (g *GuildStore) ListBroadcastChannels() ([]models.GuildRecord, error) {
	rows, err := g.db.Query(
		"SELECT guild_id, banned, broadcast_channel_id FROM guilds WHERE broadcast_channel_id IS NOT NULL",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query broadcast channels: %w", err)
	}
	defer rows.Close()

	var records []models.GuildRecord
	for rows.Next() {
		var rec models.GuildRecord
		if err := rows.Scan(&rec.GuildID, &rec.Banned, &rec.BroadcastChannelID); err != nil {
			return nil, fmt.Errorf("failed to scan guild record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
