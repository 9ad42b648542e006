package handlers

import (
	"fmt"
	"strings"
	"time"

	"flagbot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

// handleLink replies with the bot's invite link.
func handleLink(ctx *Context) error {
	return ctx.Reply("Invite me with: " + viper.GetString("bot.inviteLink"))
}

// handlePing replies with pong.
func handlePing(ctx *Context) error {
	return ctx.Reply("pong")
}

// diagChecklist is the fixed permission set diag reports on.
var diagChecklist = []struct {
	Name string
	Bit  int64
}{
	{"View Channel", discordgo.PermissionViewChannel},
	{"Send Messages", discordgo.PermissionSendMessages},
	{"Embed Links", discordgo.PermissionEmbedLinks},
	{"Attach Files", discordgo.PermissionAttachFiles},
	{"Read Message History", discordgo.PermissionReadMessageHistory},
	{"Mention Everyone", discordgo.PermissionMentionEveryone},
}

// handleDiag reports which checklist permissions the bot is missing in the
// current channel.
func handleDiag(ctx *Context) error {
	perms, err := ctx.Session.UserChannelPermissions(ctx.Session.State.User.ID, ctx.Message.ChannelID)
	if err != nil {
		return fmt.Errorf("could not compute channel permissions: %w", err)
	}

	var missing []string
	for _, check := range diagChecklist {
		if perms&check.Bit == 0 {
			missing = append(missing, check.Name)
		}
	}

	if len(missing) == 0 {
		return ctx.Reply("✅ All required permissions are present in this channel.")
	}
	return ctx.Reply("⚠️ Missing permissions here: " + strings.Join(missing, ", "))
}

// handleScan resolves flag text, classifies it and replies with the report
// and the cleared/strict list attachments.
func handleScan(ctx *Context) error {
	ff, sawText := resolveFlags(ctx)
	if len(ff) == 0 {
		if !sawText {
			return ctx.Reply("Send flags after the command or reply to a message that has them.")
		}
		return ctx.Reply("I couldn't parse any flags. Make sure it's JSON or key:value pairs.")
	}

	result := ctx.Bot.Scanner.Classify(ff)
	report := ctx.Bot.Scanner.Render(result)

	return ctx.sendTo(ctx.Message.ChannelID, &discordgo.MessageSend{
		Embeds:    []*discordgo.MessageEmbed{report.Embed},
		Files:     report.Files,
		Reference: ctx.Message.Reference(),
	})
}

// everyoneMessage builds the send payload for announce/broadcast messages.
// Only the everyone mention is allowed to parse.
func everyoneMessage(message string) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content: "@everyone " + message,
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeEveryone},
		},
	}
}

func botCanMentionEveryone(s *discordgo.Session, channelID string) bool {
	perms, err := s.UserChannelPermissions(s.State.User.ID, channelID)
	return err == nil && perms&discordgo.PermissionMentionEveryone != 0
}

func broadcastDelay() time.Duration {
	return time.Duration(viper.GetFloat64("broadcast.delaySeconds") * float64(time.Second))
}

// handleAnnounceHere sends an @everyone announcement in the current channel.
func handleAnnounceHere(ctx *Context) error {
	if !ctx.canMention(ctx.Message.ChannelID) {
		return ctx.Reply("I don't have **Mention Everyone** permission here.")
	}
	return ctx.sendTo(ctx.Message.ChannelID, everyoneMessage(ctx.Rest))
}

// handleAnnounceAll announces in every joined, non-banned guild, one send
// at a time with a delay between them. Per-guild failures are counted and
// never abort the loop.
func handleAnnounceAll(ctx *Context) error {
	delay := broadcastDelay()
	ok, fail := 0, 0

	for _, guild := range ctx.Session.State.Guilds {
		gid, err := utils.ParseSnowflake(guild.ID)
		if err != nil {
			fail++
			continue
		}
		banned, err := ctx.Bot.Store.IsBanned(gid)
		if err != nil {
			fail++
			continue
		}
		if banned {
			continue
		}

		channelID := eligibleAnnounceChannel(ctx.Session, guild)
		if channelID == "" {
			fail++
			continue
		}
		if err := ctx.sendTo(channelID, everyoneMessage(ctx.Rest)); err != nil {
			fail++
			continue
		}
		ok++
		time.Sleep(delay)
	}

	return ctx.Reply(fmt.Sprintf("Announcement complete. Success: %d, Failed: %d.", ok, fail))
}

// eligibleAnnounceChannel picks the guild's system channel when the bot can
// mention everyone there, otherwise the first text channel where it can.
func eligibleAnnounceChannel(s *discordgo.Session, guild *discordgo.Guild) string {
	if guild.SystemChannelID != "" && botCanMentionEveryone(s, guild.SystemChannelID) {
		return guild.SystemChannelID
	}
	for _, ch := range guild.Channels {
		if ch.Type == discordgo.ChannelTypeGuildText && botCanMentionEveryone(s, ch.ID) {
			return ch.ID
		}
	}
	return ""
}

// handleOptinBroadcast records the given channel as this guild's broadcast
// target.
func handleOptinBroadcast(ctx *Context) error {
	channelID := parseChannelRef(ctx.Args[0])
	if channelID == "" {
		return ctx.Reply("Give me a channel mention or ID, e.g. `optin_broadcast #announcements`.")
	}

	ch, err := ctx.Session.State.Channel(channelID)
	if err != nil {
		ch, err = ctx.Session.Channel(channelID)
	}
	if err != nil || ch.GuildID != ctx.Message.GuildID {
		return ctx.Reply("That channel doesn't exist in this server.")
	}

	gid, err := utils.ParseSnowflake(ctx.Message.GuildID)
	if err != nil {
		return err
	}
	cid, err := utils.ParseSnowflake(channelID)
	if err != nil {
		return err
	}

	if err := ctx.Bot.Store.UpsertGuild(gid); err != nil {
		return err
	}
	if err := ctx.Bot.Store.SetBroadcastChannel(gid, cid); err != nil {
		return err
	}
	return ctx.Reply("Opted in for broadcasts → <#" + channelID + ">")
}

// handleOptoutBroadcast clears this guild's broadcast target.
func handleOptoutBroadcast(ctx *Context) error {
	gid, err := utils.ParseSnowflake(ctx.Message.GuildID)
	if err != nil {
		return err
	}
	if err := ctx.Bot.Store.UpsertGuild(gid); err != nil {
		return err
	}
	if err := ctx.Bot.Store.SetBroadcastChannel(gid, 0); err != nil {
		return err
	}
	return ctx.Reply("Opted out of broadcasts.")
}

// parseChannelRef accepts <#123> mentions and bare IDs.
func parseChannelRef(arg string) string {
	arg = strings.TrimSpace(arg)
	if strings.HasPrefix(arg, "<#") && strings.HasSuffix(arg, ">") {
		arg = arg[2 : len(arg)-1]
	}
	if _, err := utils.ParseSnowflake(arg); err != nil {
		return ""
	}
	return arg
}

// handleBroadcast sends an @everyone message to every opted-in channel,
// sequentially with a rate-limit delay. Best effort: failures are counted,
// the loop always runs to completion.
func handleBroadcast(ctx *Context) error {
	records, err := ctx.Bot.Store.ListBroadcastChannels()
	if err != nil {
		return fmt.Errorf("could not list opted-in channels: %w", err)
	}
	if len(records) == 0 {
		return ctx.Reply("No servers have opted in.")
	}

	delay := broadcastDelay()
	ok, fail := 0, 0
	for _, rec := range records {
		channelID := utils.FormatSnowflake(rec.BroadcastChannelID)
		if !ctx.canMention(channelID) {
			fail++
			continue
		}
		if err := ctx.sendTo(channelID, everyoneMessage(ctx.Rest)); err != nil {
			fail++
			continue
		}
		ok++
		time.Sleep(delay)
	}

	return ctx.Reply(fmt.Sprintf("Broadcast complete. Success: %d, Failed: %d.", ok, fail))
}

func handleServerBan(ctx *Context) error {
	return setServerBan(ctx, true)
}

func handleServerUnban(ctx *Context) error {
	return setServerBan(ctx, false)
}

func setServerBan(ctx *Context, banned bool) error {
	gid, err := utils.ParseSnowflake(ctx.Args[0])
	if err != nil {
		return ctx.Reply("That doesn't look like a guild ID.")
	}
	if err := ctx.Bot.Store.SetBanned(gid, banned); err != nil {
		return err
	}
	if banned {
		return ctx.Reply(fmt.Sprintf("Banned server `%d`.", gid))
	}
	return ctx.Reply(fmt.Sprintf("Unbanned server `%d`.", gid))
}
