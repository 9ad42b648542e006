package handlers

import (
	"fmt"
	"log"
	"strings"
	"unicode"

	"flagbot/bot"
	"flagbot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

// AccessLevel gates who may invoke a command.
type AccessLevel int

const (
	AccessAny   AccessLevel = iota
	AccessAdmin             // Manage Server or Administrator in the invoking guild
	AccessOwner             // configured bot owners only
)

// commandSpec is one row of the static registration table.
type commandSpec struct {
	Name      string
	MinArgs   int
	Usage     string
	GuildOnly bool
	Access    AccessLevel
	Run       func(ctx *Context) error
}

// Context carries everything a handler needs for one prefix invocation.
// The reply/send functions default to the live session; tests swap them out
// to observe what a command would have sent.
type Context struct {
	Bot     *bot.Bot
	Session *discordgo.Session
	Message *discordgo.MessageCreate
	Args    []string // whitespace-split arguments
	Rest    string   // raw text after the command token

	reply      func(content string) error
	sendTo     func(channelID string, msg *discordgo.MessageSend) error
	canMention func(channelID string) bool
}

func newContext(b *bot.Bot, s *discordgo.Session, m *discordgo.MessageCreate) *Context {
	ctx := &Context{Bot: b, Session: s, Message: m}
	ctx.reply = func(content string) error {
		_, err := s.ChannelMessageSendReply(m.ChannelID, content, m.Reference())
		return err
	}
	ctx.sendTo = func(channelID string, msg *discordgo.MessageSend) error {
		_, err := s.ChannelMessageSendComplex(channelID, msg)
		return err
	}
	ctx.canMention = func(channelID string) bool {
		return botCanMentionEveryone(s, channelID)
	}
	return ctx
}

// Reply sends a reply to the invoking message.
func (ctx *Context) Reply(content string) error {
	return ctx.reply(content)
}

// commandTable builds the static name → descriptor table iterated by the router.
func commandTable() map[string]*commandSpec {
	specs := []*commandSpec{
		{Name: "link", Run: handleLink},
		{Name: "ping", Run: handlePing},
		{Name: "diag", GuildOnly: true, Run: handleDiag},
		{Name: "scan", Run: handleScan},
		{Name: "announcehere", GuildOnly: true, MinArgs: 1, Usage: "announcehere <message>", Access: AccessOwner, Run: handleAnnounceHere},
		{Name: "announceall", MinArgs: 1, Usage: "announceall <message>", Access: AccessOwner, Run: handleAnnounceAll},
		{Name: "optin_broadcast", GuildOnly: true, MinArgs: 1, Usage: "optin_broadcast <#channel>", Access: AccessAdmin, Run: handleOptinBroadcast},
		{Name: "optout_broadcast", GuildOnly: true, Access: AccessAdmin, Run: handleOptoutBroadcast},
		{Name: "broadcast", MinArgs: 1, Usage: "broadcast <message>", Access: AccessOwner, Run: handleBroadcast},
		{Name: "serverban", MinArgs: 1, Usage: "serverban <guild_id>", Access: AccessOwner, Run: handleServerBan},
		{Name: "serverunban", MinArgs: 1, Usage: "serverunban <guild_id>", Access: AccessOwner, Run: handleServerUnban},
	}

	table := make(map[string]*commandSpec, len(specs))
	for _, spec := range specs {
		table[spec.Name] = spec
	}
	return table
}

// MessageCreate returns the prefix-command router. It is called for every
// message the bot can see and dispatches the ones that name a known command.
func MessageCreate(b *bot.Bot) func(*discordgo.Session, *discordgo.MessageCreate) {
	table := commandTable()
	return func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot {
			return
		}

		prefix := viper.GetString("bot.prefix")
		if !strings.HasPrefix(m.Content, prefix) {
			return
		}

		body := strings.TrimSpace(strings.TrimPrefix(m.Content, prefix))
		name, rest := body, ""
		// The flag text may start on the line after the command token.
		if idx := strings.IndexFunc(body, unicode.IsSpace); idx >= 0 {
			name, rest = body[:idx], body[idx+1:]
		}
		spec, ok := table[strings.ToLower(name)]
		if !ok {
			return
		}

		ctx := newContext(b, s, m)
		ctx.Rest = strings.TrimSpace(rest)
		ctx.Args = strings.Fields(ctx.Rest)

		dispatch(ctx, spec)
	}
}

// dispatch runs the admission gate and access checks, then the handler
// itself under a top-level error trap. A single failing command must never
// take the process down.
func dispatch(ctx *Context, spec *commandSpec) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic in command %s: %v", spec.Name, r)
			utils.Error("command", spec.Name, fmt.Sprintf("panic: %v", r))
			ctx.Reply(fmt.Sprintf("Error: panic: %v", r))
		}
	}()

	// Admission gate: banned guilds get nothing, DMs have no guild to check.
	if ctx.Message.GuildID != "" {
		gid, err := utils.ParseSnowflake(ctx.Message.GuildID)
		if err == nil {
			banned, err := ctx.Bot.Store.IsBanned(gid)
			if err != nil {
				log.Printf("Ban check failed for guild %s: %v", ctx.Message.GuildID, err)
			}
			if banned {
				ctx.Reply("🚫 This server is banned.")
				return
			}
		}
	}

	if spec.GuildOnly && ctx.Message.GuildID == "" {
		ctx.Reply("Use this in a server channel.")
		return
	}

	if !allowed(ctx, spec.Access) {
		ctx.Reply("🚫 You don't have permission to use this command.")
		return
	}

	if len(ctx.Args) < spec.MinArgs {
		ctx.Reply("Usage: " + viper.GetString("bot.prefix") + spec.Usage)
		return
	}

	if err := spec.Run(ctx); err != nil {
		log.Printf("Command %s failed: %v", spec.Name, err)
		utils.Error("command", spec.Name, err.Error())
		ctx.Reply(fmt.Sprintf("Error: %v", err))
	}
}

func allowed(ctx *Context, level AccessLevel) bool {
	switch level {
	case AccessOwner:
		return ctx.Bot.Auth.IsOwner(ctx.Message.Author.ID)
	case AccessAdmin:
		return ctx.Bot.Auth.IsAdmin(ctx.Session, ctx.Message.Author.ID, ctx.Message.ChannelID)
	default:
		return true
	}
}
