package handlers

import (
	"log"
	"strings"

	"flagbot/bot"
	"flagbot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

// CommandDispatcher is the central handler for the slash-mirrored commands.
// It applies the same banned-guild admission gate as the prefix router and
// then dispatches to the matching handler.
func CommandDispatcher(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID != "" {
		gid, err := utils.ParseSnowflake(i.GuildID)
		if err == nil {
			banned, err := b.Store.IsBanned(gid)
			if err != nil {
				log.Printf("Ban check failed for guild %s: %v", i.GuildID, err)
			}
			if banned {
				respondEphemeral(s, i, "🚫 This server is banned.")
				return
			}
		}
	}

	switch i.ApplicationCommandData().Name {
	case "link":
		respond(s, i, "Invite me with: "+viper.GetString("bot.inviteLink"))
	case "ping":
		respond(s, i, "pong")
	case "diag":
		handleSlashDiag(s, i)
	case "scan":
		handleSlashScan(b, s, i)
	default:
		respondEphemeral(s, i, "Unknown command.")
	}
}

func handleSlashDiag(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		respondEphemeral(s, i, "Use this in a server channel.")
		return
	}

	perms, err := s.UserChannelPermissions(s.State.User.ID, i.ChannelID)
	if err != nil {
		respondEphemeral(s, i, "Error: could not compute channel permissions.")
		return
	}

	var missing []string
	for _, check := range diagChecklist {
		if perms&check.Bit == 0 {
			missing = append(missing, check.Name)
		}
	}

	if len(missing) == 0 {
		respond(s, i, "✅ All required permissions are present in this channel.")
		return
	}
	respond(s, i, "⚠️ Missing permissions here: "+strings.Join(missing, ", "))
}

// handleSlashScan runs a scan over the inline flags option. Slash
// invocations carry no attachments or reply reference, so inline text is
// the only source here.
func handleSlashScan(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	var text string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "flags" {
			text = opt.StringValue()
		}
	}

	ff := b.Scanner.Parse(text)
	if len(ff) == 0 {
		if strings.TrimSpace(text) == "" {
			respondEphemeral(s, i, "Give me flags to scan, e.g. `/scan flags: {\"Key\": \"value\"}`.")
		} else {
			respondEphemeral(s, i, "I couldn't parse any flags. Make sure it's JSON or key:value pairs.")
		}
		return
	}

	report := b.Scanner.Render(b.Scanner.Classify(ff))
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{report.Embed},
			Files:  report.Files,
		},
	})
	if err != nil {
		log.Printf("Failed to respond to scan interaction: %v", err)
	}
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}
