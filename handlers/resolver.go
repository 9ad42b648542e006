package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"flagbot/models"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

// httpClient fetches attachment bodies. The timeout guards against a
// stalled download blocking a scan.
var httpClient = &http.Client{Timeout: 15 * time.Second}

// resolveFlags walks the scan input sources in priority order: inline text,
// the invoking message's attachments, then the replied-to message's content
// and attachments. The first source whose parsed FlagMap is non-empty wins;
// unreadable sources are skipped silently. The boolean reports whether any
// source produced text at all, so the caller can distinguish "nothing to
// scan" from "nothing parseable".
func resolveFlags(ctx *Context) (models.FlagMap, bool) {
	sc := ctx.Bot.Scanner
	maxBytes := viper.GetInt64("limits.maxAttachmentBytes")
	sawText := false

	try := func(text string) models.FlagMap {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		sawText = true
		if ff := sc.Parse(text); len(ff) > 0 {
			return ff
		}
		return nil
	}

	if ff := try(ctx.Rest); ff != nil {
		return ff, true
	}

	for _, att := range ctx.Message.Attachments {
		text, err := fetchAttachment(att, maxBytes)
		if err != nil {
			continue
		}
		if ff := try(text); ff != nil {
			return ff, true
		}
	}

	ref := ctx.Message.MessageReference
	if ref == nil || ref.MessageID == "" {
		return nil, sawText
	}
	refMsg, err := ctx.Session.ChannelMessage(ref.ChannelID, ref.MessageID)
	if err != nil {
		return nil, sawText
	}
	if ff := try(refMsg.Content); ff != nil {
		return ff, true
	}
	for _, att := range refMsg.Attachments {
		text, err := fetchAttachment(att, maxBytes)
		if err != nil {
			continue
		}
		if ff := try(text); ff != nil {
			return ff, true
		}
	}

	return nil, sawText
}

// fetchAttachment downloads a small text-like attachment and decodes it as
// UTF-8 with invalid sequences replaced.
func fetchAttachment(att *discordgo.MessageAttachment, maxBytes int64) (string, error) {
	if !eligibleAttachment(att, maxBytes) {
		return "", fmt.Errorf("attachment %s is not scannable", att.Filename)
	}

	resp, err := httpClient.Get(att.URL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("attachment fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return "", err
	}
	return decodeUTF8(body), nil
}

// eligibleAttachment filters to small .json/.txt files.
func eligibleAttachment(att *discordgo.MessageAttachment, maxBytes int64) bool {
	if int64(att.Size) > maxBytes {
		return false
	}
	name := strings.ToLower(att.Filename)
	return strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".txt")
}

func decodeUTF8(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
