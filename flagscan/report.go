package flagscan

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"flagbot/models"

	"github.com/bwmarrin/discordgo"
)

const (
	colorAlert = 0xff0000 // Red
	colorClean = 0x00ff00 // Green

	// TruncationMarker terminates any serialized map that hit the size cap.
	TruncationMarker = "\n…(truncated)"

	previewMaxEntries = 25
	previewMaxChars   = 1500
	previewMarker     = "\n… (truncated)"
)

// Report is the rendered outcome of one scan, ready to send as a reply.
type Report struct {
	Embed *discordgo.MessageEmbed
	Files []*discordgo.File
}

// Render serializes the partitioned result into the summary embed and the
// cleared/strict list attachments. Output is deterministic: map keys are
// sorted by the JSON encoder and in the preview.
func (sc *Scanner) Render(res models.ScanResult) *Report {
	title := "No Illegal Flags Found"
	color := colorClean
	if res.HasRemovals() {
		title = "Illegal Flags Found!"
		color = colorAlert
	}

	desc := fmt.Sprintf(
		"Removed (main) **%d** • Removed (strict) **%d** • Kept **%d**.",
		len(res.RemovedPrimary), len(res.RemovedStrict), len(res.Kept),
	)
	if len(res.RemovedPrimary) > 0 {
		desc += "\n\n```json\n" + sc.renderPreview(res.RemovedPrimary) + "\n```"
	}

	return &Report{
		Embed: &discordgo.MessageEmbed{
			Title:       title,
			Description: desc,
			Color:       color,
		},
		Files: []*discordgo.File{
			{
				Name:        "cleared_list.json",
				ContentType: "application/json",
				Reader:      strings.NewReader(sc.renderJSON(res.Kept)),
			},
			{
				Name:        "strict_list.json",
				ContentType: "application/json",
				Reader:      strings.NewReader(sc.renderJSON(res.RemovedStrict)),
			},
		},
	}
}

// MarshalIndented renders a FlagMap as two-space indented JSON with keys
// sorted by the encoder.
func MarshalIndented(ff models.FlagMap) string {
	b, err := json.MarshalIndent(ff, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

// renderJSON serializes a FlagMap as indented JSON, hard-capped to avoid
// payload explosions.
func (sc *Scanner) renderJSON(ff models.FlagMap) string {
	s := MarshalIndented(ff)
	if len(s) > sc.maxSerialized {
		s = truncate(s, sc.maxSerialized) + TruncationMarker
	}
	return s
}

// truncate cuts s at the byte limit without splitting a multi-byte rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

// renderPreview builds the short `"key": "value"` preview of removed
// entries shown inline in the summary.
func (sc *Scanner) renderPreview(ff models.FlagMap) string {
	keys := make([]string, 0, len(ff))
	for k := range ff {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > previewMaxEntries {
		keys = keys[:previewMaxEntries]
	}

	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = fmt.Sprintf("%q: %q", k, ff[k])
	}
	preview := strings.Join(lines, "\n")
	if len(preview) > previewMaxChars {
		preview = truncate(preview, previewMaxChars) + previewMarker
	}
	return preview
}
