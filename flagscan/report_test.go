package flagscan

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"
	"unicode/utf8"

	"flagbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCleanResult(t *testing.T) {
	sc := newTestScanner()

	report := sc.Render(sc.Classify(models.FlagMap{"Gravity": "9.8"}))

	assert.Equal(t, "No Illegal Flags Found", report.Embed.Title)
	assert.Equal(t, colorClean, report.Embed.Color)
	assert.Contains(t, report.Embed.Description, "Removed (main) **0**")
	assert.Contains(t, report.Embed.Description, "Kept **1**")
	assert.NotContains(t, report.Embed.Description, "```json")
}

func TestRenderAlertResult(t *testing.T) {
	sc := newTestScanner()

	report := sc.Render(sc.Classify(models.FlagMap{
		"MaxHumanoidSpeed": "5",
		"Gravity":          "9.8",
	}))

	assert.Equal(t, "Illegal Flags Found!", report.Embed.Title)
	assert.Equal(t, colorAlert, report.Embed.Color)
	assert.Contains(t, report.Embed.Description, "Removed (main) **1**")
	assert.Contains(t, report.Embed.Description, "Kept **1**")
	assert.Contains(t, report.Embed.Description, "```json")
	assert.Contains(t, report.Embed.Description, `"MaxHumanoidSpeed": "5"`)
}

func TestRenderStrictOnlyRemovalIsAlert(t *testing.T) {
	sc := newTestScanner()

	report := sc.Render(sc.Classify(models.FlagMap{"TimestepDelta": "0.1"}))

	assert.Equal(t, "Illegal Flags Found!", report.Embed.Title)
	assert.Equal(t, colorAlert, report.Embed.Color)
	// Only primary removals get the inline preview.
	assert.NotContains(t, report.Embed.Description, "```json")
}

func TestRenderAttachments(t *testing.T) {
	sc := newTestScanner()
	kept := models.FlagMap{"Gravity": "9.8", "WalkSpeed": "16"}

	report := sc.Render(models.ScanResult{
		Kept:           kept,
		RemovedPrimary: models.FlagMap{},
		RemovedStrict:  models.FlagMap{"TimestepDelta": "0.1"},
	})

	require.Len(t, report.Files, 2)
	assert.Equal(t, "cleared_list.json", report.Files[0].Name)
	assert.Equal(t, "strict_list.json", report.Files[1].Name)

	body, err := io.ReadAll(report.Files[0].Reader)
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, map[string]string{"Gravity": "9.8", "WalkSpeed": "16"}, decoded)
}

func TestRenderJSONTruncation(t *testing.T) {
	sc := NewScanner(Options{MaxLineBytes: 1_000_000, MaxSerialized: 100})

	big := make(models.FlagMap)
	for i := 0; i < 50; i++ {
		big[fmt.Sprintf("Key%02d", i)] = strings.Repeat("v", 32)
	}

	out := sc.renderJSON(big)
	assert.True(t, strings.HasSuffix(out, TruncationMarker))
	assert.LessOrEqual(t, len(out), 100+len(TruncationMarker))
}

func TestTruncateKeepsRuneBoundaries(t *testing.T) {
	s := strings.Repeat("é", 10) // two bytes per rune
	out := truncate(s, 5)

	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, strings.Repeat("é", 2), out)

	assert.Equal(t, s, truncate(s, len(s)))
}

func TestRenderJSONTruncationIsValidUTF8(t *testing.T) {
	sc := NewScanner(Options{MaxLineBytes: 1_000_000, MaxSerialized: 101})
	big := models.FlagMap{"Key": strings.Repeat("é", 200)}

	out := sc.renderJSON(big)
	assert.True(t, strings.HasSuffix(out, TruncationMarker))
	assert.True(t, utf8.ValidString(out))
	assert.LessOrEqual(t, len(out), 101+len(TruncationMarker))
}

func TestRenderPreviewTruncationIsValidUTF8(t *testing.T) {
	sc := newTestScanner()

	ff := make(models.FlagMap)
	for i := 0; i < 25; i++ {
		ff[fmt.Sprintf("Debounce%02d", i)] = strings.Repeat("é", 100)
	}

	preview := sc.renderPreview(ff)
	assert.True(t, strings.HasSuffix(preview, previewMarker))
	assert.True(t, utf8.ValidString(preview))
}

func TestRenderPreviewCapsEntries(t *testing.T) {
	sc := newTestScanner()

	ff := make(models.FlagMap)
	for i := 0; i < 40; i++ {
		ff[fmt.Sprintf("DebounceFlag%02d", i)] = "1"
	}

	preview := sc.renderPreview(ff)
	assert.Equal(t, previewMaxEntries, strings.Count(preview, "\n")+1)
}

func TestRenderPreviewTruncation(t *testing.T) {
	sc := newTestScanner()

	ff := make(models.FlagMap)
	for i := 0; i < 25; i++ {
		ff[fmt.Sprintf("Debounce%02d", i)] = strings.Repeat("v", 200)
	}

	preview := sc.renderPreview(ff)
	assert.True(t, strings.HasSuffix(preview, previewMarker))
	assert.LessOrEqual(t, len(preview), previewMaxChars+len(previewMarker))
}
