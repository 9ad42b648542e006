package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEligibleAttachment(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		size     int
		want     bool
	}{
		{"json file", "flags.json", 100, true},
		{"txt file", "flags.txt", 100, true},
		{"uppercase extension", "FLAGS.JSON", 100, true},
		{"image", "screenshot.png", 100, false},
		{"no extension", "flags", 100, false},
		{"oversize", "flags.json", 2_000_000, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			att := &discordgo.MessageAttachment{Filename: tc.filename, Size: tc.size}
			assert.Equal(t, tc.want, eligibleAttachment(att, 1_000_000))
		})
	}
}

func TestDecodeUTF8ReplacesInvalidSequences(t *testing.T) {
	out := decodeUTF8([]byte{'S', 'p', 0xff, 0xfe, 'd'})
	assert.True(t, strings.Contains(out, "�"))
	assert.True(t, strings.HasPrefix(out, "Sp"))
	assert.True(t, strings.HasSuffix(out, "d"))
}

func TestFetchAttachment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Speed: 10\nGravity: 9.8"))
	}))
	defer srv.Close()

	att := &discordgo.MessageAttachment{Filename: "flags.txt", Size: 22, URL: srv.URL}
	text, err := fetchAttachment(att, 1_000_000)
	require.NoError(t, err)
	assert.Equal(t, "Speed: 10\nGravity: 9.8", text)
}

func TestFetchAttachmentRejectsIneligible(t *testing.T) {
	att := &discordgo.MessageAttachment{Filename: "malware.exe", Size: 10, URL: "http://unused.invalid"}
	_, err := fetchAttachment(att, 1_000_000)
	assert.Error(t, err)
}

func TestFetchAttachmentNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	att := &discordgo.MessageAttachment{Filename: "flags.json", Size: 10, URL: srv.URL}
	_, err := fetchAttachment(att, 1_000_000)
	assert.Error(t, err)
}

func TestFetchAttachmentBoundsRead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 1024)))
	}))
	defer srv.Close()

	// Size lies about the body; the limited reader still bounds the download.
	att := &discordgo.MessageAttachment{Filename: "flags.txt", Size: 10, URL: srv.URL}
	text, err := fetchAttachment(att, 64)
	require.NoError(t, err)
	assert.Len(t, text, 64)
}

func TestParseChannelRef(t *testing.T) {
	assert.Equal(t, "123456", parseChannelRef("<#123456>"))
	assert.Equal(t, "123456", parseChannelRef("123456"))
	assert.Equal(t, "", parseChannelRef("#general"))
	assert.Equal(t, "", parseChannelRef("not-a-channel"))
	assert.Equal(t, "", parseChannelRef(""))
}
