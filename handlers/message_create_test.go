package handlers

import (
	"testing"

	"flagbot/bot"
	"flagbot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTableRegistration(t *testing.T) {
	table := commandTable()

	expected := []string{
		"link", "ping", "diag", "scan",
		"announcehere", "announceall",
		"optin_broadcast", "optout_broadcast", "broadcast",
		"serverban", "serverunban",
	}
	require.Len(t, table, len(expected))
	for _, name := range expected {
		spec, ok := table[name]
		require.True(t, ok, "command %q must be registered", name)
		assert.Equal(t, name, spec.Name)
		assert.NotNil(t, spec.Run)
	}
}

func TestCommandTableAccessLevels(t *testing.T) {
	table := commandTable()

	assert.Equal(t, AccessAny, table["scan"].Access)
	assert.Equal(t, AccessAny, table["ping"].Access)
	assert.Equal(t, AccessAdmin, table["optin_broadcast"].Access)
	assert.Equal(t, AccessAdmin, table["optout_broadcast"].Access)
	assert.Equal(t, AccessOwner, table["broadcast"].Access)
	assert.Equal(t, AccessOwner, table["announcehere"].Access)
	assert.Equal(t, AccessOwner, table["announceall"].Access)
	assert.Equal(t, AccessOwner, table["serverban"].Access)
	assert.Equal(t, AccessOwner, table["serverunban"].Access)
}

func TestCommandTableArityAndScope(t *testing.T) {
	table := commandTable()

	assert.Equal(t, 1, table["serverban"].MinArgs)
	assert.Equal(t, 1, table["optin_broadcast"].MinArgs)
	assert.Equal(t, 1, table["broadcast"].MinArgs)
	assert.Equal(t, 0, table["scan"].MinArgs)

	assert.True(t, table["diag"].GuildOnly)
	assert.True(t, table["announcehere"].GuildOnly)
	assert.True(t, table["optin_broadcast"].GuildOnly)
	assert.False(t, table["scan"].GuildOnly)
}

func testContext(t *testing.T, userID string) *Context {
	t.Helper()
	return &Context{
		Bot: &bot.Bot{Auth: utils.NewAuth()},
		Message: &discordgo.MessageCreate{
			Message: &discordgo.Message{
				Author: &discordgo.User{ID: userID},
			},
		},
	}
}

func TestAllowedOwnerCheck(t *testing.T) {
	viper.Set("bot.owners", []string{"42"})
	defer viper.Set("bot.owners", []string{})

	assert.True(t, allowed(testContext(t, "42"), AccessOwner))
	assert.False(t, allowed(testContext(t, "7"), AccessOwner))
}

func TestAllowedOwnerPassesAdminGate(t *testing.T) {
	viper.Set("bot.owners", []string{"42"})
	defer viper.Set("bot.owners", []string{})

	// Owners short-circuit the admin check before any session lookup.
	assert.True(t, allowed(testContext(t, "42"), AccessAdmin))
}

func TestAllowedAnyCheck(t *testing.T) {
	assert.True(t, allowed(testContext(t, "anyone"), AccessAny))
}
