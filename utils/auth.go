package utils

import (
	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

// Auth provides methods for authorization checks.
type Auth struct {
	owners []string
}

// NewAuth creates a new Auth instance with the loaded configuration.
func NewAuth() *Auth {
	return &Auth{owners: viper.GetStringSlice("bot.owners")}
}

// IsOwner checks if a user is one of the configured bot owners.
func (a *Auth) IsOwner(userID string) bool {
	for _, ownerID := range a.owners {
		if userID == ownerID {
			return true
		}
	}
	return false
}

// IsAdmin checks if the user holds Manage Server or Administrator in the
// channel's guild. Owners pass implicitly.
func (a *Auth) IsAdmin(s *discordgo.Session, userID, channelID string) bool {
	if a.IsOwner(userID) {
		return true
	}
	perms, err := s.UserChannelPermissions(userID, channelID)
	if err != nil {
		return false
	}
	return perms&(discordgo.PermissionManageGuild|discordgo.PermissionAdministrator) != 0
}
