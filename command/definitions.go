package command

import "github.com/bwmarrin/discordgo"

// Command is an interface for application commands.
type Command interface {
	Definition() *discordgo.ApplicationCommand
}

// AllCommands holds all the slash-mirrored command instances.
var AllCommands = []Command{
	&LinkCommand{},
	&PingCommand{},
	&DiagCommand{},
	&ScanCommand{},
}

// GetCommandDefinitions returns a slice of all command definitions.
func GetCommandDefinitions() []*discordgo.ApplicationCommand {
	defs := make([]*discordgo.ApplicationCommand, len(AllCommands))
	for i, cmd := range AllCommands {
		defs[i] = cmd.Definition()
	}
	return defs
}

// LinkCommand defines the structure for the /link command.
type LinkCommand struct{}

// Definition returns the application command definition.
func (c *LinkCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "link",
		Description: "Show the bot's invite link",
	}
}

// PingCommand defines the structure for the /ping command.
type PingCommand struct{}

// Definition returns the application command definition.
func (c *PingCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "ping",
		Description: "Responds with pong",
	}
}

// DiagCommand defines the structure for the /diag command.
type DiagCommand struct{}

// Definition returns the application command definition.
func (c *DiagCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "diag",
		Description: "Report which permissions the bot is missing in this channel",
	}
}

// ScanCommand defines the structure for the /scan command.
type ScanCommand struct{}

// Definition returns the application command definition.
func (c *ScanCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "scan",
		Description: "Scan flag text against the denylists",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "flags",
				Description: "Flags as JSON or key:value lines",
				Type:        discordgo.ApplicationCommandOptionString,
				Required:    false,
			},
		},
	}
}
