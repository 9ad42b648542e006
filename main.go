package main

import (
	"flagbot/bot"
	"flagbot/command"
	"flagbot/handlers"
)

func main() {
	bot.Run(handlers.Register, command.GetCommandDefinitions())
}
