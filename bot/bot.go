package bot

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"flagbot/config"
	"flagbot/database"
	"flagbot/flagscan"
	"flagbot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

// Bot encapsulates the bot's state and the handles its handlers depend on.
type Bot struct {
	Session *discordgo.Session
	DB      *sql.DB
	Store   *database.GuildStore
	Scanner *flagscan.Scanner
	Auth    *utils.Auth
}

// NewBot creates and initializes a new Bot instance.
func NewBot() (*Bot, error) {
	config.LoadConfig()
	token := viper.GetString("BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("no bot token provided, set BOT_TOKEN in your .env or config file")
	}

	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	db, err := database.InitDB(viper.GetString("database.path"))
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	return &Bot{
		Session: dg,
		DB:      db,
		Store:   database.NewGuildStore(db),
		Scanner: flagscan.NewFromConfig(),
		Auth:    utils.NewAuth(),
	}, nil
}

// Start opens the bot's session, registers slash commands and starts the
// reconcile scheduler.
func (b *Bot) Start(registerHandlers func(*Bot), definitions []*discordgo.ApplicationCommand) error {
	registerHandlers(b)

	err := b.Session.Open()
	if err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	utils.InitLogger(b.Session)

	for _, def := range definitions {
		_, err := b.Session.ApplicationCommandCreate(b.Session.State.User.ID, "", def)
		if err != nil {
			log.Printf("Cannot create '%v' command: %v", def.Name, err)
		}
	}

	startScheduler(b)

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop gracefully closes the bot's session and the database.
func (b *Bot) Stop() {
	stopScheduler()
	if b.Session != nil {
		b.Session.Close()
	}
	if b.DB != nil {
		b.DB.Close()
	}
	fmt.Println("Bot stopped gracefully.")
}

// ReconcileGuilds upserts a record for every guild the bot is currently in,
// so each joined guild has a row before any of its commands run.
func (b *Bot) ReconcileGuilds() {
	count := 0
	for _, guild := range b.Session.State.Guilds {
		gid, err := utils.ParseSnowflake(guild.ID)
		if err != nil {
			log.Printf("Skipping guild with malformed ID %q: %v", guild.ID, err)
			continue
		}
		if err := b.Store.UpsertGuild(gid); err != nil {
			log.Printf("Failed to upsert guild %s: %v", guild.ID, err)
			continue
		}
		count++
	}
	log.Printf("Reconciled %d guild records.", count)
}

// Run is the main entry point for the bot application.
func Run(registerHandlers func(*Bot), definitions []*discordgo.ApplicationCommand) {
	bot, err := NewBot()
	if err != nil {
		log.Fatalf("Error initializing bot: %v", err)
	}

	if err := bot.Start(registerHandlers, definitions); err != nil {
		log.Fatalf("Error starting bot: %v", err)
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	bot.Stop()
}
