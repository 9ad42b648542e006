package bot

import (
	"log"

	"github.com/robfig/cron/v3"
)

var c *cron.Cron

// startScheduler starts the cron jobs.
func startScheduler(b *Bot) {
	log.Println("Initializing scheduler...")
	c = cron.New()
	_, err := c.AddFunc("@hourly", func() {
		log.Println("Running hourly guild reconcile...")
		b.ReconcileGuilds()
	})
	if err != nil {
		log.Fatalf("Could not set up cron job: %v", err)
	}
	c.Start()
	log.Println("Guild reconcile scheduled to run hourly.")
}

// stopScheduler stops the cron jobs.
func stopScheduler() {
	if c != nil {
		c.Stop()
		log.Println("Scheduler stopped.")
	}
}
