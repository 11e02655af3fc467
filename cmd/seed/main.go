// Command seed populates the development database with demo accounts and
// messages.
package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"

	"chirp/internal/config"
	"chirp/internal/database"
	"chirp/internal/seed"
)

func main() {
	accounts := flag.Int("accounts", seed.DefaultOptions.Accounts, "number of accounts to create")
	messages := flag.Int("messages", seed.DefaultOptions.MessagesPerAccount, "messages per account")
	maxDays := flag.Int("max-days", seed.DefaultOptions.MaxDays, "spread of message timestamps in days")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	opts := seed.Options{
		Accounts:           *accounts,
		MessagesPerAccount: *messages,
		MaxDays:            *maxDays,
	}
	if err := seed.Run(db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
