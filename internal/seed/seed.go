// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"chirp/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options controls how much data Run creates.
type Options struct {
	Accounts           int
	MessagesPerAccount int
	MaxDays            int // spread of message timestamps into the past
}

// DefaultOptions is the preset used by the seed command.
var DefaultOptions = Options{
	Accounts:           10,
	MessagesPerAccount: 8,
	MaxDays:            30,
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateAccount persists a fake account. The index suffix keeps generated
// usernames unique against the username index.
func (f *Factory) CreateAccount(index int) (*models.Account, error) {
	account := &models.Account{
		Username: fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), index),
		Password: gofakeit.Password(true, true, true, false, false, 12),
	}
	if err := f.db.Create(account).Error; err != nil {
		return nil, fmt.Errorf("seeding account: %w", err)
	}
	return account, nil
}

// CreateMessage persists a fake message for the account, timestamped
// somewhere in the configured past window.
func (f *Factory) CreateMessage(account *models.Account) (*models.Message, error) {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 30
	}

	text := gofakeit.Sentence(f.rng.Intn(12) + 3)
	if len(text) > 254 {
		text = text[:254]
	}

	back := time.Duration(f.rng.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24))*time.Hour +
		time.Duration(f.rng.Intn(60))*time.Minute

	message := &models.Message{
		PostedBy:        account.ID,
		MessageText:     text,
		TimePostedEpoch: time.Now().Add(-back).Unix(),
	}
	if err := f.db.Create(message).Error; err != nil {
		return nil, fmt.Errorf("seeding message: %w", err)
	}
	return message, nil
}

// Run populates the database with accounts and their messages.
func Run(db *gorm.DB, opts Options) error {
	factory := NewFactory(db, opts)

	for i := 0; i < opts.Accounts; i++ {
		account, err := factory.CreateAccount(i)
		if err != nil {
			return err
		}
		for j := 0; j < opts.MessagesPerAccount; j++ {
			if _, err := factory.CreateMessage(account); err != nil {
				return err
			}
		}
	}

	log.Printf("seeded %d accounts with up to %d messages each",
		opts.Accounts, opts.MessagesPerAccount)
	return nil
}
