// Package service contains the business logic for accounts and messages.
// Storage failures are wrapped with operation context at this boundary;
// validation and authorization failures are explicit error values, never
// panics.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"chirp/internal/middleware"
	"chirp/internal/models"
	"chirp/internal/repository"
)

const minPasswordLen = 4

// AccountService implements account registration, login and lifecycle rules.
type AccountService struct {
	accounts repository.AccountRepository
	log      *slog.Logger
}

// NewAccountService returns an AccountService backed by the given repository.
func NewAccountService(accounts repository.AccountRepository) *AccountService {
	return &AccountService{accounts: accounts, log: middleware.Logger}
}

// GetByID returns the account with the given id, or nil when absent.
func (s *AccountService) GetByID(ctx context.Context, id int) (*models.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching account %d: %w", id, err)
	}
	return account, nil
}

// GetAll returns every account.
func (s *AccountService) GetAll(ctx context.Context) ([]models.Account, error) {
	accounts, err := s.accounts.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching accounts: %w", err)
	}
	return accounts, nil
}

// FindByUsername returns the account with the given username, or nil when absent.
func (s *AccountService) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("finding account by username %q: %w", username, err)
	}
	return account, nil
}

// AccountExists reports whether an account with the given id exists.
func (s *AccountService) AccountExists(ctx context.Context, id int) (bool, error) {
	account, err := s.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return account != nil, nil
}

// ValidateLogin matches the candidate's credentials against the store.
// Returns the matched account, or nil when the credentials do not match.
// No lockout, rate limiting, or hashing is applied here.
func (s *AccountService) ValidateLogin(ctx context.Context, candidate models.Account) (*models.Account, error) {
	account, err := s.accounts.ValidateLogin(ctx, candidate.Username, candidate.Password)
	if err != nil {
		return nil, fmt.Errorf("validating login: %w", err)
	}
	s.log.InfoContext(ctx, "login validated", slog.Bool("matched", account != nil))
	return account, nil
}

// CreateAccount validates and persists a new account. All validation steps
// must pass before anything is written.
func (s *AccountService) CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	if err := s.validateAccount(ctx, account); err != nil {
		return nil, err
	}

	created, err := s.accounts.Insert(ctx, account)
	if err != nil {
		if models.IsValidation(err) {
			// Unique-index conflict on username, surfaced by the adapter.
			return nil, err
		}
		return nil, fmt.Errorf("creating account: %w", err)
	}

	s.log.InfoContext(ctx, "account created",
		slog.Int("account_id", created.ID),
		slog.String("username", created.Username),
	)
	return created, nil
}

// UpdateAccount persists the account's fields. The incoming password is not
// re-validated against the registration rules; callers get exactly what they
// send.
func (s *AccountService) UpdateAccount(ctx context.Context, account *models.Account) (bool, error) {
	updated, err := s.accounts.Update(ctx, account)
	if err != nil {
		return false, fmt.Errorf("updating account %d: %w", account.ID, err)
	}
	s.log.InfoContext(ctx, "account updated",
		slog.Int("account_id", account.ID),
		slog.Bool("rows_affected", updated),
	)
	return updated, nil
}

// DeleteAccount removes the account. An unset (zero) identifier is rejected
// with a validation failure, distinct from storage failures.
func (s *AccountService) DeleteAccount(ctx context.Context, account *models.Account) (bool, error) {
	if account.ID == 0 {
		return false, models.NewValidationError("Account ID cannot be zero")
	}

	deleted, err := s.accounts.Delete(ctx, account)
	if err != nil {
		return false, fmt.Errorf("deleting account %d: %w", account.ID, err)
	}
	s.log.InfoContext(ctx, "account deleted",
		slog.Int("account_id", account.ID),
		slog.Bool("rows_affected", deleted),
	)
	return deleted, nil
}

func (s *AccountService) validateAccount(ctx context.Context, account *models.Account) error {
	username := strings.TrimSpace(account.Username)
	password := strings.TrimSpace(account.Password)

	if username == "" {
		return models.NewValidationError("Username cannot be blank")
	}
	if password == "" {
		return models.NewValidationError("Password cannot be empty")
	}
	if len(password) < minPasswordLen {
		return models.NewValidationError("Password must be at least 4 characters long")
	}

	exists, err := s.accounts.UsernameExists(ctx, account.Username)
	if err != nil {
		return fmt.Errorf("checking username uniqueness: %w", err)
	}
	if exists {
		return models.NewValidationError("The username must be unique")
	}
	return nil
}
