// Package repository implements the data access layer for the application.
// Every operation issues a single parameterized statement; driver faults are
// wrapped as storage errors and never leaked raw to callers.
package repository

import (
	"context"
	"errors"
	"strings"

	"chirp/internal/models"

	"gorm.io/gorm"
)

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, id int) (*models.Account, error)
	GetAll(ctx context.Context) ([]models.Account, error)
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	ValidateLogin(ctx context.Context, username, password string) (*models.Account, error)
	Insert(ctx context.Context, account *models.Account) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) (bool, error)
	Delete(ctx context.Context, account *models.Account) (bool, error)
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository returns a new AccountRepository implementation.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// GetByID returns the account with the given id, or nil when absent.
func (r *accountRepository) GetByID(ctx context.Context, id int) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewStorageError(err)
	}
	return &account, nil
}

func (r *accountRepository) GetAll(ctx context.Context) ([]models.Account, error) {
	accounts := make([]models.Account, 0)
	if err := r.db.WithContext(ctx).Find(&accounts).Error; err != nil {
		return nil, models.NewStorageError(err)
	}
	return accounts, nil
}

// FindByUsername returns the account with the given username, or nil when absent.
func (r *accountRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewStorageError(err)
	}
	return &account, nil
}

func (r *accountRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return false, models.NewStorageError(err)
	}
	return count > 0, nil
}

// ValidateLogin matches credentials with a single parameterized query.
// The password comparison is a literal string match against the stored value.
// Returns nil when no account matches.
func (r *accountRepository) ValidateLogin(ctx context.Context, username, password string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).
		Where("username = ? AND password = ?", username, password).
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewStorageError(err)
	}
	return &account, nil
}

// Insert persists a new account and returns it with the store-assigned id.
// A unique-index conflict on username is surfaced as a validation failure so
// concurrent registrations of the same name collapse into the same rejection
// as the check-then-insert path.
func (r *accountRepository) Insert(ctx context.Context, account *models.Account) (*models.Account, error) {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, models.NewValidationError("The username must be unique")
		}
		return nil, models.NewStorageError(err)
	}
	return account, nil
}

// Update persists the mutable account columns and reports whether at least
// one row was affected.
func (r *accountRepository) Update(ctx context.Context, account *models.Account) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("account_id = ?", account.ID).
		Updates(map[string]any{
			"username": account.Username,
			"password": account.Password,
		})
	if tx.Error != nil {
		return false, models.NewStorageError(tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

// Delete removes the account and reports whether at least one row was affected.
func (r *accountRepository) Delete(ctx context.Context, account *models.Account) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&models.Account{}, account.ID)
	if tx.Error != nil {
		return false, models.NewStorageError(tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505; SQLite reports
	// "UNIQUE constraint failed".
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
