package repository

import (
	"context"
	"errors"

	"chirp/internal/models"

	"gorm.io/gorm"
)

// MessageRepository defines persistence operations for messages.
type MessageRepository interface {
	GetByID(ctx context.Context, id int) (*models.Message, error)
	GetAll(ctx context.Context) ([]models.Message, error)
	GetByPostedBy(ctx context.Context, accountID int) ([]models.Message, error)
	Insert(ctx context.Context, message *models.Message) (*models.Message, error)
	Update(ctx context.Context, message *models.Message) (bool, error)
	Delete(ctx context.Context, message *models.Message) (bool, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository returns a new MessageRepository implementation.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// GetByID returns the message with the given id, or nil when absent.
func (r *messageRepository) GetByID(ctx context.Context, id int) (*models.Message, error) {
	var message models.Message
	if err := r.db.WithContext(ctx).First(&message, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewStorageError(err)
	}
	return &message, nil
}

func (r *messageRepository) GetAll(ctx context.Context) ([]models.Message, error) {
	messages := make([]models.Message, 0)
	if err := r.db.WithContext(ctx).Find(&messages).Error; err != nil {
		return nil, models.NewStorageError(err)
	}
	return messages, nil
}

func (r *messageRepository) GetByPostedBy(ctx context.Context, accountID int) ([]models.Message, error) {
	messages := make([]models.Message, 0)
	if err := r.db.WithContext(ctx).
		Where("posted_by = ?", accountID).
		Find(&messages).Error; err != nil {
		return nil, models.NewStorageError(err)
	}
	return messages, nil
}

// Insert persists a new message and returns it with the store-assigned id.
func (r *messageRepository) Insert(ctx context.Context, message *models.Message) (*models.Message, error) {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return nil, models.NewStorageError(err)
	}
	return message, nil
}

// Update persists the mutable message columns and reports whether at least
// one row was affected.
func (r *messageRepository) Update(ctx context.Context, message *models.Message) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("message_id = ?", message.ID).
		Updates(map[string]any{
			"posted_by":         message.PostedBy,
			"message_text":      message.MessageText,
			"time_posted_epoch": message.TimePostedEpoch,
		})
	if tx.Error != nil {
		return false, models.NewStorageError(tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

// Delete removes the message and reports whether at least one row was affected.
func (r *messageRepository) Delete(ctx context.Context, message *models.Message) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&models.Message{}, message.ID)
	if tx.Error != nil {
		return false, models.NewStorageError(tx.Error)
	}
	return tx.RowsAffected > 0, nil
}
