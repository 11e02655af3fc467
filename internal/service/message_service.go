package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"chirp/internal/middleware"
	"chirp/internal/models"
	"chirp/internal/repository"
)

const maxMessageLen = 254

// MessageService implements message posting, editing and retrieval rules.
type MessageService struct {
	messages repository.MessageRepository
	log      *slog.Logger
}

// NewMessageService returns a MessageService backed by the given repository.
func NewMessageService(messages repository.MessageRepository) *MessageService {
	return &MessageService{messages: messages, log: middleware.Logger}
}

// GetByID returns the message with the given id. Absence is a not-found
// error here; transport layers decide whether that maps to an empty body.
func (s *MessageService) GetByID(ctx context.Context, id int) (*models.Message, error) {
	message, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching message %d: %w", id, err)
	}
	if message == nil {
		return nil, models.NewNotFoundError("Message", id)
	}
	return message, nil
}

// GetAll returns every message in the store.
func (s *MessageService) GetAll(ctx context.Context) ([]models.Message, error) {
	messages, err := s.messages.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching messages: %w", err)
	}
	return messages, nil
}

// GetByAccountID returns all messages posted by the given account. The
// result is an empty (non-nil) slice when the account has no messages or
// does not exist.
func (s *MessageService) GetByAccountID(ctx context.Context, accountID int) ([]models.Message, error) {
	messages, err := s.messages.GetByPostedBy(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("fetching messages for account %d: %w", accountID, err)
	}
	return messages, nil
}

// CreateMessage validates and persists a new message. The author is the
// account resolved from the message's posted_by reference; nil means the
// referenced account does not exist.
func (s *MessageService) CreateMessage(ctx context.Context, message *models.Message, author *models.Account) (*models.Message, error) {
	if err := validateMessageText(message.MessageText); err != nil {
		return nil, err
	}
	if author == nil {
		return nil, models.NewValidationError("Account must exist when posting a new message")
	}
	if author.ID != message.PostedBy {
		return nil, models.NewUnauthorizedError("Account not authorized to modify this message")
	}

	created, err := s.messages.Insert(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}

	s.log.InfoContext(ctx, "message created",
		slog.Int("message_id", created.ID),
		slog.Int("posted_by", created.PostedBy),
	)
	return created, nil
}

// UpdateMessage replaces the text of an existing message. Only the text
// changes; author and timestamp are preserved from the stored row.
func (s *MessageService) UpdateMessage(ctx context.Context, id int, text string) (*models.Message, error) {
	if err := validateMessageText(text); err != nil {
		return nil, err
	}

	existing, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching message %d for update: %w", id, err)
	}
	if existing == nil {
		return nil, models.NewNotFoundError("Message", id)
	}

	existing.MessageText = text
	updated, err := s.messages.Update(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("updating message %d: %w", id, err)
	}
	if !updated {
		return nil, models.NewNotFoundError("Message", id)
	}

	s.log.InfoContext(ctx, "message updated", slog.Int("message_id", id))
	return existing, nil
}

// DeleteMessage removes the message. Zero rows affected is a not-found
// error, letting callers distinguish "already gone" from a real failure.
func (s *MessageService) DeleteMessage(ctx context.Context, message *models.Message) (bool, error) {
	deleted, err := s.messages.Delete(ctx, message)
	if err != nil {
		return false, fmt.Errorf("deleting message %d: %w", message.ID, err)
	}
	if !deleted {
		return false, models.NewNotFoundError("Message", message.ID)
	}

	s.log.InfoContext(ctx, "message deleted", slog.Int("message_id", message.ID))
	return true, nil
}

func validateMessageText(text string) error {
	if strings.TrimSpace(text) == "" {
		return models.NewValidationError("Message text cannot be blank")
	}
	// The limit is characters, not bytes; multi-byte text must not be
	// penalized for its encoding.
	if utf8.RuneCountInString(text) > maxMessageLen {
		return models.NewValidationError("Message text cannot exceed 254 characters")
	}
	return nil
}
