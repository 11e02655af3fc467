package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"chirp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type messageRepoStub struct {
	getByIDFn       func(ctx context.Context, id int) (*models.Message, error)
	getAllFn        func(ctx context.Context) ([]models.Message, error)
	getByPostedByFn func(ctx context.Context, accountID int) ([]models.Message, error)
	insertFn        func(ctx context.Context, message *models.Message) (*models.Message, error)
	updateFn        func(ctx context.Context, message *models.Message) (bool, error)
	deleteFn        func(ctx context.Context, message *models.Message) (bool, error)
}

func (s *messageRepoStub) GetByID(ctx context.Context, id int) (*models.Message, error) {
	return s.getByIDFn(ctx, id)
}

func (s *messageRepoStub) GetAll(ctx context.Context) ([]models.Message, error) {
	return s.getAllFn(ctx)
}

func (s *messageRepoStub) GetByPostedBy(ctx context.Context, accountID int) ([]models.Message, error) {
	return s.getByPostedByFn(ctx, accountID)
}

func (s *messageRepoStub) Insert(ctx context.Context, message *models.Message) (*models.Message, error) {
	return s.insertFn(ctx, message)
}

func (s *messageRepoStub) Update(ctx context.Context, message *models.Message) (bool, error) {
	return s.updateFn(ctx, message)
}

func (s *messageRepoStub) Delete(ctx context.Context, message *models.Message) (bool, error) {
	return s.deleteFn(ctx, message)
}

func noopMessageRepo() *messageRepoStub {
	return &messageRepoStub{
		getByIDFn: func(_ context.Context, _ int) (*models.Message, error) {
			return nil, nil
		},
		getAllFn: func(_ context.Context) ([]models.Message, error) {
			return []models.Message{}, nil
		},
		getByPostedByFn: func(_ context.Context, _ int) ([]models.Message, error) {
			return []models.Message{}, nil
		},
		insertFn: func(_ context.Context, m *models.Message) (*models.Message, error) {
			m.ID = 1
			return m, nil
		},
		updateFn: func(_ context.Context, _ *models.Message) (bool, error) {
			return true, nil
		},
		deleteFn: func(_ context.Context, _ *models.Message) (bool, error) {
			return true, nil
		},
	}
}

func TestMessageService_CreateMessage_TextValidation(t *testing.T) {
	t.Parallel()

	author := &models.Account{ID: 1, Username: "ann"}

	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"empty text", "", true},
		{"whitespace only", "   \t ", true},
		{"exactly 254 chars", strings.Repeat("x", 254), false},
		{"255 chars rejected", strings.Repeat("x", 255), true},
		{"254 multi-byte chars", strings.Repeat("é", 254), false},
		{"255 multi-byte chars rejected", strings.Repeat("é", 255), true},
		{"normal text", "hello", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := NewMessageService(noopMessageRepo())
			message := &models.Message{PostedBy: 1, MessageText: tt.text, TimePostedEpoch: 1000}
			_, err := svc.CreateMessage(context.Background(), message, author)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, models.IsValidation(err), "expected validation error, got %v", err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestMessageService_CreateMessage_UnknownAuthor(t *testing.T) {
	t.Parallel()

	svc := NewMessageService(noopMessageRepo())
	message := &models.Message{PostedBy: 42, MessageText: "hello", TimePostedEpoch: 1000}

	_, err := svc.CreateMessage(context.Background(), message, nil)
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
	assert.Contains(t, err.Error(), "Account must exist when posting a new message")
}

func TestMessageService_CreateMessage_AuthorMismatch(t *testing.T) {
	t.Parallel()

	svc := NewMessageService(noopMessageRepo())
	message := &models.Message{PostedBy: 42, MessageText: "hello", TimePostedEpoch: 1000}

	_, err := svc.CreateMessage(context.Background(), message, &models.Account{ID: 7})
	require.Error(t, err)
	assert.True(t, models.IsUnauthorized(err))
}

func TestMessageService_GetByID(t *testing.T) {
	t.Parallel()

	repo := noopMessageRepo()
	repo.getByIDFn = func(_ context.Context, id int) (*models.Message, error) {
		if id == 1 {
			return &models.Message{ID: 1, PostedBy: 1, MessageText: "hi", TimePostedEpoch: 5}, nil
		}
		return nil, nil
	}
	svc := NewMessageService(repo)

	found, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "hi", found.MessageText)

	_, err = svc.GetByID(context.Background(), 2)
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}

func TestMessageService_UpdateMessage(t *testing.T) {
	t.Parallel()

	t.Run("replaces text only", func(t *testing.T) {
		t.Parallel()
		repo := noopMessageRepo()
		repo.getByIDFn = func(_ context.Context, id int) (*models.Message, error) {
			return &models.Message{ID: id, PostedBy: 3, MessageText: "before", TimePostedEpoch: 1000}, nil
		}
		var saved *models.Message
		repo.updateFn = func(_ context.Context, m *models.Message) (bool, error) {
			saved = m
			return true, nil
		}
		svc := NewMessageService(repo)

		updated, err := svc.UpdateMessage(context.Background(), 1, "after")
		require.NoError(t, err)
		assert.Equal(t, "after", updated.MessageText)
		require.NotNil(t, saved)
		assert.Equal(t, 3, saved.PostedBy)
		assert.Equal(t, int64(1000), saved.TimePostedEpoch)
	})

	t.Run("absent message", func(t *testing.T) {
		t.Parallel()
		svc := NewMessageService(noopMessageRepo())
		_, err := svc.UpdateMessage(context.Background(), 99, "after")
		require.Error(t, err)
		assert.True(t, models.IsNotFound(err))
	})

	t.Run("invalid replacement text leaves store untouched", func(t *testing.T) {
		t.Parallel()
		repo := noopMessageRepo()
		fetched := false
		repo.getByIDFn = func(_ context.Context, id int) (*models.Message, error) {
			fetched = true
			return &models.Message{ID: id, MessageText: "before"}, nil
		}
		svc := NewMessageService(repo)

		_, err := svc.UpdateMessage(context.Background(), 1, strings.Repeat("x", 255))
		require.Error(t, err)
		assert.True(t, models.IsValidation(err))
		assert.False(t, fetched, "validation must run before any read or write")
	})
}

func TestMessageService_DeleteMessage(t *testing.T) {
	t.Parallel()

	t.Run("absent message is not-found", func(t *testing.T) {
		t.Parallel()
		repo := noopMessageRepo()
		repo.deleteFn = func(_ context.Context, _ *models.Message) (bool, error) {
			return false, nil
		}
		svc := NewMessageService(repo)

		_, err := svc.DeleteMessage(context.Background(), &models.Message{ID: 99})
		require.Error(t, err)
		assert.True(t, models.IsNotFound(err))
		assert.False(t, models.IsStorage(err))
	})

	t.Run("storage failure is not not-found", func(t *testing.T) {
		t.Parallel()
		repo := noopMessageRepo()
		repo.deleteFn = func(_ context.Context, _ *models.Message) (bool, error) {
			return false, models.NewStorageError(errors.New("connection refused"))
		}
		svc := NewMessageService(repo)

		_, err := svc.DeleteMessage(context.Background(), &models.Message{ID: 1})
		require.Error(t, err)
		assert.True(t, models.IsStorage(err))
		assert.False(t, models.IsNotFound(err))
	})
}

func TestMessageService_GetByAccountID_EmptyForUnknownAccount(t *testing.T) {
	t.Parallel()

	svc := NewMessageService(noopMessageRepo())
	messages, err := svc.GetByAccountID(context.Background(), 999)
	require.NoError(t, err)
	assert.NotNil(t, messages)
	assert.Empty(t, messages)
}
