package server

import (
	"github.com/gofiber/fiber/v2"

	"chirp/internal/cache"
	"chirp/internal/middleware"
	"chirp/internal/models"
)

// updateMessageRequest is the accepted body for PATCH /messages/:message_id.
// Only the text is writable; author and timestamp are immutable.
type updateMessageRequest struct {
	MessageText string `json:"message_text"`
}

// CreateMessage handles POST /messages. The message must reference an
// existing account and carry valid text; every failure is a 400.
func (s *Server) CreateMessage(c *fiber.Ctx) error {
	var message models.Message
	if err := c.BodyParser(&message); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	author, err := s.accountService.GetByID(c.UserContext(), message.PostedBy)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	created, err := s.messageService.CreateMessage(c.UserContext(), &message, author)
	if err != nil {
		// Authorization failures on posting map to 400 alongside
		// validation, keeping the create contract a single failure code.
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	middleware.MessagesCreated.Inc()
	s.notifier.PublishMessage(c.UserContext(), created)

	return c.Status(fiber.StatusOK).JSON(created)
}

// GetMessages handles GET /messages. The list is always 200, empty when
// nothing has been posted.
func (s *Server) GetMessages(c *fiber.Ctx) error {
	messages, err := s.messageService.GetAll(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.Status(fiber.StatusOK).JSON(messages)
}

// GetMessage handles GET /messages/:message_id. A missing message is a 200
// with an empty body, not a 404; clients distinguish by body presence.
func (s *Server) GetMessage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("message_id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid message ID"))
	}

	var message models.Message
	fetchErr := cache.Aside(c.UserContext(), cache.MessageKey(id), &message, cache.MessageTTL, func() error {
		found, err := s.messageService.GetByID(c.UserContext(), id)
		if err != nil {
			return err
		}
		message = *found
		return nil
	})
	if fetchErr != nil {
		return c.Status(fiber.StatusOK).SendString("")
	}

	return c.Status(fiber.StatusOK).JSON(message)
}

// DeleteMessage handles DELETE /messages/:message_id. Deleting an absent
// message is a 200 with an empty body, making the operation idempotent from
// the client's point of view. A successful delete echoes the removed row.
func (s *Server) DeleteMessage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("message_id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid message ID"))
	}

	existing, err := s.messageService.GetByID(c.UserContext(), id)
	if err != nil {
		return c.Status(fiber.StatusOK).SendString("")
	}

	if _, err := s.messageService.DeleteMessage(c.UserContext(), existing); err != nil {
		return c.Status(fiber.StatusOK).SendString("")
	}

	cache.InvalidateMessage(c.UserContext(), id)
	return c.Status(fiber.StatusOK).JSON(existing)
}

// UpdateMessage handles PATCH /messages/:message_id. Updating an absent
// message is a 400, unlike reads and deletes.
func (s *Server) UpdateMessage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("message_id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid message ID"))
	}

	var req updateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	updated, err := s.messageService.UpdateMessage(c.UserContext(), id, req.MessageText)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	cache.InvalidateMessage(c.UserContext(), id)
	return c.Status(fiber.StatusOK).JSON(updated)
}

// GetMessagesByAccount handles GET /accounts/:account_id/messages. The list
// is 200 and empty for unknown accounts as well as quiet ones.
func (s *Server) GetMessagesByAccount(c *fiber.Ctx) error {
	accountID, err := c.ParamsInt("account_id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid account ID"))
	}

	messages, err := s.messageService.GetByAccountID(c.UserContext(), accountID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	return c.Status(fiber.StatusOK).JSON(messages)
}
