package server

import (
	"chirp/internal/middleware"
	"chirp/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /register. A valid body is an account with a
// username and password; the persisted account (with its generated id)
// is echoed back. Every failure, including a taken username, is a 400.
func (s *Server) Register(c *fiber.Ctx) error {
	var account models.Account
	if err := c.BodyParser(&account); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	created, err := s.accountService.CreateAccount(c.UserContext(), &account)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	middleware.AccountsRegistered.Inc()
	return c.Status(fiber.StatusOK).JSON(created)
}

// Login handles POST /login. Credentials must match a stored account
// exactly; any mismatch is a 401 with no hint about which field was wrong.
// On success a session cookie is set alongside the account body.
func (s *Server) Login(c *fiber.Ctx) error {
	var candidate models.Account
	if err := c.BodyParser(&candidate); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	account, err := s.accountService.ValidateLogin(c.UserContext(), candidate)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid username or password"))
	}
	if account == nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid username or password"))
	}

	// Session establishment is additive; a Redis outage must not turn a
	// correct login into a failure.
	s.establishSession(c, account)

	return c.Status(fiber.StatusOK).JSON(account)
}
