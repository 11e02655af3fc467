package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes used across all layers. Storage errors originate at the
// repository boundary and wrap the underlying driver fault; the other kinds
// are caller-visible conditions.
const (
	CodeStorage      = "STORAGE_ERROR"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeNotFound     = "NOT_FOUND"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError reports that the requested entity does not exist or that a
// mutation affected zero rows.
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

// NewValidationError reports a caller-correctable rejection with a
// human-readable reason.
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewUnauthorizedError reports an identity mismatch or missing permission.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

// NewStorageError wraps a fault from the persistence boundary. The original
// cause is kept for diagnostics but never surfaced as a raw driver error.
func NewStorageError(err error) *AppError {
	return &AppError{
		Code:    CodeStorage,
		Message: "storage failure",
		Err:     err,
	}
}

func codeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsNotFound reports whether err is a not-found condition.
func IsNotFound(err error) bool { return codeOf(err) == CodeNotFound }

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool { return codeOf(err) == CodeValidation }

// IsUnauthorized reports whether err is an authorization failure.
func IsUnauthorized(err error) bool { return codeOf(err) == CodeUnauthorized }

// IsStorage reports whether err originated at the persistence boundary.
func IsStorage(err error) bool { return codeOf(err) == CodeStorage }

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
