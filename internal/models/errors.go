package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
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

// Predefined error constructors

// NewMissingFieldError reports a required request field that was empty.
func NewMissingFieldError(message string) *AppError {
	return &AppError{
		Code:    "MISSING_FIELD",
		Message: message,
	}
}

// NewDuplicateUsernameError reports an attempt to register an existing username.
func NewDuplicateUsernameError(username string) *AppError {
	return &AppError{
		Code:    "DUPLICATE_USERNAME",
		Message: "Username already exists",
		Err:     fmt.Errorf("username %q is taken", username),
	}
}

// NewInvalidCredentialsError reports a failed login attempt.
func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Code:    "INVALID_CREDENTIALS",
		Message: "Invalid credentials",
	}
}

// NewUnauthorizedError reports a missing, expired or unresolvable session.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
	}
}

// NewInvalidItemError reports a wishlist item that failed validation.
func NewInvalidItemError(message string) *AppError {
	return &AppError{
		Code:    "INVALID_ITEM",
		Message: message,
	}
}

// NewNotFoundError reports a resource that does not exist.
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: message,
	}
}

// NewIndexOutOfRangeError reports a wishlist index outside the list bounds.
func NewIndexOutOfRangeError(index, length int) *AppError {
	return &AppError{
		Code:    "INDEX_OUT_OF_RANGE",
		Message: "Item not found",
		Err:     fmt.Errorf("index %d out of range for list of length %d", index, length),
	}
}

// NewInternalError wraps an unexpected failure (typically persistence I/O).
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Err:     err,
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
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
