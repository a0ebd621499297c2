package server

import (
	"errors"
	"strconv"

	"familynest/internal/models"

	"github.com/gofiber/fiber/v2"
)

// statusForCode maps the application error taxonomy onto HTTP status codes.
// Everything in the taxonomy is a request-level 4xx; only internal errors
// (persistence I/O) reach 500.
func statusForCode(code string) int {
	switch code {
	case "MISSING_FIELD", "DUPLICATE_USERNAME", "INVALID_ITEM":
		return fiber.StatusBadRequest
	case "INVALID_CREDENTIALS", "UNAUTHORIZED":
		return fiber.StatusUnauthorized
	case "NOT_FOUND", "INDEX_OUT_OF_RANGE":
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// respondWithAppError writes an error response with the status implied by
// the error's taxonomy code.
func respondWithAppError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return models.RespondWithError(c, statusForCode(appErr.Code), appErr)
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError,
		models.NewInternalError(err))
}

// parseIndex extracts a wishlist position from a route parameter. Indexes
// start at zero; anything non-numeric or negative is treated as a missing
// item rather than a malformed request, matching the list's 404 semantics.
func parseIndex(c *fiber.Ctx, param string) (int, error) {
	index, err := strconv.Atoi(c.Params(param))
	if err != nil || index < 0 {
		return 0, models.NewNotFoundError("Item not found")
	}
	return index, nil
}

// currentUsername returns the authenticated username placed in locals by
// AuthRequired.
func currentUsername(c *fiber.Ctx) string {
	if username, ok := c.Locals("username").(string); ok {
		return username
	}
	return ""
}
