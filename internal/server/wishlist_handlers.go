package server

import (
	"familynest/internal/models"
	"familynest/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// GetWishlist handles GET /api/wishlist
func (s *Server) GetWishlist(c *fiber.Ctx) error {
	items, err := s.wishlistService.GetItems(c.Context(), currentUsername(c))
	if err != nil {
		return respondWithAppError(c, err)
	}
	return c.JSON(items)
}

// AddWishlistItem handles POST /api/wishlist
func (s *Server) AddWishlistItem(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Category    string `json:"category"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewMissingFieldError("Invalid request body"))
	}

	item := models.Item{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
	}

	index, err := s.wishlistService.AddItem(c.Context(), currentUsername(c), item)
	if err != nil {
		return respondWithAppError(c, err)
	}
	observability.WishlistItemsAddedTotal.Inc()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Item added successfully",
		"index":   index,
	})
}

// RemoveWishlistItem handles DELETE /api/wishlist/:index
//
// Positions are not stable identifiers: removing an item renumbers every
// later one, so clients must re-fetch the list after a removal.
func (s *Server) RemoveWishlistItem(c *fiber.Ctx) error {
	index, err := parseIndex(c, "index")
	if err != nil {
		return respondWithAppError(c, err)
	}

	if err := s.wishlistService.RemoveItem(c.Context(), currentUsername(c), index); err != nil {
		return respondWithAppError(c, err)
	}
	observability.WishlistItemsRemovedTotal.Inc()

	return c.JSON(fiber.Map{
		"message": "Item removed successfully",
	})
}
