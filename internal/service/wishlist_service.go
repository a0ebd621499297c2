// Package service contains the business logic orchestrating the stores.
package service

import (
	"context"
	"errors"
	"strings"

	"familynest/internal/models"
	"familynest/internal/store"
)

// WishlistService orchestrates the credential and wishlist stores to
// implement registration, login and wishlist operations with validation.
type WishlistService struct {
	creds     store.CredentialStore
	wishlists store.WishlistStore
}

// NewWishlistService returns a WishlistService over the given stores.
func NewWishlistService(creds store.CredentialStore, wishlists store.WishlistStore) *WishlistService {
	return &WishlistService{creds: creds, wishlists: wishlists}
}

// Register creates a new account and its empty wishlist.
// Inputs are trimmed; both must be non-empty.
func (s *WishlistService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, models.NewMissingFieldError("Username and password are required")
	}

	user, err := s.creds.Register(ctx, username, password)
	if err != nil {
		return nil, err
	}

	if err := s.wishlists.CreateEmptyFor(ctx, username); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks the supplied credentials and returns the matching user.
func (s *WishlistService) Login(ctx context.Context, username, password string) (*models.User, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return nil, models.NewMissingFieldError("Username and password are required")
	}

	ok, err := s.creds.Verify(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.NewInvalidCredentialsError()
	}

	user, err := s.creds.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Verify raced with a store reset; treat as bad credentials.
		return nil, models.NewInvalidCredentialsError()
	}
	return user, nil
}

// GetItems returns the user's wishlist in insertion order.
func (s *WishlistService) GetItems(ctx context.Context, username string) ([]models.Item, error) {
	return s.wishlists.ListFor(ctx, username)
}

// AddItem validates and appends an item to the user's wishlist, returning
// its index. An empty name is reported as a missing field before the
// store's minimum-length check runs, so the two cases produce distinct
// messages.
func (s *WishlistService) AddItem(ctx context.Context, username string, item models.Item) (int, error) {
	if strings.TrimSpace(item.Name) == "" {
		return 0, models.NewMissingFieldError("Item name is required")
	}
	return s.wishlists.Append(ctx, username, item)
}

// RemoveItem removes the item at the given position. A bad index surfaces
// as NotFound, matching usual list resource semantics.
func (s *WishlistService) RemoveItem(ctx context.Context, username string, index int) error {
	err := s.wishlists.RemoveAt(ctx, username, index)
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Code == "INDEX_OUT_OF_RANGE" {
		return models.NewNotFoundError("Item not found")
	}
	return err
}
