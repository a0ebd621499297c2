package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"familynest/internal/models"

	"github.com/spf13/afero"
)

// WishlistsFile is the name of the wishlist document inside the data directory.
const WishlistsFile = "wishlists.json"

// WishlistStore defines persistence operations for per-user wishlists.
type WishlistStore interface {
	// ListFor returns the user's items in insertion order. A user with no
	// entry yields an empty list, never an error.
	ListFor(ctx context.Context, username string) ([]models.Item, error)
	// CreateEmptyFor ensures the user has a wishlist entry. Idempotent.
	CreateEmptyFor(ctx context.Context, username string) error
	// Append validates and adds an item to the end of the user's list and
	// returns its assigned index (= previous length).
	Append(ctx context.Context, username string, item models.Item) (int, error)
	// RemoveAt removes the item at the given position, shifting later
	// items down by one index.
	RemoveAt(ctx context.Context, username string, index int) error
}

// wishlistsDocument is the on-disk layout of wishlists.json.
type wishlistsDocument struct {
	Wishlists map[string][]models.Item `json:"wishlists"`
}

type wishlistStore struct {
	mu   sync.Mutex
	file jsonFile
}

// NewWishlistStore returns a WishlistStore backed by a JSON document under
// dataDir on the given filesystem.
func NewWishlistStore(fs afero.Fs, dataDir string) WishlistStore {
	return &wishlistStore{
		file: jsonFile{fs: fs, path: filepath.Join(dataDir, WishlistsFile)},
	}
}

// loadLocked reads the current document. Callers must hold s.mu.
// A missing file is treated as an empty store.
func (s *wishlistStore) loadLocked() (*wishlistsDocument, error) {
	var doc wishlistsDocument
	if err := s.file.load(&doc); err != nil {
		if os.IsNotExist(err) {
			return &wishlistsDocument{Wishlists: map[string][]models.Item{}}, nil
		}
		return nil, models.NewInternalError(err)
	}
	if doc.Wishlists == nil {
		doc.Wishlists = map[string][]models.Item{}
	}
	return &doc, nil
}

func (s *wishlistStore) ListFor(ctx context.Context, username string) ([]models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadLocked()
	if err != nil {
		return nil, err
	}
	items := doc.Wishlists[username]
	return append([]models.Item{}, items...), nil
}

func (s *wishlistStore) CreateEmptyFor(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadLocked()
	if err != nil {
		return err
	}
	if _, ok := doc.Wishlists[username]; ok {
		return nil
	}
	doc.Wishlists[username] = []models.Item{}

	if err := s.file.save(doc); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (s *wishlistStore) Append(ctx context.Context, username string, item models.Item) (int, error) {
	if err := validateItem(item); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadLocked()
	if err != nil {
		return 0, err
	}

	items := doc.Wishlists[username]
	index := len(items)
	doc.Wishlists[username] = append(items, item)

	if err := s.file.save(doc); err != nil {
		return 0, models.NewInternalError(err)
	}
	return index, nil
}

func (s *wishlistStore) RemoveAt(ctx context.Context, username string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadLocked()
	if err != nil {
		return err
	}

	items := doc.Wishlists[username]
	if index < 0 || index >= len(items) {
		return models.NewIndexOutOfRangeError(index, len(items))
	}
	doc.Wishlists[username] = append(items[:index], items[index+1:]...)

	if err := s.file.save(doc); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// validateItem enforces the minimum item shape: a name of at least
// MinItemNameLen characters after trimming whitespace.
func validateItem(item models.Item) error {
	if len(strings.TrimSpace(item.Name)) < models.MinItemNameLen {
		return models.NewInvalidItemError(
			fmt.Sprintf("Item name must be at least %d characters", models.MinItemNameLen))
	}
	return nil
}
