// Package seed provides helpers to create demo and development data for
// the JSON-backed stores.
package seed

import (
	"context"
	"fmt"
	"path/filepath"

	"familynest/internal/models"
	"familynest/internal/store"

	"github.com/spf13/afero"
)

// demoUsers are the accounts created on first run.
var demoUsers = []struct {
	username string
	password string
	items    []models.Item
}{
	{
		username: "user1",
		password: "pass1",
		items: []models.Item{
			{Name: "Socks", Description: "Warm winter socks", Category: "clothing"},
			{Name: "Toy Helicopter", Description: "Remote controlled helicopter", Category: "toy"},
		},
	},
	{
		username: "user2",
		password: "pass2",
		items: []models.Item{
			{Name: "Book", Description: "Science fiction novel", Category: "book"},
			{Name: "Sweater", Description: "Blue wool sweater", Category: "clothing"},
		},
	},
}

// EnsureDemoData seeds the demo accounts and their sample wishlists when
// the credential document does not exist yet. An already-seeded data
// directory is left untouched.
func EnsureDemoData(fs afero.Fs, dataDir string) error {
	exists, err := afero.Exists(fs, filepath.Join(dataDir, store.UsersFile))
	if err != nil {
		return fmt.Errorf("seed: stat users document: %w", err)
	}
	if exists {
		return nil
	}

	ctx := context.Background()
	creds := store.NewCredentialStore(fs, dataDir, 0)
	wishlists := store.NewWishlistStore(fs, dataDir)

	for _, demo := range demoUsers {
		if _, err := creds.Register(ctx, demo.username, demo.password); err != nil {
			return fmt.Errorf("seed: register %s: %w", demo.username, err)
		}
		if err := wishlists.CreateEmptyFor(ctx, demo.username); err != nil {
			return fmt.Errorf("seed: create wishlist for %s: %w", demo.username, err)
		}
		for _, item := range demo.items {
			if _, err := wishlists.Append(ctx, demo.username, item); err != nil {
				return fmt.Errorf("seed: add %q for %s: %w", item.Name, demo.username, err)
			}
		}
	}
	return nil
}
