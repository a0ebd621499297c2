// Command main runs the data seeder for FamilyNest.
package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"

	"familynest/internal/config"
	"familynest/internal/seed"
	"familynest/internal/store"

	"github.com/spf13/afero"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 5, "Number of random users to create")
	numItems := flag.Int("items", 4, "Number of wishlist items per user")
	clean := flag.Bool("clean", false, "Remove existing data documents before seeding")
	flag.Parse()

	log.Println("🌱 Data Seeder")
	log.Println("==============")
	log.Printf("Target: %d users with %d items each, clean=%v\n", *numUsers, *numItems, *clean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	fs := afero.NewOsFs()

	if *clean {
		for _, name := range []string{store.UsersFile, store.WishlistsFile} {
			path := filepath.Join(cfg.DataDir, name)
			if err := fs.RemoveAll(path); err != nil {
				log.Fatalf("❌ Cleanup failed for %s: %v", path, err)
			}
		}
		log.Println("Removed existing data documents")
	}

	// Always make sure the demo accounts exist first
	if err := seed.EnsureDemoData(fs, cfg.DataDir); err != nil {
		log.Fatalf("❌ Demo seeding failed: %v", err)
	}

	creds := store.NewCredentialStore(fs, cfg.DataDir, 0)
	wishlists := store.NewWishlistStore(fs, cfg.DataDir)
	factory := seed.NewFactory(creds, wishlists)

	ctx := context.Background()
	for i := 0; i < *numUsers; i++ {
		user, password, err := factory.CreateUser(ctx)
		if err != nil {
			log.Fatalf("❌ Failed to create user: %v", err)
		}
		if err := factory.FillWishlist(ctx, user.Username, *numItems); err != nil {
			log.Fatalf("❌ Failed to fill wishlist for %s: %v", user.Username, err)
		}
		log.Printf("Created %s (password: %s) with %d items", user.Username, password, *numItems)
	}

	log.Println("✅ Seeding complete")
}
