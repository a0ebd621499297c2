package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"familynest/internal/models"
	"familynest/internal/store"

	"github.com/brianvoe/gofakeit/v6"
)

// categories the factory picks from; mirrors the values the UI suggests.
var categories = []string{"toy", "book", "clothing", "electronics", "outdoors", "kitchen"}

// Factory builds randomized users and wishlist items against the stores.
// It is a development helper used by cmd/seed; production seeding only
// ever creates the fixed demo data.
type Factory struct {
	creds     store.CredentialStore
	wishlists store.WishlistStore
	rng       *rand.Rand
}

// NewFactory creates a new Factory bound to the provided stores.
func NewFactory(creds store.CredentialStore, wishlists store.WishlistStore) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		creds:     creds,
		wishlists: wishlists,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser registers a random family member and returns it with the
// plaintext password so callers can print login hints.
func (f *Factory) CreateUser(ctx context.Context) (*models.User, string, error) {
	username := strings.ToLower(gofakeit.FirstName()) + fmt.Sprintf("%d", f.rng.Intn(1000))
	password := gofakeit.Password(true, true, true, false, false, 10)

	user, err := f.creds.Register(ctx, username, password)
	if err != nil {
		return nil, "", err
	}
	if err := f.wishlists.CreateEmptyFor(ctx, username); err != nil {
		return nil, "", err
	}
	return user, password, nil
}

// FillWishlist appends n random items to the user's wishlist.
func (f *Factory) FillWishlist(ctx context.Context, username string, n int) error {
	for i := 0; i < n; i++ {
		item := models.Item{
			Name:        f.itemName(),
			Description: gofakeit.Sentence(6),
			Category:    categories[f.rng.Intn(len(categories))],
		}
		if _, err := f.wishlists.Append(ctx, username, item); err != nil {
			return err
		}
	}
	return nil
}

// itemName returns a product name long enough to pass item validation.
func (f *Factory) itemName() string {
	name := gofakeit.ProductName()
	if len(strings.TrimSpace(name)) >= models.MinItemNameLen {
		return name
	}
	return gofakeit.NounConcrete() + " " + gofakeit.AdjectiveDescriptive()
}
