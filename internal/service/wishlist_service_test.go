package service

import (
	"context"
	"testing"

	"familynest/internal/models"
	"familynest/internal/store"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *WishlistService {
	t.Helper()
	fs := afero.NewMemMapFs()
	creds := store.NewCredentialStore(fs, "data", 4)
	wishlists := store.NewWishlistStore(fs, "data")
	return NewWishlistService(creds, wishlists)
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestWishlistService_RegisterThenLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	// The new account starts with an empty wishlist.
	items, err := svc.GetItems(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = svc.Login(ctx, "alice", "wrong")
	assertCode(t, err, "INVALID_CREDENTIALS")

	logged, err := svc.Login(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	// Registering the same username again always fails.
	_, err = svc.Register(ctx, "alice", "different")
	assertCode(t, err, "DUPLICATE_USERNAME")
}

func TestWishlistService_RegisterValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"Empty username", "", "secret"},
		{"Empty password", "alice", ""},
		{"Whitespace username", "   ", "secret"},
		{"Whitespace password", "alice", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.username, tt.password)
			assertCode(t, err, "MISSING_FIELD")
		})
	}
}

func TestWishlistService_LoginMissingFields(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Login(context.Background(), "", "")
	assertCode(t, err, "MISSING_FIELD")
}

func TestWishlistService_LoginUnknownUser(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Login(context.Background(), "ghost", "whatever")
	assertCode(t, err, "INVALID_CREDENTIALS")
}

func TestWishlistService_AddItem(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "secret")
	require.NoError(t, err)

	// Empty name is a missing field, distinct from the too-short case.
	_, err = svc.AddItem(ctx, "alice", models.Item{Name: "  "})
	assertCode(t, err, "MISSING_FIELD")

	_, err = svc.AddItem(ctx, "alice", models.Item{Name: "So"})
	assertCode(t, err, "INVALID_ITEM")

	index, err := svc.AddItem(ctx, "alice", models.Item{Name: "Socks", Category: "clothing"})
	require.NoError(t, err)
	assert.Equal(t, 0, index)

	items, err := svc.GetItems(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.Item{Name: "Socks", Description: "", Category: "clothing"}, items[0])
}

func TestWishlistService_RemoveItem(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "secret")
	require.NoError(t, err)
	for _, name := range []string{"Socks", "Sweater"} {
		_, err := svc.AddItem(ctx, "alice", models.Item{Name: name})
		require.NoError(t, err)
	}

	// Out-of-range positions surface as NotFound and leave the list alone.
	err = svc.RemoveItem(ctx, "alice", 5)
	assertCode(t, err, "NOT_FOUND")

	items, err := svc.GetItems(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	require.NoError(t, svc.RemoveItem(ctx, "alice", 0))

	items, err = svc.GetItems(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Sweater", items[0].Name)
}
