package store

import (
	"context"
	"path/filepath"
	"testing"

	"familynest/internal/models"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCredentialStore(t *testing.T) (CredentialStore, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	// MinCost keeps bcrypt fast in tests; production uses the default cost.
	return NewCredentialStore(fs, "data", 4), fs
}

func TestCredentialStore_RegisterAndVerify(t *testing.T) {
	s, _ := newTestCredentialStore(t)
	ctx := context.Background()

	user, err := s.Register(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, 1, user.ID)
	assert.Equal(t, "alice", user.Username)
	// Stored value is a hash, never the plaintext.
	assert.NotEqual(t, "secret", user.Password)
	assert.NotEmpty(t, user.Password)

	ok, err := s.Verify(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Verify(ctx, "alice", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCredentialStore_VerifyUnknownUserFailsClosed(t *testing.T) {
	s, _ := newTestCredentialStore(t)

	ok, err := s.Verify(context.Background(), "nobody", "anything")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCredentialStore_RegisterDuplicate(t *testing.T) {
	s, _ := newTestCredentialStore(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "alice", "secret")
	require.NoError(t, err)

	_, err = s.Register(ctx, "alice", "other")
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DUPLICATE_USERNAME", appErr.Code)

	// Usernames are case-sensitive; a different casing is a new account.
	_, err = s.Register(ctx, "Alice", "secret")
	assert.NoError(t, err)
}

func TestCredentialStore_IDAssignment(t *testing.T) {
	s, fs := newTestCredentialStore(t)
	ctx := context.Background()

	u1, err := s.Register(ctx, "first", "pw1")
	require.NoError(t, err)
	u2, err := s.Register(ctx, "second", "pw2")
	require.NoError(t, err)
	assert.Equal(t, 1, u1.ID)
	assert.Equal(t, 2, u2.ID)

	// IDs continue from the highest existing one when reopening the store.
	reopened := NewCredentialStore(fs, "data", 4)
	u3, err := reopened.Register(ctx, "third", "pw3")
	require.NoError(t, err)
	assert.Equal(t, 3, u3.ID)
}

func TestCredentialStore_GetByUsername(t *testing.T) {
	s, _ := newTestCredentialStore(t)
	ctx := context.Background()

	user, err := s.GetByUsername(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, user)

	_, err = s.Register(ctx, "alice", "secret")
	require.NoError(t, err)

	user, err = s.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
}

func TestCredentialStore_PersistsAcrossInstances(t *testing.T) {
	s, fs := newTestCredentialStore(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "alice", "secret")
	require.NoError(t, err)

	// A fresh store over the same filesystem sees the registered account.
	reopened := NewCredentialStore(fs, "data", 4)
	ok, err := reopened.Verify(ctx, "alice", "secret")
	require.NoError(t, err)
	assert.True(t, ok)

	// The temporary file used for atomic writes must not linger.
	tmpExists, err := afero.Exists(fs, filepath.Join("data", UsersFile+".tmp"))
	require.NoError(t, err)
	assert.False(t, tmpExists)
}

func TestCredentialStore_CorruptDocument(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, filepath.Join("data", UsersFile), []byte("{not json"), 0o644))

	s := NewCredentialStore(fs, "data", 4)
	_, err := s.List(context.Background())
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INTERNAL_ERROR", appErr.Code)
}
