package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"familynest/internal/models"

	"github.com/spf13/afero"
	"golang.org/x/crypto/bcrypt"
)

// UsersFile is the name of the credential document inside the data directory.
const UsersFile = "users.json"

// CredentialStore defines persistence operations for user accounts.
type CredentialStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Register(ctx context.Context, username, password string) (*models.User, error)
	Verify(ctx context.Context, username, password string) (bool, error)
	List(ctx context.Context) ([]models.User, error)
}

// usersDocument is the on-disk layout of users.json.
type usersDocument struct {
	Users []models.User `json:"users"`
}

type credentialStore struct {
	mu   sync.Mutex
	file jsonFile
	cost int
}

// NewCredentialStore returns a CredentialStore backed by a JSON document
// under dataDir on the given filesystem. Passwords are hashed with bcrypt
// at the given cost; cost <= 0 selects bcrypt.DefaultCost.
func NewCredentialStore(fs afero.Fs, dataDir string, cost int) CredentialStore {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &credentialStore{
		file: jsonFile{fs: fs, path: filepath.Join(dataDir, UsersFile)},
		cost: cost,
	}
}

// loadLocked reads the current document. Callers must hold s.mu.
// A missing file is treated as an empty store.
func (s *credentialStore) loadLocked() (*usersDocument, error) {
	var doc usersDocument
	if err := s.file.load(&doc); err != nil {
		if os.IsNotExist(err) {
			return &usersDocument{}, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &doc, nil
}

func (s *credentialStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadLocked()
	if err != nil {
		return nil, err
	}
	for i := range doc.Users {
		if doc.Users[i].Username == username {
			u := doc.Users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (s *credentialStore) Register(ctx context.Context, username, password string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadLocked()
	if err != nil {
		return nil, err
	}

	for i := range doc.Users {
		if doc.Users[i].Username == username {
			return nil, models.NewDuplicateUsernameError(username)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := models.User{
		ID:       nextID(doc.Users),
		Username: username,
		Password: string(hash),
	}
	doc.Users = append(doc.Users, user)

	if err := s.file.save(doc); err != nil {
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (s *credentialStore) Verify(ctx context.Context, username, password string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadLocked()
	if err != nil {
		return false, err
	}

	for i := range doc.Users {
		if doc.Users[i].Username == username {
			// bcrypt's comparison is constant-time.
			return bcrypt.CompareHashAndPassword(
				[]byte(doc.Users[i].Password), []byte(password)) == nil, nil
		}
	}
	// Unknown user fails closed.
	return false, nil
}

func (s *credentialStore) List(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadLocked()
	if err != nil {
		return nil, err
	}
	return append([]models.User(nil), doc.Users...), nil
}

// nextID assigns max(id)+1, or 1 for an empty store. IDs are never reused
// even if the document was edited by hand.
func nextID(users []models.User) int {
	max := 0
	for i := range users {
		if users[i].ID > max {
			max = users[i].ID
		}
	}
	return max + 1
}
