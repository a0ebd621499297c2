package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"familynest/internal/config"
	"familynest/internal/models"
	"familynest/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCredentialStore is a mock of the store.CredentialStore interface
type MockCredentialStore struct {
	mock.Mock
}

func (m *MockCredentialStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockCredentialStore) Register(ctx context.Context, username, password string) (*models.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockCredentialStore) Verify(ctx context.Context, username, password string) (bool, error) {
	args := m.Called(ctx, username, password)
	return args.Bool(0), args.Error(1)
}

func (m *MockCredentialStore) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

// MockWishlistStore is a mock of the store.WishlistStore interface
type MockWishlistStore struct {
	mock.Mock
}

func (m *MockWishlistStore) ListFor(ctx context.Context, username string) ([]models.Item, error) {
	args := m.Called(ctx, username)
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *MockWishlistStore) CreateEmptyFor(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockWishlistStore) Append(ctx context.Context, username string, item models.Item) (int, error) {
	args := m.Called(ctx, username, item)
	return args.Int(0), args.Error(1)
}

func (m *MockWishlistStore) RemoveAt(ctx context.Context, username string, index int) error {
	args := m.Called(ctx, username, index)
	return args.Error(0)
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Cookies() {
		if cookie.Name == SessionCookieName {
			return cookie
		}
	}
	return nil
}

func TestRegister(t *testing.T) {
	app := fiber.New()
	mockCreds := new(MockCredentialStore)
	mockWishlists := new(MockWishlistStore)

	s := &Server{
		config:          &config.Config{JWTSecret: "test_secret"},
		creds:           mockCreds,
		wishlists:       mockWishlists,
		wishlistService: service.NewWishlistService(mockCreds, mockWishlists),
	}

	app.Post("/api/register", s.Register)

	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func()
		expectedStatus int
		expectCookie   bool
	}{
		{
			name: "Success",
			body: map[string]string{"username": "alice", "password": "secret"},
			mockSetup: func() {
				mockCreds.On("Register", mock.Anything, "alice", "secret").
					Return(&models.User{ID: 1, Username: "alice"}, nil)
				mockWishlists.On("CreateEmptyFor", mock.Anything, "alice").Return(nil)
			},
			expectedStatus: http.StatusCreated,
			expectCookie:   true,
		},
		{
			name:           "Missing username",
			body:           map[string]string{"password": "secret"},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing password",
			body:           map[string]string{"username": "alice"},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Duplicate username",
			body: map[string]string{"username": "bob", "password": "secret"},
			mockSetup: func() {
				mockCreds.On("Register", mock.Anything, "bob", "secret").
					Return(nil, models.NewDuplicateUsernameError("bob"))
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectCookie {
				cookie := sessionCookie(t, resp)
				require.NotNil(t, cookie)
				assert.NotEmpty(t, cookie.Value)
				assert.Equal(t, int(SessionTTL.Seconds()), cookie.MaxAge)
				assert.Equal(t, "/", cookie.Path)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	app := fiber.New()
	mockCreds := new(MockCredentialStore)
	mockWishlists := new(MockWishlistStore)

	s := &Server{
		config:          &config.Config{JWTSecret: "test_secret"},
		creds:           mockCreds,
		wishlists:       mockWishlists,
		wishlistService: service.NewWishlistService(mockCreds, mockWishlists),
	}

	app.Post("/api/login", s.Login)

	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func()
		expectedStatus int
		expectCookie   bool
	}{
		{
			name: "Success",
			body: map[string]string{"username": "alice", "password": "secret"},
			mockSetup: func() {
				mockCreds.On("Verify", mock.Anything, "alice", "secret").Return(true, nil)
				mockCreds.On("GetByUsername", mock.Anything, "alice").
					Return(&models.User{ID: 1, Username: "alice"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectCookie:   true,
		},
		{
			name: "Wrong password",
			body: map[string]string{"username": "alice", "password": "nope"},
			mockSetup: func() {
				mockCreds.On("Verify", mock.Anything, "alice", "nope").Return(false, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Missing fields",
			body:           map[string]string{},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectCookie {
				cookie := sessionCookie(t, resp)
				require.NotNil(t, cookie)
				assert.NotEmpty(t, cookie.Value)
			}
		})
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	app := fiber.New()
	s := &Server{config: &config.Config{JWTSecret: "test_secret"}}
	app.Post("/api/logout", s.Logout)

	// Two logouts in a row both succeed and both clear the cookie.
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		_ = resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		cookie := sessionCookie(t, resp)
		require.NotNil(t, cookie)
		assert.Empty(t, cookie.Value)
		assert.True(t, cookie.Expires.Before(time.Now()))
	}
}
