package server

import (
	"fmt"
	"time"

	"familynest/internal/models"
	"familynest/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// SessionCookieName carries the signed session token. The original
	// design stored the raw username in a cookie named "username"; the
	// token is now signed, but the 15-minute lifetime and cookie transport
	// are unchanged.
	SessionCookieName = "session"

	// SessionTTL is the fixed session lifetime.
	SessionTTL = 15 * time.Minute

	tokenIssuer   = "familynest-api"
	tokenAudience = "familynest-client"
)

// Register handles POST /api/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewMissingFieldError("Invalid request body"))
	}

	user, err := s.wishlistService.Register(c.Context(), req.Username, req.Password)
	if err != nil {
		return respondWithAppError(c, err)
	}
	observability.RegistrationsTotal.Inc()

	if err := s.issueSessionCookie(c, user.Username); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
	})
}

// Login handles POST /api/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewMissingFieldError("Invalid request body"))
	}

	user, err := s.wishlistService.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return respondWithAppError(c, err)
	}
	observability.LoginsTotal.Inc()

	if err := s.issueSessionCookie(c, user.Username); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
	})
}

// Logout handles POST /api/logout. Tokens are self-describing, so logging
// out just clears the cookie; calling it without a session is fine and
// returns the same response.
func (s *Server) Logout(c *fiber.Ctx) error {
	s.clearSessionCookie(c)
	return c.JSON(fiber.Map{
		"message": "Logout successful",
	})
}

// CurrentUser handles GET /api/me. The session token is opaque to the
// browser, so the frontend asks the API who is logged in.
func (s *Server) CurrentUser(c *fiber.Ctx) error {
	user, err := s.creds.GetByUsername(c.Context(), currentUsername(c))
	if err != nil {
		return respondWithAppError(c, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Unauthorized"))
	}
	return c.JSON(user.Public())
}

// issueSessionCookie signs a fresh session token for the username and sets
// it on the response.
func (s *Server) issueSessionCookie(c *fiber.Ctx, username string) error {
	token, err := s.generateSessionToken(username)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionTTL.Seconds()),
		Expires:  time.Now().Add(SessionTTL),
		SameSite: fiber.CookieSameSiteLaxMode,
		// Left readable by the client so the UI can detect login state,
		// matching the original contract.
		HTTPOnly: false,
	})
	return nil
}

// clearSessionCookie expires the session cookie on the response.
func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour),
		SameSite: fiber.CookieSameSiteLaxMode,
		HTTPOnly: false,
	})
}

// generateSessionToken creates a signed token for the given username
func (s *Server) generateSessionToken(username string) (string, error) {
	// Validate secret exists
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": username,                   // Subject (username)
		"iss": tokenIssuer,                // Issuer
		"aud": tokenAudience,              // Audience
		"exp": now.Add(SessionTTL).Unix(), // Expiration (15 minutes)
		"iat": now.Unix(),                 // Issued at
		"nbf": now.Unix(),                 // Not before
		"jti": s.generateJTI(),            // Token ID (unique identifier)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique token ID to prevent replay attacks
func (s *Server) generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
