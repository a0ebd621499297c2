// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"strings"
	"time"

	"familynest/internal/config"
	"familynest/internal/middleware"
	"familynest/internal/models"
	"familynest/internal/seed"
	"familynest/internal/service"
	"familynest/internal/store"
	"familynest/internal/weather"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/afero"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config          *config.Config
	fs              afero.Fs
	promMiddleware  *fiberprometheus.FiberPrometheus
	creds           store.CredentialStore
	wishlists       store.WishlistStore
	wishlistService *service.WishlistService
	weather         *weather.Client
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	fs := afero.NewOsFs()

	creds := store.NewCredentialStore(fs, cfg.DataDir, 0)
	wishlists := store.NewWishlistStore(fs, cfg.DataDir)

	// Seed the demo accounts and sample wishlists on first run.
	if err := seed.EnsureDemoData(fs, cfg.DataDir); err != nil {
		return nil, err
	}

	weatherClient := weather.NewClient(cfg.WeatherAPIURL, cfg.WeatherAPIKey,
		time.Duration(cfg.WeatherCacheTTL)*time.Minute)

	return NewServerWithDeps(cfg, fs, creds, wishlists, weatherClient), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes the stores and
// optionally performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, fs afero.Fs, creds store.CredentialStore,
	wishlists store.WishlistStore, weatherClient *weather.Client) *Server {
	return &Server{
		config:          cfg,
		fs:              fs,
		promMiddleware:  middleware.InitMetrics("familynest-api"),
		creds:           creds,
		wishlists:       wishlists,
		wishlistService: service.NewWishlistService(creds, wishlists),
		weather:         weatherClient,
	}
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and username
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	// Backwards-compatible legacy route: map /health to readiness
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Auth routes; registration and login carry a stricter limiter than the
	// global one so credential stuffing gets throttled early.
	api.Post("/register", s.authLimiter(10, 10*time.Minute), s.Register)
	api.Post("/login", s.authLimiter(20, 5*time.Minute), s.Login)
	api.Post("/logout", s.Logout)
	api.Get("/me", s.AuthRequired(), s.CurrentUser)

	// Wishlist routes (session required)
	wishlist := api.Group("/wishlist", s.AuthRequired())
	wishlist.Get("/", s.GetWishlist)
	wishlist.Post("/", s.AddWishlistItem)
	wishlist.Delete("/:index", s.RemoveWishlistItem)

	// Weather proxy
	api.Get("/weather/forecast", s.GetWeatherForecast)
}

// authLimiter returns a per-route limiter keyed by client IP.
func (s *Server) authLimiter(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	})
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Ready means both JSON
// documents are readable (or absent, which the stores treat as empty).
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	usersStatus := "healthy"
	if _, err := s.creds.List(ctx); err != nil {
		usersStatus = "unhealthy"
	}

	wishlistsStatus := "healthy"
	if _, err := s.wishlists.ListFor(ctx, "health-probe"); err != nil {
		wishlistsStatus = "unhealthy"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if usersStatus != "healthy" || wishlistsStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"users":     usersStatus,
			"wishlists": wishlistsStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware. It resolves the
// session cookie (or a Bearer token) to a username and verifies that the
// user still exists in the credential store. A token referencing a vanished
// user downgrades the session silently: the cookie is cleared and the
// request gets a plain 401, never an error page.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(SessionCookieName)
		if tokenString == "" {
			// Fall back to a Bearer token for non-browser clients.
			authHeader := c.Get("Authorization")
			if authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) == 2 && parts[0] == "Bearer" {
					tokenString = parts[1]
				}
			}
		}

		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Unauthorized"))
		}

		username, err := s.parseSessionToken(tokenString)
		if err != nil {
			s.clearSessionCookie(c)
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired session"))
		}

		user, err := s.creds.GetByUsername(c.Context(), username)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if user == nil {
			s.clearSessionCookie(c)
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Unauthorized"))
		}

		// Store the username in context for handlers and logging
		c.Locals("username", user.Username)
		ctx := context.WithValue(c.UserContext(), middleware.UsernameKey, user.Username)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// parseSessionToken validates a signed session token and returns the
// username it was issued for.
func (s *Server) parseSessionToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", models.NewUnauthorizedError("Invalid token claims")
	}

	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != tokenIssuer {
		return "", models.NewUnauthorizedError("Invalid token issuer")
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != tokenAudience {
		return "", models.NewUnauthorizedError("Invalid token audience")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", models.NewUnauthorizedError("Invalid subject claim")
	}
	return sub, nil
}
