package router

import (
	"github.com/anonto42/socialfeed/backend/internal/handlers"
	"github.com/anonto42/socialfeed/backend/internal/middleware"
	"github.com/anonto42/socialfeed/backend/internal/services"
	"github.com/anonto42/socialfeed/backend/pkg/config"
	"github.com/anonto42/socialfeed/backend/pkg/log"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
)

// Dependencies are the collaborators the routes are wired to.
type Dependencies struct {
	Services *services.Services

	// AuthMode selects how /api/v1 authenticates callers: "jwt" or "firebase".
	AuthMode  string
	JWTSecret string
	// Verifier checks Firebase ID tokens. Nil disables the Firebase login
	// exchange and Firebase auth mode. The exchange is only served in jwt mode.
	Verifier middleware.TokenVerifier

	// WebhookSecret guards the identity provider webhooks. Empty disables them.
	WebhookSecret string

	// Subscriber backs the notification stream. Nil disables it.
	Subscriber handlers.NotificationSubscriber
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	logger := log.WithComponent("router")
	svc := deps.Services

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Unprotected routes for authentication ---
	// Firebase mode accepts ID tokens directly, so the exchange only runs
	// when /api/v1 checks local JWTs.
	if deps.Verifier != nil && deps.AuthMode != config.AuthModeFirebase {
		authHandler := handlers.NewAuthHandler(svc.Users, deps.Verifier, deps.JWTSecret)
		authHandler.RegisterAuthRoutes(e.Group("/api/v1/auth"))
		logger.Info().Msg("Auth routes configured.")
	}

	// --- Identity provider webhooks (shared secret) ---
	if deps.WebhookSecret != "" {
		hooks := e.Group("/api/v1/webhooks")
		hooks.Use(eMiddleware.KeyAuth(func(key string, c echo.Context) (bool, error) {
			return key == deps.WebhookSecret, nil
		}))
		handlers.NewWebhookHandler(svc.Users).RegisterWebhookRoutes(hooks)
		logger.Info().Msg("Webhook routes configured.")
	}

	// --- Protected routes ---
	api := e.Group("/api/v1")
	api.Use(authMiddleware(deps))
	logger.Info().Str("mode", deps.AuthMode).Msg("Authentication middleware applied to /api/v1 group.")

	handlers.NewUserHandler(svc.Users).RegisterProfileRoutes(api)
	handlers.NewPostHandler(svc.Posts, svc.Users).RegisterPostRoutes(api)
	handlers.NewFeedHandler(svc.Posts, svc.Users).RegisterFeedRoutes(api)
	handlers.NewFollowHandler(svc.Users).RegisterFollowRoutes(api)
	handlers.NewCommentHandler(svc.Comments, svc.Users).RegisterCommentRoutes(api)
	handlers.NewLikeHandler(svc.Posts, svc.Comments).RegisterLikeRoutes(api)
	handlers.NewNotificationHandler(svc.Notifications, svc.Users, deps.Subscriber).RegisterNotificationRoutes(api)

	logger.Info().Msg("All routes configured.")
}

func authMiddleware(deps Dependencies) echo.MiddlewareFunc {
	if deps.AuthMode == config.AuthModeFirebase && deps.Verifier != nil {
		return middleware.FirebaseAuthMiddleware(deps.Verifier)
	}
	return middleware.JWTAuthMiddleware(deps.JWTSecret)
}
