package handlers

import (
	"net/http"
	"time"

	"github.com/anonto42/socialfeed/backend/internal/middleware"
	"github.com/anonto42/socialfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
)

const tokenTTL = 72 * time.Hour

// AuthHandler exchanges Firebase ID tokens for local access tokens
type AuthHandler struct {
	users     *services.UserService
	verifier  middleware.TokenVerifier
	jwtSecret string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(users *services.UserService, verifier middleware.TokenVerifier, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		users:     users,
		verifier:  verifier,
		jwtSecret: jwtSecret,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/firebase-login", h.FirebaseLogin)
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// FirebaseLogin verifies a Firebase ID token, provisions the user and
// issues a local JWT
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := h.verifier.VerifyIDToken(c.Request().Context(), req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	id := middleware.IdentityFromFirebase(token)
	user, _, err := h.users.Provision(c.Request().Context(), id.ProvisionRequest())
	if err != nil {
		return httpError(err)
	}

	localJWT, err := middleware.SignToken(h.jwtSecret, middleware.Identity{
		ExternalID: user.ExternalID,
		Name:       user.Name,
		Username:   user.Username,
		Picture:    user.ImageURL,
	}, tokenTTL)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate local JWT")
	}

	return c.JSON(http.StatusOK, echo.Map{"token": localJWT, "user": user})
}
