package middleware

import (
	"context"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
)

// TokenVerifier verifies Firebase ID tokens. *auth.Client implements it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseAuthMiddleware creates an Echo middleware to verify Firebase ID tokens
func FirebaseAuthMiddleware(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			idToken, err := bearerToken(c)
			if err != nil {
				return err
			}

			token, err := verifier.VerifyIDToken(c.Request().Context(), idToken)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
			}

			SetIdentity(c, IdentityFromFirebase(token))
			return next(c)
		}
	}
}

// IdentityFromFirebase maps a verified ID token to the caller identity.
func IdentityFromFirebase(token *auth.Token) *Identity {
	id := &Identity{ExternalID: token.UID}
	if name, ok := token.Claims["name"].(string); ok {
		id.Name = name
	}
	if picture, ok := token.Claims["picture"].(string); ok {
		id.Picture = picture
	}
	if email, ok := token.Claims["email"].(string); ok && id.Name == "" {
		id.Name = email
	}
	return id
}
