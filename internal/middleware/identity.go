package middleware

import (
	"net/http"
	"strings"

	"github.com/anonto42/socialfeed/backend/internal/models"
	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

// Identity is the authenticated caller as asserted by the identity provider.
type Identity struct {
	ExternalID string
	Name       string
	Username   string
	Picture    string
}

// ProvisionRequest builds the directory entry for the caller. Missing
// usernames fall back to the first eight characters of the external id.
func (i *Identity) ProvisionRequest() models.ProvisionUserRequest {
	username := i.Username
	if username == "" {
		username = ShortID(i.ExternalID)
	}
	return models.ProvisionUserRequest{
		ExternalID: i.ExternalID,
		Name:       i.Name,
		Username:   username,
		ImageURL:   i.Picture,
	}
}

// ShortID returns at most the first eight characters of id.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// SetIdentity stores the caller on the request context.
func SetIdentity(c echo.Context, id *Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the caller stored by the auth middleware.
func IdentityFrom(c echo.Context) (*Identity, bool) {
	id, ok := c.Get(identityKey).(*Identity)
	return id, ok && id != nil && id.ExternalID != ""
}

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is missing")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Authorization header must be in Bearer format")
	}
	return parts[1], nil
}
