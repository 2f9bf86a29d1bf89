package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/anonto42/socialfeed/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// JWTAuthMiddleware checks for a valid HS256 JWT whose subject is the caller's
// external id.
func JWTAuthMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := bearerToken(c)
			if err != nil {
				return err
			}

			claims := &models.JwtCustomClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unexpected signing method")
				}
				return []byte(secret), nil
			})
			if err != nil {
				if errors.Is(err, jwt.ErrSignatureInvalid) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token signature")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}
			if !token.Valid || claims.Subject == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			SetIdentity(c, &Identity{
				ExternalID: claims.Subject,
				Name:       claims.Name,
				Username:   claims.Username,
				Picture:    claims.Picture,
			})
			return next(c)
		}
	}
}

// SignToken issues an HS256 token for the identity, valid for ttl.
func SignToken(secret string, id Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &models.JwtCustomClaims{
		Name:     id.Name,
		Username: id.Username,
		Picture:  id.Picture,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ExternalID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
