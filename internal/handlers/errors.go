package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/socialfeed/backend/internal/middleware"
	"github.com/anonto42/socialfeed/backend/internal/services"
	"github.com/anonto42/socialfeed/backend/pkg/log"
	"github.com/labstack/echo/v4"
)

// httpError maps service errors onto HTTP responses.
func httpError(err error) error {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrPostNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	case errors.Is(err, services.ErrParentCommentNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Parent comment not found")
	case errors.Is(err, services.ErrCommentNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	case errors.Is(err, services.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	log.Errorf("Request failed", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}

// currentIdentity returns the authenticated caller.
func currentIdentity(c echo.Context) (*middleware.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	return id, nil
}

// bindAndValidate binds the request body into req and runs the echo validator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}
