package handlers

import (
	"net/http"

	"github.com/anonto42/socialfeed/backend/internal/models"
	"github.com/anonto42/socialfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	users *services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// UserProfile is a user with follow counts and the caller's relation to it.
type UserProfile struct {
	*models.User
	FollowersCount int  `json:"followers_count"`
	FollowingCount int  `json:"following_count"`
	IsFollowing    bool `json:"is_following"`
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.POST("/users/me", h.ProvisionMe)
	g.GET("/users/me", h.GetProfile)
	g.GET("/users", h.ListUsers)
	g.GET("/users/:id", h.GetUser)
}

// ProvisionMe registers the caller from the token claims, returning the
// existing user when already registered.
func (h *UserHandler) ProvisionMe(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	user, created, err := h.users.Provision(c.Request().Context(), id.ProvisionRequest())
	if err != nil {
		return httpError(err)
	}
	if created {
		return c.JSON(http.StatusCreated, user)
	}
	return c.JSON(http.StatusOK, user)
}

// GetProfile retrieves the authenticated user's profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.Request().Context(), id.ExternalID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, profileOf(user, id.ExternalID))
}

// GetUser retrieves a user's profile by external id
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, profileOf(user, id.ExternalID))
}

// ListUsers returns every registered user
func (h *UserHandler) ListUsers(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, lo.Map(users, func(u models.User, _ int) UserProfile {
		return profileOf(&u, id.ExternalID)
	}))
}

func profileOf(user *models.User, viewerID string) UserProfile {
	return UserProfile{
		User:           user,
		FollowersCount: user.Followers.Len(),
		FollowingCount: user.Following.Len(),
		IsFollowing:    user.Followers.Contains(viewerID),
	}
}
