package handlers

import (
	"net/http"

	"github.com/anonto42/socialfeed/backend/internal/models"
	"github.com/anonto42/socialfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

// FollowHandler handles follow-related HTTP requests
type FollowHandler struct {
	users *services.UserService
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(users *services.UserService) *FollowHandler {
	return &FollowHandler{users: users}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.ToggleFollow)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
}

// ToggleFollow follows or unfollows the user and returns the new state
func (h *FollowHandler) ToggleFollow(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	following, err := h.users.ToggleFollow(c.Request().Context(), id.ExternalID, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"following": following})
}

// GetFollowers lists the users following the given user
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	user, err := h.users.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, h.compactList(c, user.Followers))
}

// GetFollowing lists the users the given user follows
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	user, err := h.users.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, h.compactList(c, user.Following))
}

func (h *FollowHandler) compactList(c echo.Context, ids models.StringSet) []models.UserCompact {
	known := compactUsers(c.Request().Context(), h.users, ids)
	return lo.FilterMap(ids, func(id string, _ int) (models.UserCompact, bool) {
		u, ok := known[id]
		return u, ok
	})
}
