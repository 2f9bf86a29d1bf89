package handlers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/anonto42/socialfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

const (
	defaultFeedLimit = 10
	maxFeedLimit     = 50
)

// FeedHandler serves the home feed
type FeedHandler struct {
	posts *services.PostService
	users *services.UserService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(posts *services.PostService, users *services.UserService) *FeedHandler {
	return &FeedHandler{posts: posts, users: users}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns a page of posts by the caller and the users they follow,
// newest first
func (h *FeedHandler) GetFeed(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxFeedLimit {
		limit = defaultFeedLimit
	}

	viewer, err := h.users.Get(ctx, id.ExternalID)
	if err != nil {
		return httpError(err)
	}
	visible, err := h.posts.Feed(ctx, append([]string{viewer.ExternalID}, viewer.Following...))
	if err != nil {
		return httpError(err)
	}

	totalItems := len(visible)
	totalPages := int(math.Ceil(float64(totalItems) / float64(limit)))
	offset := min(page-1, totalPages) * limit
	pagePosts := lo.Slice(visible, offset, offset+limit)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"posts": enrichPosts(ctx, h.users, viewer.ExternalID, pagePosts),
		},
		"meta": echo.Map{
			"currentPage":     page,
			"totalPages":      totalPages,
			"totalItems":      totalItems,
			"itemsPerPage":    limit,
			"hasNextPage":     page < totalPages,
			"hasPreviousPage": page > 1,
		},
	})
}
