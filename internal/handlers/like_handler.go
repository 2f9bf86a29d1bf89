package handlers

import (
	"net/http"

	"github.com/anonto42/socialfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	posts    *services.PostService
	comments *services.CommentService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(posts *services.PostService, comments *services.CommentService) *LikeHandler {
	return &LikeHandler{posts: posts, comments: comments}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/likes", h.TogglePostLike)
	g.GET("/posts/:id/likes/status", h.GetUserLikeStatusForPost)
	g.POST("/comments/:id/likes", h.ToggleCommentLike)
}

// TogglePostLike likes or unlikes a post and returns the new state
func (h *LikeHandler) TogglePostLike(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	liked, err := h.posts.ToggleLike(c.Request().Context(), c.Param("id"), id.ExternalID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": liked})
}

// GetUserLikeStatusForPost reports whether the caller liked the post
func (h *LikeHandler) GetUserLikeStatusForPost(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	post, err := h.posts.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"post_id":     post.ID,
		"liked":       post.Likes.Contains(id.ExternalID),
		"likes_count": post.Likes.Len(),
	})
}

// ToggleCommentLike likes or unlikes a comment and returns the new state
func (h *LikeHandler) ToggleCommentLike(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	liked, err := h.comments.ToggleLike(c.Request().Context(), c.Param("id"), id.ExternalID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": liked})
}
