package handlers

import (
	"net/http"

	"github.com/anonto42/socialfeed/backend/internal/models"
	"github.com/anonto42/socialfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	comments *services.CommentService
	users    *services.UserService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(comments *services.CommentService, users *services.UserService) *CommentHandler {
	return &CommentHandler{comments: comments, users: users}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetCommentsByPostID)
	g.GET("/comments/:id/replies", h.GetReplies)
}

// CreateComment adds a comment, or a reply when parent_id is set
func (h *CommentHandler) CreateComment(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.comments.Create(c.Request().Context(), services.CreateCommentInput{
		PostID:   c.Param("id"),
		AuthorID: id.ExternalID,
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, comment)
}

// GetCommentsByPostID returns the comments and replies of a post, oldest first
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	comments, err := h.comments.ListByPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, enrichComments(c.Request().Context(), h.users, id.ExternalID, comments))
}

// GetReplies returns the direct replies of a comment, oldest first
func (h *CommentHandler) GetReplies(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	replies, err := h.comments.ListReplies(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, enrichComments(c.Request().Context(), h.users, id.ExternalID, replies))
}
