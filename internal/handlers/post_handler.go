package handlers

import (
	"net/http"

	"github.com/anonto42/socialfeed/backend/internal/models"
	"github.com/anonto42/socialfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	posts *services.PostService
	users *services.UserService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(posts *services.PostService, users *services.UserService) *PostHandler {
	return &PostHandler{posts: posts, users: users}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts", h.GetPosts)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/users/:id/posts", h.GetPostsByUser)
}

// CreatePost publishes a post as the caller
func (h *PostHandler) CreatePost(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.posts.Create(c.Request().Context(), id.ExternalID, req.Content)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, post)
}

// GetPost returns one enriched post
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	post, err := h.posts.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	enriched := enrichPosts(c.Request().Context(), h.users, id.ExternalID, []models.Post{*post})
	return c.JSON(http.StatusOK, enriched[0])
}

// GetPosts returns the feed, newest first
func (h *PostHandler) GetPosts(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	posts, err := h.posts.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, enrichPosts(c.Request().Context(), h.users, id.ExternalID, posts))
}

// GetPostsByUser returns a user's posts, newest first
func (h *PostHandler) GetPostsByUser(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	posts, err := h.posts.ListByAuthor(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, enrichPosts(c.Request().Context(), h.users, id.ExternalID, posts))
}
