package repositories

import (
	"context"

	"github.com/anonto42/socialfeed/backend/internal/models"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	// ListPosts returns every post, newest first.
	ListPosts(ctx context.Context) ([]models.Post, error)
	// ListPostsByAuthor returns the author's posts, newest first.
	ListPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error)
	UpdateLikes(ctx context.Context, id string, likes models.StringSet) error
}
