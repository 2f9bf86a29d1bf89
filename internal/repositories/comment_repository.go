package repositories

import (
	"context"

	"github.com/anonto42/socialfeed/backend/internal/models"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id string) (*models.Comment, error)
	// ListCommentsByPost returns top-level comments and replies of a post, oldest first.
	ListCommentsByPost(ctx context.Context, postID string) ([]models.Comment, error)
	// ListReplies returns the direct replies of a comment, oldest first.
	ListReplies(ctx context.Context, parentID string) ([]models.Comment, error)
	UpdateLikes(ctx context.Context, id string, likes models.StringSet) error
	UpdateReplyCount(ctx context.Context, id string, count int) error
}
