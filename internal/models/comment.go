package models

import "time"

// Comment is a post-scoped comment. Replies reference their parent comment;
// ReplyCount caches the number of direct replies and is never decremented.
type Comment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post_id"`
	AuthorID   string    `json:"author_id"`
	Content    string    `json:"content"`
	ParentID   string    `json:"parent_id,omitempty"` // Empty for top-level comments
	Likes      StringSet `json:"likes"`
	ReplyCount int       `json:"reply_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsReply reports whether the comment answers another comment.
func (c *Comment) IsReply() bool {
	return c.ParentID != ""
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=500"`
	ParentID string `json:"parent_id,omitempty"`
}
