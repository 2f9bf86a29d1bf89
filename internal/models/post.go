package models

import "time"

// Post is a short text update with the set of users who liked it.
type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"` // External id of the author
	Content   string    `json:"content"`
	Likes     StringSet `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content string `json:"content" validate:"required,min=1,max=280"`
}
