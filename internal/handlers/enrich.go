package handlers

import (
	"context"

	"github.com/anonto42/socialfeed/backend/internal/models"
	"github.com/anonto42/socialfeed/backend/internal/services"
	"github.com/samber/lo"
)

// EnrichedPost is a post with author info and caller-specific flags
type EnrichedPost struct {
	models.Post
	Author     *models.UserCompact `json:"author"`
	IsLiked    bool                `json:"is_liked"`
	LikesCount int                 `json:"likes_count"`
}

// EnrichedComment is a comment with author info and caller-specific flags
type EnrichedComment struct {
	models.Comment
	Author     *models.UserCompact `json:"author"`
	IsLiked    bool                `json:"is_liked"`
	LikesCount int                 `json:"likes_count"`
}

// EnrichedNotification is a notification with actor info
type EnrichedNotification struct {
	models.Notification
	Actor *models.UserCompact `json:"actor"`
}

// compactUsers resolves the distinct external ids to their public summaries.
// Ids without a user record are left out.
func compactUsers(ctx context.Context, users *services.UserService, ids []string) map[string]models.UserCompact {
	out := make(map[string]models.UserCompact)
	for _, id := range lo.Uniq(ids) {
		user, err := users.Get(ctx, id)
		if err != nil {
			continue
		}
		out[id] = user.ToCompact()
	}
	return out
}

func lookup(m map[string]models.UserCompact, id string) *models.UserCompact {
	if u, ok := m[id]; ok {
		return &u
	}
	return nil
}

func enrichPosts(ctx context.Context, users *services.UserService, viewerID string, posts []models.Post) []EnrichedPost {
	authors := compactUsers(ctx, users, lo.Map(posts, func(p models.Post, _ int) string { return p.AuthorID }))
	return lo.Map(posts, func(p models.Post, _ int) EnrichedPost {
		return EnrichedPost{
			Post:       p,
			Author:     lookup(authors, p.AuthorID),
			IsLiked:    p.Likes.Contains(viewerID),
			LikesCount: p.Likes.Len(),
		}
	})
}

func enrichComments(ctx context.Context, users *services.UserService, viewerID string, comments []models.Comment) []EnrichedComment {
	authors := compactUsers(ctx, users, lo.Map(comments, func(c models.Comment, _ int) string { return c.AuthorID }))
	return lo.Map(comments, func(c models.Comment, _ int) EnrichedComment {
		return EnrichedComment{
			Comment:    c,
			Author:     lookup(authors, c.AuthorID),
			IsLiked:    c.Likes.Contains(viewerID),
			LikesCount: c.Likes.Len(),
		}
	})
}

func enrichNotifications(ctx context.Context, users *services.UserService, notifications []models.Notification) []EnrichedNotification {
	actors := compactUsers(ctx, users, lo.Map(notifications, func(n models.Notification, _ int) string { return n.ActorID }))
	return lo.Map(notifications, func(n models.Notification, _ int) EnrichedNotification {
		return EnrichedNotification{Notification: n, Actor: lookup(actors, n.ActorID)}
	})
}
