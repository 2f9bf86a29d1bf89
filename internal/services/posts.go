package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/anonto42/socialfeed/backend/internal/metrics"
	"github.com/anonto42/socialfeed/backend/internal/models"
	"github.com/anonto42/socialfeed/backend/internal/repositories"
	"github.com/samber/lo"
)

// PostService is the post store.
type PostService struct {
	store    repositories.Store
	notifier *notifier
}

// Create publishes a post for a registered author.
func (s *PostService) Create(ctx context.Context, authorID, content string) (*models.Post, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if _, err := s.store.Users().GetUserByExternalID(ctx, authorID); err != nil {
		return nil, userLookupError(err)
	}

	post := &models.Post{
		AuthorID: authorID,
		Content:  content,
		Likes:    models.StringSet{},
	}
	if err := s.store.Posts().CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.store.Posts().GetPostByID(ctx, id)
	if err != nil {
		return nil, postLookupError(err)
	}
	return post, nil
}

// List returns every post, newest first.
func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	posts, err := s.store.Posts().ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// ListByAuthor returns the author's posts, newest first.
func (s *PostService) ListByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	posts, err := s.store.Posts().ListPostsByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// Feed returns the posts of the given authors merged newest first.
func (s *PostService) Feed(ctx context.Context, authorIDs []string) ([]models.Post, error) {
	var feed []models.Post
	for _, authorID := range lo.Uniq(authorIDs) {
		posts, err := s.ListByAuthor(ctx, authorID)
		if err != nil {
			return nil, err
		}
		feed = append(feed, posts...)
	}
	slices.SortStableFunc(feed, func(a, b models.Post) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return feed, nil
}

// ToggleLike flips actor's like on the post and reports whether the post is
// liked by actor afterwards. A new like notifies the post author.
func (s *PostService) ToggleLike(ctx context.Context, postID, actorID string) (bool, error) {
	var (
		liked bool
		notif *models.Notification
	)
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		post, err := tx.Posts().GetPostByID(ctx, postID)
		if err != nil {
			return postLookupError(err)
		}

		save := func(likes models.StringSet) error {
			if err := tx.Posts().UpdateLikes(ctx, post.ID, likes); err != nil {
				return fmt.Errorf("failed to update likes: %w", err)
			}
			return nil
		}
		liked, notif, err = s.notifier.toggleLike(ctx, tx, post.Likes, save,
			post.AuthorID, actorID, models.NotificationLike, post.ID)
		return err
	})
	if err != nil {
		metrics.ObserveInteraction("post_like", "error")
		return false, err
	}

	metrics.ObserveInteraction("post_like", likeResult(liked))
	s.notifier.dispatch(ctx, notif)
	return liked, nil
}

func postLookupError(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrPostNotFound
	}
	return fmt.Errorf("failed to get post: %w", err)
}
