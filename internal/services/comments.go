package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/socialfeed/backend/internal/metrics"
	"github.com/anonto42/socialfeed/backend/internal/models"
	"github.com/anonto42/socialfeed/backend/internal/repositories"
)

// CommentService is the comment store.
type CommentService struct {
	store    repositories.Store
	notifier *notifier
}

// CreateCommentInput describes a new comment. A non-empty ParentID makes it a
// reply to that comment.
type CreateCommentInput struct {
	PostID   string
	AuthorID string
	Content  string
	ParentID string
}

// Create stores a comment on a post. Replies increment the reply count of
// their immediate parent in the same transaction. Exactly one of the parent
// author (replies) or the post author (top-level comments) is notified,
// unless that author wrote the comment.
func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.Content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}

	var (
		comment *models.Comment
		notif   *models.Notification
	)
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		notif = nil

		post, err := tx.Posts().GetPostByID(ctx, in.PostID)
		if err != nil {
			return postLookupError(err)
		}

		var parent *models.Comment
		if in.ParentID != "" {
			parent, err = tx.Comments().GetCommentByID(ctx, in.ParentID)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return ErrParentCommentNotFound
				}
				return fmt.Errorf("failed to get parent comment: %w", err)
			}
			if parent.PostID != post.ID {
				return ErrParentCommentNotFound
			}
			if err := tx.Comments().UpdateReplyCount(ctx, parent.ID, parent.ReplyCount+1); err != nil {
				return fmt.Errorf("failed to update reply count: %w", err)
			}
		}

		comment = &models.Comment{
			PostID:   post.ID,
			AuthorID: in.AuthorID,
			Content:  in.Content,
			ParentID: in.ParentID,
			Likes:    models.StringSet{},
		}
		if err := tx.Comments().CreateComment(ctx, comment); err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}

		if parent != nil {
			notif, err = s.notifier.notify(ctx, tx, notification{
				recipientID: parent.AuthorID,
				actorID:     in.AuthorID,
				kind:        models.NotificationReply,
				targetID:    parent.ID,
			})
		} else {
			notif, err = s.notifier.notify(ctx, tx, notification{
				recipientID: post.AuthorID,
				actorID:     in.AuthorID,
				kind:        models.NotificationComment,
				targetID:    post.ID,
			})
		}
		return err
	})
	if err != nil {
		metrics.ObserveInteraction("comment", "error")
		return nil, err
	}

	if comment.IsReply() {
		metrics.ObserveInteraction("comment", "reply")
	} else {
		metrics.ObserveInteraction("comment", "created")
	}
	s.notifier.dispatch(ctx, notif)
	return comment, nil
}

func (s *CommentService) Get(ctx context.Context, id string) (*models.Comment, error) {
	comment, err := s.store.Comments().GetCommentByID(ctx, id)
	if err != nil {
		return nil, commentLookupError(err)
	}
	return comment, nil
}

// ListByPost returns all comments and replies of a post, oldest first.
func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	if _, err := s.store.Posts().GetPostByID(ctx, postID); err != nil {
		return nil, postLookupError(err)
	}
	comments, err := s.store.Comments().ListCommentsByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// ListReplies returns the direct replies of a comment, oldest first.
func (s *CommentService) ListReplies(ctx context.Context, parentID string) ([]models.Comment, error) {
	if _, err := s.store.Comments().GetCommentByID(ctx, parentID); err != nil {
		return nil, commentLookupError(err)
	}
	replies, err := s.store.Comments().ListReplies(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	return replies, nil
}

// ToggleLike flips actor's like on the comment. A new like notifies the
// comment author.
func (s *CommentService) ToggleLike(ctx context.Context, commentID, actorID string) (bool, error) {
	var (
		liked bool
		notif *models.Notification
	)
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		comment, err := tx.Comments().GetCommentByID(ctx, commentID)
		if err != nil {
			return commentLookupError(err)
		}

		save := func(likes models.StringSet) error {
			if err := tx.Comments().UpdateLikes(ctx, comment.ID, likes); err != nil {
				return fmt.Errorf("failed to update likes: %w", err)
			}
			return nil
		}
		liked, notif, err = s.notifier.toggleLike(ctx, tx, comment.Likes, save,
			comment.AuthorID, actorID, models.NotificationCommentLike, comment.ID)
		return err
	})
	if err != nil {
		metrics.ObserveInteraction("comment_like", "error")
		return false, err
	}

	metrics.ObserveInteraction("comment_like", likeResult(liked))
	s.notifier.dispatch(ctx, notif)
	return liked, nil
}

func commentLookupError(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrCommentNotFound
	}
	return fmt.Errorf("failed to get comment: %w", err)
}
