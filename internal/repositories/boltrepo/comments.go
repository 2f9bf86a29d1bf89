package boltrepo

import (
	"context"
	"time"

	"github.com/anonto42/socialfeed/backend/internal/models"
	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

type commentRepository struct {
	s *Store
}

func (r *commentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.s.update(ctx, func(tx *bolt.Tx) error {
		comments := tx.Bucket(bucketComments)
		seq, err := comments.NextSequence()
		if err != nil {
			return err
		}

		comment.ID = uuid.NewString()
		comment.CreatedAt = time.Now().UTC()
		comment.Likes = comment.Likes.Normalize()

		if err := putJSON(comments, comment.ID, comment); err != nil {
			return err
		}
		if err := appendIndex(tx, bucketCommentsByPost, comment.PostID, seq, comment.ID); err != nil {
			return err
		}
		if comment.IsReply() {
			return appendIndex(tx, bucketCommentsByParent, comment.ParentID, seq, comment.ID)
		}
		return nil
	})
}

func (r *commentRepository) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	err := r.s.view(ctx, func(tx *bolt.Tx) error {
		return getJSON(tx.Bucket(bucketComments), id, &comment)
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListCommentsByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	return r.list(ctx, bucketCommentsByPost, postID)
}

func (r *commentRepository) ListReplies(ctx context.Context, parentID string) ([]models.Comment, error) {
	return r.list(ctx, bucketCommentsByParent, parentID)
}

func (r *commentRepository) UpdateLikes(ctx context.Context, id string, likes models.StringSet) error {
	return r.patch(ctx, id, func(c *models.Comment) { c.Likes = likes.Normalize() })
}

func (r *commentRepository) UpdateReplyCount(ctx context.Context, id string, count int) error {
	return r.patch(ctx, id, func(c *models.Comment) { c.ReplyCount = count })
}

func (r *commentRepository) patch(ctx context.Context, id string, apply func(*models.Comment)) error {
	return r.s.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketComments)
		var comment models.Comment
		if err := getJSON(b, id, &comment); err != nil {
			return err
		}
		apply(&comment)
		return putJSON(b, id, &comment)
	})
}

// list loads the comments of an index sub-bucket, oldest first.
func (r *commentRepository) list(ctx context.Context, index []byte, key string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.s.view(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketComments)
		for _, id := range indexedIDs(nested(tx, index, key), false) {
			var comment models.Comment
			if err := getJSON(b, id, &comment); err != nil {
				return err
			}
			comments = append(comments, comment)
		}
		return nil
	})
	return comments, err
}
