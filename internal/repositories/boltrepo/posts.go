package boltrepo

import (
	"context"
	"time"

	"github.com/anonto42/socialfeed/backend/internal/models"
	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

type postRepository struct {
	s *Store
}

func (r *postRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return r.s.update(ctx, func(tx *bolt.Tx) error {
		posts := tx.Bucket(bucketPosts)
		seq, err := posts.NextSequence()
		if err != nil {
			return err
		}

		post.ID = uuid.NewString()
		post.CreatedAt = time.Now().UTC()
		post.Likes = post.Likes.Normalize()

		if err := putJSON(posts, post.ID, post); err != nil {
			return err
		}
		if err := tx.Bucket(bucketPostsOrder).Put(seqKey(seq), []byte(post.ID)); err != nil {
			return err
		}
		return appendIndex(tx, bucketPostsByAuthor, post.AuthorID, seq, post.ID)
	})
}

func (r *postRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := r.s.view(ctx, func(tx *bolt.Tx) error {
		return getJSON(tx.Bucket(bucketPosts), id, &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) ListPosts(ctx context.Context) ([]models.Post, error) {
	return r.list(ctx, func(tx *bolt.Tx) *bolt.Bucket { return tx.Bucket(bucketPostsOrder) })
}

func (r *postRepository) ListPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	return r.list(ctx, func(tx *bolt.Tx) *bolt.Bucket { return nested(tx, bucketPostsByAuthor, authorID) })
}

func (r *postRepository) UpdateLikes(ctx context.Context, id string, likes models.StringSet) error {
	return r.s.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPosts)
		var post models.Post
		if err := getJSON(b, id, &post); err != nil {
			return err
		}
		post.Likes = likes.Normalize()
		return putJSON(b, id, &post)
	})
}

// list loads the posts referenced by an order index, newest first.
func (r *postRepository) list(ctx context.Context, index func(tx *bolt.Tx) *bolt.Bucket) ([]models.Post, error) {
	var posts []models.Post
	err := r.s.view(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPosts)
		for _, id := range indexedIDs(index(tx), true) {
			var post models.Post
			if err := getJSON(b, id, &post); err != nil {
				return err
			}
			posts = append(posts, post)
		}
		return nil
	})
	return posts, err
}
