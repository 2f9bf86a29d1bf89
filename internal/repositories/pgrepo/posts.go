package pgrepo

import (
	"context"

	"github.com/anonto42/socialfeed/backend/internal/models"
	"gorm.io/gorm"
)

type postRepository struct {
	s *Store
}

func (r *postRepository) CreatePost(ctx context.Context, post *models.Post) error {
	row := postRow{
		AuthorID: post.AuthorID,
		Content:  post.Content,
		Likes:    jsonSet(post.Likes),
	}
	if err := r.s.conn(ctx).Create(&row).Error; err != nil {
		return err
	}
	*post = *row.toModel()
	return nil
}

func (r *postRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	pk, err := rowID(id)
	if err != nil {
		return nil, err
	}
	var row postRow
	if err := r.s.forUpdate(ctx).First(&row, pk).Error; err != nil {
		return nil, translate(err)
	}
	return row.toModel(), nil
}

func (r *postRepository) ListPosts(ctx context.Context) ([]models.Post, error) {
	return r.find(r.s.conn(ctx))
}

func (r *postRepository) ListPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	return r.find(r.s.conn(ctx).Where("author_id = ?", authorID))
}

func (r *postRepository) UpdateLikes(ctx context.Context, id string, likes models.StringSet) error {
	return updateByID(r.s.conn(ctx), &postRow{}, id, "likes", jsonSet(likes))
}

func (r *postRepository) find(db *gorm.DB) ([]models.Post, error) {
	var rows []postRow
	if err := db.Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	posts := make([]models.Post, 0, len(rows))
	for i := range rows {
		posts = append(posts, *rows[i].toModel())
	}
	return posts, nil
}
