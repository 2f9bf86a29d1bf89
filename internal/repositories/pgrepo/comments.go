package pgrepo

import (
	"context"

	"github.com/anonto42/socialfeed/backend/internal/models"
	"gorm.io/gorm"
)

type commentRepository struct {
	s *Store
}

func (r *commentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	row := commentRow{
		PostID:   comment.PostID,
		AuthorID: comment.AuthorID,
		Content:  comment.Content,
		ParentID: comment.ParentID,
		Likes:    jsonSet(comment.Likes),
	}
	if err := r.s.conn(ctx).Create(&row).Error; err != nil {
		return err
	}
	*comment = *row.toModel()
	return nil
}

func (r *commentRepository) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	pk, err := rowID(id)
	if err != nil {
		return nil, err
	}
	var row commentRow
	if err := r.s.forUpdate(ctx).First(&row, pk).Error; err != nil {
		return nil, translate(err)
	}
	return row.toModel(), nil
}

func (r *commentRepository) ListCommentsByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	return r.find(r.s.conn(ctx).Where("post_id = ?", postID))
}

func (r *commentRepository) ListReplies(ctx context.Context, parentID string) ([]models.Comment, error) {
	return r.find(r.s.conn(ctx).Where("parent_id = ?", parentID))
}

func (r *commentRepository) UpdateLikes(ctx context.Context, id string, likes models.StringSet) error {
	return updateByID(r.s.conn(ctx), &commentRow{}, id, "likes", jsonSet(likes))
}

func (r *commentRepository) UpdateReplyCount(ctx context.Context, id string, count int) error {
	return updateByID(r.s.conn(ctx), &commentRow{}, id, "reply_count", count)
}

func (r *commentRepository) find(db *gorm.DB) ([]models.Comment, error) {
	var rows []commentRow
	if err := db.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	comments := make([]models.Comment, 0, len(rows))
	for i := range rows {
		comments = append(comments, *rows[i].toModel())
	}
	return comments, nil
}
