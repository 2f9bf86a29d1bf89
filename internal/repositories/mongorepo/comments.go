package mongorepo

import (
	"context"
	"time"

	"github.com/anonto42/socialfeed/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type commentDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	PostID     string             `bson:"post_id"`
	AuthorID   string             `bson:"author_id"`
	Content    string             `bson:"content"`
	ParentID   string             `bson:"parent_id,omitempty"`
	Likes      []string           `bson:"likes"`
	ReplyCount int                `bson:"reply_count"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func (d *commentDoc) toModel() *models.Comment {
	return &models.Comment{
		ID:         d.ID.Hex(),
		PostID:     d.PostID,
		AuthorID:   d.AuthorID,
		Content:    d.Content,
		ParentID:   d.ParentID,
		Likes:      models.StringSet(d.Likes).Normalize(),
		ReplyCount: d.ReplyCount,
		CreatedAt:  d.CreatedAt,
	}
}

type commentRepository struct {
	collection *mongo.Collection
}

func (r *commentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	doc := commentDoc{
		ID:        primitive.NewObjectID(),
		PostID:    comment.PostID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		ParentID:  comment.ParentID,
		Likes:     stringsOf(comment.Likes),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	*comment = *doc.toModel()
	return nil
}

func (r *commentRepository) GetCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc commentDoc
	if err := findOne(ctx, r.collection, bson.M{"_id": oid}, &doc); err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *commentRepository) ListCommentsByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	return r.find(ctx, bson.M{"post_id": postID})
}

func (r *commentRepository) ListReplies(ctx context.Context, parentID string) ([]models.Comment, error) {
	return r.find(ctx, bson.M{"parent_id": parentID})
}

func (r *commentRepository) UpdateLikes(ctx context.Context, id string, likes models.StringSet) error {
	return setByID(ctx, r.collection, id, bson.M{"likes": stringsOf(likes)})
}

func (r *commentRepository) UpdateReplyCount(ctx context.Context, id string, count int) error {
	return setByID(ctx, r.collection, id, bson.M{"reply_count": count})
}

func (r *commentRepository) find(ctx context.Context, filter interface{}) ([]models.Comment, error) {
	docs, err := findAll[commentDoc](ctx, r.collection, filter, 1)
	if err != nil {
		return nil, err
	}
	comments := make([]models.Comment, 0, len(docs))
	for i := range docs {
		comments = append(comments, *docs[i].toModel())
	}
	return comments, nil
}
