package mongorepo

import (
	"context"
	"time"

	"github.com/anonto42/socialfeed/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type postDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	AuthorID  string             `bson:"author_id"`
	Content   string             `bson:"content"`
	Likes     []string           `bson:"likes"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d *postDoc) toModel() *models.Post {
	return &models.Post{
		ID:        d.ID.Hex(),
		AuthorID:  d.AuthorID,
		Content:   d.Content,
		Likes:     models.StringSet(d.Likes).Normalize(),
		CreatedAt: d.CreatedAt,
	}
}

type postRepository struct {
	collection *mongo.Collection
}

func (r *postRepository) CreatePost(ctx context.Context, post *models.Post) error {
	doc := postDoc{
		ID:        primitive.NewObjectID(),
		AuthorID:  post.AuthorID,
		Content:   post.Content,
		Likes:     stringsOf(post.Likes),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	*post = *doc.toModel()
	return nil
}

func (r *postRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc postDoc
	if err := findOne(ctx, r.collection, bson.M{"_id": oid}, &doc); err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *postRepository) ListPosts(ctx context.Context) ([]models.Post, error) {
	return r.find(ctx, bson.D{})
}

func (r *postRepository) ListPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	return r.find(ctx, bson.M{"author_id": authorID})
}

func (r *postRepository) UpdateLikes(ctx context.Context, id string, likes models.StringSet) error {
	return setByID(ctx, r.collection, id, bson.M{"likes": stringsOf(likes)})
}

func (r *postRepository) find(ctx context.Context, filter interface{}) ([]models.Post, error) {
	docs, err := findAll[postDoc](ctx, r.collection, filter, -1)
	if err != nil {
		return nil, err
	}
	posts := make([]models.Post, 0, len(docs))
	for i := range docs {
		posts = append(posts, *docs[i].toModel())
	}
	return posts, nil
}
