package mongorepo

import (
	"context"
	"time"

	"github.com/anonto42/socialfeed/backend/internal/models"
	"github.com/anonto42/socialfeed/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type userDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	ExternalID string             `bson:"external_id"`
	Name       string             `bson:"name"`
	Username   string             `bson:"username"`
	ImageURL   string             `bson:"image_url"`
	Following  []string           `bson:"following"`
	Followers  []string           `bson:"followers"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func (d *userDoc) toModel() *models.User {
	return &models.User{
		ID:         d.ID.Hex(),
		ExternalID: d.ExternalID,
		Name:       d.Name,
		Username:   d.Username,
		ImageURL:   d.ImageURL,
		Following:  models.StringSet(d.Following).Normalize(),
		Followers:  models.StringSet(d.Followers).Normalize(),
		CreatedAt:  d.CreatedAt,
	}
}

type userRepository struct {
	collection *mongo.Collection
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	doc := userDoc{
		ID:         primitive.NewObjectID(),
		ExternalID: user.ExternalID,
		Name:       user.Name,
		Username:   user.Username,
		ImageURL:   user.ImageURL,
		Following:  stringsOf(user.Following),
		Followers:  stringsOf(user.Followers),
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repositories.ErrDuplicate
		}
		return err
	}
	*user = *doc.toModel()
	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc userDoc
	if err := findOne(ctx, r.collection, bson.M{"_id": oid}, &doc); err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *userRepository) GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	var doc userDoc
	if err := findOne(ctx, r.collection, bson.M{"external_id": externalID}, &doc); err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *userRepository) GetUsersByExternalIDs(ctx context.Context, externalIDs []string) ([]models.User, error) {
	if len(externalIDs) == 0 {
		return []models.User{}, nil
	}
	docs, err := findAll[userDoc](ctx, r.collection, bson.M{"external_id": bson.M{"$in": externalIDs}}, 1)
	if err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(docs))
	for i := range docs {
		users = append(users, *docs[i].toModel())
	}
	return users, nil
}

func (r *userRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	docs, err := findAll[userDoc](ctx, r.collection, bson.D{}, 1)
	if err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(docs))
	for i := range docs {
		users = append(users, *docs[i].toModel())
	}
	return users, nil
}

func (r *userRepository) UpdateFollowing(ctx context.Context, id string, following models.StringSet) error {
	return setByID(ctx, r.collection, id, bson.M{"following": stringsOf(following)})
}

func (r *userRepository) UpdateFollowers(ctx context.Context, id string, followers models.StringSet) error {
	return setByID(ctx, r.collection, id, bson.M{"followers": stringsOf(followers)})
}
