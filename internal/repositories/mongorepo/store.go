// Package mongorepo implements the document store on MongoDB. Multi-document
// writes run inside a session transaction, which requires a replica set.
package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/socialfeed/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collUsers         = "users"
	collPosts         = "posts"
	collComments      = "comments"
	collNotifications = "notifications"
)

// Store implements repositories.Store for MongoDB
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials uri, verifies the primary answers and returns a store bound
// to the named database.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return &Store{client: client, db: client.Database(database)}, nil
}

func (s *Store) Users() repositories.UserRepository {
	return &userRepository{collection: s.db.Collection(collUsers)}
}

func (s *Store) Posts() repositories.PostRepository {
	return &postRepository{collection: s.db.Collection(collPosts)}
}

func (s *Store) Comments() repositories.CommentRepository {
	return &commentRepository{collection: s.db.Collection(collComments)}
}

func (s *Store) Notifications() repositories.NotificationRepository {
	return &notificationRepository{collection: s.db.Collection(collNotifications)}
}

// WithinTransaction runs fn in a session transaction. The driver retries fn on
// transient transaction errors. A context already carrying a session joins it.
func (s *Store) WithinTransaction(ctx context.Context, fn repositories.TxFunc) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx, s)
	}

	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, s)
	})
	return err
}

// Migrate creates the indexes the repositories query by.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		collUsers: {
			{Keys: bson.D{{Key: "external_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collPosts: {
			{Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "_id", Value: -1}}},
		},
		collComments: {
			{Keys: bson.D{{Key: "post_id", Value: 1}, {Key: "_id", Value: 1}}},
			{Keys: bson.D{{Key: "parent_id", Value: 1}, {Key: "_id", Value: 1}}},
		},
		collNotifications: {
			{Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "read", Value: 1}, {Key: "_id", Value: -1}}},
		},
	}
	for name, models := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// Close disconnects the client
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// objectID parses a hex id. Malformed ids cannot match any document.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repositories.ErrNotFound
	}
	return oid, nil
}

func findOne(ctx context.Context, coll *mongo.Collection, filter interface{}, out interface{}) error {
	err := coll.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repositories.ErrNotFound
	}
	return err
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, sort int) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: sort}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []T
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// setByID applies a $set to one document, reporting ErrNotFound when no
// document matched.
func setByID(ctx context.Context, coll *mongo.Collection, id string, fields bson.M) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// stringsOf returns set, or an empty slice so it is stored as an array.
func stringsOf(set []string) []string {
	if set == nil {
		return []string{}
	}
	return set
}
