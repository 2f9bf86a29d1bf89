package mongorepo

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/socialfeed/backend/internal/models"
	"github.com/anonto42/socialfeed/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type notificationDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	RecipientID string             `bson:"recipient_id"`
	Type        string             `bson:"type"`
	ActorID     string             `bson:"actor_id"`
	TargetID    string             `bson:"target_id,omitempty"`
	Content     string             `bson:"content"`
	Read        bool               `bson:"read"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (d *notificationDoc) toModel() *models.Notification {
	return &models.Notification{
		ID:          d.ID.Hex(),
		RecipientID: d.RecipientID,
		Type:        models.NotificationType(d.Type),
		ActorID:     d.ActorID,
		TargetID:    d.TargetID,
		Content:     d.Content,
		Read:        d.Read,
		CreatedAt:   d.CreatedAt,
	}
}

type notificationRepository struct {
	collection *mongo.Collection
}

func (r *notificationRepository) CreateNotification(ctx context.Context, n *models.Notification) error {
	doc := notificationDoc{
		ID:          primitive.NewObjectID(),
		RecipientID: n.RecipientID,
		Type:        string(n.Type),
		ActorID:     n.ActorID,
		TargetID:    n.TargetID,
		Content:     n.Content,
		Read:        n.Read,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}
	*n = *doc.toModel()
	return nil
}

func (r *notificationRepository) GetNotificationByID(ctx context.Context, id string) (*models.Notification, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc notificationDoc
	if err := findOne(ctx, r.collection, bson.M{"_id": oid}, &doc); err != nil {
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string) ([]models.Notification, error) {
	return r.find(ctx, bson.M{"recipient_id": recipientID})
}

func (r *notificationRepository) ListUnreadByRecipient(ctx context.Context, recipientID string) ([]models.Notification, error) {
	return r.find(ctx, bson.M{"recipient_id": recipientID, "read": false})
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"recipient_id": recipientID, "read": false})
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id string) error {
	err := setByID(ctx, r.collection, id, bson.M{"read": true})
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	return err
}

func (r *notificationRepository) find(ctx context.Context, filter interface{}) ([]models.Notification, error) {
	docs, err := findAll[notificationDoc](ctx, r.collection, filter, -1)
	if err != nil {
		return nil, err
	}
	out := make([]models.Notification, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toModel())
	}
	return out, nil
}
