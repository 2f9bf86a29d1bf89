package boltrepo

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/socialfeed/backend/internal/models"
	"github.com/anonto42/socialfeed/backend/internal/repositories"
	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

type notificationRepository struct {
	s *Store
}

func (r *notificationRepository) CreateNotification(ctx context.Context, n *models.Notification) error {
	return r.s.update(ctx, func(tx *bolt.Tx) error {
		notifications := tx.Bucket(bucketNotifications)
		seq, err := notifications.NextSequence()
		if err != nil {
			return err
		}

		n.ID = uuid.NewString()
		n.CreatedAt = time.Now().UTC()

		if err := putJSON(notifications, n.ID, n); err != nil {
			return err
		}
		return appendIndex(tx, bucketNotifsByUser, n.RecipientID, seq, n.ID)
	})
}

func (r *notificationRepository) GetNotificationByID(ctx context.Context, id string) (*models.Notification, error) {
	var n models.Notification
	err := r.s.view(ctx, func(tx *bolt.Tx) error {
		return getJSON(tx.Bucket(bucketNotifications), id, &n)
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string) ([]models.Notification, error) {
	return r.list(ctx, recipientID, false)
}

func (r *notificationRepository) ListUnreadByRecipient(ctx context.Context, recipientID string) ([]models.Notification, error) {
	return r.list(ctx, recipientID, true)
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	unread, err := r.list(ctx, recipientID, true)
	return int64(len(unread)), err
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id string) error {
	return r.s.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotifications)
		var n models.Notification
		if err := getJSON(b, id, &n); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil
			}
			return err
		}
		if n.Read {
			return nil
		}
		n.Read = true
		return putJSON(b, id, &n)
	})
}

func (r *notificationRepository) list(ctx context.Context, recipientID string, unreadOnly bool) ([]models.Notification, error) {
	var out []models.Notification
	err := r.s.view(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotifications)
		for _, id := range indexedIDs(nested(tx, bucketNotifsByUser, recipientID), true) {
			var n models.Notification
			if err := getJSON(b, id, &n); err != nil {
				return err
			}
			if unreadOnly && n.Read {
				continue
			}
			out = append(out, n)
		}
		return nil
	})
	return out, err
}
