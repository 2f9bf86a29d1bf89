package repositories

import (
	"context"

	"github.com/anonto42/socialfeed/backend/internal/models"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	GetNotificationByID(ctx context.Context, id string) (*models.Notification, error)
	// ListByRecipient returns the recipient's notifications, newest first.
	ListByRecipient(ctx context.Context, recipientID string) ([]models.Notification, error)
	ListUnreadByRecipient(ctx context.Context, recipientID string) ([]models.Notification, error)
	CountUnread(ctx context.Context, recipientID string) (int64, error)
	// MarkAsRead sets the read flag. A missing id is not an error.
	MarkAsRead(ctx context.Context, id string) error
}
