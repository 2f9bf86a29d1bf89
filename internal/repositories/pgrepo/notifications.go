package pgrepo

import (
	"context"
	"errors"

	"github.com/anonto42/socialfeed/backend/internal/models"
	"github.com/anonto42/socialfeed/backend/internal/repositories"
	"gorm.io/gorm"
)

type notificationRepository struct {
	s *Store
}

func (r *notificationRepository) CreateNotification(ctx context.Context, n *models.Notification) error {
	row := notificationRow{
		RecipientID: n.RecipientID,
		Type:        string(n.Type),
		ActorID:     n.ActorID,
		TargetID:    n.TargetID,
		Content:     n.Content,
		Read:        n.Read,
	}
	if err := r.s.conn(ctx).Create(&row).Error; err != nil {
		return err
	}
	*n = *row.toModel()
	return nil
}

func (r *notificationRepository) GetNotificationByID(ctx context.Context, id string) (*models.Notification, error) {
	pk, err := rowID(id)
	if err != nil {
		return nil, err
	}
	var row notificationRow
	if err := r.s.conn(ctx).First(&row, pk).Error; err != nil {
		return nil, translate(err)
	}
	return row.toModel(), nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string) ([]models.Notification, error) {
	return r.find(r.s.conn(ctx).Where("recipient_id = ?", recipientID))
}

func (r *notificationRepository) ListUnreadByRecipient(ctx context.Context, recipientID string) ([]models.Notification, error) {
	return r.find(r.s.conn(ctx).Where("recipient_id = ? AND read = ?", recipientID, false))
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := r.s.conn(ctx).Model(&notificationRow{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id string) error {
	err := updateByID(r.s.conn(ctx), &notificationRow{}, id, "read", true)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	return err
}

func (r *notificationRepository) find(db *gorm.DB) ([]models.Notification, error) {
	var rows []notificationRow
	if err := db.Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Notification, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].toModel())
	}
	return out, nil
}
