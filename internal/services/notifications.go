package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/socialfeed/backend/internal/models"
	"github.com/anonto42/socialfeed/backend/internal/repositories"
)

// NotificationService is the notification sink's read side.
type NotificationService struct {
	store repositories.Store
}

// GroupedNotifications buckets a recipient's notifications by age.
type GroupedNotifications struct {
	Today     []models.Notification `json:"today"`
	Yesterday []models.Notification `json:"yesterday"`
	ThisWeek  []models.Notification `json:"this_week"`
	Older     []models.Notification `json:"older"`
}

// List returns the recipient's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, recipientID string) ([]models.Notification, error) {
	notifications, err := s.store.Notifications().ListByRecipient(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// Grouped returns the recipient's notifications split into today, yesterday,
// the rest of the last seven days and older, relative to now.
func (s *NotificationService) Grouped(ctx context.Context, recipientID string, now time.Time) (*GroupedNotifications, error) {
	notifications, err := s.List(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterdayStart := todayStart.AddDate(0, 0, -1)
	weekStart := todayStart.AddDate(0, 0, -7)

	grouped := &GroupedNotifications{
		Today:     []models.Notification{},
		Yesterday: []models.Notification{},
		ThisWeek:  []models.Notification{},
		Older:     []models.Notification{},
	}
	for _, n := range notifications {
		switch {
		case !n.CreatedAt.Before(todayStart):
			grouped.Today = append(grouped.Today, n)
		case !n.CreatedAt.Before(yesterdayStart):
			grouped.Yesterday = append(grouped.Yesterday, n)
		case !n.CreatedAt.Before(weekStart):
			grouped.ThisWeek = append(grouped.ThisWeek, n)
		default:
			grouped.Older = append(grouped.Older, n)
		}
	}
	return grouped, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	count, err := s.store.Notifications().CountUnread(ctx, recipientID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkAsRead marks one of the recipient's notifications as read. Unknown ids
// and notifications addressed to someone else are ignored.
func (s *NotificationService) MarkAsRead(ctx context.Context, recipientID, id string) error {
	n, err := s.store.Notifications().GetNotificationByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get notification: %w", err)
	}
	if n.RecipientID != recipientID || n.Read {
		return nil
	}
	if err := s.store.Notifications().MarkAsRead(ctx, id); err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return nil
}

// MarkAllAsRead marks every unread notification of the recipient one by one.
// A failure leaves the notifications marked so far as read.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, recipientID string) (int, error) {
	unread, err := s.store.Notifications().ListUnreadByRecipient(ctx, recipientID)
	if err != nil {
		return 0, fmt.Errorf("failed to list unread notifications: %w", err)
	}

	marked := 0
	for _, n := range unread {
		if err := s.store.Notifications().MarkAsRead(ctx, n.ID); err != nil {
			return marked, fmt.Errorf("failed to mark notification %s as read: %w", n.ID, err)
		}
		marked++
	}
	return marked, nil
}
