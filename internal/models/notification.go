package models

import "time"

// NotificationType enumerates the interactions that notify a user.
type NotificationType string

const (
	NotificationLike        NotificationType = "like"
	NotificationFollow      NotificationType = "follow"
	NotificationComment     NotificationType = "comment"
	NotificationReply       NotificationType = "reply"
	NotificationCommentLike NotificationType = "comment_like"
)

// Notification represents a user notification
type Notification struct {
	ID          string           `json:"id"`
	RecipientID string           `json:"recipient_id"` // External id of the notified user
	Type        NotificationType `json:"type"`
	ActorID     string           `json:"actor_id"`
	TargetID    string           `json:"target_id,omitempty"` // post ID or comment ID, empty for follows
	Content     string           `json:"content"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"created_at"`
}
