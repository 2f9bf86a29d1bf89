package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/socialfeed/backend/internal/metrics"
	"github.com/anonto42/socialfeed/backend/internal/models"
	"github.com/anonto42/socialfeed/backend/internal/repositories"
	"github.com/rs/zerolog"
)

// notifier renders and stores notifications inside a caller's transaction and
// hands them to the fan-out sinks once that transaction committed.
type notifier struct {
	fanouts []Fanout
	logger  zerolog.Logger
}

type notification struct {
	recipientID string
	actorID     string
	kind        models.NotificationType
	targetID    string
}

// notify stores one notification. Self-actions and actors without a user
// record produce nothing and return nil.
func (n *notifier) notify(ctx context.Context, store repositories.Store, in notification) (*models.Notification, error) {
	if in.recipientID == in.actorID {
		metrics.NotificationsSuppressed.WithLabelValues("self").Inc()
		return nil, nil
	}

	actor, err := store.Users().GetUserByExternalID(ctx, in.actorID)
	if errors.Is(err, repositories.ErrNotFound) {
		n.logger.Warn().Str("actor_id", in.actorID).Str("type", string(in.kind)).Msg("Skipping notification for unknown actor")
		metrics.NotificationsSuppressed.WithLabelValues("unknown_actor").Inc()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load actor: %w", err)
	}

	notif := &models.Notification{
		RecipientID: in.recipientID,
		Type:        in.kind,
		ActorID:     in.actorID,
		TargetID:    in.targetID,
		Content:     renderContent(in.kind, actor.Name),
	}
	if err := store.Notifications().CreateNotification(ctx, notif); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return notif, nil
}

// dispatch delivers committed notifications. Delivery failures are logged and
// never reach the caller.
func (n *notifier) dispatch(ctx context.Context, notifs ...*models.Notification) {
	for _, notif := range notifs {
		if notif == nil {
			continue
		}
		metrics.NotificationsCreated.WithLabelValues(string(notif.Type)).Inc()
		n.logger.Debug().
			Str("recipient_id", notif.RecipientID).
			Str("type", string(notif.Type)).
			Msg("Notification created")

		for _, f := range n.fanouts {
			if err := f.Deliver(ctx, notif); err != nil {
				metrics.FanoutFailures.WithLabelValues(fmt.Sprintf("%T", f)).Inc()
				n.logger.Error().Err(err).Str("notification_id", notif.ID).Msg("Failed to deliver notification")
			}
		}
	}
}

func renderContent(kind models.NotificationType, actorName string) string {
	if actorName == "" {
		actorName = "Someone"
	}
	switch kind {
	case models.NotificationLike:
		return actorName + " liked your post"
	case models.NotificationCommentLike:
		return actorName + " liked your comment"
	case models.NotificationComment:
		return actorName + " commented on your post"
	case models.NotificationReply:
		return actorName + " replied to your comment"
	case models.NotificationFollow:
		return actorName + " started following you"
	}
	return ""
}

// toggleLike flips actor's membership in likes and persists the result with
// save. On a new like it notifies the author.
func (n *notifier) toggleLike(
	ctx context.Context,
	store repositories.Store,
	likes models.StringSet,
	save func(models.StringSet) error,
	authorID, actorID string,
	kind models.NotificationType,
	targetID string,
) (bool, *models.Notification, error) {
	updated, liked := likes.Toggle(actorID)
	if err := save(updated); err != nil {
		return false, nil, err
	}
	if !liked {
		return false, nil, nil
	}

	notif, err := n.notify(ctx, store, notification{
		recipientID: authorID,
		actorID:     actorID,
		kind:        kind,
		targetID:    targetID,
	})
	return true, notif, err
}

func likeResult(liked bool) string {
	if liked {
		return "liked"
	}
	return "unliked"
}
