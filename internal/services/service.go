// Package services holds the social graph operations: the user directory, the
// post and comment stores, the notification sink and the orchestration of
// likes, follows and comments that ties them together.
package services

import (
	"context"

	"github.com/anonto42/socialfeed/backend/internal/models"
	"github.com/anonto42/socialfeed/backend/internal/repositories"
	"github.com/anonto42/socialfeed/backend/pkg/log"
	"github.com/rs/zerolog"
)

// Fanout receives every notification after it has been committed.
type Fanout interface {
	Deliver(ctx context.Context, notification *models.Notification) error
}

// Option configures New.
type Option func(*notifier)

// WithFanout adds delivery sinks for committed notifications.
func WithFanout(fanouts ...Fanout) Option {
	return func(n *notifier) {
		for _, f := range fanouts {
			if f != nil {
				n.fanouts = append(n.fanouts, f)
			}
		}
	}
}

// WithLogger overrides the component logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(n *notifier) {
		n.logger = logger
	}
}

// Services bundles the services sharing one store.
type Services struct {
	Users         *UserService
	Posts         *PostService
	Comments      *CommentService
	Notifications *NotificationService
}

// New builds the services on top of store.
func New(store repositories.Store, opts ...Option) *Services {
	n := &notifier{logger: log.WithComponent("services")}
	for _, opt := range opts {
		opt(n)
	}

	return &Services{
		Users:         &UserService{store: store, notifier: n},
		Posts:         &PostService{store: store, notifier: n},
		Comments:      &CommentService{store: store, notifier: n},
		Notifications: &NotificationService{store: store},
	}
}
