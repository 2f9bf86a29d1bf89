package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/anonto42/socialfeed/backend/internal/models"
	"github.com/anonto42/socialfeed/backend/internal/services"
	"github.com/anonto42/socialfeed/backend/pkg/log"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
)

const streamKeepAlive = 30 * time.Second

// NotificationSubscriber streams notifications published for a recipient.
type NotificationSubscriber interface {
	Subscribe(ctx context.Context, recipientID string) (<-chan *models.Notification, error)
}

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notifications *services.NotificationService
	users         *services.UserService
	subscriber    NotificationSubscriber
}

// NewNotificationHandler creates a new NotificationHandler. subscriber may be
// nil, in which case the stream endpoint is not registered.
func NewNotificationHandler(notifications *services.NotificationService, users *services.UserService, subscriber NotificationSubscriber) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		users:         users,
		subscriber:    subscriber,
	}
}

// RegisterNotificationRoutes registers notification-related routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/grouped", h.GetGroupedNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	if h.subscriber != nil {
		g.GET("/notifications/stream", h.Stream)
	}
}

// GetNotifications returns the caller's notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	notifications, err := h.notifications.List(c.Request().Context(), id.ExternalID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, enrichNotifications(c.Request().Context(), h.users, notifications))
}

// GetGroupedNotifications buckets the caller's notifications by age
func (h *NotificationHandler) GetGroupedNotifications(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	grouped, err := h.notifications.Grouped(c.Request().Context(), id.ExternalID, time.Now())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, grouped)
}

// GetUnreadCount returns the number of unread notifications
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	count, err := h.notifications.UnreadCount(c.Request().Context(), id.ExternalID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead marks one of the caller's notifications as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	if err := h.notifications.MarkAsRead(c.Request().Context(), id.ExternalID, c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notification marked as read"})
}

// MarkAllAsRead marks every unread notification of the caller as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	updated, err := h.notifications.MarkAllAsRead(c.Request().Context(), id.ExternalID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": updated})
}

// Stream pushes the caller's new notifications as server-sent events
func (h *NotificationHandler) Stream(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	events, err := h.subscriber.Subscribe(ctx, id.ExternalID)
	if err != nil {
		return httpError(err)
	}

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	logger := log.WithUserID(id.ExternalID)
	logger.Debug().Msg("Notification stream opened")
	defer logger.Debug().Msg("Notification stream closed")

	ticker := time.NewTicker(streamKeepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return nil
			}
			w.Flush()
		case n, ok := <-events:
			if !ok {
				return nil
			}
			data, err := jsoniter.Marshal(n)
			if err != nil {
				logger.Error().Err(err).Msg("Failed to encode notification event")
				continue
			}
			if _, err := fmt.Fprintf(w, "event: notification\ndata: %s\n\n", data); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
