// Package events publishes committed notifications to NATS JetStream so other
// services can react to social interactions.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/socialfeed/backend/internal/models"
	"github.com/anonto42/socialfeed/backend/pkg/log"
	jsoniter "github.com/json-iterator/go"
	"github.com/nats-io/nats.go"
)

const (
	StreamName     = "SOCIAL"
	subjectPrefix  = "social"
	publishTimeout = 5 * time.Second
)

// NotificationEvent is the payload published for every notification.
type NotificationEvent struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	Type        string    `json:"type"`
	ActorID     string    `json:"actor_id"`
	TargetID    string    `json:"target_id,omitempty"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// NatsPublisher delivers notifications to the SOCIAL stream.
type NatsPublisher struct {
	nc *nats.Conn
	js nats.JetStreamContext
}

// Connect dials url and makes sure the SOCIAL stream exists.
func Connect(url string) (*NatsPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("socialfeed"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to open JetStream context: %w", err)
	}

	if _, err := js.StreamInfo(StreamName); err != nil {
		_, err = js.AddStream(&nats.StreamConfig{
			Name:     StreamName,
			Subjects: []string{subjectPrefix + ".>"},
			Storage:  nats.FileStorage,
			MaxAge:   7 * 24 * time.Hour,
		})
		if err != nil {
			nc.Close()
			return nil, fmt.Errorf("failed to create stream %s: %w", StreamName, err)
		}
	}

	logger := log.WithComponent("events")
	logger.Info().Str("url", url).Msg("Connected to NATS")
	return &NatsPublisher{nc: nc, js: js}, nil
}

// Deliver publishes the notification on social.notification.<type>.
func (p *NatsPublisher) Deliver(ctx context.Context, n *models.Notification) error {
	msg, err := NewMessage(n)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if _, err := p.js.PublishMsg(msg, nats.Context(ctx), nats.MsgId(n.ID)); err != nil {
		return fmt.Errorf("failed to publish %s: %w", msg.Subject, err)
	}
	return nil
}

// Close drains the connection
func (p *NatsPublisher) Close() error {
	return p.nc.Drain()
}

// Subject returns the subject a notification type is published on.
func Subject(t models.NotificationType) string {
	return fmt.Sprintf("%s.notification.%s", subjectPrefix, t)
}

// NewMessage encodes a notification as a NATS message.
func NewMessage(n *models.Notification) (*nats.Msg, error) {
	data, err := jsoniter.Marshal(NotificationEvent{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		Type:        string(n.Type),
		ActorID:     n.ActorID,
		TargetID:    n.TargetID,
		Content:     n.Content,
		CreatedAt:   n.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("marshalling error: %w", err)
	}

	msg := nats.NewMsg(Subject(n.Type))
	msg.Data = data
	msg.Header.Set("Recipient-Id", n.RecipientID)
	return msg, nil
}
