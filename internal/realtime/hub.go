// Package realtime pushes committed notifications to connected clients through
// Redis pub/sub, one channel per recipient.
package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/socialfeed/backend/internal/models"
	"github.com/anonto42/socialfeed/backend/pkg/log"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Hub publishes and subscribes to per-recipient notification channels.
type Hub struct {
	client *redis.Client
	logger zerolog.Logger
}

// Connect creates a Redis client for addr and verifies it answers.
func Connect(ctx context.Context, addr string) (*Hub, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewHub(client), nil
}

func NewHub(client *redis.Client) *Hub {
	return &Hub{client: client, logger: log.WithComponent("realtime")}
}

// Channel returns the pub/sub channel of a recipient.
func Channel(recipientID string) string {
	return "notifications:" + recipientID
}

// Deliver publishes the notification to its recipient's channel.
func (h *Hub) Deliver(ctx context.Context, n *models.Notification) error {
	data, err := jsoniter.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshalling error: %w", err)
	}
	return h.client.Publish(ctx, Channel(n.RecipientID), data).Err()
}

// Subscribe streams the recipient's notifications until ctx is done. The
// returned channel is closed when the subscription ends.
func (h *Hub) Subscribe(ctx context.Context, recipientID string) (<-chan *models.Notification, error) {
	sub := h.client.Subscribe(ctx, Channel(recipientID))
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan *models.Notification)
	go func() {
		defer close(out)
		defer sub.Close()

		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var n models.Notification
				if err := jsoniter.UnmarshalFromString(msg.Payload, &n); err != nil {
					h.logger.Warn().Err(err).Str("channel", msg.Channel).Msg("Dropping malformed notification")
					continue
				}
				select {
				case out <- &n:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Close closes the Redis client
func (h *Hub) Close() error {
	return h.client.Close()
}
