package events

import (
	"testing"
	"time"

	"github.com/anonto42/socialfeed/backend/internal/models"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	tests := []struct {
		kind models.NotificationType
		want string
	}{
		{models.NotificationLike, "social.notification.like"},
		{models.NotificationCommentLike, "social.notification.comment_like"},
		{models.NotificationFollow, "social.notification.follow"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, Subject(tt.kind))
		})
	}
}

func TestNewMessage(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	n := &models.Notification{
		ID:          "n1",
		RecipientID: "u1",
		Type:        models.NotificationReply,
		ActorID:     "u2",
		TargetID:    "c1",
		Content:     "bob replied to your comment",
		CreatedAt:   created,
	}

	msg, err := NewMessage(n)
	require.NoError(t, err)
	assert.Equal(t, "social.notification.reply", msg.Subject)
	assert.Equal(t, "u1", msg.Header.Get("Recipient-Id"))

	var event NotificationEvent
	require.NoError(t, jsoniter.Unmarshal(msg.Data, &event))
	assert.Equal(t, "reply", event.Type)
	assert.Equal(t, "c1", event.TargetID)
	assert.True(t, created.Equal(event.CreatedAt))
}
