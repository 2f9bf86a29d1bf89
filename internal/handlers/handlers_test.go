package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/anonto42/socialfeed/backend/internal/models"
	"github.com/anonto42/socialfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"user", services.ErrUserNotFound, http.StatusNotFound},
		{"post", fmt.Errorf("wrapped: %w", services.ErrPostNotFound), http.StatusNotFound},
		{"parent", services.ErrParentCommentNotFound, http.StatusNotFound},
		{"comment", services.ErrCommentNotFound, http.StatusNotFound},
		{"self follow", services.ErrSelfFollow, http.StatusBadRequest},
		{"invalid", services.ErrInvalidInput, http.StatusBadRequest},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var he *echo.HTTPError
			require.ErrorAs(t, httpError(tt.err), &he)
			assert.Equal(t, tt.code, he.Code)
		})
	}
}

func TestProvisionFromEvent(t *testing.T) {
	var event models.UserCreatedEvent
	event.Type = "user.created"
	event.Data.ID = "user_123456789"
	event.Data.FirstName = "Grace"

	req := provisionFromEvent(event)
	assert.Equal(t, "user_123456789", req.ExternalID)
	assert.Equal(t, "Grace", req.Name)
	assert.Equal(t, "user_123", req.Username)
	assert.Equal(t, defaultAvatarURL, req.ImageURL)

	event.Data.Username = "grace"
	event.Data.ImageURL = "https://img.example/grace.png"
	req = provisionFromEvent(event)
	assert.Equal(t, "grace", req.Username)
	assert.Equal(t, "https://img.example/grace.png", req.ImageURL)
}

func TestProfileOf(t *testing.T) {
	user := &models.User{
		ExternalID: "u1",
		Followers:  models.NewStringSet("u2", "u3"),
		Following:  models.NewStringSet("u3"),
	}
	p := profileOf(user, "u2")
	assert.Equal(t, 2, p.FollowersCount)
	assert.Equal(t, 1, p.FollowingCount)
	assert.True(t, p.IsFollowing)
	assert.False(t, profileOf(user, "u9").IsFollowing)
}
