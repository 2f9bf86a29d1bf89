package handlers

import (
	"net/http"
	"strings"

	"github.com/anonto42/socialfeed/backend/internal/middleware"
	"github.com/anonto42/socialfeed/backend/internal/models"
	"github.com/anonto42/socialfeed/backend/internal/services"
	"github.com/labstack/echo/v4"
)

const defaultAvatarURL = "https://www.gravatar.com/avatar/?d=mp"

// WebhookHandler receives user lifecycle events from the identity provider
type WebhookHandler struct {
	users *services.UserService
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(users *services.UserService) *WebhookHandler {
	return &WebhookHandler{users: users}
}

// RegisterWebhookRoutes registers webhook routes
func (h *WebhookHandler) RegisterWebhookRoutes(g *echo.Group) {
	g.POST("/users", h.UserEvent)
}

// UserEvent provisions users announced by a user.created event. Other
// event types are acknowledged and ignored.
func (h *WebhookHandler) UserEvent(c echo.Context) error {
	var event models.UserCreatedEvent
	if err := bindAndValidate(c, &event); err != nil {
		return err
	}
	if event.Type != "user.created" {
		return c.JSON(http.StatusOK, echo.Map{"message": "Event ignored"})
	}

	user, created, err := h.users.Provision(c.Request().Context(), provisionFromEvent(event))
	if err != nil {
		return httpError(err)
	}
	if created {
		return c.JSON(http.StatusCreated, user)
	}
	return c.JSON(http.StatusOK, user)
}

func provisionFromEvent(event models.UserCreatedEvent) models.ProvisionUserRequest {
	d := event.Data
	req := models.ProvisionUserRequest{
		ExternalID: d.ID,
		Name:       strings.TrimSpace(d.FirstName + " " + d.LastName),
		Username:   d.Username,
		ImageURL:   d.ImageURL,
	}
	if req.Username == "" {
		req.Username = middleware.ShortID(d.ID)
	}
	if req.ImageURL == "" {
		req.ImageURL = defaultAvatarURL
	}
	return req
}
