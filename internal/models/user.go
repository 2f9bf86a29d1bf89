package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is a directory entry keyed by the identity provider's user id.
type User struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"external_id"` // Auth provider user id, unique
	Name       string    `json:"name"`
	Username   string    `json:"username"`
	ImageURL   string    `json:"image_url"`
	Following  StringSet `json:"following"` // External ids this user follows
	Followers  StringSet `json:"followers"` // External ids following this user
	CreatedAt  time.Time `json:"created_at"`
}

// UserCompact is the author/actor summary embedded in enriched responses.
type UserCompact struct {
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	Username   string `json:"username"`
	ImageURL   string `json:"image_url"`
}

// ToCompact returns the public summary of the user.
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ExternalID: u.ExternalID,
		Name:       u.Name,
		Username:   u.Username,
		ImageURL:   u.ImageURL,
	}
}

// IsFollowing reports whether the user follows the given external id.
func (u *User) IsFollowing(externalID string) bool {
	return u.Following.Contains(externalID)
}

// ProvisionUserRequest carries an identity to provision in the directory.
type ProvisionUserRequest struct {
	ExternalID string `json:"external_id" validate:"required"`
	Name       string `json:"name"`
	Username   string `json:"username" validate:"required"`
	ImageURL   string `json:"image_url"`
}

// UserCreatedEvent is the identity provider's user.created webhook payload.
type UserCreatedEvent struct {
	Type string `json:"type" validate:"required"`
	Data struct {
		ID        string `json:"id" validate:"required"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Username  string `json:"username"`
		ImageURL  string `json:"image_url"`
	} `json:"data"`
}

// JwtCustomClaims are the claims of locally signed access tokens. The
// registered subject carries the external user id.
type JwtCustomClaims struct {
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	Picture  string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}
