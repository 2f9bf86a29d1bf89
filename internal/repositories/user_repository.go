package repositories

import (
	"context"

	"github.com/anonto42/socialfeed/backend/internal/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error)
	// GetUsersByExternalIDs returns the users registered under the external
	// ids, skipping unknown ids. Inside a transaction the rows are locked for
	// update in primary key order.
	GetUsersByExternalIDs(ctx context.Context, externalIDs []string) ([]models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateFollowing(ctx context.Context, id string, following models.StringSet) error
	UpdateFollowers(ctx context.Context, id string, followers models.StringSet) error
}
