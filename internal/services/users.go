package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anonto42/socialfeed/backend/internal/metrics"
	"github.com/anonto42/socialfeed/backend/internal/models"
	"github.com/anonto42/socialfeed/backend/internal/repositories"
	"github.com/samber/lo"
)

// UserService is the user directory.
type UserService struct {
	store    repositories.Store
	notifier *notifier
}

// Provision returns the user registered under the external id, creating it
// with empty follow sets when absent. Concurrent calls for the same id end up
// with the same user.
func (s *UserService) Provision(ctx context.Context, req models.ProvisionUserRequest) (*models.User, bool, error) {
	req.ExternalID = strings.TrimSpace(req.ExternalID)
	if req.ExternalID == "" {
		return nil, false, fmt.Errorf("%w: external id is required", ErrInvalidInput)
	}

	existing, err := s.store.Users().GetUserByExternalID(ctx, req.ExternalID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to look up user: %w", err)
	}

	user := &models.User{
		ExternalID: req.ExternalID,
		Name:       req.Name,
		Username:   req.Username,
		ImageURL:   req.ImageURL,
		Following:  models.StringSet{},
		Followers:  models.StringSet{},
	}
	if err := s.store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			existing, err := s.store.Users().GetUserByExternalID(ctx, req.ExternalID)
			if err != nil {
				return nil, false, fmt.Errorf("failed to look up user: %w", err)
			}
			return existing, false, nil
		}
		metrics.ObserveInteraction("provision", "error")
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}

	metrics.ObserveInteraction("provision", "created")
	s.notifier.logger.Info().Str("external_id", user.ExternalID).Msg("User provisioned")
	return user, true, nil
}

// Get returns the user registered under the external id.
func (s *UserService) Get(ctx context.Context, externalID string) (*models.User, error) {
	user, err := s.store.Users().GetUserByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// List returns every user in registration order.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.store.Users().ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ToggleFollow makes follower follow target, or stops following when it
// already does. Both sides of the relation change in one transaction. It
// returns whether follower follows target afterwards.
func (s *UserService) ToggleFollow(ctx context.Context, followerID, targetID string) (bool, error) {
	if followerID == targetID {
		return false, ErrSelfFollow
	}

	var (
		following bool
		notif     *models.Notification
	)
	err := s.store.WithinTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		notif = nil

		found, err := tx.Users().GetUsersByExternalIDs(ctx, []string{followerID, targetID})
		if err != nil {
			return fmt.Errorf("failed to load users: %w", err)
		}
		byExternalID := lo.SliceToMap(found, func(u models.User) (string, models.User) {
			return u.ExternalID, u
		})
		follower, ok := byExternalID[followerID]
		if !ok {
			return ErrUserNotFound
		}
		target, ok := byExternalID[targetID]
		if !ok {
			return ErrUserNotFound
		}

		var followingSet, followerSet models.StringSet
		if follower.IsFollowing(targetID) {
			followingSet = follower.Following.Remove(targetID)
			followerSet = target.Followers.Remove(followerID)
			following = false
		} else {
			followingSet = follower.Following.Add(targetID)
			followerSet = target.Followers.Add(followerID)
			following = true
		}

		if err := tx.Users().UpdateFollowing(ctx, follower.ID, followingSet); err != nil {
			return fmt.Errorf("failed to update following: %w", err)
		}
		if err := tx.Users().UpdateFollowers(ctx, target.ID, followerSet); err != nil {
			return fmt.Errorf("failed to update followers: %w", err)
		}
		if !following {
			return nil
		}

		notif, err = s.notifier.notify(ctx, tx, notification{
			recipientID: targetID,
			actorID:     followerID,
			kind:        models.NotificationFollow,
		})
		return err
	})
	if err != nil {
		metrics.ObserveInteraction("follow", "error")
		return false, err
	}

	if following {
		metrics.ObserveInteraction("follow", "followed")
	} else {
		metrics.ObserveInteraction("follow", "unfollowed")
	}
	s.notifier.dispatch(ctx, notif)
	return following, nil
}

func userLookupError(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrUserNotFound
	}
	return fmt.Errorf("failed to get user: %w", err)
}
