package boltrepo

import (
	"context"
	"time"

	"github.com/anonto42/socialfeed/backend/internal/models"
	"github.com/anonto42/socialfeed/backend/internal/repositories"
	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

type userRepository struct {
	s *Store
}

// CreateUser inserts the user and its external id index entry. A second user
// with the same external id is rejected with ErrDuplicate.
func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	return r.s.update(ctx, func(tx *bolt.Tx) error {
		byExternal := tx.Bucket(bucketUsersByExternal)
		if byExternal.Get([]byte(user.ExternalID)) != nil {
			return repositories.ErrDuplicate
		}

		users := tx.Bucket(bucketUsers)
		seq, err := users.NextSequence()
		if err != nil {
			return err
		}

		user.ID = uuid.NewString()
		user.CreatedAt = time.Now().UTC()
		user.Following = user.Following.Normalize()
		user.Followers = user.Followers.Normalize()

		if err := putJSON(users, user.ID, user); err != nil {
			return err
		}
		if err := byExternal.Put([]byte(user.ExternalID), []byte(user.ID)); err != nil {
			return err
		}
		return tx.Bucket(bucketUsersOrder).Put(seqKey(seq), []byte(user.ID))
	})
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.s.view(ctx, func(tx *bolt.Tx) error {
		return getJSON(tx.Bucket(bucketUsers), id, &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	var user models.User
	err := r.s.view(ctx, func(tx *bolt.Tx) error {
		id := tx.Bucket(bucketUsersByExternal).Get([]byte(externalID))
		if id == nil {
			return repositories.ErrNotFound
		}
		return getJSON(tx.Bucket(bucketUsers), string(id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUsersByExternalIDs(ctx context.Context, externalIDs []string) ([]models.User, error) {
	users := []models.User{}
	err := r.s.view(ctx, func(tx *bolt.Tx) error {
		byExternal := tx.Bucket(bucketUsersByExternal)
		b := tx.Bucket(bucketUsers)
		for _, externalID := range externalIDs {
			id := byExternal.Get([]byte(externalID))
			if id == nil {
				continue
			}
			var user models.User
			if err := getJSON(b, string(id), &user); err != nil {
				return err
			}
			users = append(users, user)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.s.view(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUsers)
		for _, id := range indexedIDs(tx.Bucket(bucketUsersOrder), false) {
			var user models.User
			if err := getJSON(b, id, &user); err != nil {
				return err
			}
			users = append(users, user)
		}
		return nil
	})
	return users, err
}

func (r *userRepository) UpdateFollowing(ctx context.Context, id string, following models.StringSet) error {
	return r.patch(ctx, id, func(u *models.User) { u.Following = following.Normalize() })
}

func (r *userRepository) UpdateFollowers(ctx context.Context, id string, followers models.StringSet) error {
	return r.patch(ctx, id, func(u *models.User) { u.Followers = followers.Normalize() })
}

func (r *userRepository) patch(ctx context.Context, id string, apply func(*models.User)) error {
	return r.s.update(ctx, func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUsers)
		var user models.User
		if err := getJSON(b, id, &user); err != nil {
			return err
		}
		apply(&user)
		return putJSON(b, id, &user)
	})
}
