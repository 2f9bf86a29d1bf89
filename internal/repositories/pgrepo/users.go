package pgrepo

import (
	"context"

	"github.com/anonto42/socialfeed/backend/internal/models"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	row := userRow{
		ExternalID: user.ExternalID,
		Name:       user.Name,
		Username:   user.Username,
		ImageURL:   user.ImageURL,
		Following:  jsonSet(user.Following),
		Followers:  jsonSet(user.Followers),
	}
	if err := r.s.conn(ctx).Create(&row).Error; err != nil {
		return translate(err)
	}
	*user = *row.toModel()
	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	pk, err := rowID(id)
	if err != nil {
		return nil, err
	}
	var row userRow
	if err := r.s.conn(ctx).First(&row, pk).Error; err != nil {
		return nil, translate(err)
	}
	return row.toModel(), nil
}

func (r *userRepository) GetUserByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	var row userRow
	if err := r.s.conn(ctx).Where("external_id = ?", externalID).First(&row).Error; err != nil {
		return nil, translate(err)
	}
	return row.toModel(), nil
}

func (r *userRepository) GetUsersByExternalIDs(ctx context.Context, externalIDs []string) ([]models.User, error) {
	if len(externalIDs) == 0 {
		return []models.User{}, nil
	}
	var rows []userRow
	err := r.s.forUpdate(ctx).
		Where("external_id IN ?", externalIDs).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(rows))
	for i := range rows {
		users = append(users, *rows[i].toModel())
	}
	return users, nil
}

func (r *userRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	var rows []userRow
	if err := r.s.conn(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(rows))
	for i := range rows {
		users = append(users, *rows[i].toModel())
	}
	return users, nil
}

func (r *userRepository) UpdateFollowing(ctx context.Context, id string, following models.StringSet) error {
	return updateByID(r.s.conn(ctx), &userRow{}, id, "following", jsonSet(following))
}

func (r *userRepository) UpdateFollowers(ctx context.Context, id string, followers models.StringSet) error {
	return updateByID(r.s.conn(ctx), &userRow{}, id, "followers", jsonSet(followers))
}
