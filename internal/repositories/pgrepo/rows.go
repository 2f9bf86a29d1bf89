package pgrepo

import (
	"time"

	"github.com/anonto42/socialfeed/backend/internal/models"
	"gorm.io/datatypes"
)

type userRow struct {
	ID         uint   `gorm:"primaryKey"`
	ExternalID string `gorm:"uniqueIndex;not null"`
	Name       string
	Username   string
	ImageURL   string
	Following  datatypes.JSONSlice[string]
	Followers  datatypes.JSONSlice[string]
	CreatedAt  time.Time
}

func (userRow) TableName() string { return "users" }

func (r *userRow) toModel() *models.User {
	return &models.User{
		ID:         formatID(r.ID),
		ExternalID: r.ExternalID,
		Name:       r.Name,
		Username:   r.Username,
		ImageURL:   r.ImageURL,
		Following:  models.StringSet(r.Following).Normalize(),
		Followers:  models.StringSet(r.Followers).Normalize(),
		CreatedAt:  r.CreatedAt,
	}
}

type postRow struct {
	ID        uint   `gorm:"primaryKey"`
	AuthorID  string `gorm:"index;not null"`
	Content   string `gorm:"type:text"`
	Likes     datatypes.JSONSlice[string]
	CreatedAt time.Time
}

func (postRow) TableName() string { return "posts" }

func (r *postRow) toModel() *models.Post {
	return &models.Post{
		ID:        formatID(r.ID),
		AuthorID:  r.AuthorID,
		Content:   r.Content,
		Likes:     models.StringSet(r.Likes).Normalize(),
		CreatedAt: r.CreatedAt,
	}
}

type commentRow struct {
	ID         uint   `gorm:"primaryKey"`
	PostID     string `gorm:"index;not null"`
	AuthorID   string `gorm:"not null"`
	Content    string `gorm:"type:text"`
	ParentID   string `gorm:"index"`
	Likes      datatypes.JSONSlice[string]
	ReplyCount int `gorm:"not null;default:0"`
	CreatedAt  time.Time
}

func (commentRow) TableName() string { return "comments" }

func (r *commentRow) toModel() *models.Comment {
	return &models.Comment{
		ID:         formatID(r.ID),
		PostID:     r.PostID,
		AuthorID:   r.AuthorID,
		Content:    r.Content,
		ParentID:   r.ParentID,
		Likes:      models.StringSet(r.Likes).Normalize(),
		ReplyCount: r.ReplyCount,
		CreatedAt:  r.CreatedAt,
	}
}

type notificationRow struct {
	ID          uint   `gorm:"primaryKey"`
	RecipientID string `gorm:"index:idx_notifications_recipient_read;not null"`
	Type        string `gorm:"not null"`
	ActorID     string `gorm:"not null"`
	TargetID    string
	Content     string
	Read        bool `gorm:"index:idx_notifications_recipient_read;default:false"`
	CreatedAt   time.Time
}

func (notificationRow) TableName() string { return "notifications" }

func (r *notificationRow) toModel() *models.Notification {
	return &models.Notification{
		ID:          formatID(r.ID),
		RecipientID: r.RecipientID,
		Type:        models.NotificationType(r.Type),
		ActorID:     r.ActorID,
		TargetID:    r.TargetID,
		Content:     r.Content,
		Read:        r.Read,
		CreatedAt:   r.CreatedAt,
	}
}

func jsonSet(s models.StringSet) datatypes.JSONSlice[string] {
	return datatypes.JSONSlice[string](s.Normalize())
}
