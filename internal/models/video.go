package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Video struct {
	ID           string  `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string  `gorm:"type:varchar(255);not null" json:"title"`
	Description  string  `gorm:"not null" json:"description"`
	FileID       string  `gorm:"not null" json:"-"`
	FileURL      string  `gorm:"not null" json:"videoFile"`
	ThumbnailID  string  `gorm:"not null" json:"-"`
	ThumbnailURL string  `gorm:"not null" json:"thumbnail"`
	Duration     float64 `json:"duration"`
	Views        int64   `gorm:"default:0" json:"views"`
	IsPublic     bool    `gorm:"default:true" json:"isPublic"`

	OwnerID string `gorm:"type:uuid;not null;index" json:"ownerId"`
	Owner   *User  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Computed per request, never stored.
	LikeCount    int64 `gorm:"-" json:"likeCount"`
	CommentCount int64 `gorm:"-" json:"commentCount"`
	IsLiked      bool  `gorm:"-" json:"isLiked"`
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

type Comment struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	Content string `gorm:"not null" json:"content"`

	VideoID string `gorm:"type:uuid;not null;index" json:"videoId"`
	OwnerID string `gorm:"type:uuid;not null;index" json:"ownerId"`
	Owner   *User  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	LikeCount int64 `gorm:"-" json:"likeCount"`
	IsLiked   bool  `gorm:"-" json:"isLiked"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type Tweet struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	Content string `gorm:"not null" json:"content"`

	OwnerID string `gorm:"type:uuid;not null;index" json:"ownerId"`
	Owner   *User  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	LikeCount int64 `gorm:"-" json:"likeCount"`
	IsLiked   bool  `gorm:"-" json:"isLiked"`
}

func (t *Tweet) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
