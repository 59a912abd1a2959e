package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	Username string `gorm:"type:varchar(20);uniqueIndex;not null" json:"username"`
	Email    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Fullname string `gorm:"type:varchar(255);not null" json:"fullname"`
	Password string `gorm:"not null" json:"-"`

	AvatarID      string `json:"-"`
	AvatarURL     string `json:"avatar"`
	CoverImageID  string `json:"-"`
	CoverImageURL string `json:"coverImage"`

	RefreshToken string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

type UserRegister struct {
	Username string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	Fullname string `form:"fullname" json:"fullname"`
	Password string `form:"password" json:"password"`
}

type UserLogin struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type UpdateProfile struct {
	Fullname string `json:"fullname" binding:"required"`
	Email    string `json:"email" binding:"required"`
}

type UpdatePassword struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// ChannelProfile is the public view of a user enriched with the
// subscription counters shown on a channel page.
type ChannelProfile struct {
	User
	SubscriberCount      int64 `json:"subscriberCount"`
	ChannelsSubscribedTo int64 `json:"channelsSubscribedTo"`
	IsSubscribed         bool  `json:"isSubscribed"`
}

// WatchHistoryEntry records that a user watched a video. Re-watching
// refreshes WatchedAt so the history stays ordered most-recent-first.
type WatchHistoryEntry struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_watch_user_video" json:"userId"`
	VideoID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_watch_user_video" json:"videoId"`
	WatchedAt time.Time `gorm:"index" json:"watchedAt"`
}

func (w *WatchHistoryEntry) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}
