package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LikeTarget discriminates what kind of entity a Like points at. Modelling
// the target as (type, id) instead of three nullable references keeps the
// one-target-per-like invariant in the schema itself.
type LikeTarget string

const (
	LikeTargetVideo   LikeTarget = "video"
	LikeTargetComment LikeTarget = "comment"
	LikeTargetTweet   LikeTarget = "tweet"
)

// Like links a user to exactly one video, comment or tweet. The composite
// unique index makes concurrent double-toggles collapse into a single row.
type Like struct {
	ID         string     `gorm:"type:uuid;primaryKey" json:"id"`
	TargetType LikeTarget `gorm:"type:varchar(10);not null;uniqueIndex:idx_like_actor_target" json:"targetType"`
	TargetID   string     `gorm:"type:uuid;not null;uniqueIndex:idx_like_actor_target" json:"targetId"`
	LikedByID  string     `gorm:"type:uuid;not null;uniqueIndex:idx_like_actor_target" json:"likedBy"`

	CreatedAt time.Time `json:"createdAt"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// Subscription links a subscriber to a channel (both are users). At most
// one row per pair, enforced by the unique index.
type Subscription struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"id"`
	SubscriberID string `gorm:"type:uuid;not null;uniqueIndex:idx_sub_pair" json:"subscriberId"`
	ChannelID    string `gorm:"type:uuid;not null;uniqueIndex:idx_sub_pair" json:"channelId"`

	Subscriber *User `gorm:"foreignKey:SubscriberID" json:"subscriber,omitempty"`
	Channel    *User `gorm:"foreignKey:ChannelID" json:"channel,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
