package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Playlist struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `json:"description"`

	OwnerID string `gorm:"type:uuid;not null;index" json:"ownerId"`
	Owner   *User  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Videos     []Video `gorm:"-" json:"videos,omitempty"`
	VideoCount int64   `gorm:"-" json:"videoCount"`
}

func (p *Playlist) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PlaylistVideo is the explicit join row keeping playlist membership
// ordered by position. Duplicate adds collapse on the unique pair.
type PlaylistVideo struct {
	ID         string `gorm:"type:uuid;primaryKey" json:"id"`
	PlaylistID string `gorm:"type:uuid;not null;uniqueIndex:idx_playlist_video" json:"playlistId"`
	VideoID    string `gorm:"type:uuid;not null;uniqueIndex:idx_playlist_video" json:"videoId"`
	Position   int    `gorm:"not null" json:"position"`

	CreatedAt time.Time `json:"createdAt"`
}

func (pv *PlaylistVideo) BeforeCreate(tx *gorm.DB) error {
	if pv.ID == "" {
		pv.ID = uuid.NewString()
	}
	return nil
}
