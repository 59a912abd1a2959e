package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vidtube/internal/models"
	"vidtube/internal/query"
)

type PlaylistRepository interface {
	Create(playlist *models.Playlist) error
	FindByID(id string) (*models.Playlist, error)
	// FindByIDWithVideos loads the playlist with its videos in playlist
	// order, each video carrying its owner.
	FindByIDWithVideos(id string) (*models.Playlist, error)
	Update(id, name, description string) (*models.Playlist, error)
	Delete(id string) error

	AddVideo(playlistID, videoID string) error
	RemoveVideo(playlistID, videoID string) (bool, error)

	ListForUser(userID string, params query.PageParams) (query.Page[models.Playlist], error)
}

type playlistRepo struct {
	db *gorm.DB
}

func NewPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &playlistRepo{db: db}
}

func (r *playlistRepo) Create(playlist *models.Playlist) error {
	return r.db.Create(playlist).Error
}

func (r *playlistRepo) FindByID(id string) (*models.Playlist, error) {
	var playlist models.Playlist
	err := r.db.First(&playlist, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlaylistNotFound
		}
		return nil, err
	}
	return &playlist, nil
}

func (r *playlistRepo) FindByIDWithVideos(id string) (*models.Playlist, error) {
	playlist, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}

	var joins []models.PlaylistVideo
	if err := r.db.Where("playlist_id = ?", id).
		Order("position ASC").
		Find(&joins).Error; err != nil {
		return nil, err
	}

	playlist.Videos = []models.Video{}
	playlist.VideoCount = int64(len(joins))
	if len(joins) == 0 {
		return playlist, nil
	}

	ids := make([]string, 0, len(joins))
	for _, j := range joins {
		ids = append(ids, j.VideoID)
	}

	var videos []models.Video
	if err := r.db.Preload("Owner").Where("id IN ?", ids).Find(&videos).Error; err != nil {
		return nil, err
	}

	byID := make(map[string]models.Video, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}
	for _, j := range joins {
		if v, ok := byID[j.VideoID]; ok {
			playlist.Videos = append(playlist.Videos, v)
		}
	}

	return playlist, nil
}

func (r *playlistRepo) Update(id, name, description string) (*models.Playlist, error) {
	err := r.db.Model(&models.Playlist{}).Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "description": description}).Error
	if err != nil {
		return nil, err
	}
	return r.FindByID(id)
}

func (r *playlistRepo) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&models.PlaylistVideo{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Playlist{}, "id = ?", id).Error
	})
}

func (r *playlistRepo) AddVideo(playlistID, videoID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var maxPos int64
		if err := tx.Model(&models.PlaylistVideo{}).
			Where("playlist_id = ?", playlistID).
			Select("coalesce(max(position), 0)").
			Scan(&maxPos).Error; err != nil {
			return err
		}

		join := models.PlaylistVideo{
			PlaylistID: playlistID,
			VideoID:    videoID,
			Position:   int(maxPos) + 1,
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&join).Error
	})
}

func (r *playlistRepo) RemoveVideo(playlistID, videoID string) (bool, error) {
	res := r.db.Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&models.PlaylistVideo{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *playlistRepo) ListForUser(userID string, params query.PageParams) (query.Page[models.Playlist], error) {
	var total int64
	if err := r.db.Model(&models.Playlist{}).
		Where("owner_id = ?", userID).
		Count(&total).Error; err != nil {
		return query.Page[models.Playlist]{}, err
	}

	playlists := []models.Playlist{}
	err := r.db.Where("owner_id = ?", userID).
		Order("created_at DESC").
		Scopes(params.Scope()).
		Find(&playlists).Error
	if err != nil {
		return query.Page[models.Playlist]{}, err
	}

	ids := make([]string, 0, len(playlists))
	for _, p := range playlists {
		ids = append(ids, p.ID)
	}

	counts := make(map[string]int64, len(ids))
	if len(ids) > 0 {
		type row struct {
			PlaylistID string
			Total      int64
		}
		var rows []row
		err = r.db.Model(&models.PlaylistVideo{}).
			Select("playlist_id, count(*) as total").
			Where("playlist_id IN ?", ids).
			Group("playlist_id").
			Scan(&rows).Error
		if err != nil {
			return query.Page[models.Playlist]{}, err
		}
		for _, rr := range rows {
			counts[rr.PlaylistID] = rr.Total
		}
	}

	for i := range playlists {
		playlists[i].VideoCount = counts[playlists[i].ID]
	}

	return query.NewPage(playlists, total, params), nil
}
