package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"vidtube/internal/models"
	"vidtube/internal/query"
)

// FeedFilter narrows the public video feed. Search matches title and
// description case-insensitively and is applied before every other stage.
type FeedFilter struct {
	Search  string
	OwnerID string
}

// ChannelStats aggregates the dashboard counters for one channel.
type ChannelStats struct {
	TotalVideos int64 `json:"totalVideos"`
	TotalViews  int64 `json:"totalViews"`
	TotalLikes  int64 `json:"totalLikes"`
}

var videoSortColumns = map[string]string{
	"createdAt": "created_at",
	"views":     "views",
	"duration":  "duration",
	"title":     "title",
}

type VideoRepository interface {
	Create(video *models.Video) error
	FindByID(id string) (*models.Video, error)
	FindByIDWithOwner(id string) (*models.Video, error)
	Update(video *models.Video) error
	TogglePublishState(id string) (*models.Video, error)
	IncrementViews(id string) error

	// DeleteCascade removes the video and every dependent record
	// (comments, likes of the video and of its comments, playlist
	// memberships, watch history) in one transaction.
	DeleteCascade(id string) error

	Feed(filter FeedFilter, params query.PageParams) (query.Page[models.Video], error)
	ChannelVideos(ownerID string, params query.PageParams) (query.Page[models.Video], error)
	CommentCounts(videoIDs []string) (map[string]int64, error)
	Stats(ownerID string) (ChannelStats, error)
}

type videoRepo struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepo{db: db}
}

func (r *videoRepo) Create(video *models.Video) error {
	return r.db.Create(video).Error
}

func (r *videoRepo) FindByID(id string) (*models.Video, error) {
	var video models.Video
	err := r.db.First(&video, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	return &video, nil
}

func (r *videoRepo) FindByIDWithOwner(id string) (*models.Video, error) {
	var video models.Video
	err := r.db.Preload("Owner").First(&video, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	return &video, nil
}

func (r *videoRepo) Update(video *models.Video) error {
	return r.db.Save(video).Error
}

func (r *videoRepo) TogglePublishState(id string) (*models.Video, error) {
	video, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}

	err = r.db.Model(video).Update("is_public", !video.IsPublic).Error
	if err != nil {
		return nil, err
	}
	return video, nil
}

func (r *videoRepo) IncrementViews(id string) error {
	return r.db.Model(&models.Video{}).Where("id = ?", id).
		Update("views", gorm.Expr("views + 1")).Error
}

func (r *videoRepo) DeleteCascade(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var commentIDs []string
		if err := tx.Model(&models.Comment{}).
			Where("video_id = ?", id).
			Pluck("id", &commentIDs).Error; err != nil {
			return err
		}

		if len(commentIDs) > 0 {
			if err := tx.Where("target_type = ? AND target_id IN ?", models.LikeTargetComment, commentIDs).
				Delete(&models.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Where("video_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("target_type = ? AND target_id = ?", models.LikeTargetVideo, id).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&models.PlaylistVideo{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&models.WatchHistoryEntry{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Video{}, "id = ?", id).Error
	})
}

// Feed builds the public listing: search filter first, then visibility
// and ownership filters, owner join, sort and pagination.
func (r *videoRepo) Feed(filter FeedFilter, params query.PageParams) (query.Page[models.Video], error) {
	scope := func(db *gorm.DB) *gorm.DB {
		q := db.Model(&models.Video{})
		if filter.Search != "" {
			pattern := "%" + strings.ToLower(filter.Search) + "%"
			q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
		}
		q = q.Where("is_public = ?", true)
		if filter.OwnerID != "" {
			q = q.Where("owner_id = ?", filter.OwnerID)
		}
		return q
	}

	var total int64
	if err := scope(r.db).Count(&total).Error; err != nil {
		return query.Page[models.Video]{}, err
	}

	videos := []models.Video{}
	err := scope(r.db).
		Preload("Owner").
		Order(params.Order(videoSortColumns, "created_at DESC")).
		Scopes(params.Scope()).
		Find(&videos).Error
	if err != nil {
		return query.Page[models.Video]{}, err
	}

	return query.NewPage(videos, total, params), nil
}

// ChannelVideos lists every video of a channel (public and private) with
// per-video like and comment counts for the dashboard.
func (r *videoRepo) ChannelVideos(ownerID string, params query.PageParams) (query.Page[models.Video], error) {
	var total int64
	if err := r.db.Model(&models.Video{}).
		Where("owner_id = ?", ownerID).
		Count(&total).Error; err != nil {
		return query.Page[models.Video]{}, err
	}

	videos := []models.Video{}
	err := r.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Scopes(params.Scope()).
		Find(&videos).Error
	if err != nil {
		return query.Page[models.Video]{}, err
	}

	ids := make([]string, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.ID)
	}

	likeCounts, err := NewLikeRepository(r.db).CountForTargets(models.LikeTargetVideo, ids)
	if err != nil {
		return query.Page[models.Video]{}, err
	}

	commentCounts, err := r.CommentCounts(ids)
	if err != nil {
		return query.Page[models.Video]{}, err
	}

	for i := range videos {
		videos[i].LikeCount = likeCounts[videos[i].ID]
		videos[i].CommentCount = commentCounts[videos[i].ID]
	}

	return query.NewPage(videos, total, params), nil
}

// CommentCounts returns comment counts for a batch of videos in one
// grouped query, keyed by video id.
func (r *videoRepo) CommentCounts(videoIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(videoIDs))
	if len(videoIDs) == 0 {
		return counts, nil
	}

	type row struct {
		VideoID string
		Total   int64
	}
	var rows []row
	err := r.db.Model(&models.Comment{}).
		Select("video_id, count(*) as total").
		Where("video_id IN ?", videoIDs).
		Group("video_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, rr := range rows {
		counts[rr.VideoID] = rr.Total
	}
	return counts, nil
}

func (r *videoRepo) Stats(ownerID string) (ChannelStats, error) {
	var stats ChannelStats

	type totals struct {
		TotalVideos int64
		TotalViews  int64
	}
	var t totals
	err := r.db.Model(&models.Video{}).
		Select("count(*) as total_videos, coalesce(sum(views), 0) as total_views").
		Where("owner_id = ?", ownerID).
		Scan(&t).Error
	if err != nil {
		return stats, err
	}
	stats.TotalVideos = t.TotalVideos
	stats.TotalViews = t.TotalViews

	err = r.db.Model(&models.Like{}).
		Where("target_type = ? AND target_id IN (?)",
			models.LikeTargetVideo,
			r.db.Model(&models.Video{}).Select("id").Where("owner_id = ?", ownerID),
		).
		Count(&stats.TotalLikes).Error
	if err != nil {
		return stats, err
	}

	return stats, nil
}
