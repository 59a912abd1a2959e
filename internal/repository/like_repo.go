package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vidtube/internal/models"
	"vidtube/internal/query"
)

type LikeRepository interface {
	// Remove deletes the (actor, target) link and reports whether a row
	// actually existed. The delete is atomic on the unique key, so two
	// concurrent toggles can never both observe "present".
	Remove(actorID string, target models.LikeTarget, targetID string) (bool, error)
	// Add inserts the link; a concurrent duplicate insert collapses into
	// the existing row (ON CONFLICT DO NOTHING).
	Add(actorID string, target models.LikeTarget, targetID string) error

	CountForTargets(target models.LikeTarget, targetIDs []string) (map[string]int64, error)
	LikedSet(actorID string, target models.LikeTarget, targetIDs []string) (map[string]bool, error)
	LikedVideos(actorID string, params query.PageParams) (query.Page[models.Video], error)
}

type likeRepo struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepo{db: db}
}

func (r *likeRepo) Remove(actorID string, target models.LikeTarget, targetID string) (bool, error) {
	res := r.db.Where("liked_by_id = ? AND target_type = ? AND target_id = ?", actorID, target, targetID).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepo) Add(actorID string, target models.LikeTarget, targetID string) error {
	like := models.Like{
		TargetType: target,
		TargetID:   targetID,
		LikedByID:  actorID,
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error
}

// CountForTargets returns like counts for a batch of targets in one
// grouped query, keyed by target id.
func (r *likeRepo) CountForTargets(target models.LikeTarget, targetIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(targetIDs))
	if len(targetIDs) == 0 {
		return counts, nil
	}

	type row struct {
		TargetID string
		Total    int64
	}
	var rows []row
	err := r.db.Model(&models.Like{}).
		Select("target_id, count(*) as total").
		Where("target_type = ? AND target_id IN ?", target, targetIDs).
		Group("target_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, rr := range rows {
		counts[rr.TargetID] = rr.Total
	}
	return counts, nil
}

// LikedSet reports which of the given targets the actor has liked.
func (r *likeRepo) LikedSet(actorID string, target models.LikeTarget, targetIDs []string) (map[string]bool, error) {
	liked := make(map[string]bool, len(targetIDs))
	if actorID == "" || len(targetIDs) == 0 {
		return liked, nil
	}

	var ids []string
	err := r.db.Model(&models.Like{}).
		Where("liked_by_id = ? AND target_type = ? AND target_id IN ?", actorID, target, targetIDs).
		Pluck("target_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

func (r *likeRepo) LikedVideos(actorID string, params query.PageParams) (query.Page[models.Video], error) {
	var total int64
	if err := r.db.Model(&models.Like{}).
		Where("liked_by_id = ? AND target_type = ?", actorID, models.LikeTargetVideo).
		Count(&total).Error; err != nil {
		return query.Page[models.Video]{}, err
	}

	var likes []models.Like
	if err := r.db.Where("liked_by_id = ? AND target_type = ?", actorID, models.LikeTargetVideo).
		Order("created_at DESC").Scopes(params.Scope()).Find(&likes).Error; err != nil {
		return query.Page[models.Video]{}, err
	}

	ids := make([]string, 0, len(likes))
	for _, l := range likes {
		ids = append(ids, l.TargetID)
	}

	videos := []models.Video{}
	if len(ids) > 0 {
		if err := r.db.Preload("Owner").Where("id IN ?", ids).Find(&videos).Error; err != nil {
			return query.Page[models.Video]{}, err
		}

		byID := make(map[string]models.Video, len(videos))
		for _, v := range videos {
			byID[v.ID] = v
		}
		ordered := make([]models.Video, 0, len(likes))
		for _, l := range likes {
			if v, ok := byID[l.TargetID]; ok {
				v.IsLiked = true
				ordered = append(ordered, v)
			}
		}
		videos = ordered
	}

	return query.NewPage(videos, total, params), nil
}
