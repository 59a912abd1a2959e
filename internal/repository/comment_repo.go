package repository

import (
	"errors"

	"gorm.io/gorm"

	"vidtube/internal/models"
	"vidtube/internal/query"
)

type CommentRepository interface {
	Create(comment *models.Comment) error
	FindByID(id string) (*models.Comment, error)
	UpdateContent(id, content string) (*models.Comment, error)

	// DeleteCascade removes the comment together with its likes.
	DeleteCascade(id string) error

	// ListForVideo returns one page of a video's comments, newest first,
	// each with its owner, like count and whether viewerID liked it.
	ListForVideo(videoID, viewerID string, params query.PageParams) (query.Page[models.Comment], error)
}

type commentRepo struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepo{db: db}
}

func (r *commentRepo) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *commentRepo) FindByID(id string) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.First(&comment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepo) UpdateContent(id, content string) (*models.Comment, error) {
	err := r.db.Model(&models.Comment{}).Where("id = ?", id).
		Update("content", content).Error
	if err != nil {
		return nil, err
	}
	return r.FindByID(id)
}

func (r *commentRepo) DeleteCascade(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_type = ? AND target_id = ?", models.LikeTargetComment, id).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Comment{}, "id = ?", id).Error
	})
}

func (r *commentRepo) ListForVideo(videoID, viewerID string, params query.PageParams) (query.Page[models.Comment], error) {
	var total int64
	if err := r.db.Model(&models.Comment{}).
		Where("video_id = ?", videoID).
		Count(&total).Error; err != nil {
		return query.Page[models.Comment]{}, err
	}

	comments := []models.Comment{}
	err := r.db.Preload("Owner").
		Where("video_id = ?", videoID).
		Order("created_at DESC").
		Scopes(params.Scope()).
		Find(&comments).Error
	if err != nil {
		return query.Page[models.Comment]{}, err
	}

	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}

	likeRepo := NewLikeRepository(r.db)
	counts, err := likeRepo.CountForTargets(models.LikeTargetComment, ids)
	if err != nil {
		return query.Page[models.Comment]{}, err
	}
	liked, err := likeRepo.LikedSet(viewerID, models.LikeTargetComment, ids)
	if err != nil {
		return query.Page[models.Comment]{}, err
	}

	for i := range comments {
		comments[i].LikeCount = counts[comments[i].ID]
		comments[i].IsLiked = liked[comments[i].ID]
	}

	return query.NewPage(comments, total, params), nil
}
