package repository

import (
	"errors"

	"gorm.io/gorm"

	"vidtube/internal/models"
	"vidtube/internal/query"
)

type TweetRepository interface {
	Create(tweet *models.Tweet) error
	FindByID(id string) (*models.Tweet, error)
	UpdateContent(id, content string) (*models.Tweet, error)

	// DeleteCascade removes the tweet together with its likes.
	DeleteCascade(id string) error

	ListForUser(userID, viewerID string, params query.PageParams) (query.Page[models.Tweet], error)
}

type tweetRepo struct {
	db *gorm.DB
}

func NewTweetRepository(db *gorm.DB) TweetRepository {
	return &tweetRepo{db: db}
}

func (r *tweetRepo) Create(tweet *models.Tweet) error {
	return r.db.Create(tweet).Error
}

func (r *tweetRepo) FindByID(id string) (*models.Tweet, error) {
	var tweet models.Tweet
	err := r.db.First(&tweet, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTweetNotFound
		}
		return nil, err
	}
	return &tweet, nil
}

func (r *tweetRepo) UpdateContent(id, content string) (*models.Tweet, error) {
	err := r.db.Model(&models.Tweet{}).Where("id = ?", id).
		Update("content", content).Error
	if err != nil {
		return nil, err
	}
	return r.FindByID(id)
}

func (r *tweetRepo) DeleteCascade(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_type = ? AND target_id = ?", models.LikeTargetTweet, id).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Tweet{}, "id = ?", id).Error
	})
}

func (r *tweetRepo) ListForUser(userID, viewerID string, params query.PageParams) (query.Page[models.Tweet], error) {
	var total int64
	if err := r.db.Model(&models.Tweet{}).
		Where("owner_id = ?", userID).
		Count(&total).Error; err != nil {
		return query.Page[models.Tweet]{}, err
	}

	tweets := []models.Tweet{}
	err := r.db.Preload("Owner").
		Where("owner_id = ?", userID).
		Order("created_at DESC").
		Scopes(params.Scope()).
		Find(&tweets).Error
	if err != nil {
		return query.Page[models.Tweet]{}, err
	}

	ids := make([]string, 0, len(tweets))
	for _, t := range tweets {
		ids = append(ids, t.ID)
	}

	likeRepo := NewLikeRepository(r.db)
	counts, err := likeRepo.CountForTargets(models.LikeTargetTweet, ids)
	if err != nil {
		return query.Page[models.Tweet]{}, err
	}
	liked, err := likeRepo.LikedSet(viewerID, models.LikeTargetTweet, ids)
	if err != nil {
		return query.Page[models.Tweet]{}, err
	}

	for i := range tweets {
		tweets[i].LikeCount = counts[tweets[i].ID]
		tweets[i].IsLiked = liked[tweets[i].ID]
	}

	return query.NewPage(tweets, total, params), nil
}
