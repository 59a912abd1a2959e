package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vidtube/internal/models"
	"vidtube/internal/query"
)

type SubscriptionRepository interface {
	// Remove deletes the (subscriber, channel) link and reports whether
	// a row existed; Add inserts it with conflict-as-idempotent handling.
	// Together they form the race-safe toggle.
	Remove(subscriberID, channelID string) (bool, error)
	Add(subscriberID, channelID string) error

	CountSubscribers(channelID string) (int64, error)
	SubscribedChannels(subscriberID string, params query.PageParams) (query.Page[models.Subscription], error)
	ChannelSubscribers(channelID string, params query.PageParams) (query.Page[models.Subscription], error)
}

type subscriptionRepo struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepo{db: db}
}

func (r *subscriptionRepo) Remove(subscriberID, channelID string) (bool, error) {
	res := r.db.Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *subscriptionRepo) Add(subscriberID, channelID string) error {
	sub := models.Subscription{
		SubscriberID: subscriberID,
		ChannelID:    channelID,
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&sub).Error
}

func (r *subscriptionRepo) CountSubscribers(channelID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&count).Error
	return count, err
}

func (r *subscriptionRepo) SubscribedChannels(subscriberID string, params query.PageParams) (query.Page[models.Subscription], error) {
	var total int64
	if err := r.db.Model(&models.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Count(&total).Error; err != nil {
		return query.Page[models.Subscription]{}, err
	}

	subs := []models.Subscription{}
	err := r.db.Preload("Channel").
		Where("subscriber_id = ?", subscriberID).
		Order("created_at DESC").
		Scopes(params.Scope()).
		Find(&subs).Error
	if err != nil {
		return query.Page[models.Subscription]{}, err
	}

	return query.NewPage(subs, total, params), nil
}

func (r *subscriptionRepo) ChannelSubscribers(channelID string, params query.PageParams) (query.Page[models.Subscription], error) {
	var total int64
	if err := r.db.Model(&models.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&total).Error; err != nil {
		return query.Page[models.Subscription]{}, err
	}

	subs := []models.Subscription{}
	err := r.db.Preload("Subscriber").
		Where("channel_id = ?", channelID).
		Order("created_at DESC").
		Scopes(params.Scope()).
		Find(&subs).Error
	if err != nil {
		return query.Page[models.Subscription]{}, err
	}

	return query.NewPage(subs, total, params), nil
}
