package repository

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vidtube/internal/models"
	"vidtube/internal/query"
)

type UserRepository interface {
	Create(user *models.User) error
	FindByID(id string) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	FindByIdentifier(identifier string) (*models.User, error)
	UsernameOrEmailTaken(username, email string) (bool, error)

	UpdateProfile(id, fullname, email string) (*models.User, error)
	UpdateAvatar(id, avatarID, avatarURL string) (*models.User, error)
	UpdateCoverImage(id, coverID, coverURL string) (*models.User, error)
	UpdatePassword(id, hashedPassword string) error
	SaveRefreshToken(id, refreshToken string) error

	HashPassword(password string) (string, error)
	VerifyPassword(hashedPassword, password string) error

	ChannelProfile(username, viewerID string) (*models.ChannelProfile, error)
	TouchWatchHistory(userID, videoID string) error
	WatchHistory(userID string, params query.PageParams) (query.Page[models.Video], error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *userRepo) FindByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByIdentifier resolves a login identifier that may be either a
// username or an email address.
func (r *userRepo) FindByIdentifier(identifier string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ? OR email = ?", identifier, identifier).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) UsernameOrEmailTaken(username, email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepo) UpdateProfile(id, fullname, email string) (*models.User, error) {
	err := r.db.Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{"fullname": fullname, "email": email}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return r.FindByID(id)
}

func (r *userRepo) UpdateAvatar(id, avatarID, avatarURL string) (*models.User, error) {
	err := r.db.Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{"avatar_id": avatarID, "avatar_url": avatarURL}).Error
	if err != nil {
		return nil, err
	}
	return r.FindByID(id)
}

func (r *userRepo) UpdateCoverImage(id, coverID, coverURL string) (*models.User, error) {
	err := r.db.Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{"cover_image_id": coverID, "cover_image_url": coverURL}).Error
	if err != nil {
		return nil, err
	}
	return r.FindByID(id)
}

func (r *userRepo) UpdatePassword(id, hashedPassword string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).
		Update("password", hashedPassword).Error
}

func (r *userRepo) SaveRefreshToken(id, refreshToken string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).
		Update("refresh_token", refreshToken).Error
}

func (r *userRepo) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func (r *userRepo) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ChannelProfile resolves a channel page: the user plus subscription
// counters and whether the viewer already subscribes to it.
func (r *userRepo) ChannelProfile(username, viewerID string) (*models.ChannelProfile, error) {
	user, err := r.FindByUsername(username)
	if err != nil {
		return nil, err
	}

	profile := &models.ChannelProfile{User: *user}

	if err := r.db.Model(&models.Subscription{}).
		Where("channel_id = ?", user.ID).
		Count(&profile.SubscriberCount).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&models.Subscription{}).
		Where("subscriber_id = ?", user.ID).
		Count(&profile.ChannelsSubscribedTo).Error; err != nil {
		return nil, err
	}

	if viewerID != "" {
		var count int64
		if err := r.db.Model(&models.Subscription{}).
			Where("channel_id = ? AND subscriber_id = ?", user.ID, viewerID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		profile.IsSubscribed = count > 0
	}

	return profile, nil
}

// TouchWatchHistory records a view, moving an already-watched video back
// to the front of the history instead of duplicating it.
func (r *userRepo) TouchWatchHistory(userID, videoID string) error {
	entry := models.WatchHistoryEntry{
		UserID:    userID,
		VideoID:   videoID,
		WatchedAt: time.Now().UTC(),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"watched_at": entry.WatchedAt}),
	}).Create(&entry).Error
}

func (r *userRepo) WatchHistory(userID string, params query.PageParams) (query.Page[models.Video], error) {
	var total int64
	if err := r.db.Model(&models.WatchHistoryEntry{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return query.Page[models.Video]{}, err
	}

	var entries []models.WatchHistoryEntry
	if err := r.db.Where("user_id = ?", userID).
		Order("watched_at DESC").Scopes(params.Scope()).Find(&entries).Error; err != nil {
		return query.Page[models.Video]{}, err
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.VideoID)
	}

	videos := []models.Video{}
	if len(ids) > 0 {
		if err := r.db.Preload("Owner").Where("id IN ?", ids).Find(&videos).Error; err != nil {
			return query.Page[models.Video]{}, err
		}

		// Restore most-recent-first order lost by the IN query.
		byID := make(map[string]models.Video, len(videos))
		for _, v := range videos {
			byID[v.ID] = v
		}
		ordered := make([]models.Video, 0, len(entries))
		for _, e := range entries {
			if v, ok := byID[e.VideoID]; ok {
				ordered = append(ordered, v)
			}
		}
		videos = ordered
	}

	return query.NewPage(videos, total, params), nil
}
