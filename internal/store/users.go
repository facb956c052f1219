package store

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adntgv/iftar-tg-miniapp/internal/model"
	"github.com/adntgv/iftar-tg-miniapp/prometheus"
)

// TelegramUser is the identity tuple asserted by the messaging platform.
type TelegramUser struct {
	ID        int64   `json:"id"`
	Username  *string `json:"username"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	PhotoURL  *string `json:"photo_url"`
}

// GetOrCreateUser returns the user matching the Telegram id, creating one
// if absent. Mutable profile fields are unconditionally overwritten with
// the latest values (last write wins). The upsert is a single statement
// keyed on the telegram_id unique constraint, so concurrent identical
// requests cannot race into duplicate rows.
func (s *Store) GetOrCreateUser(tg TelegramUser) (*model.User, error) {
	defer prometheus.TrackDBOperation("user_upsert")(time.Now())

	user := model.User{
		TelegramID: tg.ID,
		Username:   tg.Username,
		FirstName:  tg.FirstName,
		LastName:   tg.LastName,
		AvatarURL:  tg.PhotoURL,
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "telegram_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"username":   tg.Username,
			"first_name": tg.FirstName,
			"last_name":  tg.LastName,
			"avatar_url": tg.PhotoURL,
			"updated_at": time.Now(),
		}),
	}).Create(&user).Error
	if err != nil {
		return nil, err
	}

	// Re-read so the caller gets the stored row regardless of which branch
	// the upsert took.
	return s.GetUserByTelegramID(tg.ID)
}

// GetUserByUsername looks a user up by handle, case-insensitively.
// Returns nil without error when no row matches.
func (s *Store) GetUserByUsername(username string) (*model.User, error) {
	defer prometheus.TrackDBOperation("user_select")(time.Now())

	var user model.User
	err := s.db.Where("LOWER(username) = LOWER(?)", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID returns the user with the given id, or nil when absent.
func (s *Store) GetUserByID(userID string) (*model.User, error) {
	defer prometheus.TrackDBOperation("user_select")(time.Now())

	var user model.User
	err := s.db.Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByTelegramID returns the user with the given Telegram id, or nil.
func (s *Store) GetUserByTelegramID(telegramID int64) (*model.User, error) {
	defer prometheus.TrackDBOperation("user_select")(time.Now())

	var user model.User
	err := s.db.Where("telegram_id = ?", telegramID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsersByTelegramIDs returns the users matching any of the given ids.
func (s *Store) GetUsersByTelegramIDs(telegramIDs []int64) ([]model.User, error) {
	if len(telegramIDs) == 0 {
		return []model.User{}, nil
	}
	defer prometheus.TrackDBOperation("users_select")(time.Now())

	var users []model.User
	if err := s.db.Where("telegram_id IN ?", telegramIDs).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetAllUsers returns every known user. Used by the broadcast fan-out.
func (s *Store) GetAllUsers() ([]model.User, error) {
	defer prometheus.TrackDBOperation("users_select")(time.Now())

	var users []model.User
	if err := s.db.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUserCity sets the user's home city and optional coordinates.
func (s *Store) UpdateUserCity(userID, city string, lat, lng *string) (*model.User, error) {
	defer prometheus.TrackDBOperation("user_update")(time.Now())

	updates := map[string]interface{}{
		"city":       city,
		"updated_at": time.Now(),
	}
	if lat != nil {
		updates["city_lat"] = *lat
	}
	if lng != nil {
		updates["city_lng"] = *lng
	}
	if err := s.db.Model(&model.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetUserByID(userID)
}
