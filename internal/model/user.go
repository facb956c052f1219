package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a participant identity, keyed by their Telegram id.
// Rows are created lazily on first contact and profile fields are
// refreshed on every contact (last write wins).
type User struct {
	ID         string    `json:"id" gorm:"type:uuid;primaryKey"`
	TelegramID int64     `json:"telegram_id" gorm:"uniqueIndex;not null"`
	Username   *string   `json:"username" gorm:"type:text"`
	FirstName  *string   `json:"first_name" gorm:"type:text"`
	LastName   *string   `json:"last_name" gorm:"type:text"`
	AvatarURL  *string   `json:"avatar_url" gorm:"type:text"`
	City       string    `json:"city" gorm:"type:text;default:'astana'"`
	CityLat    *string   `json:"city_lat" gorm:"type:text"`
	CityLng    *string   `json:"city_lng" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
