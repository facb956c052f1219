package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event represents one iftar gathering. Only the date is required; all
// descriptive fields are optional. IsHostMode distinguishes "I am hosting"
// from "I am recording an invite I received elsewhere".
type Event struct {
	ID         string    `json:"id" gorm:"type:uuid;primaryKey"`
	HostID     *string   `json:"host_id" gorm:"type:uuid;index"`
	// Stored as text: a date-typed column gets decoded to time.Time by the
	// drivers and reads back RFC3339 instead of the plain ISO day.
	Date       string    `json:"date" gorm:"type:text;not null"`
	IftarTime  *string   `json:"iftar_time" gorm:"type:text"`
	Location   *string   `json:"location" gorm:"type:text"`
	Address    *string   `json:"address" gorm:"type:text"`
	Notes      *string   `json:"notes" gorm:"type:text"`
	IsHostMode bool      `json:"is_host_mode" gorm:"default:true"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Host *User `json:"host,omitempty" gorm:"foreignKey:HostID;constraint:OnDelete:SET NULL"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
