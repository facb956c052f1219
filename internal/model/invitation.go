package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invitation statuses. Pending is the initial state; guests may move
// freely between the other three any number of times.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
	StatusMaybe    = "maybe"
)

// Invitation is one (event, guest) pairing. The composite unique index
// makes repeated invite attempts for the same pair a no-op.
type Invitation struct {
	ID            string     `json:"id" gorm:"type:uuid;primaryKey"`
	EventID       string     `json:"event_id" gorm:"type:uuid;not null;uniqueIndex:idx_event_guest"`
	GuestID       *string    `json:"guest_id" gorm:"type:uuid;uniqueIndex:idx_event_guest"`
	GuestUsername *string    `json:"guest_username" gorm:"type:text"` // legacy: invite by handle before the user exists
	Status        string     `json:"status" gorm:"type:text;default:'pending'"`
	GuestCount    int        `json:"guest_count" gorm:"default:1"`
	RespondedAt   *time.Time `json:"responded_at"`
	CreatedAt     time.Time  `json:"created_at"`

	Event *Event `json:"event,omitempty" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	Guest *User  `json:"guest,omitempty" gorm:"foreignKey:GuestID;constraint:OnDelete:CASCADE"`
}

func (i *Invitation) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}
