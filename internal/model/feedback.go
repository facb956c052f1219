package model

import "time"

// Feedback is free-text feedback collected by the bot's /feedback flow.
// UserID is the raw Telegram id, not a users row reference.
type Feedback struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"index;not null"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}
