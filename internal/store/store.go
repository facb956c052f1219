// Package store is the data-access layer. It wraps the relational store
// with query functions and owns the two non-trivial scans: the hosted ∪
// invited event merge and the double-booking collision check. No business
// logic beyond joins and filters lives anywhere else.
package store

import (
	"time"

	"gorm.io/gorm"

	"github.com/adntgv/iftar-tg-miniapp/internal/model"
)

const dateLayout = "2006-01-02"

// Store wraps a gorm connection with the application's query functions.
type Store struct {
	db *gorm.DB
}

// New returns a Store backed by the given database connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying connection for process wiring.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func today() string {
	return time.Now().Format(dateLayout)
}

// EventWithHost is an event annotated with the viewer's invitation, when
// the event reached them through an invite rather than hosting.
type EventWithHost struct {
	model.Event
	InvitationStatus *string `json:"invitation_status,omitempty"`
	InvitationID     *string `json:"invitation_id,omitempty"`
}

// EventDetails is an event joined with its host and full guest list.
type EventDetails struct {
	model.Event
	Invitations []model.Invitation `json:"invitations"`
}

// Collision reports a guest already committed to another host on a date.
type Collision struct {
	Username     string `json:"username"`
	HostUsername string `json:"host_username"`
	Status       string `json:"status"`
}
