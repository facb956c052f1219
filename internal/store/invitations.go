package store

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adntgv/iftar-tg-miniapp/internal/model"
	"github.com/adntgv/iftar-tg-miniapp/prometheus"
)

// CreateInvitationsByUsername resolves each username (case-insensitive)
// and inserts one pending invitation per resolved user. Unknown usernames
// are skipped, not reported. Insert-if-absent on (event, guest).
func (s *Store) CreateInvitationsByUsername(eventID string, usernames []string) error {
	for _, username := range usernames {
		user, err := s.GetUserByUsername(username)
		if err != nil {
			return err
		}
		if user == nil {
			continue
		}
		if err := s.EnsureInvitation(eventID, user.ID); err != nil {
			return err
		}
	}
	return nil
}

// EnsureInvitation creates a pending invitation for the guest if none
// exists. Idempotent: a second call for the same pair is a no-op.
func (s *Store) EnsureInvitation(eventID, guestID string) error {
	defer prometheus.TrackDBOperation("invitation_insert")(time.Now())

	invitation := model.Invitation{
		EventID:    eventID,
		GuestID:    &guestID,
		Status:     model.StatusPending,
		GuestCount: 1,
	}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&invitation).Error
}

// GetInvitation returns the invitation for the (event, guest) pair, or
// nil when none exists.
func (s *Store) GetInvitation(eventID, guestID string) (*model.Invitation, error) {
	defer prometheus.TrackDBOperation("invitation_select")(time.Now())

	var invitation model.Invitation
	err := s.db.Where("event_id = ? AND guest_id = ?", eventID, guestID).First(&invitation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

// GetInvitationByID returns the invitation row, or nil when absent.
func (s *Store) GetInvitationByID(invitationID string) (*model.Invitation, error) {
	defer prometheus.TrackDBOperation("invitation_select")(time.Now())

	var invitation model.Invitation
	err := s.db.Where("id = ?", invitationID).First(&invitation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

// RespondToInvitation records the guest's RSVP. The head-count is only
// meaningful when the guest accepted; any other status resets it to 1.
// Ownership is not validated here: the trust boundary is the platform's
// identity assertion, enforced upstream.
func (s *Store) RespondToInvitation(invitationID, status string, guestCount int) (*model.Invitation, error) {
	if status != model.StatusAccepted {
		guestCount = 1
	} else if guestCount < 1 {
		guestCount = 1
	}
	defer prometheus.TrackDBOperation("invitation_update")(time.Now())

	now := time.Now()
	err := s.db.Model(&model.Invitation{}).
		Where("id = ?", invitationID).
		Updates(map[string]interface{}{
			"status":       status,
			"guest_count":  guestCount,
			"responded_at": now,
		}).Error
	if err != nil {
		return nil, err
	}

	return s.GetInvitationByID(invitationID)
}

// CreateOrUpdateInvitation records an RSVP keyed on (event, guest),
// creating the invitation row when the guest arrived via deep link
// without one. It reports whether anything observable changed, so the
// caller can skip the host notification on repeat clicks.
func (s *Store) CreateOrUpdateInvitation(eventID, guestID, status string, guestCount int) (changed bool, err error) {
	if status != model.StatusAccepted {
		guestCount = 1
	} else if guestCount < 1 {
		guestCount = 1
	}
	defer prometheus.TrackDBOperation("invitation_upsert")(time.Now())

	existing, err := s.GetInvitation(eventID, guestID)
	if err != nil {
		return false, err
	}

	now := time.Now()
	if existing != nil {
		changed = existing.Status != status || existing.GuestCount != guestCount
		err = s.db.Model(&model.Invitation{}).
			Where("id = ?", existing.ID).
			Updates(map[string]interface{}{
				"status":       status,
				"guest_count":  guestCount,
				"responded_at": now,
			}).Error
		return changed, err
	}

	invitation := model.Invitation{
		EventID:     eventID,
		GuestID:     &guestID,
		Status:      status,
		GuestCount:  guestCount,
		RespondedAt: &now,
	}
	// The unique (event, guest) index is the concurrency guard: if the
	// bot and the API raced here, the second insert becomes a no-op.
	err = s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&invitation).Error
	return true, err
}

// RemoveInvitation deletes a single invitation row.
func (s *Store) RemoveInvitation(invitationID string) error {
	defer prometheus.TrackDBOperation("invitation_delete")(time.Now())

	return s.db.Where("id = ?", invitationID).Delete(&model.Invitation{}).Error
}

// CreateFeedback stores one feedback message from the bot.
func (s *Store) CreateFeedback(telegramID int64, text string) error {
	defer prometheus.TrackDBOperation("feedback_insert")(time.Now())

	return s.db.Create(&model.Feedback{UserID: telegramID, Text: text}).Error
}
