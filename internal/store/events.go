package store

import (
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/adntgv/iftar-tg-miniapp/internal/model"
	"github.com/adntgv/iftar-tg-miniapp/prometheus"
)

// NewEvent carries the creation parameters for an event. Date is the only
// required field.
type NewEvent struct {
	HostID     string
	Date       string
	IftarTime  *string
	Location   *string
	Address    *string
	Notes      *string
	IsHostMode bool
}

// CreateEvent inserts one event row and returns it joined with the host
// profile.
func (s *Store) CreateEvent(in NewEvent) (*model.Event, error) {
	defer prometheus.TrackDBOperation("event_insert")(time.Now())

	event := model.Event{
		HostID:     &in.HostID,
		Date:       in.Date,
		IftarTime:  in.IftarTime,
		Location:   in.Location,
		Address:    in.Address,
		Notes:      in.Notes,
		IsHostMode: in.IsHostMode,
	}
	if err := s.db.Create(&event).Error; err != nil {
		return nil, err
	}

	host, err := s.GetUserByID(in.HostID)
	if err != nil {
		return nil, err
	}
	event.Host = host
	return &event, nil
}

// GetEventByID returns the event with its host, or nil when absent.
func (s *Store) GetEventByID(eventID string) (*model.Event, error) {
	defer prometheus.TrackDBOperation("event_select")(time.Now())

	var event model.Event
	err := s.db.Preload("Host").Where("id = ?", eventID).First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// GetEventDetails returns the event with host and the full invitation
// list, each invitation joined with its guest. Returns nil when the event
// does not exist.
func (s *Store) GetEventDetails(eventID string) (*EventDetails, error) {
	event, err := s.GetEventByID(eventID)
	if err != nil || event == nil {
		return nil, err
	}

	defer prometheus.TrackDBOperation("invitations_select")(time.Now())

	var invitations []model.Invitation
	if err := s.db.Preload("Guest").Where("event_id = ?", eventID).Find(&invitations).Error; err != nil {
		return nil, err
	}

	return &EventDetails{Event: *event, Invitations: invitations}, nil
}

// DeleteEvent removes the event and all its invitations. The invitation
// rows are deleted explicitly as well as by the FK cascade so the
// invariant holds on stores that do not enforce foreign keys.
func (s *Store) DeleteEvent(eventID string) error {
	defer prometheus.TrackDBOperation("event_delete")(time.Now())

	if err := s.db.Where("event_id = ?", eventID).Delete(&model.Invitation{}).Error; err != nil {
		return err
	}
	return s.db.Where("id = ?", eventID).Delete(&model.Event{}).Error
}

// GetEventsByDate returns every event on the given date with host and
// guest lists. Used by the reminder fan-out.
func (s *Store) GetEventsByDate(date string) ([]EventDetails, error) {
	defer prometheus.TrackDBOperation("events_select")(time.Now())

	var events []model.Event
	if err := s.db.Preload("Host").Where("date = ?", date).Find(&events).Error; err != nil {
		return nil, err
	}

	result := make([]EventDetails, 0, len(events))
	for _, e := range events {
		var invitations []model.Invitation
		if err := s.db.Preload("Guest").Where("event_id = ?", e.ID).Find(&invitations).Error; err != nil {
			return nil, err
		}
		result = append(result, EventDetails{Event: e, Invitations: invitations})
	}
	return result, nil
}

// GetHostEvents returns the user's upcoming hosted events, date ascending.
func (s *Store) GetHostEvents(userID string, limit int) ([]model.Event, error) {
	defer prometheus.TrackDBOperation("events_select")(time.Now())

	var events []model.Event
	err := s.db.Preload("Host").
		Where("host_id = ? AND date >= ?", userID, today()).
		Order("date asc").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// GetUserEvents returns every event relevant to the user: the union of
// hosted and invited events, deduplicated by event id and sorted by
// calendar date.
//
// Hosted events are floored at today; invited events are not, so past
// invites stay visible. The asymmetry is intentional. Dedup is last
// occurrence wins, so invitation metadata survives for self-hosted events
// that also carry an invitation row.
func (s *Store) GetUserEvents(userID string) ([]EventWithHost, error) {
	defer prometheus.TrackDBOperation("user_events_select")(time.Now())

	var hosted []model.Event
	err := s.db.Preload("Host").
		Where("host_id = ? AND date >= ?", userID, today()).
		Order("date asc").
		Find(&hosted).Error
	if err != nil {
		return nil, err
	}

	var invited []model.Invitation
	err = s.db.Preload("Event").Preload("Event.Host").
		Where("guest_id = ?", userID).
		Order("created_at asc").
		Find(&invited).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[string]EventWithHost)
	order := make([]string, 0, len(hosted)+len(invited))

	for _, e := range hosted {
		if _, seen := byID[e.ID]; !seen {
			order = append(order, e.ID)
		}
		byID[e.ID] = EventWithHost{Event: e}
	}
	for _, inv := range invited {
		// Defensive: drop invitation rows whose event is gone.
		if inv.Event == nil {
			continue
		}
		if _, seen := byID[inv.Event.ID]; !seen {
			order = append(order, inv.Event.ID)
		}
		status := inv.Status
		id := inv.ID
		byID[inv.Event.ID] = EventWithHost{
			Event:            *inv.Event,
			InvitationStatus: &status,
			InvitationID:     &id,
		}
	}

	result := make([]EventWithHost, 0, len(byID))
	for _, id := range order {
		result = append(result, byID[id])
	}

	sort.SliceStable(result, func(i, j int) bool {
		di, _ := time.Parse(dateLayout, result[i].Date)
		dj, _ := time.Parse(dateLayout, result[j].Date)
		return di.Before(dj)
	})

	return result, nil
}

// CheckCollisions reports, for each guest already committed elsewhere on
// the candidate date, the conflicting host and the guest's status there.
// At most one collision is reported per guest; unknown usernames are
// skipped silently.
func (s *Store) CheckCollisions(usernames []string, date string) ([]Collision, error) {
	defer prometheus.TrackDBOperation("collision_scan")(time.Now())

	collisions := []Collision{}

	for _, username := range usernames {
		user, err := s.GetUserByUsername(username)
		if err != nil {
			return nil, err
		}
		if user == nil {
			continue
		}

		var invites []model.Invitation
		err = s.db.Preload("Event").Preload("Event.Host").
			Where("guest_id = ? AND status IN ?", user.ID,
				[]string{model.StatusAccepted, model.StatusPending, model.StatusMaybe}).
			Find(&invites).Error
		if err != nil {
			return nil, err
		}

		for _, inv := range invites {
			if inv.Event == nil || inv.Event.Date != date {
				continue
			}
			hostUsername := "кто-то"
			if inv.Event.Host != nil && inv.Event.Host.Username != nil {
				hostUsername = *inv.Event.Host.Username
			}
			collisions = append(collisions, Collision{
				Username:     username,
				HostUsername: hostUsername,
				Status:       inv.Status,
			})
			break
		}
	}

	return collisions, nil
}
