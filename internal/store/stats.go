package store

import (
	"time"

	"github.com/adntgv/iftar-tg-miniapp/internal/model"
	"github.com/adntgv/iftar-tg-miniapp/prometheus"
)

// StatsCounts are the aggregate totals shown on the analytics page.
type StatsCounts struct {
	TotalUsers       int64 `json:"total_users"`
	TotalEvents      int64 `json:"total_events"`
	UniqueHosts      int64 `json:"unique_hosts"`
	TotalInvitations int64 `json:"total_invitations"`
	AcceptedRSVPs    int64 `json:"accepted_rsvps"`
}

// UpcomingEventStat is one upcoming event with its RSVP tallies.
type UpcomingEventStat struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"`
	Location      *string `json:"location"`
	IftarTime     *string `json:"iftar_time"`
	HostName      *string `json:"host_name"`
	HostUsername  *string `json:"host_username"`
	InviteCount   int64   `json:"invite_count"`
	AcceptedCount int64   `json:"accepted_count"`
}

// RecentUserStat is one recently registered user.
type RecentUserStat struct {
	FirstName *string `json:"first_name"`
	Username  *string `json:"username"`
	CreatedAt string  `json:"created_at"`
}

// RecentEventStat is one recently created event.
type RecentEventStat struct {
	Date         string  `json:"date"`
	Location     *string `json:"location"`
	CreatedAt    string  `json:"created_at"`
	HostName     *string `json:"host_name"`
	HostUsername *string `json:"host_username"`
}

// Stats is the read-only analytics payload.
type Stats struct {
	Counts         StatsCounts         `json:"counts"`
	UpcomingEvents []UpcomingEventStat `json:"upcoming_events"`
	RecentUsers    []RecentUserStat    `json:"recent_users"`
	RecentEvents   []RecentEventStat   `json:"recent_events"`
}

const statsTimeLayout = "2006-01-02T15:04:05Z07:00"

// GetStats computes aggregate counts and recent-activity lists.
func (s *Store) GetStats() (*Stats, error) {
	defer prometheus.TrackDBOperation("stats_select")(time.Now())

	stats := &Stats{
		UpcomingEvents: []UpcomingEventStat{},
		RecentUsers:    []RecentUserStat{},
		RecentEvents:   []RecentEventStat{},
	}

	if err := s.db.Model(&model.User{}).Count(&stats.Counts.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.Event{}).Count(&stats.Counts.TotalEvents).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.Event{}).Distinct("host_id").Where("host_id IS NOT NULL").Count(&stats.Counts.UniqueHosts).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.Invitation{}).Count(&stats.Counts.TotalInvitations).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.Invitation{}).Where("status = ?", model.StatusAccepted).Count(&stats.Counts.AcceptedRSVPs).Error; err != nil {
		return nil, err
	}

	var upcoming []model.Event
	err := s.db.Preload("Host").
		Where("date >= ?", today()).
		Order("date asc").
		Limit(10).
		Find(&upcoming).Error
	if err != nil {
		return nil, err
	}
	for _, e := range upcoming {
		stat := UpcomingEventStat{
			ID:        e.ID,
			Date:      e.Date,
			Location:  e.Location,
			IftarTime: e.IftarTime,
		}
		if e.Host != nil {
			stat.HostName = e.Host.FirstName
			stat.HostUsername = e.Host.Username
		}
		if err := s.db.Model(&model.Invitation{}).Where("event_id = ?", e.ID).Count(&stat.InviteCount).Error; err != nil {
			return nil, err
		}
		if err := s.db.Model(&model.Invitation{}).Where("event_id = ? AND status = ?", e.ID, model.StatusAccepted).Count(&stat.AcceptedCount).Error; err != nil {
			return nil, err
		}
		stats.UpcomingEvents = append(stats.UpcomingEvents, stat)
	}

	var recentUsers []model.User
	if err := s.db.Order("created_at desc").Limit(10).Find(&recentUsers).Error; err != nil {
		return nil, err
	}
	for _, u := range recentUsers {
		stats.RecentUsers = append(stats.RecentUsers, RecentUserStat{
			FirstName: u.FirstName,
			Username:  u.Username,
			CreatedAt: u.CreatedAt.Format(statsTimeLayout),
		})
	}

	var recentEvents []model.Event
	if err := s.db.Preload("Host").Order("created_at desc").Limit(10).Find(&recentEvents).Error; err != nil {
		return nil, err
	}
	for _, e := range recentEvents {
		stat := RecentEventStat{
			Date:      e.Date,
			Location:  e.Location,
			CreatedAt: e.CreatedAt.Format(statsTimeLayout),
		}
		if e.Host != nil {
			stat.HostName = e.Host.FirstName
			stat.HostUsername = e.Host.Username
		}
		stats.RecentEvents = append(stats.RecentEvents, stat)
	}

	return stats, nil
}
