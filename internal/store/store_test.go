package store

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/adntgv/iftar-tg-miniapp/internal/model"
	"github.com/adntgv/iftar-tg-miniapp/pkg/config"
	"github.com/adntgv/iftar-tg-miniapp/pkg/database"
	"github.com/adntgv/iftar-tg-miniapp/prometheus"
)

func TestMain(m *testing.M) {
	// Store methods record operation durations; register the collectors
	// once for the test binary.
	prometheus.InitMetrics(&config.Config{Metrics: config.MetricsConfig{Prefix: "test"}})
	os.Exit(m.Run())
}

// newTestStore opens a throwaway in-memory database and migrates the
// schema. Each test gets its own database.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return New(db)
}

func strPtr(s string) *string { return &s }

func createUser(t *testing.T, s *Store, telegramID int64, username string) *model.User {
	t.Helper()
	tg := TelegramUser{ID: telegramID}
	if username != "" {
		tg.Username = &username
	}
	user, err := s.GetOrCreateUser(tg)
	require.NoError(t, err)
	require.NotNil(t, user)
	return user
}

func createEvent(t *testing.T, s *Store, hostID, date string) *model.Event {
	t.Helper()
	event, err := s.CreateEvent(NewEvent{HostID: hostID, Date: date, IsHostMode: true})
	require.NoError(t, err)
	require.NotNil(t, event)
	return event
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func TestGetOrCreateUserCreatesAndRefreshes(t *testing.T) {
	s := newTestStore(t)

	created, err := s.GetOrCreateUser(TelegramUser{
		ID:        42,
		Username:  strPtr("aisha"),
		FirstName: strPtr("Aisha"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, int64(42), created.TelegramID)
	require.Equal(t, "aisha", *created.Username)

	// Same telegram id with new profile fields: same row, fields
	// overwritten (last write wins).
	refreshed, err := s.GetOrCreateUser(TelegramUser{
		ID:        42,
		Username:  strPtr("aisha_new"),
		FirstName: strPtr("Aisha"),
		PhotoURL:  strPtr("https://t.me/photo.jpg"),
	})
	require.NoError(t, err)
	require.Equal(t, created.ID, refreshed.ID)
	require.Equal(t, "aisha_new", *refreshed.Username)
	require.Equal(t, "https://t.me/photo.jpg", *refreshed.AvatarURL)

	var count int64
	require.NoError(t, s.db.Model(&model.User{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestGetUserByUsernameCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	created := createUser(t, s, 1, "Marat")

	found, err := s.GetUserByUsername("marat")
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, created.ID, found.ID)

	missing, err := s.GetUserByUsername("nobody")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestGetUsersByTelegramIDs(t *testing.T) {
	s := newTestStore(t)
	createUser(t, s, 1, "a")
	createUser(t, s, 2, "b")
	createUser(t, s, 3, "c")

	users, err := s.GetUsersByTelegramIDs([]int64{1, 3, 999})
	require.NoError(t, err)
	require.Len(t, users, 2)

	empty, err := s.GetUsersByTelegramIDs(nil)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestUpdateUserCity(t *testing.T) {
	s := newTestStore(t)
	user := createUser(t, s, 1, "a")

	updated, err := s.UpdateUserCity(user.ID, "almaty", strPtr("43.2220"), strPtr("76.8512"))
	require.NoError(t, err)
	require.Equal(t, "almaty", updated.City)
	require.Equal(t, "43.2220", *updated.CityLat)
	require.Equal(t, "76.8512", *updated.CityLng)
}

func TestCreateEventRoundTrip(t *testing.T) {
	s := newTestStore(t)
	host := createUser(t, s, 1, "host")

	event, err := s.CreateEvent(NewEvent{
		HostID:     host.ID,
		Date:       "2026-03-01",
		IftarTime:  strPtr("18:30"),
		Location:   strPtr("Home"),
		IsHostMode: true,
	})
	require.NoError(t, err)
	require.NotNil(t, event.Host)
	require.Equal(t, host.ID, event.Host.ID)

	details, err := s.GetEventDetails(event.ID)
	require.NoError(t, err)
	require.NotNil(t, details)
	require.Equal(t, "2026-03-01", details.Date)
	require.Equal(t, "18:30", *details.IftarTime)
	require.Equal(t, "Home", *details.Location)
	require.Empty(t, details.Invitations)
}

func TestEventDateReadsBackVerbatim(t *testing.T) {
	s := newTestStore(t)
	host := createUser(t, s, 1, "host")
	created := createEvent(t, s, host.ID, "2026-03-01")

	// Read the row back raw: the column must yield the plain ISO day, not
	// a driver-decoded timestamp rendering.
	var event model.Event
	require.NoError(t, s.db.First(&event, "id = ?", created.ID).Error)
	require.Equal(t, "2026-03-01", event.Date)

	parsed, err := time.Parse(dateLayout, event.Date)
	require.NoError(t, err)
	require.Equal(t, "2026-03-01", parsed.Format(dateLayout))
}

func TestGetEventDetailsMissingReturnsNil(t *testing.T) {
	s := newTestStore(t)
	details, err := s.GetEventDetails(uuid.New().String())
	require.NoError(t, err)
	require.Nil(t, details)
}

func TestGetUserEventsDedupAndOrder(t *testing.T) {
	s := newTestStore(t)
	user := createUser(t, s, 1, "user")
	otherHost := createUser(t, s, 2, "other")

	// Hosted: one future, one past. The past one must be excluded.
	hosted := createEvent(t, s, user.ID, futureDate(5))
	createEvent(t, s, user.ID, futureDate(-3))

	// Invited to a nearer event: should sort before the hosted one.
	invitedEvent := createEvent(t, s, otherHost.ID, futureDate(2))
	require.NoError(t, s.EnsureInvitation(invitedEvent.ID, user.ID))

	// Past invitation: no date floor applies to invites.
	pastInvited := createEvent(t, s, otherHost.ID, futureDate(-10))
	require.NoError(t, s.EnsureInvitation(pastInvited.ID, user.ID))

	events, err := s.GetUserEvents(user.ID)
	require.NoError(t, err)
	require.Len(t, events, 3)

	// Sorted by calendar date ascending.
	require.Equal(t, pastInvited.ID, events[0].ID)
	require.Equal(t, invitedEvent.ID, events[1].ID)
	require.Equal(t, hosted.ID, events[2].ID)

	// Invitation annotations only on invited entries.
	require.Nil(t, events[2].InvitationStatus)
	require.NotNil(t, events[1].InvitationStatus)
	require.Equal(t, model.StatusPending, *events[1].InvitationStatus)
	require.NotNil(t, events[1].InvitationID)
}

func TestGetUserEventsSelfInvitationWins(t *testing.T) {
	s := newTestStore(t)
	user := createUser(t, s, 1, "self")

	event := createEvent(t, s, user.ID, futureDate(1))
	require.NoError(t, s.EnsureInvitation(event.ID, user.ID))

	events, err := s.GetUserEvents(user.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)

	// Last occurrence wins: the invitation-derived entry overwrites the
	// hosted one, so invitation metadata survives.
	require.NotNil(t, events[0].InvitationStatus)
	require.Equal(t, event.ID, events[0].ID)
}

func TestCheckCollisions(t *testing.T) {
	s := newTestStore(t)
	host := createUser(t, s, 1, "hosta")
	guest := createUser(t, s, 2, "guest")

	event := createEvent(t, s, host.ID, "2026-03-05")
	require.NoError(t, s.EnsureInvitation(event.ID, guest.ID))
	_, err := s.CreateOrUpdateInvitation(event.ID, guest.ID, model.StatusAccepted, 1)
	require.NoError(t, err)

	collisions, err := s.CheckCollisions([]string{"guest"}, "2026-03-05")
	require.NoError(t, err)
	require.Len(t, collisions, 1)
	require.Equal(t, "guest", collisions[0].Username)
	require.Equal(t, "hosta", collisions[0].HostUsername)
	require.Equal(t, model.StatusAccepted, collisions[0].Status)

	// Different date: no collision.
	collisions, err = s.CheckCollisions([]string{"guest"}, "2026-03-06")
	require.NoError(t, err)
	require.Empty(t, collisions)

	// Unknown usernames are skipped silently.
	collisions, err = s.CheckCollisions([]string{"stranger"}, "2026-03-05")
	require.NoError(t, err)
	require.Empty(t, collisions)
}

func TestCheckCollisionsAtMostOnePerGuest(t *testing.T) {
	s := newTestStore(t)
	hostA := createUser(t, s, 1, "hosta")
	hostB := createUser(t, s, 2, "hostb")
	guest := createUser(t, s, 3, "guest")

	eventA := createEvent(t, s, hostA.ID, "2026-03-05")
	eventB := createEvent(t, s, hostB.ID, "2026-03-05")
	require.NoError(t, s.EnsureInvitation(eventA.ID, guest.ID))
	require.NoError(t, s.EnsureInvitation(eventB.ID, guest.ID))

	collisions, err := s.CheckCollisions([]string{"guest"}, "2026-03-05")
	require.NoError(t, err)
	require.Len(t, collisions, 1)
}

func TestCheckCollisionsIgnoresDeclined(t *testing.T) {
	s := newTestStore(t)
	host := createUser(t, s, 1, "hosta")
	guest := createUser(t, s, 2, "guest")

	event := createEvent(t, s, host.ID, "2026-03-05")
	require.NoError(t, s.EnsureInvitation(event.ID, guest.ID))
	_, err := s.CreateOrUpdateInvitation(event.ID, guest.ID, model.StatusDeclined, 1)
	require.NoError(t, err)

	collisions, err := s.CheckCollisions([]string{"guest"}, "2026-03-05")
	require.NoError(t, err)
	require.Empty(t, collisions)
}

func TestEnsureInvitationIdempotent(t *testing.T) {
	s := newTestStore(t)
	host := createUser(t, s, 1, "host")
	guest := createUser(t, s, 2, "guest")
	event := createEvent(t, s, host.ID, futureDate(1))

	require.NoError(t, s.EnsureInvitation(event.ID, guest.ID))
	require.NoError(t, s.EnsureInvitation(event.ID, guest.ID))

	var count int64
	require.NoError(t, s.db.Model(&model.Invitation{}).Where("event_id = ?", event.ID).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestCreateInvitationsByUsernameSkipsUnknown(t *testing.T) {
	s := newTestStore(t)
	host := createUser(t, s, 1, "host")
	createUser(t, s, 2, "alice")
	event := createEvent(t, s, host.ID, "2026-02-20")

	// bob does not exist; only alice's invitation is created.
	require.NoError(t, s.CreateInvitationsByUsername(event.ID, []string{"alice", "bob"}))

	details, err := s.GetEventDetails(event.ID)
	require.NoError(t, err)
	require.Len(t, details.Invitations, 1)
	require.Equal(t, model.StatusPending, details.Invitations[0].Status)
	require.NotNil(t, details.Invitations[0].Guest)
	require.Equal(t, "alice", *details.Invitations[0].Guest.Username)
}

func TestRSVPTransitions(t *testing.T) {
	s := newTestStore(t)
	host := createUser(t, s, 1, "host")
	guest := createUser(t, s, 2, "guest")
	event := createEvent(t, s, host.ID, futureDate(1))
	require.NoError(t, s.EnsureInvitation(event.ID, guest.ID))

	inv, err := s.GetInvitation(event.ID, guest.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusPending, inv.Status)
	require.Nil(t, inv.RespondedAt)

	accepted, err := s.RespondToInvitation(inv.ID, model.StatusAccepted, 3)
	require.NoError(t, err)
	require.Equal(t, model.StatusAccepted, accepted.Status)
	require.Equal(t, 3, accepted.GuestCount)
	require.NotNil(t, accepted.RespondedAt)

	// Declining resets the head-count to 1.
	declined, err := s.RespondToInvitation(inv.ID, model.StatusDeclined, 3)
	require.NoError(t, err)
	require.Equal(t, model.StatusDeclined, declined.Status)
	require.Equal(t, 1, declined.GuestCount)
}

func TestCreateOrUpdateInvitationReportsChange(t *testing.T) {
	s := newTestStore(t)
	host := createUser(t, s, 1, "host")
	guest := createUser(t, s, 2, "guest")
	event := createEvent(t, s, host.ID, futureDate(1))

	// First response creates the row.
	changed, err := s.CreateOrUpdateInvitation(event.ID, guest.ID, model.StatusAccepted, 2)
	require.NoError(t, err)
	require.True(t, changed)

	// Repeat click with the same status and count: no observable change.
	changed, err = s.CreateOrUpdateInvitation(event.ID, guest.ID, model.StatusAccepted, 2)
	require.NoError(t, err)
	require.False(t, changed)

	// Same status, different count: still a change.
	changed, err = s.CreateOrUpdateInvitation(event.ID, guest.ID, model.StatusAccepted, 3)
	require.NoError(t, err)
	require.True(t, changed)

	var count int64
	require.NoError(t, s.db.Model(&model.Invitation{}).Where("event_id = ?", event.ID).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestDeleteEventCascadesInvitations(t *testing.T) {
	s := newTestStore(t)
	host := createUser(t, s, 1, "host")
	event := createEvent(t, s, host.ID, futureDate(1))

	var invitationIDs []string
	for i := int64(2); i <= 4; i++ {
		guest := createUser(t, s, i, fmt.Sprintf("guest%d", i))
		require.NoError(t, s.EnsureInvitation(event.ID, guest.ID))
		inv, err := s.GetInvitation(event.ID, guest.ID)
		require.NoError(t, err)
		invitationIDs = append(invitationIDs, inv.ID)
	}

	require.NoError(t, s.DeleteEvent(event.ID))

	gone, err := s.GetEventByID(event.ID)
	require.NoError(t, err)
	require.Nil(t, gone)

	for _, id := range invitationIDs {
		inv, err := s.GetInvitationByID(id)
		require.NoError(t, err)
		require.Nil(t, inv)
	}
}

func TestRemoveInvitation(t *testing.T) {
	s := newTestStore(t)
	host := createUser(t, s, 1, "host")
	guest := createUser(t, s, 2, "guest")
	event := createEvent(t, s, host.ID, futureDate(1))
	require.NoError(t, s.EnsureInvitation(event.ID, guest.ID))

	inv, err := s.GetInvitation(event.ID, guest.ID)
	require.NoError(t, err)
	require.NoError(t, s.RemoveInvitation(inv.ID))

	gone, err := s.GetInvitationByID(inv.ID)
	require.NoError(t, err)
	require.Nil(t, gone)

	// The event itself survives.
	event2, err := s.GetEventByID(event.ID)
	require.NoError(t, err)
	require.NotNil(t, event2)
}

func TestGetEventsByDate(t *testing.T) {
	s := newTestStore(t)
	host := createUser(t, s, 1, "host")
	guest := createUser(t, s, 2, "guest")

	event := createEvent(t, s, host.ID, "2026-03-10")
	createEvent(t, s, host.ID, "2026-03-11")
	require.NoError(t, s.EnsureInvitation(event.ID, guest.ID))

	events, err := s.GetEventsByDate("2026-03-10")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, event.ID, events[0].ID)
	require.Len(t, events[0].Invitations, 1)
	require.NotNil(t, events[0].Invitations[0].Guest)
}

func TestGetHostEventsLimitsAndFilters(t *testing.T) {
	s := newTestStore(t)
	host := createUser(t, s, 1, "host")

	createEvent(t, s, host.ID, futureDate(-1))
	for i := 1; i <= 12; i++ {
		createEvent(t, s, host.ID, futureDate(i))
	}

	events, err := s.GetHostEvents(host.ID, 10)
	require.NoError(t, err)
	require.Len(t, events, 10)
	require.Equal(t, futureDate(1), events[0].Date)
}

func TestStoreOperationsRecordDBMetrics(t *testing.T) {
	s := newTestStore(t)

	host := createUser(t, s, 1, "host")
	event := createEvent(t, s, host.ID, futureDate(1))
	_, err := s.GetUserEvents(host.ID)
	require.NoError(t, err)
	require.NoError(t, s.DeleteEvent(event.ID))

	// The calls above cover user_upsert, user_select, event_insert,
	// user_events_select and event_delete, so at least five labeled
	// series exist in the histogram.
	require.GreaterOrEqual(t, testutil.CollectAndCount(prometheus.DBOperationHistogram), 5)
}

func TestGetStats(t *testing.T) {
	s := newTestStore(t)
	host := createUser(t, s, 1, "host")
	guest := createUser(t, s, 2, "guest")

	event := createEvent(t, s, host.ID, futureDate(1))
	require.NoError(t, s.EnsureInvitation(event.ID, guest.ID))
	_, err := s.CreateOrUpdateInvitation(event.ID, guest.ID, model.StatusAccepted, 2)
	require.NoError(t, err)

	stats, err := s.GetStats()
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.Counts.TotalUsers)
	require.Equal(t, int64(1), stats.Counts.TotalEvents)
	require.Equal(t, int64(1), stats.Counts.UniqueHosts)
	require.Equal(t, int64(1), stats.Counts.TotalInvitations)
	require.Equal(t, int64(1), stats.Counts.AcceptedRSVPs)

	require.Len(t, stats.UpcomingEvents, 1)
	require.Equal(t, event.ID, stats.UpcomingEvents[0].ID)
	require.Equal(t, int64(1), stats.UpcomingEvents[0].InviteCount)
	require.Equal(t, int64(1), stats.UpcomingEvents[0].AcceptedCount)
	require.Len(t, stats.RecentUsers, 2)
	require.Len(t, stats.RecentEvents, 1)
}
