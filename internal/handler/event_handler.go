package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/adntgv/iftar-tg-miniapp/internal/store"
	"github.com/adntgv/iftar-tg-miniapp/pkg/logger"
	"github.com/adntgv/iftar-tg-miniapp/prometheus"
)

// CreateEvent inserts one event and, when guest usernames are supplied,
// one pending invitation per resolved username. Unknown usernames are
// skipped silently.
func (h *Handler) CreateEvent(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		HostID     string   `json:"host_id"`
		Date       string   `json:"date"`
		IftarTime  *string  `json:"iftar_time"`
		Location   *string  `json:"location"`
		Address    *string  `json:"address"`
		Notes      *string  `json:"notes"`
		IsHostMode *bool    `json:"is_host_mode"`
		Usernames  []string `json:"usernames"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse event payload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is required"})
	}

	isHostMode := true
	if req.IsHostMode != nil {
		isHostMode = *req.IsHostMode
	}

	event, err := h.store.CreateEvent(store.NewEvent{
		HostID:     req.HostID,
		Date:       req.Date,
		IftarTime:  req.IftarTime,
		Location:   req.Location,
		Address:    req.Address,
		Notes:      req.Notes,
		IsHostMode: isHostMode,
	})
	if err != nil {
		return fail(c, "Failed to create event", err)
	}

	if len(req.Usernames) > 0 {
		if err := h.store.CreateInvitationsByUsername(event.ID, req.Usernames); err != nil {
			return fail(c, "Failed to create invitations", err)
		}
		prometheus.InvitationsCreatedCounter.Add(float64(len(req.Usernames)))
	}

	prometheus.EventsCreatedCounter.Inc()
	log.Info("Event created",
		zap.String("id", event.ID),
		zap.String("date", event.Date),
		zap.String("host_id", req.HostID))

	return c.JSON(http.StatusOK, event)
}

// GetEvent answers the event with host and invitations, or null.
func (h *Handler) GetEvent(c echo.Context) error {
	details, err := h.store.GetEventDetails(c.Param("eventId"))
	if err != nil {
		return fail(c, "Failed to load event details", err)
	}
	if details == nil {
		return c.JSON(http.StatusOK, nil)
	}
	return c.JSON(http.StatusOK, details)
}

// DeleteEvent removes the event and all its invitations.
func (h *Handler) DeleteEvent(c echo.Context) error {
	if err := h.store.DeleteEvent(c.Param("eventId")); err != nil {
		return fail(c, "Failed to delete event", err)
	}
	prometheus.EventsDeletedCounter.Inc()
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// InviteGuests creates pending invitations for the given usernames.
func (h *Handler) InviteGuests(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Usernames []string `json:"usernames"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse invite payload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if err := h.store.CreateInvitationsByUsername(c.Param("eventId"), req.Usernames); err != nil {
		return fail(c, "Failed to create invitations", err)
	}

	prometheus.InvitationsCreatedCounter.Add(float64(len(req.Usernames)))
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// EnsureInvitation idempotently creates the caller's own invitation when
// they open a deep link.
func (h *Handler) EnsureInvitation(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		GuestID string `json:"guest_id"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse ensure-invitation payload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if err := h.store.EnsureInvitation(c.Param("eventId"), req.GuestID); err != nil {
		return fail(c, "Failed to ensure invitation", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// CheckCollisions reports guests already committed elsewhere on the date.
func (h *Handler) CheckCollisions(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Usernames []string `json:"usernames"`
		Date      string   `json:"date"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse collision payload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	collisions, err := h.store.CheckCollisions(req.Usernames, req.Date)
	if err != nil {
		return fail(c, "Failed to check collisions", err)
	}

	prometheus.CollisionCheckCounter.Inc()
	return c.JSON(http.StatusOK, collisions)
}
