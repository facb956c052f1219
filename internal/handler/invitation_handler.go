package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/adntgv/iftar-tg-miniapp/internal/model"
	"github.com/adntgv/iftar-tg-miniapp/pkg/logger"
	"github.com/adntgv/iftar-tg-miniapp/prometheus"
)

// RespondToInvitation records the guest's RSVP and answers the updated
// row. guest_count is honored only for accepted responses.
func (h *Handler) RespondToInvitation(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Status     string `json:"status"`
		GuestCount *int   `json:"guest_count"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse RSVP payload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	switch req.Status {
	case model.StatusAccepted, model.StatusDeclined, model.StatusMaybe:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	guestCount := 1
	if req.GuestCount != nil {
		guestCount = *req.GuestCount
	}

	invitation, err := h.store.RespondToInvitation(c.Param("invitationId"), req.Status, guestCount)
	if err != nil {
		return fail(c, "Failed to record RSVP", err)
	}

	prometheus.RSVPCounter.WithLabelValues(req.Status).Inc()
	return c.JSON(http.StatusOK, invitation)
}

// RemoveInvitation deletes a single invitation row.
func (h *Handler) RemoveInvitation(c echo.Context) error {
	if err := h.store.RemoveInvitation(c.Param("invitationId")); err != nil {
		return fail(c, "Failed to remove invitation", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
