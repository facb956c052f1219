// Package handler holds the HTTP route handlers. Handlers validate input
// shape, call the data-access layer, and serialize JSON; every handler
// converts its own errors (no centralized error middleware). Lookups that
// find nothing answer null, validation failures answer 400, anything else
// answers 500 with the raw error message.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/adntgv/iftar-tg-miniapp/internal/prayer"
	"github.com/adntgv/iftar-tg-miniapp/internal/store"
	"github.com/adntgv/iftar-tg-miniapp/pkg/logger"
)

// Handler carries the handlers' dependencies.
type Handler struct {
	store  *store.Store
	prayer *prayer.Service
}

// New returns a Handler over the given store and prayer service.
func New(s *store.Store, p *prayer.Service) *Handler {
	return &Handler{store: s, prayer: p}
}

// Register wires all API routes onto the echo instance.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/health", h.Health)

	api := e.Group("/api")
	api.POST("/users", h.GetOrCreateUser)
	api.GET("/users/by-username/:username", h.GetUserByUsername)
	api.GET("/users/:userId/events", h.GetUserEvents)
	api.POST("/users/by-telegram-ids", h.GetUsersByTelegramIDs)
	api.PATCH("/users/:userId/city", h.UpdateUserCity)

	api.POST("/check-collisions", h.CheckCollisions)

	api.POST("/events", h.CreateEvent)
	api.GET("/events/:eventId", h.GetEvent)
	api.DELETE("/events/:eventId", h.DeleteEvent)
	api.POST("/events/:eventId/invite", h.InviteGuests)
	api.POST("/events/:eventId/ensure-invitation", h.EnsureInvitation)

	api.PATCH("/invitations/:invitationId", h.RespondToInvitation)
	api.DELETE("/invitations/:invitationId", h.RemoveInvitation)

	api.GET("/prayer-times", h.GetPrayerTimes)
	api.GET("/cities", h.GetCities)
	api.GET("/stats", h.GetStats)
}

// Health answers the liveness probe.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// fail logs and converts a store error to the flat 500 contract.
func fail(c echo.Context, msg string, err error) error {
	logger.FromContext(c).Error(msg, zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
}
