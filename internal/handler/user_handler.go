package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/adntgv/iftar-tg-miniapp/internal/prayer"
	"github.com/adntgv/iftar-tg-miniapp/internal/store"
	"github.com/adntgv/iftar-tg-miniapp/pkg/logger"
	"github.com/adntgv/iftar-tg-miniapp/prometheus"
)

// GetOrCreateUser upserts a user from the platform identity payload and
// returns the stored row, refreshed with the latest profile fields.
func (h *Handler) GetOrCreateUser(c echo.Context) error {
	log := logger.FromContext(c)

	var req store.TelegramUser
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse user payload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	user, err := h.store.GetOrCreateUser(req)
	if err != nil {
		return fail(c, "Failed to get or create user", err)
	}

	prometheus.UsersUpsertedCounter.Inc()
	return c.JSON(http.StatusOK, user)
}

// GetUserByUsername answers the user row, or null when unknown.
func (h *Handler) GetUserByUsername(c echo.Context) error {
	user, err := h.store.GetUserByUsername(c.Param("username"))
	if err != nil {
		return fail(c, "Failed to look up user by username", err)
	}
	return c.JSON(http.StatusOK, user)
}

// GetUserEvents answers the deduplicated, date-ordered union of the
// user's hosted and invited events.
func (h *Handler) GetUserEvents(c echo.Context) error {
	events, err := h.store.GetUserEvents(c.Param("userId"))
	if err != nil {
		return fail(c, "Failed to list user events", err)
	}
	return c.JSON(http.StatusOK, events)
}

// GetUsersByTelegramIDs answers the user rows for a batch of platform ids.
func (h *Handler) GetUsersByTelegramIDs(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		TelegramIDs []int64 `json:"telegram_ids"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse telegram ids payload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	users, err := h.store.GetUsersByTelegramIDs(req.TelegramIDs)
	if err != nil {
		return fail(c, "Failed to look up users by telegram ids", err)
	}
	return c.JSON(http.StatusOK, users)
}

// UpdateUserCity sets the user's home city, validated against the
// allow-list, with optional coordinates.
func (h *Handler) UpdateUserCity(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		City string  `json:"city"`
		Lat  *string `json:"lat"`
		Lng  *string `json:"lng"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse city payload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if !prayer.IsValidCity(req.City) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid city"})
	}

	user, err := h.store.UpdateUserCity(c.Param("userId"), req.City, req.Lat, req.Lng)
	if err != nil {
		return fail(c, "Failed to update user city", err)
	}
	return c.JSON(http.StatusOK, user)
}
