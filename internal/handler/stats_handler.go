package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetStats answers the read-only analytics payload.
func (h *Handler) GetStats(c echo.Context) error {
	stats, err := h.store.GetStats()
	if err != nil {
		return fail(c, "Failed to compute stats", err)
	}
	return c.JSON(http.StatusOK, stats)
}
