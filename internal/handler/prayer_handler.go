package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adntgv/iftar-tg-miniapp/internal/prayer"
)

// GetPrayerTimes answers the Ramadan suhoor/iftar table for the given
// coordinates, read-through cached. Defaults to Astana.
func (h *Handler) GetPrayerTimes(c echo.Context) error {
	lat := c.QueryParam("lat")
	lng := c.QueryParam("lng")
	if lat == "" || lng == "" {
		astana := prayer.CityByID("astana")
		lat, lng = astana.Lat, astana.Lng
	}

	year := time.Now().Year()
	if y := c.QueryParam("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid year"})
		}
		year = parsed
	}

	return c.JSON(http.StatusOK, h.prayer.RamadanTimes(lat, lng, year))
}

// GetCities answers the allow-listed cities, optionally filtered by a
// search query.
func (h *Handler) GetCities(c echo.Context) error {
	return c.JSON(http.StatusOK, prayer.SearchCities(c.QueryParam("q")))
}
