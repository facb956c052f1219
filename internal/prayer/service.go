// Package prayer looks up suhoor/iftar times. Lookups go read-through to
// the muftyat.kz HTTP API and are cached per (lat, lng, year); entries
// are immutable once fetched, so the cache needs no invalidation beyond
// its TTL.
package prayer

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/adntgv/iftar-tg-miniapp/pkg/config"
)

// Service is the read-through prayer-times client.
type Service struct {
	baseURL string
	client  *http.Client
	cache   *cache.Cache
	log     *zap.Logger
}

// NewService builds a Service from config. The cache TTL defaults to 24h.
func NewService(cfg config.PrayerConfig, log *zap.Logger) *Service {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		cache:   cache.New(ttl, ttl),
		log:     log,
	}
}

// upstreamResponse mirrors the muftyat.kz prayer-times payload shape.
type upstreamResponse struct {
	Success bool `json:"success"`
	Result  []struct {
		Date    string `json:"date"`
		Fajr    string `json:"fajr"`
		Maghrib string `json:"maghrib"`
	} `json:"result"`
}

// RamadanTimes returns the suhoor/iftar table for the Ramadan window at
// the given coordinates. Results are cached; on upstream failure the
// static Astana table is returned instead.
func (s *Service) RamadanTimes(lat, lng string, year int) []DayTimes {
	key := fmt.Sprintf("%s:%s:%d", lat, lng, year)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]DayTimes)
	}

	times, err := s.fetch(lat, lng, year)
	if err != nil {
		s.log.Warn("prayer times lookup failed, using fallback table",
			zap.String("lat", lat), zap.String("lng", lng), zap.Error(err))
		return AstanaTable(0)
	}

	s.cache.Set(key, times, cache.DefaultExpiration)
	return times
}

func (s *Service) fetch(lat, lng string, year int) ([]DayTimes, error) {
	url := fmt.Sprintf("%s/prayer-times/%d/%s/%s", s.baseURL, year, lat, lng)
	resp, err := s.client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("prayer times API returned status %d", resp.StatusCode)
	}

	var payload upstreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if !payload.Success {
		return nil, fmt.Errorf("prayer times API reported failure")
	}

	var times []DayTimes
	for _, day := range payload.Result {
		// Upstream dates come as "2026-02-17 00:00:00".
		date := day.Date
		if len(date) > 10 {
			date = date[:10]
		}
		if date < RamadanStart || date > RamadanEnd {
			continue
		}
		times = append(times, DayTimes{
			Date:   date,
			Suhoor: day.Fajr,
			Iftar:  day.Maghrib,
		})
	}
	if len(times) == 0 {
		return nil, fmt.Errorf("prayer times API returned no days in the Ramadan window")
	}
	return times, nil
}
