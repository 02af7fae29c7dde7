package session

import (
	"time"

	"github.com/sells-group/traffic-cli/internal/area"
	"github.com/sells-group/traffic-cli/internal/config"
	"github.com/sells-group/traffic-cli/internal/notify"
)

// Settings are the per-deployment knobs every session shares.
type Settings struct {
	City         string
	Center       area.Coordinates
	DefaultZoom  int
	AreaZoom     int
	SearchZoom   int
	CircleRadius float64
	NotifyTTL    time.Duration
	Animation    time.Duration
	IdleTTL      time.Duration
}

// DefaultSettings mirrors the configuration defaults.
func DefaultSettings() Settings {
	return Settings{
		City:         area.DefaultCity,
		Center:       area.Coordinates{Lat: 17.385044, Lng: 78.486671},
		DefaultZoom:  12,
		AreaZoom:     15,
		SearchZoom:   13,
		CircleRadius: 2000,
		NotifyTTL:    notify.DefaultTTL,
		Animation:    time.Second,
		IdleTTL:      30 * time.Minute,
	}
}

// SettingsFromConfig maps loaded configuration onto Settings.
func SettingsFromConfig(cfg *config.Config) Settings {
	s := DefaultSettings()
	if cfg.Map.City != "" {
		s.City = cfg.Map.City
	}
	if cfg.Map.CenterLat != 0 || cfg.Map.CenterLng != 0 {
		s.Center = area.Coordinates{Lat: cfg.Map.CenterLat, Lng: cfg.Map.CenterLng}
	}
	if cfg.Map.DefaultZoom > 0 {
		s.DefaultZoom = cfg.Map.DefaultZoom
	}
	if cfg.Map.AreaZoom > 0 {
		s.AreaZoom = cfg.Map.AreaZoom
	}
	if cfg.Map.SearchZoom > 0 {
		s.SearchZoom = cfg.Map.SearchZoom
	}
	if cfg.Map.CircleRadius > 0 {
		s.CircleRadius = cfg.Map.CircleRadius
	}
	if cfg.Notify.TTLMs > 0 {
		s.NotifyTTL = time.Duration(cfg.Notify.TTLMs) * time.Millisecond
	}
	if cfg.Session.AnimationMs >= 0 {
		s.Animation = time.Duration(cfg.Session.AnimationMs) * time.Millisecond
	}
	if cfg.Session.IdleTTLMins > 0 {
		s.IdleTTL = time.Duration(cfg.Session.IdleTTLMins) * time.Minute
	}
	return s
}
