package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/traffic-cli/internal/config"
)

func TestSettingsFromConfig(t *testing.T) {
	cfg := &config.Config{
		Map: config.MapConfig{
			City:         "Bengaluru",
			CenterLat:    12.97,
			CenterLng:    77.59,
			AreaZoom:     16,
			CircleRadius: 1500,
		},
		Notify:  config.NotifyConfig{TTLMs: 5000},
		Session: config.SessionConfig{IdleTTLMins: 5, AnimationMs: 250},
	}

	s := SettingsFromConfig(cfg)
	assert.Equal(t, "Bengaluru", s.City)
	assert.InDelta(t, 12.97, s.Center.Lat, 1e-9)
	assert.Equal(t, 16, s.AreaZoom)
	assert.Equal(t, 13, s.SearchZoom)
	assert.Equal(t, 12, s.DefaultZoom)
	assert.Equal(t, 1500.0, s.CircleRadius)
	assert.Equal(t, 5*time.Second, s.NotifyTTL)
	assert.Equal(t, 250*time.Millisecond, s.Animation)
	assert.Equal(t, 5*time.Minute, s.IdleTTL)
}

func TestSettingsFromConfig_EmptyKeepsDefaults(t *testing.T) {
	s := SettingsFromConfig(&config.Config{})
	d := DefaultSettings()
	d.Animation = 0
	assert.Equal(t, d, s)
}
