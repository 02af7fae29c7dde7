package mapview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/traffic-cli/internal/area"
)

var ameerpet = area.Coordinates{Lat: 17.434275, Lng: 78.445403}

func TestSurface_AddRemove(t *testing.T) {
	s := NewSurface(area.Coordinates{Lat: 17.385044, Lng: 78.486671}, 12)

	m := s.AddMarker(ameerpet)
	c := s.AddCircle(ameerpet, 2000)
	require.Len(t, s.Overlays(), 2)
	assert.NotEqual(t, m.ID(), c.ID())

	overlays := s.Overlays()
	assert.Equal(t, KindMarker, overlays[0].Kind)
	assert.Equal(t, KindCircle, overlays[1].Kind)
	assert.InDelta(t, 2000, overlays[1].Radius, 0.001)
	assert.Equal(t, NeutralStyle, overlays[1].Style)

	m.Remove()
	assert.False(t, m.Live())
	assert.True(t, c.Live())
	require.Len(t, s.Overlays(), 1)

	// Removing twice is harmless.
	m.Remove()
	s.Remove("unknown")
	assert.Len(t, s.Overlays(), 1)
}

func TestSurface_SetView(t *testing.T) {
	s := NewSurface(area.Coordinates{}, 12)
	s.SetView(ameerpet, 15)

	vp := s.Viewport()
	assert.Equal(t, ameerpet, vp.Center)
	assert.Equal(t, 15, vp.Zoom)
}

func TestHandle_ZeroValue(t *testing.T) {
	var h Handle
	assert.False(t, h.Live())
	assert.False(t, h.SetStyle(NeutralStyle))
	assert.False(t, h.BindLabel("x"))
	assert.False(t, h.BindPopup("x"))
	_, ok := h.Snapshot()
	assert.False(t, ok)
	h.Remove()
}

func TestHandle_BindPopup(t *testing.T) {
	s := NewSurface(area.Coordinates{}, 12)
	m := s.AddMarker(ameerpet)

	require.True(t, m.BindPopup("Ameerpet Junction"))
	snap, ok := m.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "Ameerpet Junction", snap.Popup)
}
