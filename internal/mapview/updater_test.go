package mapview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/traffic-cli/internal/area"
	"github.com/sells-group/traffic-cli/internal/density"
)

func TestUpdater_AppliesStyleAndLabel(t *testing.T) {
	s := NewSurface(area.Coordinates{}, 12)
	m := s.AddMarker(ameerpet)
	c := s.AddCircle(ameerpet, 2000)

	tier, style := density.Classify(0.5)
	label := Updater{}.Apply(tier, style, m, c)
	assert.Equal(t, "Medium Traffic", label)

	for _, h := range []Handle{m, c} {
		snap, ok := h.Snapshot()
		require.True(t, ok)
		assert.Equal(t, style, snap.Style)
		assert.Equal(t, "Medium Traffic", snap.Label)
	}
}

func TestUpdater_DoesNotCreateOrDestroy(t *testing.T) {
	s := NewSurface(area.Coordinates{}, 12)
	m := s.AddMarker(ameerpet)
	c := s.AddCircle(ameerpet, 2000)
	c.Remove()

	tier, style := density.Classify(0.9)
	Updater{}.Apply(tier, style, m, c, Handle{})

	overlays := s.Overlays()
	require.Len(t, overlays, 1)
	assert.Equal(t, m.ID(), overlays[0].ID)
	assert.Equal(t, "High Traffic", overlays[0].Label)
	assert.False(t, c.Live())
}
