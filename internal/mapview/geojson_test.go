package mapview

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/traffic-cli/internal/area"
	"github.com/sells-group/traffic-cli/internal/density"
)

func TestMarshalGeoJSON(t *testing.T) {
	s := NewSurface(area.Coordinates{}, 12)
	m := s.AddMarker(ameerpet)
	c := s.AddCircle(ameerpet, 2000)
	tier, style := density.Classify(0.1)
	Updater{}.Apply(tier, style, m, c)

	b, err := s.MarshalGeoJSON()
	require.NoError(t, err)

	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			ID       string `json:"id"`
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))

	assert.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 2)

	f := doc.Features[1]
	assert.Equal(t, c.ID(), f.ID)
	assert.Equal(t, "Point", f.Geometry.Type)
	require.Len(t, f.Geometry.Coordinates, 2)
	assert.InDelta(t, ameerpet.Lng, f.Geometry.Coordinates[0], 1e-9)
	assert.InDelta(t, ameerpet.Lat, f.Geometry.Coordinates[1], 1e-9)
	assert.Equal(t, "circle", f.Properties["kind"])
	assert.Equal(t, "#4CAF50", f.Properties["color"])
	assert.Equal(t, "Low Traffic", f.Properties["label"])
	assert.InDelta(t, 2000.0, f.Properties["radius"], 0.001)

	assert.NotContains(t, doc.Features[0].Properties, "radius")
}

func TestMarshalGeoJSON_Empty(t *testing.T) {
	s := NewSurface(area.Coordinates{}, 12)
	b, err := s.MarshalGeoJSON()
	require.NoError(t, err)
	assert.Contains(t, string(b), `"FeatureCollection"`)
}
