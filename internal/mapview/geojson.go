package mapview

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// FeatureCollection renders the live overlays as GeoJSON points. Circles
// carry their radius in meters as a property, the way Leaflet clients
// expect to rebuild them.
func (s *Surface) FeatureCollection() *geojson.FeatureCollection {
	overlays := s.Overlays()
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(overlays))}
	for _, o := range overlays {
		props := map[string]interface{}{
			"kind":         string(o.Kind),
			"color":        o.Style.Color,
			"opacity":      o.Style.Opacity,
			"fill_opacity": o.Style.FillOpacity,
		}
		if o.Kind == KindCircle {
			props["radius"] = o.Radius
		}
		if o.Label != "" {
			props["label"] = o.Label
		}
		if o.Popup != "" {
			props["popup"] = o.Popup
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         o.ID,
			Geometry:   geom.NewPointFlat(geom.XY, []float64{o.Position.Lng, o.Position.Lat}),
			Properties: props,
		})
	}
	return fc
}

// MarshalGeoJSON encodes the live overlays as a GeoJSON FeatureCollection.
func (s *Surface) MarshalGeoJSON() ([]byte, error) {
	b, err := json.Marshal(s.FeatureCollection())
	if err != nil {
		return nil, eris.Wrap(err, "mapview: encode geojson")
	}
	return b, nil
}
