package exchange

import (
	"encoding/json"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/cartomark/cartomark/internal/geo"
	"github.com/cartomark/cartomark/pkg/core"
)

// FeatureCollection is a GeoJSON collection of marker features.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single marker rendered as a GeoJSON point feature.
type Feature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   geom.Geometry  `json:"geometry"`
}

// EncodeGeoJSON serializes the collection as a GeoJSON FeatureCollection.
// With a calibration the logical positions are georeferenced to WGS84
// lon/lat; without one the logical coordinates are emitted as-is in
// [lng, lat] order.
func EncodeGeoJSON(markers []core.Marker, cal *geo.Calibration) ([]byte, error) {
	fc := FeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]Feature, 0, len(markers)),
	}

	for _, m := range markers {
		pos := m.Position()
		if cal != nil {
			lon, lat := cal.ToWGS84(pos)
			pos = core.Position2D{Lat: lat, Lng: lon}
		}
		fc.Features = append(fc.Features, Feature{
			Type: "Feature",
			Properties: map[string]any{
				"id":          m.ID,
				"name":        m.Name,
				"description": m.Description,
			},
			Geometry: geo.PointFromPosition(pos).AsGeometry(),
		})
	}

	return json.MarshalIndent(fc, "", "  ")
}
