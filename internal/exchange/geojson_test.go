package exchange

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartomark/cartomark/internal/geo"
	"github.com/cartomark/cartomark/pkg/core"
)

func TestEncodeGeoJSON(t *testing.T) {
	markers := []core.Marker{
		{ID: "a", Lat: 100, Lng: 200, Name: "Camp", Description: "Base camp"},
	}

	data, err := EncodeGeoJSON(markers, nil)
	require.NoError(t, err)

	var fc map[string]any
	require.NoError(t, json.Unmarshal(data, &fc))
	assert.Equal(t, "FeatureCollection", fc["type"])

	features := fc["features"].([]any)
	require.Len(t, features, 1)

	feature := features[0].(map[string]any)
	assert.Equal(t, "Feature", feature["type"])

	props := feature["properties"].(map[string]any)
	assert.Equal(t, "a", props["id"])
	assert.Equal(t, "Camp", props["name"])
	assert.Equal(t, "Base camp", props["description"])

	geometry := feature["geometry"].(map[string]any)
	assert.Equal(t, "Point", geometry["type"])
	coords := geometry["coordinates"].([]any)
	require.Len(t, coords, 2)
	// GeoJSON order is [lng, lat]
	assert.Equal(t, 200.0, coords[0].(float64))
	assert.Equal(t, 100.0, coords[1].(float64))
}

func TestEncodeGeoJSONCalibrated(t *testing.T) {
	markers := []core.Marker{
		{ID: "a", Lat: 0, Lng: 0, Name: "Origin", Description: "map origin"},
	}

	data, err := EncodeGeoJSON(markers, &geo.Calibration{MetersPerUnit: 1})
	require.NoError(t, err)

	var fc FeatureCollection
	require.NoError(t, json.Unmarshal(data, &fc))
	require.Len(t, fc.Features, 1)

	pt, ok := fc.Features[0].Geometry.AsPoint()
	require.True(t, ok)
	coord, ok := pt.Coordinates()
	require.True(t, ok)
	assert.InDelta(t, 0, coord.X, 1e-6)
	assert.InDelta(t, 0, coord.Y, 1e-6)
}

func TestEncodeGeoJSONEmptyCollection(t *testing.T) {
	data, err := EncodeGeoJSON(nil, nil)
	require.NoError(t, err)

	var fc map[string]any
	require.NoError(t, json.Unmarshal(data, &fc))
	assert.Empty(t, fc["features"])
}
