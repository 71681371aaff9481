package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartomark/cartomark/pkg/core"
)

func TestBoundsContains(t *testing.T) {
	b := NewBounds(0, 0, 6798, 9800)

	tests := []struct {
		name string
		pos  core.Position2D
		want bool
	}{
		{"interior", core.Position2D{Lat: 100, Lng: 200}, true},
		{"origin corner", core.Position2D{Lat: 0, Lng: 0}, true},
		{"far corner", core.Position2D{Lat: 6798, Lng: 9800}, true},
		{"on top edge", core.Position2D{Lat: 6798, Lng: 3000}, true},
		{"on right edge", core.Position2D{Lat: 3000, Lng: 9800}, true},
		{"one past right edge", core.Position2D{Lat: 3000, Lng: 9801}, false},
		{"one past top edge", core.Position2D{Lat: 6799, Lng: 3000}, false},
		{"negative lat", core.Position2D{Lat: -1, Lng: 0}, false},
		{"negative lng", core.Position2D{Lat: 0, Lng: -1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Contains(tt.pos))
		})
	}
}

func TestNewBoundsNormalizesCorners(t *testing.T) {
	b := NewBounds(6798, 9800, 0, 0)
	assert.Equal(t, core.Position2D{Lat: 0, Lng: 0}, b.Min())
	assert.Equal(t, core.Position2D{Lat: 6798, Lng: 9800}, b.Max())
	assert.True(t, b.Contains(core.Position2D{Lat: 100, Lng: 100}))
}

func TestPositionFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    core.Position2D
		wantErr bool
	}{
		{"plain", "100,200", core.Position2D{Lat: 100, Lng: 200}, false},
		{"decimals", "6069.06,5627.81", core.Position2D{Lat: 6069.06, Lng: 5627.81}, false},
		{"spaces", " 12.5 , 13.5 ", core.Position2D{Lat: 12.5, Lng: 13.5}, false},
		{"negative", "-5,-10", core.Position2D{Lat: -5, Lng: -10}, false},
		{"missing component", "100", core.Position2D{}, true},
		{"too many components", "1,2,3", core.Position2D{}, true},
		{"not a number", "abc,def", core.Position2D{}, true},
		{"empty", "", core.Position2D{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PositionFromString(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidCoordinates)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPointFromPosition(t *testing.T) {
	pt := PointFromPosition(core.Position2D{Lat: 50, Lng: 75})
	coord, ok := pt.Coordinates()
	require.True(t, ok)
	assert.Equal(t, 75.0, coord.X)
	assert.Equal(t, 50.0, coord.Y)
}

func TestCalibrationToWGS84(t *testing.T) {
	// origin at null island in 3857, one meter per unit
	c := Calibration{MetersPerUnit: 1}
	lon, lat := c.ToWGS84(core.Position2D{Lat: 0, Lng: 0})
	assert.InDelta(t, 0, lon, 1e-6)
	assert.InDelta(t, 0, lat, 1e-6)

	// moving east in logical space moves east in degrees
	lon2, _ := c.ToWGS84(core.Position2D{Lat: 0, Lng: 10000})
	assert.Greater(t, lon2, lon)
}
