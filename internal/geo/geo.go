package geo

import (
	"errors"
	"strconv"
	"strings"

	"github.com/cartomark/cartomark/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"
)

// ErrInvalidCoordinates is returned when a coordinate string cannot be parsed
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// Bounds is the rectangle of valid marker positions in the map's logical
// coordinate space. Edges are inclusive: a position exactly on an edge is
// inside the bounds.
type Bounds struct {
	min geom.XY
	max geom.XY
}

// NewBounds builds a Bounds from two opposite corners. The corners may be
// given in any order; min/max are normalized per axis.
func NewBounds(aLat, aLng, bLat, bLng float64) Bounds {
	minLat, maxLat := aLat, bLat
	if minLat > maxLat {
		minLat, maxLat = maxLat, minLat
	}
	minLng, maxLng := aLng, bLng
	if minLng > maxLng {
		minLng, maxLng = maxLng, minLng
	}
	return Bounds{
		min: geom.XY{X: minLng, Y: minLat},
		max: geom.XY{X: maxLng, Y: maxLat},
	}
}

// Contains reports whether the position lies inside the bounds, edges included.
func (b Bounds) Contains(p core.Position2D) bool {
	return p.Lng >= b.min.X && p.Lng <= b.max.X &&
		p.Lat >= b.min.Y && p.Lat <= b.max.Y
}

// Min returns the lower corner of the bounds.
func (b Bounds) Min() core.Position2D {
	return core.Position2D{Lat: b.min.Y, Lng: b.min.X}
}

// Max returns the upper corner of the bounds.
func (b Bounds) Max() core.Position2D {
	return core.Position2D{Lat: b.max.Y, Lng: b.max.X}
}

// PositionFromString parses a "lat,lng" string into a core.Position2D.
func PositionFromString(coords string) (core.Position2D, error) {
	coordsSplit := strings.Split(coords, ",")
	if len(coordsSplit) != 2 {
		return core.Position2D{}, ErrInvalidCoordinates
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(coordsSplit[0]), 64)
	if err != nil {
		return core.Position2D{}, ErrInvalidCoordinates
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(coordsSplit[1]), 64)
	if err != nil {
		return core.Position2D{}, ErrInvalidCoordinates
	}
	return core.Position2D{Lat: lat, Lng: lng}, nil
}

// PointFromPosition builds a geom.Point from a logical position.
// GeoJSON coordinate order is [lng, lat].
func PointFromPosition(p core.Position2D) geom.Point {
	// NewPoint only rejects non-finite coordinates, which parsed and
	// bounds-checked positions never carry.
	pt, _ := geom.NewPoint(
		geom.Coordinates{
			XY:   geom.XY{X: p.Lng, Y: p.Lat},
			Type: geom.DimXY,
		},
	)
	return pt
}

// Calibration anchors the map's logical coordinate space to a projected
// CRS so markers can be exported as georeferenced GeoJSON. Logical units
// are scaled by MetersPerUnit and offset from the EPSG:3857 origin point.
type Calibration struct {
	OriginX       float64 // EPSG:3857 easting of the map image origin
	OriginY       float64 // EPSG:3857 northing of the map image origin
	MetersPerUnit float64 // meters per logical coordinate unit
}

// ToWGS84 converts a logical position to lon/lat degrees using the
// calibration. A zero MetersPerUnit is treated as 1.
func (c Calibration) ToWGS84(p core.Position2D) (lon, lat float64) {
	scale := c.MetersPerUnit
	if scale == 0 {
		scale = 1
	}
	x := c.OriginX + p.Lng*scale
	y := c.OriginY + p.Lat*scale

	epsg := wgs84.EPSG()
	f := epsg.Transform(3857, 4326)
	lon, lat, _ = f(x, y, 0)
	return lon, lat
}
