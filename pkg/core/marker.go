package core

// Position2D is a point in the map's logical coordinate space.
// The map is a flat image; Lat runs along the vertical axis and Lng
// along the horizontal axis, matching the persisted layout.
type Position2D struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Marker is a named, described point at a fixed position on the map.
// ID is assigned once at creation and never changes. Position is
// immutable after creation; only Name and Description may be edited.
type Marker struct {
	ID          string  `json:"id"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
}

// Position returns the marker's position.
func (m Marker) Position() Position2D {
	return Position2D{Lat: m.Lat, Lng: m.Lng}
}
