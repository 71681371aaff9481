// Package exchange implements the versioned marker file format used by
// export and import, plus a GeoJSON rendition for use in external GIS
// tooling.
package exchange

import (
	"encoding/json"
	"fmt"

	"github.com/cartomark/cartomark/internal/store"
	"github.com/cartomark/cartomark/pkg/core"
)

// Version is the current exchange format version.
const Version = 1

// Document is the root JSON structure of an exported marker file.
type Document struct {
	Version int           `json:"version"`
	Markers []core.Marker `json:"markers"`
}

// Encode serializes the collection with the format version tag.
func Encode(markers []core.Marker) ([]byte, error) {
	if markers == nil {
		markers = []core.Marker{}
	}
	return json.MarshalIndent(Document{Version: Version, Markers: markers}, "", "  ")
}

// Decode parses an exported marker file. Any payload that is not valid
// JSON, carries an unknown version, or whose markers field is not a
// sequence fails with the format error; callers leave existing state
// untouched on failure.
func Decode(data []byte) ([]core.Marker, error) {
	var envelope struct {
		Version int             `json:"version"`
		Markers json.RawMessage `json:"markers"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrFormat, err)
	}
	if envelope.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", store.ErrFormat, envelope.Version)
	}
	if len(envelope.Markers) == 0 || string(envelope.Markers) == "null" {
		return nil, fmt.Errorf("%w: markers field is missing", store.ErrFormat)
	}

	var markers []core.Marker
	if err := json.Unmarshal(envelope.Markers, &markers); err != nil {
		return nil, fmt.Errorf("%w: markers is not a sequence of records: %v", store.ErrFormat, err)
	}
	return markers, nil
}
