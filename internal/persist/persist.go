package persist

import "github.com/cartomark/cartomark/pkg/core"

// Backend is the durable store for the marker collection. The store
// writes the full collection through on every mutation and reads it back
// once at startup.
//
// Load must treat absent or corrupt persisted data as an empty
// collection, never as a fatal error.
type Backend interface {
	Load() ([]core.Marker, error)
	Save(markers []core.Marker) error
	Erase() error
	Close() error
}
