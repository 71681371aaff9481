// Package memory is an ephemeral persistence backend used for tests and
// sessions that do not want durable state.
package memory

import (
	"sync"

	"github.com/cartomark/cartomark/pkg/core"
)

// Backend keeps the last saved collection in memory.
type Backend struct {
	mu      sync.Mutex
	markers []core.Marker
	saves   int
}

// New creates an empty memory backend.
func New() *Backend {
	return &Backend{}
}

// Load returns the last saved collection.
func (b *Backend) Load() ([]core.Marker, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]core.Marker(nil), b.markers...), nil
}

// Save replaces the held collection.
func (b *Backend) Save(markers []core.Marker) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.markers = append([]core.Marker(nil), markers...)
	b.saves++
	return nil
}

// Erase drops the held collection.
func (b *Backend) Erase() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.markers = nil
	return nil
}

// Close is a no-op.
func (b *Backend) Close() error {
	return nil
}

// Saves reports how many times Save has been called. Used by tests to
// verify write-through behavior.
func (b *Backend) Saves() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saves
}
