package store

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/cartomark/cartomark/internal/geo"
	"github.com/cartomark/cartomark/internal/persist"
	"github.com/cartomark/cartomark/pkg/core"
)

// Store is the authoritative in-memory marker collection. It owns
// identity assignment and the collection's lifetime; every mutation is
// written through to the persistence backend before returning. Insertion
// order is preserved and round-trips through persistence and export.
type Store struct {
	mu      sync.RWMutex
	markers []core.Marker
	bounds  geo.Bounds
	backend persist.Backend
	logger  *slog.Logger
}

// New creates a Store bound to a persistence backend. Call Init to load
// previously persisted markers before use.
func New(bounds geo.Bounds, backend persist.Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		bounds:  bounds,
		backend: backend,
		logger:  logger,
	}
}

// Init loads the persisted collection. Absent or corrupt persisted data
// degrades to an empty collection, never to a failure.
func (s *Store) Init() error {
	markers, err := s.backend.Load()
	if err != nil {
		s.logger.Warn("Could not load persisted markers, starting empty", "error", err)
		markers = nil
	}
	s.mu.Lock()
	s.markers = markers
	s.mu.Unlock()
	return nil
}

// Close persists the current collection a final time and closes the backend.
func (s *Store) Close() error {
	s.mu.RLock()
	snapshot := s.snapshotLocked()
	s.mu.RUnlock()

	if err := s.backend.Save(snapshot); err != nil {
		s.logger.Error("Final persist failed", "error", err)
	}
	return s.backend.Close()
}

// Create validates the input, assigns a fresh id, appends the marker and
// writes the collection through to the backend.
func (s *Store) Create(pos core.Position2D, name, description string) (core.Marker, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" {
		return core.Marker{}, fmt.Errorf("%w: name is empty", ErrValidation)
	}
	if description == "" {
		return core.Marker{}, fmt.Errorf("%w: description is empty", ErrValidation)
	}
	if !s.bounds.Contains(pos) {
		return core.Marker{}, fmt.Errorf("%w: position %.2f,%.2f is outside map bounds", ErrValidation, pos.Lat, pos.Lng)
	}

	m := core.Marker{
		ID:          uuid.NewString(),
		Lat:         pos.Lat,
		Lng:         pos.Lng,
		Name:        name,
		Description: description,
	}

	s.mu.Lock()
	s.markers = append(s.markers, m)
	s.writeThroughLocked()
	s.mu.Unlock()

	return m, nil
}

// Update mutates name and description of an existing marker in place.
// Id and position never change.
func (s *Store) Update(id, name, description string) (core.Marker, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" {
		return core.Marker{}, fmt.Errorf("%w: name is empty", ErrValidation)
	}
	if description == "" {
		return core.Marker{}, fmt.Errorf("%w: description is empty", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfLocked(id)
	if i < 0 {
		return core.Marker{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.markers[i].Name = name
	s.markers[i].Description = description
	s.writeThroughLocked()
	return s.markers[i], nil
}

// Delete removes the marker with the given id. Deleting an unknown id is
// a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfLocked(id)
	if i < 0 {
		return
	}
	s.markers = append(s.markers[:i], s.markers[i+1:]...)
	s.writeThroughLocked()
}

// Get looks up a marker by id.
func (s *Store) Get(id string) (core.Marker, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOfLocked(id); i >= 0 {
		return s.markers[i], true
	}
	return core.Marker{}, false
}

// Find returns the first marker in insertion order matching the predicate.
func (s *Store) Find(predicate func(core.Marker) bool) (core.Marker, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.markers {
		if predicate(m) {
			return m, true
		}
	}
	return core.Marker{}, false
}

// ReplaceAll swaps the whole collection for the given records, as used by
// import. The input is validated before any mutation; on validation
// failure the existing collection is left untouched.
func (s *Store) ReplaceAll(records []core.Marker) error {
	seen := make(map[string]struct{}, len(records))
	for i, m := range records {
		if m.ID == "" {
			return fmt.Errorf("%w: record %d has no id", ErrFormat, i)
		}
		if _, dup := seen[m.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrFormat, m.ID)
		}
		seen[m.ID] = struct{}{}
		if strings.TrimSpace(m.Name) == "" {
			return fmt.Errorf("%w: record %d has no name", ErrFormat, i)
		}
		if strings.TrimSpace(m.Description) == "" {
			return fmt.Errorf("%w: record %d has no description", ErrFormat, i)
		}
	}

	s.mu.Lock()
	s.markers = append([]core.Marker(nil), records...)
	s.writeThroughLocked()
	s.mu.Unlock()
	return nil
}

// Clear empties the collection and erases persisted state.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.markers = nil
	if err := s.backend.Erase(); err != nil {
		s.logger.Warn("Could not erase persisted markers", "error", err)
	}
}

// All returns a copy of the collection in insertion order.
func (s *Store) All() []core.Marker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Len returns the number of markers.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.markers)
}

// IDs returns the set of marker ids currently in the collection.
func (s *Store) IDs() map[string]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make(map[string]struct{}, len(s.markers))
	for _, m := range s.markers {
		ids[m.ID] = struct{}{}
	}
	return ids
}

func (s *Store) indexOfLocked(id string) int {
	for i, m := range s.markers {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshotLocked() []core.Marker {
	return append([]core.Marker(nil), s.markers...)
}

// writeThroughLocked persists the current collection. A failed write is
// logged but does not fail the mutation; the in-memory collection stays
// authoritative.
func (s *Store) writeThroughLocked() {
	if err := s.backend.Save(s.snapshotLocked()); err != nil {
		s.logger.Error("Write-through persist failed", "error", err)
	}
}
