// Package term renders markers as lines on a terminal. It exists so the
// interactive loop works without a remote viewer; activation is driven
// by the select command instead of mouse clicks.
package term

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/cartomark/cartomark/internal/projection"
	"github.com/cartomark/cartomark/pkg/core"
)

type handle struct {
	marker   core.Marker
	activate func()
}

func (h *handle) Position() core.Position2D { return h.marker.Position() }

// Surface implements projection.RenderSurface on an io.Writer.
type Surface struct {
	mu      sync.Mutex
	out     io.Writer
	handles map[string]*handle
	logger  *slog.Logger
}

// New creates a terminal surface writing to out.
func New(out io.Writer, logger *slog.Logger) *Surface {
	if logger == nil {
		logger = slog.Default()
	}
	return &Surface{
		out:     out,
		handles: make(map[string]*handle),
		logger:  logger,
	}
}

// Place renders the marker as a line and keeps it for later activation.
func (s *Surface) Place(m core.Marker, activate func()) (projection.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := &handle{marker: m, activate: activate}
	s.handles[m.ID] = h
	fmt.Fprintf(s.out, "+ %s  (%g,%g)  %s\n", m.ID, m.Lat, m.Lng, m.Name)
	return h, nil
}

// UpdateLabel retitles a placed marker.
func (s *Surface) UpdateLabel(h projection.Handle, name, description string) error {
	th, ok := h.(*handle)
	if !ok {
		return fmt.Errorf("foreign handle %T", h)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	th.marker.Name = name
	th.marker.Description = description
	fmt.Fprintf(s.out, "~ %s  %s\n", th.marker.ID, name)
	return nil
}

// Remove erases a placed marker.
func (s *Surface) Remove(h projection.Handle) error {
	th, ok := h.(*handle)
	if !ok {
		return fmt.Errorf("foreign handle %T", h)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.handles, th.marker.ID)
	fmt.Fprintf(s.out, "- %s\n", th.marker.ID)
	return nil
}

// FlyTo announces navigation to a position.
func (s *Surface) FlyTo(pos core.Position2D) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "> flying to (%g,%g)\n", pos.Lat, pos.Lng)
}

// OpenPopup prints the marker's full details.
func (s *Surface) OpenPopup(h projection.Handle) {
	th, ok := h.(*handle)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "[%s] %s\n  %s\n", th.marker.ID, th.marker.Name, th.marker.Description)
}

// Activate fires the activation callback of a placed marker, standing
// in for a click. Returns false when the id is unknown.
func (s *Surface) Activate(id string) bool {
	s.mu.Lock()
	h, ok := s.handles[id]
	s.mu.Unlock()

	if !ok {
		return false
	}
	h.activate()
	return true
}

// List returns the placed markers sorted by id, for the status command.
func (s *Surface) List() []core.Marker {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := lo.Keys(s.handles)
	sort.Strings(ids)
	return lo.Map(ids, func(id string, _ int) core.Marker {
		return s.handles[id].marker
	})
}

var _ projection.RenderSurface = (*Surface)(nil)
