package projection

import (
	"log/slog"
	"sync"

	"github.com/cartomark/cartomark/pkg/core"
)

// Handle is an opaque reference to one on-map visual representation of a
// marker. The surface owns what a handle actually is; the projection only
// associates handles with marker ids.
type Handle interface {
	Position() core.Position2D
}

// RenderSurface is the rendering collaborator. Place gets an activation
// callback that the surface fires when the user activates the rendered
// marker; the closure carries the marker identity so handles stay free of
// foreign data.
type RenderSurface interface {
	Place(m core.Marker, activate func()) (Handle, error)
	UpdateLabel(h Handle, name, description string) error
	Remove(h Handle) error
	FlyTo(pos core.Position2D)
	OpenPopup(h Handle)
}

// Projection mirrors the marker store onto a rendering surface: exactly
// one render handle per store record, no orphans in either direction. It
// never mutates the store; it only renders what the store reports.
type Projection struct {
	mu         sync.RWMutex
	surface    RenderSurface
	handles    map[string]Handle
	onActivate func(id string)
	logger     *slog.Logger
}

// New creates an empty projection over the given surface.
func New(surface RenderSurface, logger *slog.Logger) *Projection {
	if logger == nil {
		logger = slog.Default()
	}
	return &Projection{
		surface: surface,
		handles: make(map[string]Handle),
		logger:  logger,
	}
}

// OnActivate registers the callback fired when the user activates a
// rendered marker. Must be set before handles are created.
func (p *Projection) OnActivate(fn func(id string)) {
	p.mu.Lock()
	p.onActivate = fn
	p.mu.Unlock()
}

// Sync brings the handle table congruent with the given collection:
// missing handles are created, existing ones are left untouched, and
// handles for ids no longer in the collection are destroyed. Used at load
// time and after import.
func (p *Projection) Sync(records []core.Marker) {
	p.mu.Lock()
	defer p.mu.Unlock()

	want := make(map[string]struct{}, len(records))
	for _, m := range records {
		want[m.ID] = struct{}{}
		if _, ok := p.handles[m.ID]; !ok {
			p.placeLocked(m)
		}
	}

	for id, h := range p.handles {
		if _, ok := want[id]; !ok {
			if err := p.surface.Remove(h); err != nil {
				p.logger.Warn("Could not remove stale render handle", "id", id, "error", err)
			}
			delete(p.handles, id)
		}
	}
}

// Add creates and registers a render handle for a single new record.
func (p *Projection) Add(m core.Marker) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.handles[m.ID]; ok {
		return
	}
	p.placeLocked(m)
}

// UpdateLabel refreshes the label of an existing handle without
// recreating it. Unknown ids are a no-op.
func (p *Projection) UpdateLabel(id, name, description string) {
	p.mu.RLock()
	h, ok := p.handles[id]
	p.mu.RUnlock()
	if !ok {
		return
	}
	if err := p.surface.UpdateLabel(h, name, description); err != nil {
		p.logger.Warn("Could not update render label", "id", id, "error", err)
	}
}

// Remove destroys and deregisters the render handle for id. Unknown ids
// are a no-op.
func (p *Projection) Remove(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	h, ok := p.handles[id]
	if !ok {
		return
	}
	if err := p.surface.Remove(h); err != nil {
		p.logger.Warn("Could not remove render handle", "id", id, "error", err)
	}
	delete(p.handles, id)
}

// Clear destroys all render handles and empties the association.
func (p *Projection) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id, h := range p.handles {
		if err := p.surface.Remove(h); err != nil {
			p.logger.Warn("Could not remove render handle", "id", id, "error", err)
		}
		delete(p.handles, id)
	}
}

// Focus navigates the view to the marker's position and opens its detail
// display. Used by search.
func (p *Projection) Focus(id string) bool {
	p.mu.RLock()
	h, ok := p.handles[id]
	p.mu.RUnlock()
	if !ok {
		return false
	}
	p.surface.FlyTo(h.Position())
	p.surface.OpenPopup(h)
	return true
}

// IDs returns the set of marker ids that currently have render handles.
func (p *Projection) IDs() map[string]struct{} {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ids := make(map[string]struct{}, len(p.handles))
	for id := range p.handles {
		ids[id] = struct{}{}
	}
	return ids
}

// Len returns the number of registered render handles.
func (p *Projection) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.handles)
}

func (p *Projection) placeLocked(m core.Marker) {
	id := m.ID
	h, err := p.surface.Place(m, func() {
		if p.onActivate != nil {
			p.onActivate(id)
		}
	})
	if err != nil {
		p.logger.Warn("Could not place render handle", "id", id, "error", err)
		return
	}
	p.handles[id] = h
}
