package controller

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/cartomark/cartomark/internal/exchange"
	"github.com/cartomark/cartomark/internal/geo"
	"github.com/cartomark/cartomark/internal/projection"
	"github.com/cartomark/cartomark/internal/store"
	"github.com/cartomark/cartomark/pkg/core"
)

// Notifier delivers user-facing messages raised by gestures, such as
// "nothing to export" or the outcome of an import.
type Notifier interface {
	Notify(message string)
}

// NopNotifier discards all messages.
type NopNotifier struct{}

func (NopNotifier) Notify(string) {}

// Dependencies holds all collaborators needed by the controller.
type Dependencies struct {
	Store      *store.Store
	Projection *projection.Projection
	Notifier   Notifier
	Logger     *slog.Logger
}

type formMode int

const (
	formAdd formMode = iota
	formEdit
)

// Form is the transient state of an open annotation form. In add mode
// Position carries the gesture location; in edit mode ID names the
// marker being edited and Name/Description carry its current values.
type Form struct {
	mode        formMode
	Position    core.Position2D
	ID          string
	Name        string
	Description string
}

// Editing reports whether the form targets an existing marker.
func (f Form) Editing() bool { return f.mode == formEdit }

// Controller translates user gestures into store mutations and keeps
// the projection and the selection consistent with the store. All
// methods are safe for concurrent use, though gestures normally arrive
// from a single input loop.
type Controller struct {
	mu       sync.Mutex
	deps     Dependencies
	selected string
	form     *Form
}

// New creates a controller and registers it as the projection's
// activation sink, so clicking a rendered marker selects it.
func New(deps Dependencies) *Controller {
	if deps.Notifier == nil {
		deps.Notifier = NopNotifier{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	c := &Controller{deps: deps}
	if deps.Projection != nil {
		deps.Projection.OnActivate(c.Activate)
	}
	return c
}

// Activate records id as the current selection. The projection calls
// this when a rendered marker is clicked.
func (c *Controller) Activate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = id
	c.deps.Logger.Debug("marker activated", "id", id)
}

// SelectedID returns the id of the currently selected marker, or an
// empty string when nothing is selected.
func (c *Controller) SelectedID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Form returns a snapshot of the open form and whether one is open.
func (c *Controller) Form() (Form, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.form == nil {
		return Form{}, false
	}
	return *c.form, true
}

// BeginAdd opens an empty form for a new marker at pos. The position
// is captured now and validated against the map bounds on submit.
func (c *Controller) BeginAdd(pos core.Position2D) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = &Form{mode: formAdd, Position: pos}
}

// BeginEdit opens a form prefilled with the marker's current values.
func (c *Controller) BeginEdit(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.deps.Store.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	c.form = &Form{
		mode:        formEdit,
		Position:    m.Position(),
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
	}
	c.selected = m.ID
	return nil
}

// Submit commits the open form. On validation failure the form stays
// open so the user can correct the input; the error is also surfaced
// through the notifier. A successful add selects the new marker.
func (c *Controller) Submit(name, description string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.form == nil {
		return fmt.Errorf("%w: no form open", store.ErrValidation)
	}

	switch c.form.mode {
	case formAdd:
		m, err := c.deps.Store.Create(c.form.Position, name, description)
		if err != nil {
			if errors.Is(err, store.ErrValidation) {
				c.deps.Notifier.Notify(err.Error())
			}
			return err
		}
		c.deps.Projection.Add(m)
		c.selected = m.ID
		c.form = nil
		c.deps.Logger.Info("marker added", "id", m.ID, "name", m.Name)
		return nil

	case formEdit:
		id := c.form.ID
		m, err := c.deps.Store.Update(id, name, description)
		if err != nil {
			if errors.Is(err, store.ErrValidation) {
				c.deps.Notifier.Notify(err.Error())
			}
			return err
		}
		c.deps.Projection.UpdateLabel(m.ID, m.Name, m.Description)
		c.form = nil
		c.deps.Logger.Info("marker updated", "id", m.ID, "name", m.Name)
		return nil
	}
	return nil
}

// Cancel discards the open form without touching the store.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = nil
}

// Delete removes the marker with the given id from the store and the
// projection. Deleting an unknown id is a no-op. A deleted marker is
// also deselected.
func (c *Controller) Delete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleteLocked(id)
}

// DeleteSelected deletes the currently selected marker, if any.
func (c *Controller) DeleteSelected() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selected == "" {
		return
	}
	c.deleteLocked(c.selected)
}

func (c *Controller) deleteLocked(id string) {
	c.deps.Store.Delete(id)
	c.deps.Projection.Remove(id)
	if c.selected == id {
		c.selected = ""
	}
	if c.form != nil && c.form.Editing() && c.form.ID == id {
		c.form = nil
	}
	c.deps.Logger.Info("marker deleted", "id", id)
}

// Search finds the first marker, in insertion order, whose name
// contains the query as a case-insensitive substring, selects it and
// asks the projection to navigate to it. It returns the matched
// marker's id, or an empty string when nothing matched.
func (c *Controller) Search(query string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return ""
	}

	m, ok := c.deps.Store.Find(func(m core.Marker) bool {
		return strings.Contains(strings.ToLower(m.Name), needle)
	})
	if !ok {
		c.deps.Notifier.Notify(fmt.Sprintf("no marker matches %q", query))
		return ""
	}

	c.selected = m.ID
	c.deps.Projection.Focus(m.ID)
	return m.ID
}

// Export serializes all markers into the versioned interchange
// document. When the store is empty it notifies the user and returns
// a nil document without error.
func (c *Controller) Export() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	markers := c.deps.Store.All()
	if len(markers) == 0 {
		c.deps.Notifier.Notify("no markers to export")
		return nil, nil
	}
	return exchange.Encode(markers)
}

// ExportGeoJSON serializes all markers as a GeoJSON FeatureCollection,
// optionally transformed into WGS84 through the calibration.
func (c *Controller) ExportGeoJSON(cal *geo.Calibration) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	markers := c.deps.Store.All()
	if len(markers) == 0 {
		c.deps.Notifier.Notify("no markers to export")
		return nil, nil
	}
	return exchange.EncodeGeoJSON(markers, cal)
}

// Import replaces the whole collection with the markers from an
// interchange document. Malformed documents leave the existing
// collection untouched; the error is surfaced through the notifier.
func (c *Controller) Import(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	markers, err := exchange.Decode(data)
	if err != nil {
		c.deps.Notifier.Notify(err.Error())
		return err
	}
	if err := c.deps.Store.ReplaceAll(markers); err != nil {
		c.deps.Notifier.Notify(err.Error())
		return err
	}
	c.selected = ""
	c.form = nil
	c.deps.Projection.Sync(c.deps.Store.All())
	c.deps.Notifier.Notify(fmt.Sprintf("imported %d markers", len(markers)))
	c.deps.Logger.Info("collection imported", "count", len(markers))
	return nil
}

// ClearAll deletes every marker from the store and the projection.
func (c *Controller) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.deps.Store.Clear()
	c.deps.Projection.Clear()
	c.selected = ""
	c.form = nil
	c.deps.Logger.Info("collection cleared")
}
