// Package ws renders markers on a remote map viewer over a WebSocket.
// Outgoing messages carry placement and navigation commands; the viewer
// sends activate messages back when the user clicks a marker.
package ws

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cartomark/cartomark/internal/projection"
	"github.com/cartomark/cartomark/pkg/core"
	"github.com/cartomark/cartomark/pkg/streaming"
)

// Config holds WebSocket surface configuration.
type Config struct {
	URL    string
	Secret string
}

type handle struct {
	id  string
	pos core.Position2D
}

func (h *handle) Position() core.Position2D { return h.pos }

// Surface implements projection.RenderSurface against a remote viewer.
type Surface struct {
	mu        sync.Mutex
	conn      *connection
	cfg       Config
	activates map[string]func()
	logger    *slog.Logger
}

// New creates a WebSocket render surface.
func New(cfg Config, logger *slog.Logger) *Surface {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Surface{
		conn:      newConnection(logger),
		cfg:       cfg,
		activates: make(map[string]func()),
		logger:    logger,
	}
	s.conn.onActivate = s.handleActivate
	return s
}

// Open connects to the viewer.
func (s *Surface) Open() error {
	return s.conn.dial(s.cfg.URL, s.cfg.Secret)
}

// Close disconnects from the viewer.
func (s *Surface) Close() error {
	return s.conn.close()
}

// marshalEnvelope builds a JSON-encoded Envelope from a message type and payload.
func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	env := streaming.Envelope{Type: msgType, Payload: raw}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

// sendEnvelope marshals the payload into an Envelope and pushes it
// to the write loop (fire-and-forget).
func (s *Surface) sendEnvelope(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	s.conn.send(data)
	return nil
}

// SyncCollection sends the full collection and waits for the viewer to
// acknowledge. The message is cached for replay after a reconnect.
func (s *Surface) SyncCollection(markers []core.Marker) error {
	data, err := marshalEnvelope(streaming.TypeSyncCollection,
		streaming.SyncCollectionPayload{Markers: markers})
	if err != nil {
		return err
	}

	s.conn.mu.Lock()
	s.conn.cachedSyncMsg = data
	s.conn.mu.Unlock()

	return s.conn.sendAndWait(data, streaming.TypeSyncCollection, ackTimeout)
}

// Place renders one marker on the viewer and registers its activation
// callback for incoming click messages.
func (s *Surface) Place(m core.Marker, activate func()) (projection.Handle, error) {
	if err := s.sendEnvelope(streaming.TypePlaceMarker, streaming.PlaceMarkerPayload{Marker: m}); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.activates[m.ID] = activate
	s.mu.Unlock()

	return &handle{id: m.ID, pos: m.Position()}, nil
}

// UpdateLabel retitles a rendered marker in place.
func (s *Surface) UpdateLabel(h projection.Handle, name, description string) error {
	wh, ok := h.(*handle)
	if !ok {
		return fmt.Errorf("foreign handle %T", h)
	}
	return s.sendEnvelope(streaming.TypeUpdateLabel, streaming.UpdateLabelPayload{
		ID:          wh.id,
		Name:        name,
		Description: description,
	})
}

// Remove removes a rendered marker and drops its activation callback.
func (s *Surface) Remove(h projection.Handle) error {
	wh, ok := h.(*handle)
	if !ok {
		return fmt.Errorf("foreign handle %T", h)
	}

	s.mu.Lock()
	delete(s.activates, wh.id)
	s.mu.Unlock()

	return s.sendEnvelope(streaming.TypeRemoveMarker, streaming.RemoveMarkerPayload{ID: wh.id})
}

// FlyTo pans the viewer to a position.
func (s *Surface) FlyTo(pos core.Position2D) {
	if err := s.sendEnvelope(streaming.TypeFlyTo, streaming.FlyToPayload{Lat: pos.Lat, Lng: pos.Lng}); err != nil {
		s.logger.Warn("fly_to send failed", "error", err)
	}
}

// OpenPopup opens the popup of a rendered marker.
func (s *Surface) OpenPopup(h projection.Handle) {
	wh, ok := h.(*handle)
	if !ok {
		return
	}
	if err := s.sendEnvelope(streaming.TypeOpenPopup, streaming.OpenPopupPayload{ID: wh.id}); err != nil {
		s.logger.Warn("open_popup send failed", "error", err)
	}
}

func (s *Surface) handleActivate(id string) {
	s.mu.Lock()
	fn := s.activates[id]
	s.mu.Unlock()

	if fn == nil {
		s.logger.Debug("activate for unknown marker", "id", id)
		return
	}
	fn()
}

var _ projection.RenderSurface = (*Surface)(nil)
