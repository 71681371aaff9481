package streaming

import (
	"encoding/json"

	"github.com/cartomark/cartomark/pkg/core"
)

// Message type constants matching the viewer protocol.
const (
	TypeSyncCollection = "sync_collection"
	TypePlaceMarker    = "place_marker"
	TypeUpdateLabel    = "update_label"
	TypeRemoveMarker   = "remove_marker"
	TypeFlyTo          = "fly_to"
	TypeOpenPopup      = "open_popup"
	TypeActivate       = "activate"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckMessage is the viewer's acknowledgement response.
type AckMessage struct {
	Type string `json:"type"` // always "ack"
	For  string `json:"for"`  // the message type being acknowledged
}

// ActivateMessage is sent by the viewer when the user clicks a
// rendered marker.
type ActivateMessage struct {
	Type string `json:"type"` // always "activate"
	ID   string `json:"id"`
}

// SyncCollectionPayload carries the full collection, sent on connect
// and replayed after a reconnect.
type SyncCollectionPayload struct {
	Markers []core.Marker `json:"markers"`
}

// PlaceMarkerPayload renders one new marker.
type PlaceMarkerPayload struct {
	Marker core.Marker `json:"marker"`
}

// UpdateLabelPayload retitles a rendered marker in place.
type UpdateLabelPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RemoveMarkerPayload removes one rendered marker.
type RemoveMarkerPayload struct {
	ID string `json:"id"`
}

// FlyToPayload pans the viewer to a position.
type FlyToPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// OpenPopupPayload opens the popup of a rendered marker.
type OpenPopupPayload struct {
	ID string `json:"id"`
}
