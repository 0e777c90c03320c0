package models

import "time"

// WebSocket message types pushed to connected clients.
const (
	WSTypeNotification  = "notification"
	WSTypeTrackingEvent = "tracking_event"
	WSTypeConnected     = "connected"
	WSTypeError         = "error"
)

// WSMessage is the envelope for every websocket push.
type WSMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
