package hub

import (
	"encoding/json"
	"errors"
)

// Client→server events.
const (
	EventSendMessage = "sendMessage"
)

// Server→client events.
const (
	EventUserOnline          = "userOnline"
	EventUserOffline         = "userOffline"
	EventReceiveMessage      = "receiveMessage"
	EventMessageError        = "messageError"
	EventNotificationNew     = "notification:new"
	EventAdminNotification   = "admin:notification:new"
	EventNotificationRead    = "notification:read"
	EventNotificationDeleted = "notification:deleted"
	EventUserUpdated         = "user:updated"
	EventUserDeleted         = "user:deleted"
	EventProjectDeleted      = "project:deleted"
)

// Envelope is the wire frame for every event in either direction.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Encode frames an event with its payload for transmission.
func Encode(event string, data any) ([]byte, error) {
	if event == "" {
		return nil, errors.New("missing event name")
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}

// Decode parses a received frame. Payload decoding into a concrete type is
// the caller's business.
func Decode(payload []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Envelope{}, err
	}
	if env.Event == "" {
		return Envelope{}, errors.New("missing event name")
	}
	return env, nil
}
