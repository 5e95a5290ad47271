package events

import (
	"fmt"
	"time"
)

// Event is anything the chat publishes about a conversation: completed turns,
// rejected messages, session resets.
type Event interface {
	// EventType is the short code that also ends the NATS subject, e.g. "turn_completed".
	EventType() string

	// Payload is the JSON-ready body, with the Spanish field names clients see.
	Payload() map[string]interface{}

	Timestamp() time.Time
}

// BaseEvent is a chat event read back from the broker. Only the type and the
// timestamp are typed; the rest of the turn stays in Data as decoded JSON.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Field renders one payload value as text, "" when the key is absent
func Field(e Event, key string) string {
	v, ok := e.Payload()[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
