package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestField(t *testing.T) {
	turn := TurnEvent{
		Type:         TypeTurnCompleted,
		SessionID:    "s1",
		Message:      "háblame de marte",
		Rule:         "topic",
		MessageCount: 3,
		OccurredAt:   time.Now(),
	}
	decoded := BaseEvent{
		Type: TypeMessageRejected,
		Data: map[string]interface{}{"rechazo": "numeric_only", "mensajes": float64(2), "tema": nil},
	}

	tests := []struct {
		name  string
		event Event
		key   string
		want  string
	}{
		{"string value", turn, "mensaje", "háblame de marte"},
		{"number value", turn, "mensajes", "3"},
		{"omitted key", turn, "rechazo", ""},
		{"decoded string", decoded, "rechazo", "numeric_only"},
		{"decoded number", decoded, "mensajes", "2"},
		{"null value", decoded, "tema", ""},
		{"no data", BaseEvent{Type: TypeSessionReset}, "session_id", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Field(tt.event, tt.key))
		})
	}
}
