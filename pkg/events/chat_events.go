package events

import "time"

const (
	TypeTurnCompleted   = "turn_completed"
	TypeMessageRejected = "message_rejected"
	TypeSessionReset    = "session_reset"
)

// Channels a turn can arrive through
const (
	ChannelHTTP      = "http"
	ChannelWebsocket = "ws"
	ChannelConsole   = "console"
)

// TurnEvent describes one processed chat message. Rejected turns carry the
// rejection reason and no rule.
type TurnEvent struct {
	Type         string    `json:"type"`
	SessionID    string    `json:"session_id"`
	Channel      string    `json:"channel"`
	Message      string    `json:"mensaje"`
	Reply        string    `json:"respuesta"`
	Rule         string    `json:"regla,omitempty"`
	Topic        string    `json:"tema,omitempty"`
	Sentiment    string    `json:"sentimiento,omitempty"`
	Confidence   float64   `json:"confianza,omitempty"`
	Rejection    string    `json:"rechazo,omitempty"`
	MessageCount int       `json:"mensajes"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func (e TurnEvent) EventType() string {
	return e.Type
}

func (e TurnEvent) Payload() map[string]interface{} {
	p := map[string]interface{}{
		"session_id":  e.SessionID,
		"channel":     e.Channel,
		"mensaje":     e.Message,
		"respuesta":   e.Reply,
		"mensajes":    e.MessageCount,
		"occurred_at": e.OccurredAt.Format(time.RFC3339Nano),
	}
	if e.Rule != "" {
		p["regla"] = e.Rule
	}
	if e.Topic != "" {
		p["tema"] = e.Topic
	}
	if e.Sentiment != "" {
		p["sentimiento"] = e.Sentiment
		p["confianza"] = e.Confidence
	}
	if e.Rejection != "" {
		p["rechazo"] = e.Rejection
	}
	return p
}

func (e TurnEvent) Timestamp() time.Time {
	return e.OccurredAt
}
