package dialogue

import (
	"slices"
	"strings"
	"time"

	"scitech-bot/pkg/sentiment"
)

// Session is the per-conversation state. It is owned by a single conversation
// and mutated only by the Router; callers serialise turns themselves.
type Session struct {
	ID              string            `json:"session_id"`
	Greeted         bool              `json:"saludo"`
	AwaitingMood    bool              `json:"pregunta_estado"`
	LastTopic       TopicID           `json:"tema_actual,omitempty"`
	TopicsDiscussed []TopicID         `json:"temas_discutidos"`
	LastSentiment   *sentiment.Result `json:"ultimo_sentimiento,omitempty"`
	MessageCount    int               `json:"mensajes"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:              id,
		TopicsDiscussed: []TopicID{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// HasDiscussed reports whether topic was matched earlier in the session
func (s *Session) HasDiscussed(topic TopicID) bool {
	return slices.Contains(s.TopicsDiscussed, topic)
}

// TopicNames joins the discussed topics using the catalog display names
func (s *Session) TopicNames(c *Catalog) string {
	names := make([]string, len(s.TopicsDiscussed))
	for i, t := range s.TopicsDiscussed {
		names[i] = c.TopicName(t)
	}
	return strings.Join(names, ", ")
}

func (s *Session) markGreeted(askMood bool) {
	s.Greeted = true
	s.AwaitingMood = askMood
}

func (s *Session) rememberTopic(topic TopicID) {
	s.LastTopic = topic
	if !s.HasDiscussed(topic) {
		s.TopicsDiscussed = append(s.TopicsDiscussed, topic)
	}
}

// reset returns the conversation to the pre-greeting shape. The message
// counter and the last sentiment survive, they describe the session and not
// the dialogue.
func (s *Session) reset() {
	s.Greeted = false
	s.AwaitingMood = false
	s.LastTopic = ""
	s.TopicsDiscussed = []TopicID{}
}

// Clone returns a deep copy safe to hand out to readers
func (s *Session) Clone() *Session {
	out := *s
	out.TopicsDiscussed = slices.Clone(s.TopicsDiscussed)
	if out.TopicsDiscussed == nil {
		out.TopicsDiscussed = []TopicID{}
	}
	if s.LastSentiment != nil {
		r := *s.LastSentiment
		r.Probabilities = make(map[sentiment.Label]float64, len(s.LastSentiment.Probabilities))
		for k, v := range s.LastSentiment.Probabilities {
			r.Probabilities[k] = v
		}
		out.LastSentiment = &r
	}
	return &out
}
