package contract

import (
	"context"
	"errors"

	"scitech-bot/pkg/dialogue"
)

var ErrSessionNotFound = errors.New("session not found")

// ISessionRepository stores conversation state between turns. Get returns
// ErrSessionNotFound for unknown or expired sessions.
type ISessionRepository interface {
	Get(ctx context.Context, id string) (*dialogue.Session, error)
	Save(ctx context.Context, session *dialogue.Session) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
