package memory

import (
	"context"
	"time"

	"scitech-bot/internal/repository/contract"
	"scitech-bot/pkg/dialogue"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

// NewSessionRepository keeps sessions for ttl since their last save. Expired
// entries are purged every third of the ttl.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionRepository{
		cache: cache.New(ttl, ttl/3),
	}
}

func (r *SessionRepository) Save(_ context.Context, session *dialogue.Session) error {
	r.cache.Set(session.ID, session.Clone(), cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(_ context.Context, sessionID string) (*dialogue.Session, error) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*dialogue.Session).Clone(), nil
	}
	return nil, contract.ErrSessionNotFound
}

func (r *SessionRepository) Delete(_ context.Context, sessionID string) error {
	if _, found := r.cache.Get(sessionID); !found {
		return contract.ErrSessionNotFound
	}
	r.cache.Delete(sessionID)
	return nil
}

func (r *SessionRepository) Count(_ context.Context) (int, error) {
	return r.cache.ItemCount(), nil
}
