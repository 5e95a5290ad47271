package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"scitech-bot/internal/repository/contract"
	"scitech-bot/pkg/dialogue"

	"github.com/redis/go-redis/v9"
)

const DefaultKeyPrefix = "scitech:session:"

// SessionRepository keeps sessions as JSON documents with a sliding TTL so
// several bot instances can share conversations.
type SessionRepository struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewSessionRepository(rdb *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{rdb: rdb, ttl: ttl, prefix: DefaultKeyPrefix}
}

func (r *SessionRepository) key(id string) string {
	return r.prefix + id
}

func (r *SessionRepository) Save(ctx context.Context, session *dialogue.Session) error {
	data, err := encodeSession(session)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, r.key(session.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.ID, err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*dialogue.Session, error) {
	data, err := r.rdb.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, contract.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	return decodeSession(data)
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	n, err := r.rdb.Del(ctx, r.key(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	if n == 0 {
		return contract.ErrSessionNotFound
	}
	return nil
}

// Count walks the key space with SCAN; it is meant for the stats endpoint,
// not for hot paths.
func (r *SessionRepository) Count(ctx context.Context) (int, error) {
	count := 0
	iter := r.rdb.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}

func encodeSession(s *dialogue.Session) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session %s: %w", s.ID, err)
	}
	return data, nil
}

func decodeSession(data []byte) (*dialogue.Session, error) {
	var s dialogue.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if s.TopicsDiscussed == nil {
		s.TopicsDiscussed = []dialogue.TopicID{}
	}
	return &s, nil
}
