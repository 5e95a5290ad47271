package redisstore

import (
	"context"
	"os"
	"testing"
	"time"

	"scitech-bot/internal/repository/contract"
	"scitech-bot/pkg/dialogue"
	"scitech-bot/pkg/sentiment"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeSession(t *testing.T) {
	s := dialogue.NewSession("abc")
	s.Greeted = true
	s.LastTopic = dialogue.TopicEnergy
	s.TopicsDiscussed = []dialogue.TopicID{dialogue.TopicAI, dialogue.TopicEnergy}
	s.MessageCount = 3
	s.LastSentiment = &sentiment.Result{
		Label:         sentiment.Positive,
		Probabilities: map[sentiment.Label]float64{sentiment.Positive: 0.8, sentiment.Negative: 0.1, sentiment.Neutral: 0.1},
		Confidence:    0.8,
	}

	data, err := encodeSession(s)
	require.NoError(t, err)

	got, err := decodeSession(data)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.True(t, got.Greeted)
	assert.Equal(t, dialogue.TopicEnergy, got.LastTopic)
	assert.Equal(t, s.TopicsDiscussed, got.TopicsDiscussed)
	assert.Equal(t, 3, got.MessageCount)
	require.NotNil(t, got.LastSentiment)
	assert.Equal(t, sentiment.Positive, got.LastSentiment.Label)
}

func TestDecodeSession_NullTopics(t *testing.T) {
	got, err := decodeSession([]byte(`{"session_id":"x","saludo":false,"temas_discutidos":null}`))
	require.NoError(t, err)
	assert.NotNil(t, got.TopicsDiscussed)
	assert.Empty(t, got.TopicsDiscussed)
}

func TestDecodeSession_Garbage(t *testing.T) {
	_, err := decodeSession([]byte("not json"))
	assert.Error(t, err)
}

// Runs against a live server only when REDIS_TEST_URL is set
func TestSessionRepository_Live(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opt)
	defer rdb.Close()

	ctx := context.Background()
	repo := NewSessionRepository(rdb, time.Minute)
	id := uuid.NewString()

	_, err = repo.Get(ctx, id)
	assert.ErrorIs(t, err, contract.ErrSessionNotFound)

	s := dialogue.NewSession(id)
	s.Greeted = true
	require.NoError(t, repo.Save(ctx, s))

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.Greeted)

	require.NoError(t, repo.Delete(ctx, id))
	assert.ErrorIs(t, repo.Delete(ctx, id), contract.ErrSessionNotFound)
}
