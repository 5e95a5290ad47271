package service

import (
	"context"
	"maps"
	"sync"

	"scitech-bot/internal/dto"
	"scitech-bot/internal/pkg/logger"
	"scitech-bot/internal/repository/contract"
	"scitech-bot/pkg/events"
)

// IStatsService aggregates turn events into counters for /api/stats
type IStatsService interface {
	Record(event events.TurnEvent)
	GetStats(ctx context.Context) (*dto.StatsResponse, error)
}

type statsService struct {
	mu          sync.Mutex
	turns       int
	rejections  map[string]int
	rules       map[string]int
	topics      map[string]int
	sentiments  map[string]int
	sessionRepo contract.ISessionRepository
	logger      logger.ILogger
}

func NewStatsService(sessionRepo contract.ISessionRepository, log logger.ILogger) IStatsService {
	return &statsService{
		rejections:  make(map[string]int),
		rules:       make(map[string]int),
		topics:      make(map[string]int),
		sentiments:  make(map[string]int),
		sessionRepo: sessionRepo,
		logger:      log,
	}
}

func (s *statsService) Record(event events.TurnEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch event.Type {
	case events.TypeMessageRejected:
		s.rejections[event.Rejection]++
	case events.TypeTurnCompleted:
		s.turns++
		if event.Rule != "" {
			s.rules[event.Rule]++
		}
		if event.Topic != "" {
			s.topics[event.Topic]++
		}
		if event.Sentiment != "" {
			s.sentiments[event.Sentiment]++
		}
	}
}

func (s *statsService) GetStats(ctx context.Context) (*dto.StatsResponse, error) {
	active, err := s.sessionRepo.Count(ctx)
	if err != nil {
		s.logger.Warn("STATS", "Failed to count sessions", map[string]interface{}{"error": err.Error()})
		active = -1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return &dto.StatsResponse{
		Turnos:          s.turns,
		Rechazos:        maps.Clone(s.rejections),
		Reglas:          maps.Clone(s.rules),
		Temas:           maps.Clone(s.topics),
		Sentimientos:    maps.Clone(s.sentiments),
		SesionesActivas: active,
	}, nil
}
