package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"scitech-bot/internal/constant"
	"scitech-bot/internal/dto"
	"scitech-bot/internal/pkg/logger"
	"scitech-bot/internal/repository/contract"
	"scitech-bot/pkg/dialogue"
	"scitech-bot/pkg/events"
	"scitech-bot/pkg/nlp"
	"scitech-bot/pkg/sentiment"

	"github.com/google/uuid"
)

const (
	RuleAnalysis = "analysis"

	ReasonRateLimited = "rate_limited"

	minAnswerLength = 20
)

type IChatService interface {
	SendChat(ctx context.Context, channel string, request *dto.ChatRequest) (*dto.ChatResponse, error)
	Analyze(ctx context.Context, text string) (*dto.AnalysisResponse, error)
	GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	ResetSession(ctx context.Context, sessionID string) error
	Health(ctx context.Context) *dto.HealthResponse
}

// ChatDependencies are the collaborators of a turn. Analyzer, Classifier,
// Generator and Publisher may be nil.
type ChatDependencies struct {
	Router        *dialogue.Router
	Validator     *dialogue.Validator
	PostProcessor *dialogue.PostProcessor
	Tokenizer     nlp.Tokenizer
	Analyzer      nlp.Analyzer
	Classifier    sentiment.Classifier
	Generator     dialogue.Generator
	Sessions      contract.ISessionRepository
	Publisher     IPublisherService
	Logger        logger.ILogger
}

type ChatOptions struct {
	Mode                string
	EnhanceTopics       bool
	RateLimit           int
	CollaboratorTimeout time.Duration
}

type chatService struct {
	deps  ChatDependencies
	opts  ChatOptions
	locks *sessionLocks
	now   func() time.Time
}

func NewChatService(deps ChatDependencies, opts ChatOptions) IChatService {
	if deps.Validator == nil {
		deps.Validator = dialogue.NewValidator(0)
	}
	if deps.Classifier == nil {
		deps.Classifier = sentiment.Disabled{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}
	return &chatService{
		deps:  deps,
		opts:  opts,
		locks: newSessionLocks(),
		now:   time.Now,
	}
}

// SendChat runs one turn. Turns for the same session are serialised; a
// rejected or rate-limited message leaves the session untouched.
func (cs *chatService) SendChat(ctx context.Context, channel string, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	sessionID := strings.TrimSpace(request.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	unlock := cs.locks.lock(sessionID)
	defer unlock()

	session, err := cs.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if rejection := cs.deps.Validator.Validate(request.Mensaje); rejection != nil {
		cs.publish(ctx, cs.rejectedEvent(channel, session, request.Mensaje, rejection.Message, rejection.Reason))
		return cs.rejectedResponse(session, rejection.Message, rejection.Reason), nil
	}

	if cs.opts.RateLimit > 0 && session.MessageCount >= cs.opts.RateLimit {
		cs.deps.Logger.Warn("CHAT", "Session reached message limit", map[string]interface{}{
			"session_id": sessionID,
			"limit":      cs.opts.RateLimit,
		})
		cs.publish(ctx, cs.rejectedEvent(channel, session, request.Mensaje, constant.RateLimitMessage, ReasonRateLimited))
		return cs.rejectedResponse(session, constant.RateLimitMessage, ReasonRateLimited), nil
	}

	var (
		reply  dialogue.Reply
		result *sentiment.Result
	)

	if payload, ok := analyzeCommand(request.Mensaje); ok && session.Greeted {
		cs.deps.Router.Observe(session, nil)
		reply = dialogue.Reply{Text: cs.analysisReply(ctx, payload), Rule: RuleAnalysis}
	} else {
		result = cs.classify(ctx, request.Mensaje)
		tokens := cs.deps.Tokenizer.Tokenize(request.Mensaje)

		cs.deps.Router.Observe(session, result)
		reply = cs.deps.Router.Respond(tokens, session)

		answered := false
		if reply.Rule == dialogue.RuleTopic && cs.opts.EnhanceTopics {
			reply.Text, answered = cs.scienceAnswer(ctx, reply, request.Mensaje)
		}
		reply.Text = cs.postProcess(ctx, reply.Text, result, !answered)
	}

	session.UpdatedAt = cs.now()
	if err := cs.deps.Sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}

	cs.deps.Logger.Debug("CHAT", "Turn processed", map[string]interface{}{
		"session_id": sessionID,
		"rule":       reply.Rule,
		"topic":      string(reply.Topic),
		"messages":   session.MessageCount,
	})

	cs.publish(ctx, cs.turnEvent(channel, session, request.Mensaje, reply, result))

	res := cs.baseResponse(session, reply.Text)
	res.Regla = reply.Rule
	res.Sentimiento = toSentimentDTO(result)
	return res, nil
}

func (cs *chatService) loadSession(ctx context.Context, id string) (*dialogue.Session, error) {
	session, err := cs.deps.Sessions.Get(ctx, id)
	if errors.Is(err, contract.ErrSessionNotFound) {
		return dialogue.NewSession(id), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	return session, nil
}

func (cs *chatService) collaboratorContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if cs.opts.CollaboratorTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, cs.opts.CollaboratorTimeout)
}

func (cs *chatService) classify(ctx context.Context, text string) *sentiment.Result {
	if !cs.deps.Classifier.Available() {
		return nil
	}
	cctx, cancel := cs.collaboratorContext(ctx)
	defer cancel()

	res := cs.deps.Classifier.Classify(cctx, text)
	return &res
}

func (cs *chatService) postProcess(ctx context.Context, base string, result *sentiment.Result, allowGeneration bool) string {
	if cs.deps.PostProcessor == nil {
		if strings.TrimSpace(base) == "" {
			return dialogue.DefaultReply
		}
		return base
	}
	cctx, cancel := cs.collaboratorContext(ctx)
	defer cancel()
	return cs.deps.PostProcessor.Process(cctx, base, result, allowGeneration)
}

// scienceAnswer asks the generator for a fuller topic answer, handing it the
// routed reply as context. The routed reply is kept when nothing usable comes back.
func (cs *chatService) scienceAnswer(ctx context.Context, reply dialogue.Reply, question string) (string, bool) {
	gen := cs.deps.Generator
	if gen == nil || !gen.Available() {
		return reply.Text, false
	}

	prompt := fmt.Sprintf(constant.ScienceAnswerPrompt, cs.deps.Router.Catalog().TopicName(reply.Topic), question) +
		fmt.Sprintf(constant.ScienceAnswerContext, reply.Text) +
		constant.ScienceAnswerSuffix

	cctx, cancel := cs.collaboratorContext(ctx)
	defer cancel()

	answer, ok := gen.Generate(cctx, prompt)
	answer = strings.TrimSpace(answer)
	if !ok || utf8.RuneCountInString(answer) < minAnswerLength {
		return reply.Text, false
	}
	return answer, true
}

func analyzeCommand(message string) (string, bool) {
	trimmed := strings.TrimSpace(message)
	for _, prefix := range []string{constant.AnalyzeCommandES, constant.AnalyzeCommandEN} {
		if len(trimmed) >= len(prefix) && strings.EqualFold(trimmed[:len(prefix)], prefix) {
			return strings.TrimSpace(trimmed[len(prefix):]), true
		}
	}
	return "", false
}

func (cs *chatService) analysisReply(ctx context.Context, payload string) string {
	if payload == "" {
		return constant.AnalyzeEmptyHint
	}
	res, err := cs.Analyze(ctx, payload)
	if err != nil {
		return constant.AnalyzeUnavailableHint
	}
	return res.Tabla
}

func (cs *chatService) Analyze(ctx context.Context, text string) (*dto.AnalysisResponse, error) {
	if cs.deps.Analyzer == nil || !cs.deps.Analyzer.Available() {
		return nil, nlp.ErrAnalyzerUnavailable
	}

	cctx, cancel := cs.collaboratorContext(ctx)
	defer cancel()

	records, err := cs.deps.Analyzer.Analyze(cctx, text)
	if err != nil {
		cs.deps.Logger.Warn("ANALYZER", "Analysis failed", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	if records == nil {
		records = []nlp.TokenRecord{}
	}

	return &dto.AnalysisResponse{
		Analisis: records,
		Tabla:    nlp.FormatTable(records),
	}, nil
}

func (cs *chatService) GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	session, err := cs.deps.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &dto.SessionResponse{
		SessionID:       session.ID,
		Saludo:          session.Greeted,
		PreguntaEstado:  session.AwaitingMood,
		TemaActual:      string(session.LastTopic),
		TemasDiscutidos: topicStrings(session.TopicsDiscussed),
		Mensajes:        session.MessageCount,
		Sentimiento:     toSentimentDTO(session.LastSentiment),
		CreatedAt:       session.CreatedAt,
		UpdatedAt:       session.UpdatedAt,
	}, nil
}

func (cs *chatService) ResetSession(ctx context.Context, sessionID string) error {
	unlock := cs.locks.lock(sessionID)
	defer unlock()

	if err := cs.deps.Sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	cs.publish(ctx, events.TurnEvent{
		Type:       events.TypeSessionReset,
		SessionID:  sessionID,
		OccurredAt: cs.now(),
	})
	return nil
}

func (cs *chatService) Health(_ context.Context) *dto.HealthResponse {
	return &dto.HealthResponse{
		Status:   "ok",
		Bot:      constant.BotName,
		Version:  constant.BotVersion,
		Modo:     cs.opts.Mode,
		Catalogo: cs.deps.Router.Catalog().ID,
		Colaboradores: map[string]bool{
			"sentimiento": cs.deps.Classifier.Available(),
			"generador":   cs.deps.Generator != nil && cs.deps.Generator.Available(),
			"analizador":  cs.deps.Analyzer != nil && cs.deps.Analyzer.Available(),
		},
	}
}

func (cs *chatService) publish(ctx context.Context, event events.TurnEvent) {
	if cs.deps.Publisher == nil {
		return
	}
	if err := cs.deps.Publisher.Publish(ctx, event); err != nil {
		cs.deps.Logger.Warn("CHAT", "Failed to publish turn event", map[string]interface{}{
			"error":      err.Error(),
			"session_id": event.SessionID,
		})
	}
}

func (cs *chatService) turnEvent(channel string, s *dialogue.Session, message string, reply dialogue.Reply, result *sentiment.Result) events.TurnEvent {
	ev := events.TurnEvent{
		Type:         events.TypeTurnCompleted,
		SessionID:    s.ID,
		Channel:      channel,
		Message:      message,
		Reply:        reply.Text,
		Rule:         reply.Rule,
		Topic:        string(reply.Topic),
		MessageCount: s.MessageCount,
		OccurredAt:   cs.now(),
	}
	if result != nil {
		ev.Sentiment = string(result.Label)
		ev.Confidence = result.Confidence
	}
	return ev
}

func (cs *chatService) rejectedEvent(channel string, s *dialogue.Session, message, reply, reason string) events.TurnEvent {
	return events.TurnEvent{
		Type:         events.TypeMessageRejected,
		SessionID:    s.ID,
		Channel:      channel,
		Message:      message,
		Reply:        reply,
		Rejection:    reason,
		MessageCount: s.MessageCount,
		OccurredAt:   cs.now(),
	}
}

func (cs *chatService) baseResponse(s *dialogue.Session, reply string) *dto.ChatResponse {
	return &dto.ChatResponse{
		SessionID:       s.ID,
		Respuesta:       reply,
		TemaActual:      string(s.LastTopic),
		TemasDiscutidos: topicStrings(s.TopicsDiscussed),
		Mensajes:        s.MessageCount,
	}
}

func (cs *chatService) rejectedResponse(s *dialogue.Session, reply, reason string) *dto.ChatResponse {
	res := cs.baseResponse(s, reply)
	res.Rechazo = reason
	return res
}

func topicStrings(topics []dialogue.TopicID) []string {
	out := make([]string, len(topics))
	for i, t := range topics {
		out[i] = string(t)
	}
	return out
}

func toSentimentDTO(r *sentiment.Result) *dto.SentimentDTO {
	if r == nil {
		return nil
	}
	return &dto.SentimentDTO{
		Label:       string(r.Label),
		Confianza:   r.Confidence,
		Descripcion: r.Description(),
		Tono:        string(sentiment.ToneFor(*r)),
	}
}
