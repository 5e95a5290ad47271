package bootstrap

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"scitech-bot/internal/config"
	"scitech-bot/internal/controller"
	"scitech-bot/internal/pkg/logger"
	"scitech-bot/internal/repository/contract"
	"scitech-bot/internal/repository/memory"
	"scitech-bot/internal/repository/redisstore"
	"scitech-bot/internal/service"
	"scitech-bot/internal/websocket"
	"scitech-bot/pkg/dialogue"
	"scitech-bot/pkg/llm"
	"scitech-bot/pkg/llm/factory"
	"scitech-bot/pkg/nlp"
	"scitech-bot/pkg/sentiment"

	pktNats "scitech-bot/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	Config *config.Config
	Logger logger.ILogger

	// Controllers
	ChatController      controller.IChatController
	SessionController   controller.ISessionController
	SystemController    controller.ISystemController
	WebSocketController controller.IWebSocketController

	// Services, exposed for the console client
	ChatService  service.IChatService
	StatsService service.IStatsService

	// Background Services (started by Start)
	ConsumerService service.IConsumerService
	WebSocketHub    *websocket.Hub

	closers []func()
}

func NewContainer(cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.New(logger.Options{
		FilePath: cfg.App.LogFilePath,
		Prod:     cfg.IsProduction(),
		Debug:    cfg.App.Debug,
		Console:  cfg.App.ConsoleLogs,
	})
	c := &Container{Config: cfg, Logger: sysLogger}

	catalog, err := dialogue.LoadCatalog(cfg.Chatbot.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	// 2. Language collaborators
	tokenizer := nlp.NewWordTokenizer()
	var analyzer nlp.Analyzer = nlp.NewRuleAnalyzer()
	if cfg.Chatbot.AnalyzerURL != "" {
		analyzer = &nlp.FallbackAnalyzer{
			Primary:   nlp.NewRemoteAnalyzer(cfg.Chatbot.AnalyzerURL, cfg.Limits.CollaboratorTimeout),
			Secondary: analyzer,
		}
		log.Printf("[INFO] Using remote analyzer at %s with built-in fallback", cfg.Chatbot.AnalyzerURL)
	}

	llmProvider := newLLMProvider(cfg, sysLogger)
	genOptions := []llm.Option{
		llm.WithTemperature(cfg.LLM.Temperature),
		llm.WithTopP(cfg.LLM.TopP),
		llm.WithMaxTokens(cfg.LLM.MaxTokens),
	}
	rewriter := llm.NewGenerator(llmProvider, cfg.LLM.Enabled, sysLogger, genOptions...)
	answerer := llm.NewGenerator(llmProvider, cfg.LLM.UseForEnhancement, sysLogger, genOptions...)

	var classifier sentiment.Classifier = sentiment.Disabled{}
	if cfg.Sentiment.Enabled {
		if cfg.Sentiment.Provider == "llm" && llmProvider != nil {
			classifier = sentiment.NewLLMClassifier(llmProvider, sysLogger)
			log.Printf("[INFO] Using Sentiment Classifier: LLM (%s)", llmProvider.Name())
		} else {
			classifier = sentiment.NewLexiconClassifier(tokenizer)
			log.Printf("[INFO] Using Sentiment Classifier: LEXICON")
		}
	}

	// 3. Sessions
	var sessionRepo contract.ISessionRepository = memory.NewSessionRepository(cfg.Session.TTL)
	var rdb *redis.Client
	if cfg.Session.Store == "redis" {
		rdb = connectRedis(cfg.Session.RedisURL)
		if rdb != nil {
			sessionRepo = redisstore.NewSessionRepository(rdb, cfg.Session.TTL)
			c.closers = append(c.closers, func() { _ = rdb.Close() })
			log.Printf("[INFO] Using Session Store: REDIS")
		} else {
			log.Printf("[WARN] Falling back to in-memory session store")
		}
	}

	// 4. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		logger.NewWatermillAdapter(sysLogger, cfg.App.Debug),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	var forwarder service.EventForwarder
	if cfg.Events.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.Events.NatsURL, cfg.Events.Topic)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			forwarder = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	// 5. WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(filepath.Join(filepath.Dir(cfg.App.LogFilePath), "websocket.log"))
	c.WebSocketHub = websocket.NewHub(rdb, wsLogger)

	// 6. Services
	publisherService := service.NewPublisherService(cfg.Events.Topic, pubSub)
	c.StatsService = service.NewStatsService(sessionRepo, sysLogger)
	c.ConsumerService = service.NewConsumerService(
		pubSub,
		cfg.Events.Topic,
		c.StatsService,
		forwarder,
		c.WebSocketHub,
		sysLogger,
	)

	c.ChatService = service.NewChatService(service.ChatDependencies{
		Router:        dialogue.NewRouter(catalog),
		Validator:     dialogue.NewValidator(cfg.Limits.MaxMessageLength),
		PostProcessor: dialogue.NewPostProcessor(cfg.Sentiment.Enabled && cfg.Sentiment.AdaptTone, cfg.Sentiment.MinConfidence, rewriter),
		Tokenizer:     tokenizer,
		Analyzer:      analyzer,
		Classifier:    classifier,
		Generator:     answerer,
		Sessions:      sessionRepo,
		Publisher:     publisherService,
		Logger:        sysLogger,
	}, service.ChatOptions{
		Mode:                cfg.Chatbot.Mode,
		EnhanceTopics:       cfg.LLM.UseForEnhancement,
		RateLimit:           cfg.Limits.RateLimitMessages,
		CollaboratorTimeout: cfg.Limits.CollaboratorTimeout,
	})

	// 7. Controllers
	c.ChatController = controller.NewChatController(c.ChatService)
	c.SessionController = controller.NewSessionController(c.ChatService)
	c.SystemController = controller.NewSystemController(cfg, c.ChatService, c.StatsService, sysLogger)
	c.WebSocketController = controller.NewWebSocketController(c.WebSocketHub, c.ChatService)

	sysLogger.Info("BOOTSTRAP", "Container ready", map[string]interface{}{
		"mode":      cfg.Chatbot.Mode,
		"catalog":   catalog.ID,
		"sentiment": classifier.Available(),
		"rewriter":  rewriter.Available(),
		"answerer":  answerer.Available(),
		"analyzer":  analyzer.Available(),
	})

	return c, nil
}

// Start launches the event consumer and the websocket hub; both stop with ctx
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)
	return c.ConsumerService.Consume(ctx)
}

// Close releases external connections in reverse order of creation
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}

// newLLMProvider returns nil when no feature needs a model or the provider
// cannot be built; callers degrade to rule-only replies.
func newLLMProvider(cfg *config.Config, log logger.ILogger) llm.LLMProvider {
	needed := cfg.LLM.Enabled || cfg.LLM.UseForEnhancement || (cfg.Sentiment.Enabled && cfg.Sentiment.Provider == "llm")
	if !needed {
		return nil
	}

	provider, err := factory.NewLLMProvider(factory.Settings{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
		APIKey:   cfg.LLM.APIKey(),
	})
	if err != nil {
		log.Warn("BOOTSTRAP", "LLM provider unavailable, continuing without generation", map[string]interface{}{
			"provider": cfg.LLM.Provider,
			"error":    err.Error(),
		})
		return nil
	}
	log.Info("BOOTSTRAP", "Using LLM Provider", map[string]interface{}{
		"provider": provider.Name(),
		"model":    cfg.LLM.Model,
	})
	return provider
}

func connectRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		_ = rdb.Close()
		return nil
	}
	return rdb
}
