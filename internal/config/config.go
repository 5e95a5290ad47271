package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Operation modes decide which optional collaborators are switched on
const (
	ModeBasic     = "basic"
	ModeSentiment = "sentiment"
	ModeLLM       = "llm"
	ModeHybrid    = "hybrid"
)

type ModeSettings struct {
	Sentiment   bool
	LLM         bool
	Description string
}

var modes = map[string]ModeSettings{
	ModeBasic:     {Sentiment: false, LLM: false, Description: "Modo básico con respuestas predefinidas"},
	ModeSentiment: {Sentiment: true, LLM: false, Description: "Modo con análisis de sentimientos"},
	ModeLLM:       {Sentiment: false, LLM: true, Description: "Modo con generación LLM (requiere GPU)"},
	ModeHybrid:    {Sentiment: true, LLM: false, Description: "Modo híbrido: sentimientos + respuestas base"},
}

// ResolveMode returns the settings for mode, falling back to hybrid for unknown names
func ResolveMode(mode string) (string, ModeSettings) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if s, ok := modes[mode]; ok {
		return mode, s
	}
	return ModeHybrid, modes[ModeHybrid]
}

type Config struct {
	App       AppConfig
	Chatbot   ChatbotConfig
	Sentiment SentimentConfig
	LLM       LLMConfig
	Session   SessionConfig
	Events    EventsConfig
	Limits    LimitsConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	ConsoleLogs        bool
	CorsAllowedOrigins string
	Debug              bool
	OtelEnabled        bool
	OtelEndpoint       string
}

type ChatbotConfig struct {
	Mode        string
	Description string
	Catalog     string
	AnalyzerURL string
}

type SentimentConfig struct {
	Enabled       bool
	Provider      string // "lexicon" or "llm"
	MinConfidence float64
	AdaptTone     bool
}

type LLMConfig struct {
	Enabled            bool
	Provider           string // "ollama", "huggingface", "gemini", "openai"
	Model              string
	BaseURL            string
	UseForEnhancement  bool
	Temperature        float64
	TopP               float64
	MaxTokens          int
	HuggingFaceToken   string
	GoogleGeminiAPIKey string
	OpenAIAPIKey       string
}

type SessionConfig struct {
	Store    string // "memory" or "redis"
	RedisURL string
	TTL      time.Duration
}

type EventsConfig struct {
	NatsURL string
	Topic   string
}

type LimitsConfig struct {
	MaxMessageLength    int
	RateLimitMessages   int
	CollaboratorTimeout time.Duration
}

// ApplyMode switches the operation mode and the collaborators it enables
func (c *Config) ApplyMode(mode string) {
	name, settings := ResolveMode(mode)
	c.Chatbot.Mode = name
	c.Chatbot.Description = settings.Description
	c.Sentiment.Enabled = settings.Sentiment
	c.LLM.Enabled = settings.LLM
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	mode, settings := ResolveMode(getEnv("OPERATION_MODE", ModeHybrid))

	cfg := &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "scitech-bot.log"),
			ConsoleLogs:        getEnvAsBool("LOG_TO_CONSOLE", true),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			Debug:              getEnvAsBool("DEBUG_MODE", false),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		Chatbot: ChatbotConfig{
			Mode:        mode,
			Description: settings.Description,
			Catalog:     getEnv("CATALOG", "scitech"),
			AnalyzerURL: getEnv("ANALYZER_URL", ""),
		},
		Sentiment: SentimentConfig{
			Enabled:       settings.Sentiment,
			Provider:      getEnv("SENTIMENT_PROVIDER", "lexicon"),
			MinConfidence: getEnvAsFloat("SENTIMENT_MIN_CONFIDENCE", 0.6),
			AdaptTone:     getEnvAsBool("SENTIMENT_ADAPT_TONE", true),
		},
		LLM: LLMConfig{
			Enabled:            settings.LLM,
			Provider:           getEnv("LLM_PROVIDER", "huggingface"),
			Model:              getEnv("LLM_MODEL", ""),
			BaseURL:            getEnv("LLM_BASE_URL", getEnv("OLLAMA_BASE_URL", "")),
			UseForEnhancement:  getEnvAsBool("LLM_USE_FOR_ENHANCEMENT", false),
			Temperature:        getEnvAsFloat("LLM_TEMPERATURE", 0.7),
			TopP:               getEnvAsFloat("LLM_TOP_P", 0.9),
			MaxTokens:          getEnvAsInt("LLM_MAX_TOKENS", 300),
			HuggingFaceToken:   getEnv("HUGGINGFACE_TOKEN", ""),
			GoogleGeminiAPIKey: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		},
		Session: SessionConfig{
			Store:    getEnv("SESSION_STORE", "memory"),
			RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),
			TTL:      getEnvAsDuration("SESSION_TTL", 1800*time.Second),
		},
		Events: EventsConfig{
			NatsURL: getEnv("NATS_URL", ""),
			Topic:   getEnv("EVENTS_TOPIC", "chat.turns"),
		},
		Limits: LimitsConfig{
			MaxMessageLength:    getEnvAsInt("MAX_MESSAGE_LENGTH", 1000),
			RateLimitMessages:   getEnvAsInt("RATE_LIMIT_MESSAGES", 100),
			CollaboratorTimeout: getEnvAsDuration("COLLABORATOR_TIMEOUT", 20*time.Second),
		},
	}

	return cfg
}

// APIKey returns the credential of the configured LLM provider
func (c LLMConfig) APIKey() string {
	switch c.Provider {
	case "huggingface":
		return c.HuggingFaceToken
	case "gemini":
		return c.GoogleGeminiAPIKey
	case "openai":
		return c.OpenAIAPIKey
	}
	return ""
}

// Summary mirrors the configuration overview exposed by /api/config and the console
func (c *Config) Summary() map[string]interface{} {
	return map[string]interface{}{
		"modo":              c.Chatbot.Mode,
		"descripcion":       c.Chatbot.Description,
		"sentiment_enabled": c.Sentiment.Enabled,
		"llm_enabled":       c.LLM.Enabled,
		"catalogo":          c.Chatbot.Catalog,
		"chatbot": map[string]interface{}{
			"nombre":          "SciTech Bot",
			"version":         "3.0",
			"idioma":          "es",
			"timeout_sesion":  int(c.Session.TTL.Seconds()),
			"max_mensaje":     c.Limits.MaxMessageLength,
			"limite_mensajes": c.Limits.RateLimitMessages,
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("30s") or plain seconds ("1800")
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
