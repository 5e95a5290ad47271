package factory

import (
	"fmt"

	"scitech-bot/pkg/llm"
	"scitech-bot/pkg/llm/gemini"
	"scitech-bot/pkg/llm/huggingface"
	"scitech-bot/pkg/llm/ollama"
	"scitech-bot/pkg/llm/openai"
)

// Provider names accepted by NewLLMProvider
const (
	ProviderOllama      = "ollama"
	ProviderHuggingFace = "huggingface"
	ProviderGemini      = "gemini"
	ProviderOpenAI      = "openai"
)

// Settings carries everything a backend may need. Unused fields are ignored.
type Settings struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
}

func NewLLMProvider(s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case ProviderOllama:
		if s.BaseURL == "" {
			s.BaseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(s.BaseURL, s.Model), nil
	case ProviderHuggingFace:
		return huggingface.NewHuggingFaceProvider(s.APIKey, s.BaseURL, s.Model), nil
	case ProviderGemini:
		return gemini.NewGeminiProvider(s.APIKey, s.Model)
	case ProviderOpenAI:
		return openai.NewOpenAIProvider(s.APIKey, s.BaseURL, s.Model)
	default:
		return nil, fmt.Errorf("%w: %s", llm.ErrUnsupportedProvider, s.Provider)
	}
}
