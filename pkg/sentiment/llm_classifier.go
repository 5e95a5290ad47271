package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"scitech-bot/internal/constant"
	"scitech-bot/internal/pkg/logger"
	"scitech-bot/pkg/llm"
)

// LLMClassifier asks a language model for a JSON classification. Any transport or
// decoding problem degrades to NeutralResult().
type LLMClassifier struct {
	provider llm.LLMProvider
	logger   logger.ILogger
}

type llmSentimentResponse struct {
	Label         string             `json:"sentimiento"`
	Probabilities map[string]float64 `json:"probabilidades"`
}

func NewLLMClassifier(provider llm.LLMProvider, log logger.ILogger) *LLMClassifier {
	return &LLMClassifier{provider: provider, logger: log}
}

func (c *LLMClassifier) Available() bool { return c.provider != nil }

func (c *LLMClassifier) Classify(ctx context.Context, text string) Result {
	if c.provider == nil || strings.TrimSpace(text) == "" {
		return NeutralResult()
	}

	prompt := fmt.Sprintf(constant.SentimentClassificationPrompt, text)
	out, err := c.provider.Generate(ctx, prompt, llm.WithTemperature(0.1), llm.WithMaxTokens(120))
	if err != nil {
		c.logger.Warn("Sentiment", "LLM classification failed", map[string]interface{}{"error": err.Error()})
		return NeutralResult()
	}

	var parsed llmSentimentResponse
	if err := decodeModelJSON(out, &parsed); err != nil {
		c.logger.Warn("Sentiment", "Unparseable LLM classification", map[string]interface{}{"error": err.Error(), "output": out})
		return NeutralResult()
	}

	probs := make(map[Label]float64, len(Labels))
	for k, v := range parsed.Probabilities {
		probs[parseLabel(k)] += v
	}
	if len(probs) == 0 {
		// Model only returned a label
		probs[parseLabel(parsed.Label)] = 1.0
	}
	return fromProbabilities(probs)
}

func parseLabel(s string) Label {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "POS", "POSITIVE", "POSITIVO":
		return Positive
	case "NEG", "NEGATIVE", "NEGATIVO":
		return Negative
	default:
		return Neutral
	}
}

// decodeModelJSON unmarshals JSON from a model response, tolerating text around the object
func decodeModelJSON(outputText string, v any) error {
	s := strings.TrimSpace(outputText)
	if s == "" {
		return io.ErrUnexpectedEOF
	}

	if err := json.Unmarshal([]byte(s), v); err == nil {
		return nil
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end <= start {
		return fmt.Errorf("no JSON object found in model output (len=%d)", len(s))
	}

	sub := s[start : end+1]
	if err := json.Unmarshal([]byte(sub), v); err != nil {
		return fmt.Errorf("failed to unmarshal extracted JSON (len=%d): %w", len(sub), err)
	}
	return nil
}
