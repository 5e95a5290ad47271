package sentiment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"scitech-bot/internal/pkg/logger"
	"scitech-bot/pkg/llm"
)

type scriptedProvider struct {
	out    string
	err    error
	prompt string
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return p.Generate(ctx, history[len(history)-1].Content, options...)
}

func (p *scriptedProvider) Generate(_ context.Context, prompt string, _ ...llm.Option) (string, error) {
	p.prompt = prompt
	return p.out, p.err
}

func (p *scriptedProvider) Name() string { return "scripted" }

func TestLLMClassifier_Classify(t *testing.T) {
	tests := []struct {
		name      string
		provider  *scriptedProvider
		wantLabel Label
		wantConf  float64
	}{
		{
			name:      "json with probabilities",
			provider:  &scriptedProvider{out: `{"sentimiento": "NEG", "probabilidades": {"POS": 0.1, "NEG": 0.8, "NEU": 0.1}}`},
			wantLabel: Negative,
			wantConf:  0.8,
		},
		{
			name:      "json wrapped in prose",
			provider:  &scriptedProvider{out: "Claro:\n```json\n{\"sentimiento\": \"positivo\", \"probabilidades\": {\"positivo\": 3, \"neutral\": 1}}\n```"},
			wantLabel: Positive,
			wantConf:  0.75,
		},
		{
			name:      "label only",
			provider:  &scriptedProvider{out: `{"sentimiento": "POSITIVE"}`},
			wantLabel: Positive,
			wantConf:  1.0,
		},
		{
			name:      "garbage",
			provider:  &scriptedProvider{out: "no sé"},
			wantLabel: Neutral,
			wantConf:  0.0,
		},
		{
			name:      "provider error",
			provider:  &scriptedProvider{err: errors.New("connection refused")},
			wantLabel: Neutral,
			wantConf:  0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewLLMClassifier(tt.provider, logger.NewNopLogger())

			got := c.Classify(context.Background(), "la fusión nuclear me preocupa")

			assert.Equal(t, tt.wantLabel, got.Label)
			assert.InDelta(t, tt.wantConf, got.Confidence, 1e-9)
			assert.Contains(t, tt.provider.prompt, "la fusión nuclear me preocupa")
		})
	}
}

func TestLLMClassifier_WithoutProvider(t *testing.T) {
	c := NewLLMClassifier(nil, logger.NewNopLogger())
	assert.False(t, c.Available())
	assert.Equal(t, NeutralResult(), c.Classify(context.Background(), "hola"))
}
