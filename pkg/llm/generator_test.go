package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"scitech-bot/internal/pkg/logger"
)

type fakeProvider struct {
	out     string
	err     error
	options Options
}

func (f *fakeProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	return f.Generate(ctx, history[len(history)-1].Content, options...)
}

func (f *fakeProvider) Generate(_ context.Context, _ string, options ...Option) (string, error) {
	f.options = Apply(Options{}, options...)
	return f.out, f.err
}

func (f *fakeProvider) Name() string { return "fake" }

func TestGenerator_Generate(t *testing.T) {
	const prompt = "Mejora esta respuesta:"

	tests := []struct {
		name   string
		gen    *Generator
		want   string
		wantOK bool
	}{
		{"disabled", NewGenerator(&fakeProvider{out: "texto"}, false, logger.NewNopLogger()), "", false},
		{"no provider", NewGenerator(nil, true, logger.NewNopLogger()), "", false},
		{"provider error", NewGenerator(&fakeProvider{err: errors.New("timeout")}, true, logger.NewNopLogger()), "", false},
		{"empty output", NewGenerator(&fakeProvider{out: "  \n"}, true, logger.NewNopLogger()), "", false},
		{"plain output", NewGenerator(&fakeProvider{out: " Una respuesta mejor. "}, true, logger.NewNopLogger()), "Una respuesta mejor.", true},
		{"echoed prompt", NewGenerator(&fakeProvider{out: prompt + "\nUna respuesta mejor."}, true, logger.NewNopLogger()), "Una respuesta mejor.", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.gen.Generate(context.Background(), prompt)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestGenerator_PassesOptions(t *testing.T) {
	p := &fakeProvider{out: "ok"}
	g := NewGenerator(p, true, logger.NewNopLogger(), WithTemperature(0.5), WithMaxTokens(300), WithTopP(0.9))

	_, ok := g.Generate(context.Background(), "hola")

	assert.True(t, ok)
	assert.Equal(t, Options{Temperature: 0.5, MaxTokens: 300, TopP: 0.9}, p.options)
	assert.Equal(t, "fake", g.Provider())
}

func TestGenerator_NilSafe(t *testing.T) {
	var g *Generator
	assert.False(t, g.Available())
	assert.Equal(t, "", g.Provider())
}
