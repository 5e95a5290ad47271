package dialogue

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"scitech-bot/pkg/sentiment"
)

// Generator rewrites text. It never fails the caller: ok is false whenever
// no usable completion was produced.
type Generator interface {
	Generate(ctx context.Context, prompt string) (text string, ok bool)
	Available() bool
}

const (
	DefaultMinConfidence = 0.6
	minRewriteLength     = 20
)

// RewritePrompt asks the generator to rephrase a reply in the given tone
const RewritePrompt = `Mejora esta respuesta de chatbot sobre ciencia y tecnología.
Debe ser %s, concisa y mantener el contenido técnico.

Respuesta original:
%s

Respuesta mejorada:`

// PostProcessor adapts a routed reply to the user's sentiment and optionally
// rewrites it through a generator.
type PostProcessor struct {
	AdaptTone     bool
	MinConfidence float64
	Generator     Generator

	// Pick chooses an empathy phrase index in [0, n); nil means random
	Pick func(n int) int
}

func NewPostProcessor(adaptTone bool, minConfidence float64, generator Generator) *PostProcessor {
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}
	return &PostProcessor{
		AdaptTone:     adaptTone,
		MinConfidence: minConfidence,
		Generator:     generator,
	}
}

// Process never returns an empty string: when base is empty the default reply
// is used, and any generator failure keeps the base reply unchanged.
func (p *PostProcessor) Process(ctx context.Context, base string, result *sentiment.Result, allowGeneration bool) string {
	reply := base
	if strings.TrimSpace(reply) == "" {
		reply = DefaultReply
	}

	if p.AdaptTone && result != nil {
		if phrase, ok := sentiment.EmpathyPhrase(*result, p.MinConfidence, p.Pick); ok {
			reply = phrase + reply
		}
	}

	if !allowGeneration || p.Generator == nil || !p.Generator.Available() {
		return reply
	}

	label := sentiment.Neutral
	if result != nil {
		label = result.Label
	}
	prompt := fmt.Sprintf(RewritePrompt, sentiment.GenerationTone(label), reply)

	rewritten, ok := p.Generator.Generate(ctx, prompt)
	rewritten = strings.TrimSpace(rewritten)
	if !ok || utf8.RuneCountInString(rewritten) < minRewriteLength {
		return reply
	}
	return rewritten
}

// DefaultReply is used when a turn produced no text
const DefaultReply = "Ocurrió un error. Por favor, intenta reformular tu pregunta."
