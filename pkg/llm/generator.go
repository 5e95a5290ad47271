package llm

import (
	"context"
	"strings"

	"scitech-bot/internal/pkg/logger"
)

// Generator adapts a provider to the optional rewrite collaborator: it never
// returns an error, failures are logged and reported as ok == false.
type Generator struct {
	provider LLMProvider
	enabled  bool
	logger   logger.ILogger
	options  []Option
}

func NewGenerator(provider LLMProvider, enabled bool, log logger.ILogger, options ...Option) *Generator {
	return &Generator{
		provider: provider,
		enabled:  enabled,
		logger:   log,
		options:  options,
	}
}

func (g *Generator) Available() bool {
	return g != nil && g.enabled && g.provider != nil
}

// Provider returns the backing provider name, or "" when none is configured
func (g *Generator) Provider() string {
	if g == nil || g.provider == nil {
		return ""
	}
	return g.provider.Name()
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, bool) {
	if !g.Available() {
		return "", false
	}

	g.logger.Debug("LLM", "Generation requested", map[string]interface{}{
		"provider":      g.provider.Name(),
		"prompt_length": len(prompt),
	})

	out, err := g.provider.Generate(ctx, prompt, g.options...)
	if err != nil {
		g.logger.Warn("LLM", "Generation failed", map[string]interface{}{
			"provider": g.provider.Name(),
			"error":    err.Error(),
		})
		return "", false
	}

	out = StripPromptEcho(out, prompt)
	if out == "" {
		return "", false
	}
	return out, true
}

// StripPromptEcho removes the prompt when a completion model repeats it before answering
func StripPromptEcho(output, prompt string) string {
	output = strings.TrimSpace(output)
	if p := strings.TrimSpace(prompt); p != "" && strings.HasPrefix(output, p) {
		output = strings.TrimSpace(output[len(p):])
	}
	return output
}
