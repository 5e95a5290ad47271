package dialogue

import (
	"context"
	"strings"
	"testing"

	"scitech-bot/pkg/sentiment"
)

type stubGenerator struct {
	text      string
	ok        bool
	available bool
	prompts   []string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, bool) {
	g.prompts = append(g.prompts, prompt)
	return g.text, g.ok
}

func (g *stubGenerator) Available() bool { return g.available }

func result(label sentiment.Label, confidence float64) *sentiment.Result {
	return &sentiment.Result{
		Label:         label,
		Confidence:    confidence,
		Probabilities: map[sentiment.Label]float64{label: confidence},
	}
}

func firstPhrase(int) int { return 0 }

func TestProcess_EmpathyPhrase(t *testing.T) {
	const base = "La fusión nuclear avanza."

	tests := []struct {
		name      string
		adapt     bool
		result    *sentiment.Result
		wantStart string
	}{
		{"negative confident", true, result(sentiment.Negative, 0.9), sentiment.EmpathyPhrases(sentiment.Negative)[0]},
		{"positive confident", true, result(sentiment.Positive, 0.6), sentiment.EmpathyPhrases(sentiment.Positive)[0]},
		{"below threshold", true, result(sentiment.Negative, 0.59), base},
		{"neutral has no phrase", true, result(sentiment.Neutral, 0.99), base},
		{"tone adaptation off", false, result(sentiment.Negative, 0.9), base},
		{"no sentiment", true, nil, base},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPostProcessor(tt.adapt, 0.6, nil)
			p.Pick = firstPhrase

			got := p.Process(context.Background(), base, tt.result, false)
			if !strings.HasPrefix(got, tt.wantStart) || !strings.HasSuffix(got, base) {
				t.Errorf("Process() = %q, want %q + base", got, tt.wantStart)
			}
		})
	}
}

func TestProcess_Generation(t *testing.T) {
	const base = "Bitcoin usa prueba de trabajo."
	rewrite := "Bitcoin se asegura mediante prueba de trabajo, un mecanismo de consenso."

	tests := []struct {
		name  string
		gen   *stubGenerator
		allow bool
		want  string
		calls int
	}{
		{"rewrite accepted", &stubGenerator{text: "  " + rewrite + "\n", ok: true, available: true}, true, rewrite, 1},
		{"generation not allowed", &stubGenerator{text: rewrite, ok: true, available: true}, false, base, 0},
		{"generator unavailable", &stubGenerator{text: rewrite, ok: true, available: false}, true, base, 0},
		{"generator failed", &stubGenerator{ok: false, available: true}, true, base, 1},
		{"rewrite too short", &stubGenerator{text: "Bitcoin mola.", ok: true, available: true}, true, base, 1},
		{"rewrite empty", &stubGenerator{text: "   ", ok: true, available: true}, true, base, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPostProcessor(false, 0, tt.gen)

			got := p.Process(context.Background(), base, nil, tt.allow)
			if got != tt.want {
				t.Errorf("Process() = %q, want %q", got, tt.want)
			}
			if len(tt.gen.prompts) != tt.calls {
				t.Errorf("generator called %d times, want %d", len(tt.gen.prompts), tt.calls)
			}
		})
	}
}

func TestProcess_PromptCarriesTone(t *testing.T) {
	gen := &stubGenerator{available: true}
	p := NewPostProcessor(false, 0, gen)

	p.Process(context.Background(), "respuesta base", result(sentiment.Negative, 0.9), true)
	p.Process(context.Background(), "respuesta base", nil, true)

	if !strings.Contains(gen.prompts[0], "empático") || !strings.Contains(gen.prompts[0], "respuesta base") {
		t.Errorf("prompt = %q, want empathetic tone and base reply", gen.prompts[0])
	}
	if !strings.Contains(gen.prompts[1], "profesional") {
		t.Errorf("prompt = %q, want professional tone", gen.prompts[1])
	}
}

func TestProcess_NeverEmpty(t *testing.T) {
	p := NewPostProcessor(true, 0.6, &stubGenerator{available: true})
	if got := p.Process(context.Background(), "  ", nil, true); got != DefaultReply {
		t.Errorf("Process() = %q, want %q", got, DefaultReply)
	}
}
